package topology

// The broadcast tree of a round is laid over the membership list viewed as a
// ring: the virtual root of the round is relocated to distance 0 and every other
// member is addressed by its distance from it. Tree arithmetic (children of d are
// d*width+1 .. d*width+width) works on distances only.
//
// All functions require a non-empty membership.

// Distance returns the distance of the member at position index from the
// virtual root, in a membership of the given size.
func Distance(index int, virtualRoot int, size int) int {
	root := normalize(virtualRoot, size)
	if index >= root {
		return index - root
	}
	return (index + size - root) % size
}

// normalize maps any virtual root onto a position of a membership of the given size.
func normalize(virtualRoot int, size int) int {
	root := virtualRoot % size
	if root < 0 {
		root += size
	}
	return root
}

// normalizeRoot maps any virtual root onto a position of the membership.
func (m *membership) normalizeRoot(virtualRoot int) int {
	return normalize(virtualRoot, m.nodeNum)
}

// distanceFromRoot returns the distance of the local node from the virtual root,
// in [0, nodeNum) for a member.
func (m *membership) distanceFromRoot(virtualRoot int) int {
	return Distance(m.consIndex, virtualRoot, m.nodeNum)
}

// absoluteIndex maps a distance from the virtual root back to a position of the
// membership list.
func (m *membership) absoluteIndex(distance int, virtualRoot int) int {
	return (distance + m.normalizeRoot(virtualRoot)) % m.nodeNum
}

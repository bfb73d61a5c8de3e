package flow

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"

	"golang.org/x/crypto/sha3"
)

// Identifier represents a 32-byte unique identifier of a network participant,
// typically derived from its public key. Identifiers are opaque: they are only
// ever compared by byte equality.
type Identifier [32]byte

// IdentifierFilter is a filter on identifiers.
type IdentifierFilter func(Identifier) bool

// ZeroID is the lowest value in the 32-byte ID space.
var ZeroID = Identifier{}

// HexStringToIdentifier converts a hex string to an identifier. The input
// must be 64 characters long and contain only valid hex characters.
func HexStringToIdentifier(hexString string) (Identifier, error) {
	var identifier Identifier
	if hex.DecodedLen(len(hexString)) != len(identifier) {
		return identifier, fmt.Errorf("malformed identifier %q: expected %d hex characters, got %d", hexString, hex.EncodedLen(len(identifier)), len(hexString))
	}
	if _, err := hex.Decode(identifier[:], []byte(hexString)); err != nil {
		return identifier, fmt.Errorf("could not decode identifier %q: %w", hexString, err)
	}
	return identifier, nil
}

// MustHexStringToIdentifier converts a hex string to an identifier and panics
// on failure. Intended for tests and constants only.
func MustHexStringToIdentifier(hexString string) Identifier {
	id, err := HexStringToIdentifier(hexString)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the hex string representation of the identifier.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// TerminalString returns a shortened string representation for logging.
func (id Identifier) TerminalString() string {
	return hex.EncodeToString(id[:4])
}

// IsZero returns true if the identifier is the zero value.
func (id Identifier) IsZero() bool {
	return id == ZeroID
}

// MarshalText implements encoding.TextMarshaler, so identifiers encode as hex
// strings in JSON documents.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identifier) UnmarshalText(text []byte) error {
	var err error
	*id, err = HexStringToIdentifier(string(text))
	return err
}

// IdentifierList is an ordered list of identifiers. When used as a membership
// list the position of an identifier is significant.
type IdentifierList []Identifier

// Len returns the number of identifiers in the list.
func (il IdentifierList) Len() int {
	return len(il)
}

// Lookup returns the position of the given identifier in the list, or -1 if
// the identifier is not present. The scan is linear.
func (il IdentifierList) Lookup(target Identifier) int {
	for i, id := range il {
		if id == target {
			return i
		}
	}
	return -1
}

// Contains returns true if the list contains the given identifier.
func (il IdentifierList) Contains(target Identifier) bool {
	return il.Lookup(target) >= 0
}

// Equal returns true if both lists contain the same identifiers in the same order.
func (il IdentifierList) Equal(other IdentifierList) bool {
	if len(il) != len(other) {
		return false
	}
	for i := range il {
		if il[i] != other[i] {
			return false
		}
	}
	return true
}

// Copy returns a copy of the list that shares no memory with the original.
func (il IdentifierList) Copy() IdentifierList {
	if il == nil {
		return nil
	}
	dup := make(IdentifierList, len(il))
	copy(dup, il)
	return dup
}

// Filter returns the identifiers of the list for which filter returns true,
// preserving their order.
func (il IdentifierList) Filter(filter IdentifierFilter) IdentifierList {
	var dup IdentifierList
	for _, id := range il {
		if filter(id) {
			dup = append(dup, id)
		}
	}
	return dup
}

// Strings returns the hex representation of every identifier in the list.
func (il IdentifierList) Strings() []string {
	list := make([]string, 0, len(il))
	for _, id := range il {
		list = append(list, id.String())
	}
	return list
}

// Fingerprint returns a sha3-256 digest over the identifiers in list order.
// Two lists have the same fingerprint iff they are equal (up to collisions).
func (il IdentifierList) Fingerprint() Identifier {
	hasher := sha3.New256()
	for _, id := range il {
		_, _ = hasher.Write(id[:])
	}
	var fp Identifier
	copy(fp[:], hasher.Sum(nil))
	return fp
}

// IdentifierSet is an unordered set of identifiers, e.g. the set of peers that
// are currently reachable.
type IdentifierSet map[Identifier]struct{}

// NewIdentifierSet returns a set containing the given identifiers.
func NewIdentifierSet(ids ...Identifier) IdentifierSet {
	set := make(IdentifierSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Add inserts the identifier into the set.
func (s IdentifierSet) Add(id Identifier) {
	s[id] = struct{}{}
}

// Remove deletes the identifier from the set.
func (s IdentifierSet) Remove(id Identifier) {
	delete(s, id)
}

// Contains returns true if the identifier is in the set. A nil set contains nothing.
func (s IdentifierSet) Contains(id Identifier) bool {
	_, ok := s[id]
	return ok
}

// Selector returns a filter that accepts identifiers contained in the set.
func (s IdentifierSet) Selector() IdentifierFilter {
	return s.Contains
}

// Sorted returns the set members in ascending byte order.
func (s IdentifierSet) Sorted() IdentifierList {
	list := make(IdentifierList, 0, len(s))
	for id := range s {
		list = append(list, id)
	}
	sort.Slice(list, func(i, j int) bool {
		return bytes.Compare(list[i][:], list[j][:]) < 0
	})
	return list
}

// Fingerprint returns an order independent digest of the set.
func (s IdentifierSet) Fingerprint() Identifier {
	return s.Sorted().Fingerprint()
}

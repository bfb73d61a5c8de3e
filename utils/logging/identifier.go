package logging

import (
	"encoding/hex"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
)

// ID returns the raw bytes of the identifier, for use with zerolog's Hex fields.
func ID(id flow.Identifier) []byte {
	return id[:]
}

// IDs returns the hex encoding of every identifier, for use with zerolog's Strs fields.
func IDs(ids []flow.Identifier) []string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, hex.EncodeToString(id[:]))
	}
	return ss
}

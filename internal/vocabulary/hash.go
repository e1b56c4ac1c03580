// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package vocabulary

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// HashSize is the length in bytes of a vocabulary digest.
const HashSize = blake2b.Size256

// Hash returns a stable digest of every term list. Two vocabularies with the
// same lists in the same order hash identically. Embedding snapshots are
// keyed by this value.
func (v *Vocabulary) Hash() [HashSize]byte {
	h, _ := blake2b.New256(nil) // only errors on an oversized key
	var n [4]byte
	for _, list := range [][]string{
		v.MasterCategories, v.SubCategories, v.ArticleTypes,
		v.Usages, v.Brands, v.Colors, v.Seasons,
	} {
		binary.LittleEndian.PutUint32(n[:], uint32(len(list)))
		h.Write(n[:])
		for _, s := range list {
			binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
			h.Write(n[:])
			h.Write([]byte(s))
		}
	}
	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// HashHex is Hash in lower-case hex.
func (v *Vocabulary) HashHex() string {
	sum := v.Hash()
	return hex.EncodeToString(sum[:])
}

// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package embedding

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
)

// SnapshotVersion is the current on-disk format version. Loading any other
// version fails with ErrSnapshotVersion and forces a rebuild.
const SnapshotVersion uint16 = 1

var snapshotMagic = [4]byte{'S', 'S', 'E', 'I'}

var (
	ErrSnapshotCorrupt = errors.New("embedding: snapshot corrupt")
	ErrSnapshotVersion = errors.New("embedding: unsupported snapshot version")
)

// Snapshot is the persisted form of an Index.
//
// Layout, little-endian:
//
//	magic "SSEI" | version u16 | reserved u16 | vocab hash [32]
//	built-at unix nanos i64 | dim u32 | count u32
//	count x ( term length u32 | term bytes | dim x f32 )
//	xxhash64 of everything above u64
type Snapshot struct {
	Version   uint16
	VocabHash [32]byte
	BuiltAt   time.Time
	Terms     []string
	Vectors   [][]float32
}

// Snapshot captures the index for persistence under the given vocabulary
// hash.
func (x *Index) Snapshot(vocabHash [32]byte) *Snapshot {
	return &Snapshot{
		Version:   SnapshotVersion,
		VocabHash: vocabHash,
		BuiltAt:   x.builtAt,
		Terms:     x.Terms(),
		Vectors:   x.vecs,
	}
}

// Index rebuilds the in-memory index from the snapshot.
func (s *Snapshot) Index() (*Index, error) {
	idx, err := NewIndex(s.Terms, s.Vectors)
	if err != nil {
		return nil, err
	}
	idx.builtAt = s.BuiltAt
	return idx, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	dim := 0
	if len(s.Vectors) > 0 {
		dim = len(s.Vectors[0])
	}
	if len(s.Terms) != len(s.Vectors) {
		return nil, fmt.Errorf("embedding: %d terms but %d vectors", len(s.Terms), len(s.Vectors))
	}

	var buf bytes.Buffer
	buf.Write(snapshotMagic[:])
	le := binary.LittleEndian
	var u16 [2]byte
	var u32 [4]byte
	var u64 [8]byte

	version := s.Version
	if version == 0 {
		version = SnapshotVersion
	}
	le.PutUint16(u16[:], version)
	buf.Write(u16[:])
	le.PutUint16(u16[:], 0)
	buf.Write(u16[:])
	buf.Write(s.VocabHash[:])
	var nanos int64
	if !s.BuiltAt.IsZero() {
		nanos = s.BuiltAt.UnixNano()
	}
	le.PutUint64(u64[:], uint64(nanos))
	buf.Write(u64[:])
	le.PutUint32(u32[:], uint32(dim))
	buf.Write(u32[:])
	le.PutUint32(u32[:], uint32(len(s.Terms)))
	buf.Write(u32[:])

	for i, term := range s.Terms {
		vec := s.Vectors[i]
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: term %q has %d, want %d", ErrDimensionMismatch, term, len(vec), dim)
		}
		le.PutUint32(u32[:], uint32(len(term)))
		buf.Write(u32[:])
		buf.WriteString(term)
		for _, f := range vec {
			le.PutUint32(u32[:], math.Float32bits(f))
			buf.Write(u32[:])
		}
	}

	le.PutUint64(u64[:], xxhash.Sum64(buf.Bytes()))
	buf.Write(u64[:])
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	const header = 4 + 2 + 2 + 32 + 8 + 4 + 4
	if len(data) < header+8 {
		return fmt.Errorf("%w: truncated header", ErrSnapshotCorrupt)
	}
	if !bytes.Equal(data[:4], snapshotMagic[:]) {
		return fmt.Errorf("%w: bad magic", ErrSnapshotCorrupt)
	}

	le := binary.LittleEndian
	body, trailer := data[:len(data)-8], data[len(data)-8:]
	if xxhash.Sum64(body) != le.Uint64(trailer) {
		return fmt.Errorf("%w: checksum mismatch", ErrSnapshotCorrupt)
	}

	version := le.Uint16(data[4:6])
	if version != SnapshotVersion {
		return fmt.Errorf("%w: %d", ErrSnapshotVersion, version)
	}

	var out Snapshot
	out.Version = version
	copy(out.VocabHash[:], data[8:40])
	if nanos := int64(le.Uint64(data[40:48])); nanos != 0 {
		out.BuiltAt = time.Unix(0, nanos).UTC()
	}
	dim := int(le.Uint32(data[48:52]))
	n := int(le.Uint32(data[52:56]))

	off := header
	out.Terms = make([]string, 0, n)
	out.Vectors = make([][]float32, 0, n)
	for i := 0; i < n; i++ {
		if off+4 > len(body) {
			return fmt.Errorf("%w: truncated at term %d", ErrSnapshotCorrupt, i)
		}
		tl := int(le.Uint32(body[off:]))
		off += 4
		if off+tl+dim*4 > len(body) {
			return fmt.Errorf("%w: truncated at term %d", ErrSnapshotCorrupt, i)
		}
		out.Terms = append(out.Terms, string(body[off:off+tl]))
		off += tl
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(le.Uint32(body[off:]))
			off += 4
		}
		out.Vectors = append(out.Vectors, vec)
	}
	if off != len(body) {
		return fmt.Errorf("%w: %d trailing bytes", ErrSnapshotCorrupt, len(body)-off)
	}

	*s = out
	return nil
}

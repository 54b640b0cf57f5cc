// Package cos ("common os"/"common small") collects the miscellaneous
// helpers that don't deserve their own package, following aistore's cmn/cos
// grab-bag (checksums, small predicates, formatting).
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/OneOfOne/xxhash"
)

// IsEOF reports whether err is io.EOF or io.ErrUnexpectedEOF, the two
// "expected" terminal conditions a transport reader can surface.
func IsEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

// ChecksumBlock computes the xxhash64 of a pivot block payload. The checksum
// travels in the wire header (see transport.Hdr) and is verified by the
// receiver before the payload is trusted.
func ChecksumBlock(payload []float64) uint64 {
	h := xxhash.New64()
	buf := make([]byte, 8)
	for _, v := range payload {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

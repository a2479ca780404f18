// Package idhash computes deterministic identifiers for input documents.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"uc-timelapse/internal/domain"
)

// DocumentHash computes a deterministic fingerprint of an input document using SHA256.
// Formula: SHA256 over "name|date|value\n" for every record in document order.
// Returns hex-encoded hash (64 characters).
//
// Order is part of the fingerprint: reordering duplicate records can change
// the aggregated output, so it changes the hash too.
func DocumentHash(records []domain.RawRecord) string {
	h := sha256.New()
	buf := make([]byte, 0, 64)
	for _, r := range records {
		buf = buf[:0]
		buf = append(buf, r.SeriesName...)
		buf = append(buf, '|')
		buf = append(buf, r.RawDate...)
		buf = append(buf, '|')
		buf = strconv.AppendFloat(buf, r.Value, 'g', -1, 64)
		buf = append(buf, '\n')
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortHash returns the first 12 characters of a hash for display.
func ShortHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}

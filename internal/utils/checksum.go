package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// Checksums contains the digests stored in a device record
type Checksums struct {
	FileHash string // digest of the archive content
	ID       string // digest of the archive filename
	Size     int64
}

// RecordChecksums computes the content digest, the filename id and the size.
// The update-check service compares against MD5 values.
func RecordChecksums(filename string, data []byte) Checksums {
	return Checksums{
		FileHash: MD5Sum(data),
		ID:       MD5Sum([]byte(filename)),
		Size:     int64(len(data)),
	}
}

// MD5Sum returns the lowercase hex MD5 digest of data
func MD5Sum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

package hashing

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
)

type ChecksumProvider interface {
	GetChecksum() string
}

// ChecksumWriter accumulates an MD5 checksum of everything written to it.
type ChecksumWriter struct {
	checksum hash.Hash
	written  int64
}

func NewMD5Writer() *ChecksumWriter {
	return &ChecksumWriter{checksum: md5.New()}
}

// Write never fails.
func (w *ChecksumWriter) Write(buf []byte) (int, error) {
	n, _ := w.checksum.Write(buf)
	w.written += int64(n)
	return n, nil
}

// Size returns the number of bytes hashed so far.
func (w *ChecksumWriter) Size() int64 {
	return w.written
}

// GetChecksum returns the MD5 checksum of the bytes written so far as a hex string.
func (w *ChecksumWriter) GetChecksum() string {
	return hex.EncodeToString(w.checksum.Sum(nil))
}

//go:build windows

package credential

import (
	"encoding/base64"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

func protectForScope(plain []byte, scope Scope) (Password, error) {
	var flags uint32
	switch scope {
	case ScopeLocalMachine:
		flags = windows.CRYPTPROTECT_LOCAL_MACHINE
	case ScopeCurrentUser:
	default:
		return Password{}, fmt.Errorf("%w: %s", ErrScopeNotSupported, scope)
	}

	blob, err := dpapiProtect(plain, flags)
	if err != nil {
		return Password{}, err
	}
	return Password{
		protected: true,
		scheme:    schemeDPAPI,
		payload:   base64.StdEncoding.EncodeToString(blob),
	}, nil
}

func dpapiUnprotectEnvelope(payload string) ([]byte, error) {
	blob, err := decodeDPAPIPayload(payload)
	if err != nil {
		return nil, err
	}
	return dpapiUnprotect(blob)
}

// dpapiProtect encrypts data with CryptProtectData. The input buffer stays
// owned by the caller; the OS-allocated output is copied into Go memory and
// released with LocalFree before returning.
func dpapiProtect(data []byte, flags uint32) ([]byte, error) {
	in := newBlob(data)
	var out windows.DataBlob
	err := windows.CryptProtectData(in, nil, nil, 0, nil, flags|windows.CRYPTPROTECT_UI_FORBIDDEN, &out)
	if err != nil {
		return nil, fmt.Errorf("CryptProtectData: %w", err)
	}
	return takeBlob(&out), nil
}

// dpapiUnprotect is the inverse of dpapiProtect with the same ownership rules.
func dpapiUnprotect(data []byte) ([]byte, error) {
	in := newBlob(data)
	var out windows.DataBlob
	err := windows.CryptUnprotectData(in, nil, nil, 0, nil, windows.CRYPTPROTECT_UI_FORBIDDEN, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: CryptUnprotectData: %v", ErrDecrypt, err)
	}
	return takeBlob(&out), nil
}

func newBlob(data []byte) *windows.DataBlob {
	if len(data) == 0 {
		return &windows.DataBlob{}
	}
	return &windows.DataBlob{Size: uint32(len(data)), Data: &data[0]}
}

func takeBlob(blob *windows.DataBlob) []byte {
	if blob.Data == nil {
		return nil
	}
	defer windows.LocalFree(windows.Handle(unsafe.Pointer(blob.Data)))
	out := make([]byte, blob.Size)
	copy(out, unsafe.Slice(blob.Data, blob.Size))
	return out
}

package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"golang.org/x/crypto/chacha20poly1305"
)

// machineID is replaced in tests.
var machineID = machineid.ID

func machineKey() ([]byte, error) {
	id, err := machineID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMachineID, err)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMachineID
	}
	sum := sha256.Sum256([]byte(id))
	return sum[:], nil
}

// machineProtect seals plain with ChaCha20-Poly1305 under a key derived from
// the machine id. The envelope body is "<hex nonce>$<hex ciphertext>".
func machineProtect(plain []byte) (Password, error) {
	key, err := machineKey()
	if err != nil {
		return Password{}, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return Password{}, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return Password{}, fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := aead.Seal(nil, nonce, plain, nil)

	return Password{
		protected: true,
		scheme:    schemeMachine,
		payload:   hex.EncodeToString(nonce) + envelopeSep + hex.EncodeToString(sealed),
	}, nil
}

func splitMachinePayload(payload string) (nonce, sealed []byte, err error) {
	parts := strings.Split(payload, envelopeSep)
	if len(parts) != 2 {
		return nil, nil, ErrMalformed
	}
	if nonce, err = hex.DecodeString(parts[0]); err != nil {
		return nil, nil, fmt.Errorf("%w: nonce: %v", ErrMalformed, err)
	}
	if len(nonce) != chacha20poly1305.NonceSize {
		return nil, nil, fmt.Errorf("%w: nonce must be %d bytes", ErrMalformed, chacha20poly1305.NonceSize)
	}
	if sealed, err = hex.DecodeString(parts[1]); err != nil {
		return nil, nil, fmt.Errorf("%w: ciphertext: %v", ErrMalformed, err)
	}
	if len(sealed) < chacha20poly1305.Overhead {
		return nil, nil, fmt.Errorf("%w: ciphertext too short", ErrMalformed)
	}
	return nonce, sealed, nil
}

func machineUnprotect(payload string) ([]byte, error) {
	nonce, sealed, err := splitMachinePayload(payload)
	if err != nil {
		return nil, err
	}
	key, err := machineKey()
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

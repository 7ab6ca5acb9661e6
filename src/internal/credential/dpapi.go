package credential

import (
	"encoding/base64"
	"fmt"
)

func decodeDPAPIPayload(payload string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(blob) == 0 {
		return nil, ErrMalformed
	}
	return blob, nil
}

// Package credential holds the portal account and protects its password at rest.
//
// A Password is either basic (plaintext) or a protected envelope. Envelopes are
// serialized as "v1$<scheme>$<body>":
//
//	v1$m$<hex nonce>$<hex ciphertext>   ChaCha20-Poly1305, key = SHA-256(machine id)
//	v1$w$<base64 blob>                  Windows DPAPI
//
// Windows protects both LocalMachine and CurrentUser scopes with DPAPI. Other
// platforms support LocalMachine through the machine-key scheme only.
package credential

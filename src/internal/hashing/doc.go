// Package hashing provides streaming MD5 checksums.
//
// ChecksumWriter is used as the target of an encoder so a value can be
// fingerprinted without buffering its serialized form:
//
//	w := hashing.NewMD5Writer()
//	if err := json.NewEncoder(w).Encode(cfg); err != nil {
//	    return err
//	}
//	fmt.Println(w.GetChecksum())
package hashing

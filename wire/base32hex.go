// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// base32hex.go provides the RFC 4648 §7 "base32hex" encoding (extended hex
// alphabet, no padding) used to label NSEC3 hashed owner names.
package wire

import "encoding/base32"

var base32HexNoPad = base32.HexEncoding.WithPadding(base32.NoPadding)

// EncodeBase32Hex encodes hash bytes into a lower-cased base32hex label.
func EncodeBase32Hex(b []byte) string {
	s := base32HexNoPad.EncodeToString(b)
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// DecodeBase32Hex decodes a base32hex label (case-insensitive) back to bytes.
func DecodeBase32Hex(s string) ([]byte, error) {
	upper := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper[i] = c
	}
	b, err := base32HexNoPad.DecodeString(string(upper))
	if err != nil {
		return nil, NewFormatError("invalid base32hex label %q: %v", s, err)
	}
	return b, nil
}

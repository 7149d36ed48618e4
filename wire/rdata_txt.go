// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// rdata_txt.go implements the TXT RDATA variant as a list of
// character-strings, validating that Σ(1+|s|) == RDLENGTH. The teacher's
// dns/rdata.go DNSRDATATXT modeled TXT as a single character-string; this
// fixes that gap per §4.D.
package wire

import "strings"

// RDATATXT is the TXT record's RDATA: one or more character-strings.
type RDATATXT struct {
	Strings [][]byte
}

func decodeTXT(msg []byte, start, end int) (RDATA, error) {
	var strs [][]byte
	pos := start
	for pos < end {
		s, n, err := DecodeCharacterStrFromBuffer(msg, pos, end)
		if err != nil {
			return nil, err
		}
		strs = append(strs, s)
		pos += n
	}
	if pos != end {
		return nil, NewFormatError("TXT rdata: character-strings do not sum to RDLENGTH")
	}
	if len(strs) == 0 {
		return nil, NewFormatError("TXT rdata must contain at least one character-string")
	}
	return &RDATATXT{Strings: strs}, nil
}

func (r *RDATATXT) Type() Type { return TypeTXT }
func (r *RDATATXT) Size() int {
	n := 0
	for _, s := range r.Strings {
		n += 1 + len(s)
	}
	return n
}
func (r *RDATATXT) String() string {
	parts := make([]string, len(r.Strings))
	for i, s := range r.Strings {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}
func (r *RDATATXT) Equal(other RDATA) bool {
	o, ok := other.(*RDATATXT)
	if !ok || len(o.Strings) != len(r.Strings) {
		return false
	}
	for i := range r.Strings {
		if string(o.Strings[i]) != string(r.Strings[i]) {
			return false
		}
	}
	return true
}
func (r *RDATATXT) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	pos := offset
	for _, s := range r.Strings {
		n, err := EncodeCharacterStrToBuffer(buf, pos, s)
		if err != nil {
			return 0, err
		}
		pos += n
	}
	return pos - offset, nil
}
func (r *RDATATXT) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}

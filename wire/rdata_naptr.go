// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// rdata_naptr.go implements the NAPTR RDATA variant (RFC 3403), absent
// from the teacher's wired factory; grounded on the character-string and
// name-encoding helpers dns/standard.go already provides.
package wire

import "fmt"

// RDATANAPTR is the NAPTR record's RDATA.
type RDATANAPTR struct {
	Order       uint16
	Preference  uint16
	Flags       []byte
	Services    []byte
	Regexp      []byte
	Replacement Name
}

func decodeNAPTR(msg []byte, start, end int) (RDATA, error) {
	if start+4 > end {
		return nil, NewFormatError("NAPTR rdata truncated")
	}
	order := uint16(msg[start])<<8 | uint16(msg[start+1])
	pref := uint16(msg[start+2])<<8 | uint16(msg[start+3])
	pos := start + 4
	flags, n, err := DecodeCharacterStrFromBuffer(msg, pos, end)
	if err != nil {
		return nil, err
	}
	pos += n
	services, n, err := DecodeCharacterStrFromBuffer(msg, pos, end)
	if err != nil {
		return nil, err
	}
	pos += n
	regexp, n, err := DecodeCharacterStrFromBuffer(msg, pos, end)
	if err != nil {
		return nil, err
	}
	pos += n
	replacement, next, err := DecodeNameFromBuffer(msg, pos)
	if err != nil {
		return nil, err
	}
	if next != end {
		return nil, NewFormatError("NAPTR rdata: replacement did not consume exactly RDLENGTH bytes")
	}
	return &RDATANAPTR{Order: order, Preference: pref, Flags: flags, Services: services, Regexp: regexp, Replacement: replacement}, nil
}

func (r *RDATANAPTR) Type() Type { return TypeNAPTR }
func (r *RDATANAPTR) Size() int {
	return 4 + 1 + len(r.Flags) + 1 + len(r.Services) + 1 + len(r.Regexp) + r.Replacement.Size()
}
func (r *RDATANAPTR) String() string {
	return fmt.Sprintf("%d %d %q %q %q %s", r.Order, r.Preference, r.Flags, r.Services, r.Regexp, r.Replacement)
}
func (r *RDATANAPTR) Equal(other RDATA) bool {
	o, ok := other.(*RDATANAPTR)
	return ok && o.Order == r.Order && o.Preference == r.Preference &&
		string(o.Flags) == string(r.Flags) && string(o.Services) == string(r.Services) &&
		string(o.Regexp) == string(r.Regexp) && o.Replacement.Equal(r.Replacement)
}

func (r *RDATANAPTR) encode(buf []byte, offset int, ot *OffsetTable, canonical bool) (int, error) {
	if offset+4 > len(buf) {
		return 0, NewFormatError("buffer too small for NAPTR order/preference")
	}
	buf[offset] = byte(r.Order >> 8)
	buf[offset+1] = byte(r.Order)
	buf[offset+2] = byte(r.Preference >> 8)
	buf[offset+3] = byte(r.Preference)
	pos := offset + 4
	for _, s := range [][]byte{r.Flags, r.Services, r.Regexp} {
		n, err := EncodeCharacterStrToBuffer(buf, pos, s)
		if err != nil {
			return 0, err
		}
		pos += n
	}
	var n int
	var err error
	if canonical {
		n, err = r.Replacement.EncodeCanonicalToBuffer(buf, pos)
	} else {
		n, err = r.Replacement.EncodeToBuffer(buf, pos, ot)
	}
	if err != nil {
		return 0, err
	}
	return pos + n - offset, nil
}

func (r *RDATANAPTR) EncodeToBuffer(buf []byte, offset int, ot *OffsetTable) (int, error) {
	return r.encode(buf, offset, ot, false)
}
func (r *RDATANAPTR) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.encode(buf, offset, nil, true)
}

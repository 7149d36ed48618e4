// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package wire

import (
	"reflect"
	"testing"
)

func TestTypeBitmapRoundTrip(t *testing.T) {
	types := []Type{TypeA, TypeNS, TypeSOA, TypeMX, TypeRRSIG, TypeNSEC, TypeDNSKEY}
	encoded := EncodeTypeBitmap(types)
	decoded, err := DecodeTypeBitmap(encoded)
	if err != nil {
		t.Fatalf("DecodeTypeBitmap: %v", err)
	}

	want := append([]Type{}, types...)
	sortTypes(want)
	sortTypes(decoded)
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("decoded = %v, want %v", decoded, want)
	}
}

func TestTypeBitmapSpansMultipleWindows(t *testing.T) {
	// Type 1 lives in window 0; a type with code 256+1 lives in window 1.
	types := []Type{Type(1), Type(256 + 1)}
	encoded := EncodeTypeBitmap(types)
	if len(encoded) < 2*(2+1) {
		t.Fatalf("expected at least two windows, got %d bytes: %x", len(encoded), encoded)
	}
	decoded, err := DecodeTypeBitmap(encoded)
	if err != nil {
		t.Fatalf("DecodeTypeBitmap: %v", err)
	}
	sortTypes(decoded)
	want := []Type{Type(1), Type(257)}
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("decoded = %v, want %v", decoded, want)
	}
}

func TestTypeBitmapOmitsEmptyWindows(t *testing.T) {
	encoded := EncodeTypeBitmap(nil)
	if len(encoded) != 0 {
		t.Errorf("expected empty encoding for no types, got %x", encoded)
	}
}

func TestDecodeTypeBitmapRejectsTruncatedWindow(t *testing.T) {
	if _, err := DecodeTypeBitmap([]byte{0x00}); err == nil {
		t.Fatal("expected error on truncated window header")
	}
}

func TestDecodeTypeBitmapRejectsInvalidLength(t *testing.T) {
	if _, err := DecodeTypeBitmap([]byte{0x00, 0x00}); err == nil {
		t.Fatal("expected error on zero-length window")
	}
	if _, err := DecodeTypeBitmap([]byte{0x00, 33}); err == nil {
		t.Fatal("expected error on over-long window")
	}
}

func sortTypes(types []Type) {
	for i := 1; i < len(types); i++ {
		for j := i; j > 0 && types[j-1] > types[j]; j-- {
			types[j-1], types[j] = types[j], types[j-1]
		}
	}
}

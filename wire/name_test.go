// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package wire

import "testing"

func TestNewNameRoundTrip(t *testing.T) {
	cases := []string{".", "example.com.", "www.example.com.", "a.b.c.example.com."}
	for _, c := range cases {
		n, err := NewName(c)
		if err != nil {
			t.Fatalf("NewName(%q): %v", c, err)
		}
		if got := n.String(); got != c {
			t.Errorf("NewName(%q).String() = %q, want %q", c, got, c)
		}
	}
}

func TestNewNameEscapes(t *testing.T) {
	n, err := NewName(`a\.b.example.com.`)
	if err != nil {
		t.Fatalf("NewName: %v", err)
	}
	labels := n.Labels()
	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d: %v", len(labels), labels)
	}
	if string(labels[0]) != "a.b" {
		t.Errorf("first label = %q, want %q", labels[0], "a.b")
	}
}

func TestNameCompressionRoundTrip(t *testing.T) {
	parent, _ := NewName("example.com.")
	child, _ := NewName("www.example.com.")

	buf := make([]byte, 256)
	ot := NewOffsetTable()

	n1, err := parent.EncodeToBuffer(buf, 0, ot)
	if err != nil {
		t.Fatalf("encode parent: %v", err)
	}
	n2, err := child.EncodeToBuffer(buf, n1, ot)
	if err != nil {
		t.Fatalf("encode child: %v", err)
	}

	// child should compress down to its unique label plus a 2-byte pointer.
	if n2 != 1+len("www")+2 {
		t.Errorf("compressed child length = %d, want %d", n2, 1+len("www")+2)
	}

	decodedParent, next1, err := DecodeNameFromBuffer(buf, 0)
	if err != nil {
		t.Fatalf("decode parent: %v", err)
	}
	if !decodedParent.Equal(parent) {
		t.Errorf("decoded parent = %v, want %v", decodedParent, parent)
	}
	if next1 != n1 {
		t.Errorf("parent decode consumed %d bytes, want %d", next1, n1)
	}

	decodedChild, next2, err := DecodeNameFromBuffer(buf, n1)
	if err != nil {
		t.Fatalf("decode child: %v", err)
	}
	if !decodedChild.Equal(child) {
		t.Errorf("decoded child = %v, want %v", decodedChild, child)
	}
	if next2 != n1+n2 {
		t.Errorf("child decode consumed to %d, want %d", next2, n1+n2)
	}
}

func TestDecodeNameRejectsForwardPointer(t *testing.T) {
	buf := []byte{0xC0, 0x02, 0x00}
	if _, _, err := DecodeNameFromBuffer(buf, 0); err == nil {
		t.Fatal("expected error decoding forward pointer, got nil")
	}
}

func TestDecodeNameRejectsSelfPointer(t *testing.T) {
	buf := make([]byte, 4)
	buf[0] = 0xC0
	buf[1] = 0x00 // points to itself: forward/self-reference rejected
	if _, _, err := DecodeNameFromBuffer(buf, 0); err == nil {
		t.Fatal("expected error on self-referencing pointer, got nil")
	}
}

func TestDecodeNameRejectsReservedLabelBits(t *testing.T) {
	buf := []byte{0x40, 0x00}
	if _, _, err := DecodeNameFromBuffer(buf, 0); err == nil {
		t.Fatal("expected error on reserved label-length bits, got nil")
	}
}

func TestNameCompareOrdering(t *testing.T) {
	a, _ := NewName("a.example.com.")
	b, _ := NewName("b.example.com.")
	parent, _ := NewName("example.com.")

	if a.Compare(b) >= 0 {
		t.Errorf("expected a.example.com. < b.example.com.")
	}
	if parent.Compare(a) >= 0 {
		t.Errorf("expected example.com. < a.example.com. (parent sorts before child)")
	}
	if a.Compare(a) != 0 {
		t.Errorf("expected a.Compare(a) == 0")
	}
}

func TestIsSubdomainOfAndRelativeTo(t *testing.T) {
	parent, _ := NewName("example.com.")
	child, _ := NewName("www.example.com.")
	other, _ := NewName("example.net.")

	if !child.IsSubdomainOf(parent) {
		t.Errorf("expected www.example.com. to be a subdomain of example.com.")
	}
	if other.IsSubdomainOf(parent) {
		t.Errorf("expected example.net. not to be a subdomain of example.com.")
	}

	rel, ok := child.RelativeTo(parent)
	if !ok {
		t.Fatalf("RelativeTo failed")
	}
	if rel.String() != "www." {
		t.Errorf("RelativeTo = %q, want %q", rel.String(), "www.")
	}
}

func TestReplaceSuffix(t *testing.T) {
	oldSuffix, _ := NewName("old.example.com.")
	newSuffix, _ := NewName("new.example.org.")
	name, _ := NewName("host.old.example.com.")

	replaced, ok := name.ReplaceSuffix(oldSuffix, newSuffix)
	if !ok {
		t.Fatalf("ReplaceSuffix failed")
	}
	want, _ := NewName("host.new.example.org.")
	if !replaced.Equal(want) {
		t.Errorf("ReplaceSuffix = %v, want %v", replaced, want)
	}
}

func TestEncodeCanonicalLowerCases(t *testing.T) {
	n, _ := NewName("WWW.Example.COM.")
	encoded := n.EncodeCanonical()
	decoded, _, err := DecodeNameFromBuffer(encoded, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.String() != "www.example.com." {
		t.Errorf("canonical form = %q, want %q", decoded.String(), "www.example.com.")
	}
}

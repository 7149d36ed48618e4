// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package server

import (
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/tochusc/authdns/wire"
)

func TestLayerSerializeTo(t *testing.T) {
	qname, err := wire.NewName("example.com.")
	if err != nil {
		t.Fatalf("NewName: %v", err)
	}
	msg := &wire.Message{ID: 42, QR: true, Question: []wire.Question{{Name: qname, Type: wire.TypeA, Class: wire.ClassIN}}}
	l := &Layer{Message: msg}

	buf := gopacket.NewSerializeBuffer()
	if err := l.SerializeTo(buf, gopacket.SerializeOptions{}); err != nil {
		t.Fatalf("SerializeTo: %v", err)
	}

	want, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(l.LayerContents()) != string(want) {
		t.Error("LayerContents does not match the message's own Encode output")
	}
	if l.LayerType() != layers.LayerTypeDNS {
		t.Errorf("LayerType = %v, want layers.LayerTypeDNS", l.LayerType())
	}
	if l.LayerPayload() != nil {
		t.Error("expected a nil LayerPayload for the innermost layer")
	}
}

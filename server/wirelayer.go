// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// wirelayer.go wraps wire.Message as a gopacket.SerializableLayer, the
// same shape as dns/layers.go's DNS.SerializeTo, so the wire codec can
// participate in a gopacket-based capture/injection pipeline; serve.go's
// serializeResponse turns every outgoing reply into bytes through it.
package server

import (
	"errors"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/tochusc/authdns/wire"
)

// Layer adapts a wire.Message to gopacket's layer interfaces.
type Layer struct {
	Message *wire.Message
	raw     []byte
}

// LayerType reports this layer as a DNS layer, matching dns/layers.go's
// choice of gopacket's own well-known DNS layer type so downstream
// gopacket tooling classifies it consistently.
func (l *Layer) LayerType() gopacket.LayerType { return layers.LayerTypeDNS }

// LayerContents returns the serialized message once SerializeTo has run;
// prior to that it is empty.
func (l *Layer) LayerContents() []byte { return l.raw }

// LayerPayload is always empty: the DNS message is the innermost layer.
func (l *Layer) LayerPayload() []byte { return nil }

var _ gopacket.SerializableLayer = (*Layer)(nil)

// SerializeTo encodes the wrapped message into buf per
// gopacket.SerializableLayer, mirroring dns/layers.go's
// PrependBytes-then-EncodeToBuffer shape.
func (l *Layer) SerializeTo(buf gopacket.SerializeBuffer, _ gopacket.SerializeOptions) error {
	encoded, err := l.Message.Encode()
	if err != nil {
		return errors.New("wirelayer: SerializeTo: " + err.Error())
	}
	space, err := buf.PrependBytes(len(encoded))
	if err != nil {
		return errors.New("wirelayer: SerializeTo: " + err.Error())
	}
	copy(space, encoded)
	l.raw = encoded
	return nil
}

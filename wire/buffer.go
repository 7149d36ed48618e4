// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// buffer.go implements the wire buffer: an append-only, segmented byte
// buffer used to build and inspect DNS messages without repeated
// reallocation. Segments are chained so growth is amortized O(1); the
// final send is a scatter-gather write via net.Buffers so the segments
// never need to be copied into one contiguous slice.
package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
)

// DefaultSegmentSize is the capacity of each chained segment.
const DefaultSegmentSize = 512

// Buffer is an append-only segmented byte buffer.
type Buffer struct {
	segmentSize int
	segments    [][]byte
}

// NewBuffer creates an empty Buffer with the default segment size.
func NewBuffer() *Buffer {
	return NewBufferSize(DefaultSegmentSize)
}

// NewBufferSize creates an empty Buffer whose segments grow to segSize
// bytes before a new segment is chained.
func NewBufferSize(segSize int) *Buffer {
	if segSize <= 0 {
		segSize = DefaultSegmentSize
	}
	return &Buffer{segmentSize: segSize, segments: [][]byte{make([]byte, 0, segSize)}}
}

func (b *Buffer) last() []byte {
	return b.segments[len(b.segments)-1]
}

func (b *Buffer) setLast(s []byte) {
	b.segments[len(b.segments)-1] = s
}

// PushByte appends a single byte.
func (b *Buffer) PushByte(v byte) {
	last := b.last()
	if len(last) == cap(last) && cap(last) > 0 {
		b.segments = append(b.segments, make([]byte, 0, b.segmentSize))
		last = b.last()
	}
	b.setLast(append(last, v))
}

// PushBytes appends a raw byte span, splitting across segments as needed.
func (b *Buffer) PushBytes(p []byte) {
	for _, c := range p {
		b.PushByte(c)
	}
}

// PushUint8 appends an 8-bit value.
func (b *Buffer) PushUint8(v uint8) { b.PushByte(v) }

// PushUint16 appends a 16-bit value in network byte order.
func (b *Buffer) PushUint16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.PushBytes(tmp[:])
}

// PushUint32 appends a 32-bit value in network byte order.
func (b *Buffer) PushUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.PushBytes(tmp[:])
}

// PushUint64 appends a 64-bit value in network byte order.
func (b *Buffer) PushUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.PushBytes(tmp[:])
}

// Len returns the total number of bytes appended so far.
func (b *Buffer) Len() int {
	n := 0
	for _, s := range b.segments {
		n += len(s)
	}
	return n
}

// At returns the byte at the given absolute index, for back-patching reads.
func (b *Buffer) At(i int) byte {
	for _, s := range b.segments {
		if i < len(s) {
			return s[i]
		}
		i -= len(s)
	}
	panic(NewLogicError("buffer index %d out of range", i))
}

// SetAt overwrites the byte at the given absolute index (back-patching).
func (b *Buffer) SetAt(i int, v byte) {
	for si, s := range b.segments {
		if i < len(s) {
			s[i] = v
			b.segments[si] = s
			return
		}
		i -= len(s)
	}
	panic(NewLogicError("buffer index %d out of range", i))
}

// Each iterates the buffer's bytes in order.
func (b *Buffer) Each(fn func(i int, v byte)) {
	i := 0
	for _, s := range b.segments {
		for _, v := range s {
			fn(i, v)
			i++
		}
	}
}

// Bytes materializes the buffer's contents as one contiguous slice. Prefer
// NetBuffers for the zero-copy scatter-gather path.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, 0, b.Len())
	for _, s := range b.segments {
		out = append(out, s...)
	}
	return out
}

// NetBuffers exposes the underlying segments for a scatter-gather write,
// e.g. (net.Buffers).WriteTo(conn).
func (b *Buffer) NetBuffers() net.Buffers {
	bufs := make(net.Buffers, len(b.segments))
	for i, s := range b.segments {
		bufs[i] = s
	}
	return bufs
}

// WriteTo writes the buffer's segments to w via scatter-gather I/O when w
// supports it (e.g. a *net.TCPConn / *net.UDPConn), falling back to a
// plain concatenated write otherwise.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	bufs := b.NetBuffers()
	return bufs.WriteTo(w)
}

// Compare returns the lexicographic comparison between two buffers'
// concatenated byte sequences, as required by RFC 4034 §6.3 canonical
// RRSIG-preimage ordering.
func (b *Buffer) Compare(other *Buffer) int {
	return bytes.Compare(b.Bytes(), other.Bytes())
}

// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// serve.go implements §6.1's concrete server loop: a real
// net.PacketConn/net.Listener pair (replacing the teacher's raw-pcap
// Netter/Sender with ordinary sockets, since online signing and
// authoritative answering need no raw-IP access), goroutine-per-request
// dispatch, per-request google/uuid correlation IDs, and UDP truncation
// against the client's advertised (or default) payload size.
package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"

	"github.com/google/gopacket"
	"github.com/google/uuid"

	"github.com/tochusc/authdns/wire"
	"github.com/tochusc/authdns/zone"
)

// defaultUDPPayloadSize is used when a query carries no EDNS OPT record.
const defaultUDPPayloadSize = 512

// Server drives a Resolver against real UDP and TCP sockets.
type Server struct {
	Config   *Config
	Resolver *zone.Resolver
	Logger   *log.Logger
}

// NewServer builds a Server, discarding log output if lw is nil.
func NewServer(cfg *Config, resolver *zone.Resolver, lw io.Writer) *Server {
	if lw == nil {
		lw = io.Discard
	}
	return &Server{
		Config:   cfg,
		Resolver: resolver,
		Logger:   log.New(lw, "Server: ", log.LstdFlags),
	}
}

// Serve listens on Config.BindAddress for both UDP and TCP until ctx is
// canceled.
func (s *Server) Serve(ctx context.Context) error {
	udpConn, err := net.ListenPacket("udp", s.Config.BindAddress)
	if err != nil {
		return fmt.Errorf("listening udp: %w", err)
	}
	defer udpConn.Close()

	tcpListener, err := net.Listen("tcp", s.Config.BindAddress)
	if err != nil {
		return fmt.Errorf("listening tcp: %w", err)
	}
	defer tcpListener.Close()

	go s.serveUDP(ctx, udpConn)
	go s.serveTCP(ctx, tcpListener)

	<-ctx.Done()
	return ctx.Err()
}

func (s *Server) serveUDP(ctx context.Context, conn net.PacketConn) {
	buf := make([]byte, s.Config.MTU)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			s.Logger.Printf("udp read error: %v", err)
			continue
		}
		query := make([]byte, n)
		copy(query, buf[:n])
		go s.handleUDP(ctx, conn, addr, query)
	}
}

func (s *Server) handleUDP(ctx context.Context, conn net.PacketConn, addr net.Addr, query []byte) {
	reqID := uuid.New()
	resp, err := s.resolve(ctx, query, reqID)
	if err != nil {
		s.Logger.Printf("[%s] resolve error: %v", reqID, err)
		return
	}
	payload := defaultUDPPayloadSize
	if len(query) >= 12 {
		if m, perr := wire.Decode(query); perr == nil && m.EDNS != nil && int(m.EDNS.UDPPayloadSize) > 0 {
			payload = int(m.EDNS.UDPPayloadSize)
		}
	}
	if len(resp) > payload {
		resp = truncate(resp)
	}
	if _, err := conn.WriteTo(resp, addr); err != nil {
		s.Logger.Printf("[%s] udp write error: %v", reqID, err)
	}
}

func (s *Server) serveTCP(ctx context.Context, ln net.Listener) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		conn, err := ln.Accept()
		if err != nil {
			s.Logger.Printf("tcp accept error: %v", err)
			continue
		}
		go s.handleTCP(ctx, conn)
	}
}

func (s *Server) handleTCP(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	reqID := uuid.New()

	var lenBuf [2]byte
	if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
		return
	}
	msgLen := int(lenBuf[0])<<8 | int(lenBuf[1])
	query := make([]byte, msgLen)
	if _, err := io.ReadFull(conn, query); err != nil {
		s.Logger.Printf("[%s] tcp read error: %v", reqID, err)
		return
	}

	resp, err := s.resolve(ctx, query, reqID)
	if err != nil {
		s.Logger.Printf("[%s] resolve error: %v", reqID, err)
		return
	}

	out := make([]byte, 2+len(resp))
	out[0] = byte(len(resp) >> 8)
	out[1] = byte(len(resp))
	copy(out[2:], resp)
	if _, err := conn.Write(out); err != nil {
		s.Logger.Printf("[%s] tcp write error: %v", reqID, err)
	}
}

func (s *Server) resolve(ctx context.Context, query []byte, reqID uuid.UUID) ([]byte, error) {
	msg, err := wire.Decode(query)
	if err != nil {
		s.Logger.Printf("[%s] malformed query: %v", reqID, err)
		return formErrResponse(query), nil
	}
	resp, err := s.Resolver.Resolve(ctx, msg)
	if err != nil {
		return nil, err
	}
	encoded, err := serializeResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return encoded, nil
}

// serializeResponse always serializes through a Layer and
// gopacket.NewSerializeBuffer, the same gopacket.SerializableLayer path
// dns/layers.go's DNS.SerializeTo feeds a capture/injection pipeline
// through, rather than calling wire.Message.Encode directly.
func serializeResponse(msg *wire.Message) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	layer := &Layer{Message: msg}
	if err := layer.SerializeTo(buf, gopacket.SerializeOptions{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formErrResponse builds a minimal FORMERR response when the query
// itself could not be parsed, echoing the id from the raw header if at
// least that much is present, and the question section if the full
// header is present and every question entry in it decodes.
func formErrResponse(query []byte) []byte {
	var id uint16
	if len(query) >= 2 {
		id = uint16(query[0])<<8 | uint16(query[1])
	}
	m := &wire.Message{ID: id, QR: true, RCode: wire.RCodeFormErr}
	if len(query) >= 12 {
		qdcount := int(query[4])<<8 | int(query[5])
		pos := 12
		for i := 0; i < qdcount; i++ {
			name, next, err := wire.DecodeNameFromBuffer(query, pos)
			if err != nil || next+4 > len(query) {
				m.Question = nil
				break
			}
			qtype := wire.Type(uint16(query[next])<<8 | uint16(query[next+1]))
			qclass := wire.Class(uint16(query[next+2])<<8 | uint16(query[next+3]))
			m.Question = append(m.Question, wire.Question{Name: name, Type: qtype, Class: qclass})
			pos = next + 4
		}
	}
	encoded, err := serializeResponse(m)
	if err != nil {
		return nil
	}
	return encoded
}

// truncate sets the TC bit and drops every section but the question,
// matching the wire-layer truncation responsibility §4.G assigns away
// from the resolver itself.
func truncate(resp []byte) []byte {
	if len(resp) < 12 {
		return resp
	}
	msg, err := wire.Decode(resp)
	if err != nil {
		return resp
	}
	msg.TC = true
	msg.Answer = nil
	msg.Authority = nil
	msg.Additional = nil
	msg.EDNS = nil
	truncated, err := serializeResponse(msg)
	if err != nil {
		return resp
	}
	return truncated
}

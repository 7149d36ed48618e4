// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// algorithm.go implements the per-DNSSEC-algorithm signing and public-key
// extraction logic behind a small factory, the same shape as the
// teacher's dns/dnssec.go DNSSECAlgorithmer/DNSSECAlgorithmerFactory, but
// operating on already-loaded private keys (this repo loads long-lived
// operator key material from PEM rather than the teacher's
// generate-a-fresh-key-every-call helpers) and adding Ed25519 (already
// present informally in dns/xperi/dnssec.go's algorithm switch).
package signer

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"math/big"

	"github.com/tochusc/authdns/wire"
)

// Algorithmer signs pre-built RRSIG signed-data and exposes the DNSKEY
// public-key-material encoding for its algorithm.
type Algorithmer interface {
	Sign(data []byte) ([]byte, error)
	PublicKeyBytes() []byte
}

// NewAlgorithmer builds the Algorithmer for algo wrapping the parsed
// private key priv, whose concrete type must match algo's key family
// (*rsa.PrivateKey, *ecdsa.PrivateKey, or ed25519.PrivateKey).
func NewAlgorithmer(algo wire.DNSSECAlgorithm, priv any) (Algorithmer, error) {
	switch algo {
	case wire.AlgorithmRSASHA1, wire.AlgorithmRSASHA256, wire.AlgorithmRSASHA512:
		key, ok := priv.(*rsa.PrivateKey)
		if !ok {
			return nil, NewKeyError("algorithm %s requires an RSA private key", algo)
		}
		return &rsaAlgorithmer{algo: algo, key: key}, nil
	case wire.AlgorithmECDSAP256SHA256, wire.AlgorithmECDSAP384SHA384:
		key, ok := priv.(*ecdsa.PrivateKey)
		if !ok {
			return nil, NewKeyError("algorithm %s requires an ECDSA private key", algo)
		}
		return &ecdsaAlgorithmer{algo: algo, key: key}, nil
	case wire.AlgorithmED25519:
		key, ok := priv.(ed25519.PrivateKey)
		if !ok {
			return nil, NewKeyError("algorithm ED25519 requires an ed25519 private key")
		}
		return &ed25519Algorithmer{key: key}, nil
	default:
		return nil, NewKeyError("unsupported DNSSEC algorithm %s", algo)
	}
}

type rsaAlgorithmer struct {
	algo wire.DNSSECAlgorithm
	key  *rsa.PrivateKey
}

func (a *rsaAlgorithmer) Sign(data []byte) ([]byte, error) {
	var digest []byte
	var hash = cryptoHashFor(a.algo)
	switch a.algo {
	case wire.AlgorithmRSASHA1:
		d := sha1.Sum(data)
		digest = d[:]
	case wire.AlgorithmRSASHA512:
		d := sha512.Sum512(data)
		digest = d[:]
	default:
		d := sha256.Sum256(data)
		digest = d[:]
	}
	return rsa.SignPKCS1v15(rand.Reader, a.key, hash, digest)
}

// PublicKeyBytes encodes the RSA public key per RFC 3110: a length-
// prefixed exponent followed by the modulus.
func (a *rsaAlgorithmer) PublicKeyBytes() []byte {
	e := big.NewInt(int64(a.key.PublicKey.E)).Bytes()
	n := a.key.PublicKey.N.Bytes()
	var buf []byte
	if len(e) <= 255 {
		buf = append(buf, byte(len(e)))
	} else {
		buf = append(buf, 0)
		lenBuf := make([]byte, 2)
		binary.BigEndian.PutUint16(lenBuf, uint16(len(e)))
		buf = append(buf, lenBuf...)
	}
	buf = append(buf, e...)
	buf = append(buf, n...)
	return buf
}

type ecdsaAlgorithmer struct {
	algo wire.DNSSECAlgorithm
	key  *ecdsa.PrivateKey
}

func curveByteLen(algo wire.DNSSECAlgorithm) int {
	if algo == wire.AlgorithmECDSAP384SHA384 {
		return 48
	}
	return 32
}

func (a *ecdsaAlgorithmer) Sign(data []byte) ([]byte, error) {
	var digest []byte
	if a.algo == wire.AlgorithmECDSAP384SHA384 {
		d := sha512.Sum384(data)
		digest = d[:]
	} else {
		d := sha256.Sum256(data)
		digest = d[:]
	}
	r, s, err := ecdsa.Sign(rand.Reader, a.key, digest)
	if err != nil {
		return nil, err
	}
	size := curveByteLen(a.algo)
	sig := make([]byte, 2*size)
	r.FillBytes(sig[:size])
	s.FillBytes(sig[size:])
	return sig, nil
}

// PublicKeyBytes encodes the ECDSA public key per RFC 6605: the raw
// concatenation of X and Y, each left-padded to the curve's field size,
// without the 0x04 uncompressed-point prefix.
func (a *ecdsaAlgorithmer) PublicKeyBytes() []byte {
	size := curveByteLen(a.algo)
	buf := make([]byte, 2*size)
	a.key.PublicKey.X.FillBytes(buf[:size])
	a.key.PublicKey.Y.FillBytes(buf[size:])
	return buf
}

type ed25519Algorithmer struct {
	key ed25519.PrivateKey
}

func (a *ed25519Algorithmer) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(a.key, data), nil
}

func (a *ed25519Algorithmer) PublicKeyBytes() []byte {
	return append([]byte{}, a.key.Public().(ed25519.PublicKey)...)
}

func cryptoHashFor(algo wire.DNSSECAlgorithm) (h crypto.Hash) {
	switch algo {
	case wire.AlgorithmRSASHA1:
		return crypto.SHA1
	case wire.AlgorithmRSASHA512:
		return crypto.SHA512
	default:
		return crypto.SHA256
	}
}

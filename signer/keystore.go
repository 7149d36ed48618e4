// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// keystore.go implements §4.J's key store: YAML-loaded key entries with
// PEM private-key material, yielding one polymorphic signing object per
// entry. Grounded on utils/config.go's plain-struct + file-loading
// convention, with gopkg.in/yaml.v3 doing the parsing (as in
// KarpelesLab-dns's config loader) instead of the teacher's
// generate-a-throwaway-keypair-in-memory helpers in dns/dnssec.go.
package signer

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tochusc/authdns/wire"
)

// Role is a key's DNSSEC role.
type Role string

const (
	RoleKSK Role = "ksk"
	RoleZSK Role = "zsk"
)

// KeyEntry is one entry of the on-disk key configuration file.
type KeyEntry struct {
	Role      Role   `yaml:"type"`
	Algorithm string `yaml:"algorithm"`
	KeyFile   string `yaml:"key_file"`
	NotBefore string `yaml:"not_before"`
	NotAfter  string `yaml:"not_after"`
	Domain    string `yaml:"domain"`
}

// KeyConfig is the top-level shape of a key configuration file.
type KeyConfig struct {
	Keys []KeyEntry `yaml:"keys"`
}

var algorithmNames = map[string]wire.DNSSECAlgorithm{
	"RSASHA1":         wire.AlgorithmRSASHA1,
	"RSASHA256":       wire.AlgorithmRSASHA256,
	"RSASHA512":       wire.AlgorithmRSASHA512,
	"ECDSAP256SHA256": wire.AlgorithmECDSAP256SHA256,
	"ECDSAP384SHA384": wire.AlgorithmECDSAP384SHA384,
	"ED25519":         wire.AlgorithmED25519,
}

const timeLayout = "2006-01-02T15:04:05Z"

// Key is a loaded signing key: role, algorithm, validity window, apex,
// and the algorithm-specific signer/public-key extractor.
type Key struct {
	Role       Role
	Algorithm  wire.DNSSECAlgorithm
	Apex       wire.Name
	NotBefore  time.Time
	NotAfter   time.Time
	Flags      wire.KeyFlag
	algorithmer Algorithmer
	keyTag     uint16
}

// PublicKeyBytes returns the DNSKEY-form public key material.
func (k *Key) PublicKeyBytes() []byte { return k.algorithmer.PublicKeyBytes() }

// Sign signs data (the RRSIG preimage) with this key's private material.
func (k *Key) Sign(data []byte) ([]byte, error) { return k.algorithmer.Sign(data) }

// DNSKEYRDATA builds this key's DNSKEY RDATA.
func (k *Key) DNSKEYRDATA() *wire.RDATADNSKEY {
	return &wire.RDATADNSKEY{Flags: k.Flags, Protocol: 3, Algorithm: k.Algorithm, PublicKey: k.PublicKeyBytes()}
}

// KeyTag returns this key's RFC 4034 Appendix B key tag, computed once
// at load time over the encoded DNSKEY RDATA.
func (k *Key) KeyTag() uint16 { return k.keyTag }

// Valid reports whether at is within [NotBefore, NotAfter].
func (k *Key) Valid(at time.Time) bool {
	return !at.Before(k.NotBefore) && !at.After(k.NotAfter)
}

// KeyStore holds every loaded key for a zone.
type KeyStore struct {
	Keys []*Key
}

// ZSKs returns every zone-signing key.
func (s *KeyStore) ZSKs() []*Key { return s.byRole(RoleZSK) }

// KSKs returns every key-signing key.
func (s *KeyStore) KSKs() []*Key { return s.byRole(RoleKSK) }

func (s *KeyStore) byRole(role Role) []*Key {
	var out []*Key
	for _, k := range s.Keys {
		if k.Role == role {
			out = append(out, k)
		}
	}
	return out
}

// LoadKeyStore reads a YAML key configuration file and PEM-decodes each
// referenced key file into a loaded Key.
func LoadKeyStore(configPath string) (*KeyStore, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, NewKeyError("reading key config %s: %s", configPath, err)
	}
	var cfg KeyConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, NewKeyError("parsing key config %s: %s", configPath, err)
	}

	store := &KeyStore{}
	for _, entry := range cfg.Keys {
		key, err := loadKeyEntry(entry)
		if err != nil {
			return nil, err
		}
		store.Keys = append(store.Keys, key)
	}
	return store, nil
}

func loadKeyEntry(entry KeyEntry) (*Key, error) {
	algo, ok := algorithmNames[entry.Algorithm]
	if !ok {
		return nil, NewKeyError("unknown algorithm %q for key file %s", entry.Algorithm, entry.KeyFile)
	}
	apex, err := wire.NewName(entry.Domain)
	if err != nil {
		return nil, NewKeyError("invalid domain %q: %s", entry.Domain, err)
	}
	priv, err := loadPEMPrivateKey(entry.KeyFile, algo)
	if err != nil {
		return nil, err
	}
	algorithmer, err := NewAlgorithmer(algo, priv)
	if err != nil {
		return nil, err
	}

	var flags wire.KeyFlag
	if entry.Role == RoleKSK {
		flags = wire.KeyFlagKSK
	} else {
		flags = wire.KeyFlagZSK
	}

	notBefore, err := time.Parse(timeLayout, entry.NotBefore)
	if err != nil {
		return nil, NewKeyError("invalid not_before %q: %s", entry.NotBefore, err)
	}
	notAfter, err := time.Parse(timeLayout, entry.NotAfter)
	if err != nil {
		return nil, NewKeyError("invalid not_after %q: %s", entry.NotAfter, err)
	}

	key := &Key{
		Role: entry.Role, Algorithm: algo, Apex: apex,
		NotBefore: notBefore, NotAfter: notAfter, Flags: flags,
		algorithmer: algorithmer,
	}
	key.keyTag = CalculateKeyTag(key.DNSKEYRDATA())
	return key, nil
}

func loadPEMPrivateKey(path string, algo wire.DNSSECAlgorithm) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, NewKeyError("reading key file %s: %s", path, err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, NewKeyError("no PEM block found in %s", path)
	}

	switch algo {
	case wire.AlgorithmRSASHA1, wire.AlgorithmRSASHA256, wire.AlgorithmRSASHA512:
		if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
			return key, nil
		}
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, NewKeyError("parsing RSA private key %s: %s", path, err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, NewKeyError("%s does not contain an RSA private key", path)
		}
		return rsaKey, nil
	case wire.AlgorithmECDSAP256SHA256, wire.AlgorithmECDSAP384SHA384:
		if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
			return key, nil
		}
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, NewKeyError("parsing ECDSA private key %s: %s", path, err)
		}
		ecKey, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, NewKeyError("%s does not contain an ECDSA private key", path)
		}
		wantCurve := elliptic.P256()
		if algo == wire.AlgorithmECDSAP384SHA384 {
			wantCurve = elliptic.P384()
		}
		if ecKey.Curve != wantCurve {
			return nil, NewKeyError("%s key curve does not match algorithm %s", path, algo)
		}
		return ecKey, nil
	case wire.AlgorithmED25519:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, NewKeyError("parsing ed25519 private key %s: %s", path, err)
		}
		edKey, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, NewKeyError("%s does not contain an ed25519 private key", path)
		}
		return edKey, nil
	default:
		return nil, NewKeyError("unsupported algorithm %s", algo)
	}
}

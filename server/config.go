// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// config.go defines the server's on-disk configuration shape, grounded
// on types.go's DNSServerConfig and utils/config.go's flat field list,
// restructured as a YAML document (gopkg.in/yaml.v3, as in the keystore)
// instead of the teacher's Go-source global variables, since a real
// deployment reconfigures bind address/zone/keys without a rebuild.
package server

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration loaded at startup.
type Config struct {
	// BindAddress is the "host:port" UDP/TCP listen address.
	BindAddress string `yaml:"bind_address"`
	// MTU bounds the size of a single UDP read buffer, mirroring
	// utils/config.go's MTU.
	MTU int `yaml:"mtu"`
	// ZoneFile is the path to a zone-file-format zone definition.
	ZoneFile string `yaml:"zone_file"`
	// KeyFile is the path to a signer key configuration (omit to serve
	// unsigned, DNSSEC-less responses).
	KeyFile string `yaml:"key_file"`
	// NSEC3 enables NSEC3 instead of NSEC for denial-of-existence proof.
	NSEC3 *NSEC3Config `yaml:"nsec3,omitempty"`
	// SignWorkers bounds the signing goroutine pool's concurrency.
	SignWorkers int `yaml:"sign_workers"`
}

// NSEC3Config configures NSEC3 hashing parameters for a zone.
type NSEC3Config struct {
	Iterations uint16 `yaml:"iterations"`
	Salt       string `yaml:"salt"` // hex-encoded
}

// DefaultMTU mirrors the teacher's utils/config.go MTU default.
const DefaultMTU = 1500

// DefaultSignWorkers is a conservative default pool size for online
// signing, grounded on the teacher's one-goroutine-per-component style.
const DefaultSignWorkers = 8

// LoadConfig reads and parses a YAML server configuration file, filling
// in defaults for omitted fields.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{MTU: DefaultMTU, SignWorkers: DefaultSignWorkers}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	if cfg.MTU == 0 {
		cfg.MTU = DefaultMTU
	}
	if cfg.SignWorkers == 0 {
		cfg.SignWorkers = DefaultSignWorkers
	}
	return cfg, nil
}

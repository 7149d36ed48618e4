// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// Command godnsd runs the authoritative DNS server defined by this
// repository. Grounded on server.go's GoStart convenience constructor
// and handler.go's pipeline wiring, restructured as a flag-parsed CLI
// entrypoint since the teacher hard-codes its server configuration in
// utils/config.go rather than accepting it at the command line.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tochusc/authdns/server"
	"github.com/tochusc/authdns/signer"
	"github.com/tochusc/authdns/wire"
	"github.com/tochusc/authdns/zone"
)

func main() {
	bind := flag.String("bind", ":53", "address to listen on, e.g. 0.0.0.0:53")
	zoneFile := flag.String("zone", "", "path to the zone file to serve")
	apexFlag := flag.String("apex", "", "zone apex name, e.g. example.com.")
	kskFile := flag.String("ksk", "", "path to a key configuration file (enables DNSSEC signing)")
	configFile := flag.String("config", "", "path to a server config YAML file (overrides other flags if set)")
	logLevel := flag.String("log-level", "info", "log verbosity: debug, info, error")
	flag.Parse()

	_ = logLevel // reserved: this repo's log.Logger has no level filtering yet

	cfg := &server.Config{
		BindAddress: *bind,
		MTU:         server.DefaultMTU,
		ZoneFile:    *zoneFile,
		KeyFile:     *kskFile,
		SignWorkers: server.DefaultSignWorkers,
	}
	if *configFile != "" {
		loaded, err := server.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	if cfg.ZoneFile == "" {
		fmt.Fprintln(os.Stderr, "godnsd: -zone is required")
		os.Exit(2)
	}
	apex, err := wire.NewName(*apexFlag)
	if err != nil {
		log.Fatalf("invalid -apex: %v", err)
	}

	z, err := zone.LoadZoneFile(cfg.ZoneFile, apex)
	if err != nil {
		log.Fatalf("loading zone file: %v", err)
	}

	var pool *server.SignPool
	if cfg.KeyFile != "" {
		store, err := signer.LoadKeyStore(cfg.KeyFile)
		if err != nil {
			log.Fatalf("loading key store: %v", err)
		}
		dnskeyTTL := uint32(3600)
		if soa, ok := z.SOA(); ok {
			dnskeyTTL = soa.TTL
		}
		if err := signer.PopulateDNSKEY(z, store, dnskeyTTL); err != nil {
			log.Fatalf("populating apex DNSKEY: %v", err)
		}
		pool = server.NewSignPool(&signer.Signer{Store: store}, cfg.SignWorkers)
		defer pool.Close()
	}

	// NSEC/NSEC3 databases are built after the apex DNSKEY RRset is in
	// place, so denial proofs and bitmaps already reflect it.
	resolver := &zone.Resolver{Zone: z, NSEC: zone.BuildNSECDB(z)}
	if pool != nil {
		resolver.Signer = pool
	}

	if cfg.NSEC3 != nil {
		salt, err := hex.DecodeString(cfg.NSEC3.Salt)
		if err != nil {
			log.Fatalf("invalid nsec3 salt: %v", err)
		}
		resolver.NSEC = nil
		resolver.NSEC3 = zone.BuildNSEC3DB(z, salt, cfg.NSEC3.Iterations, wire.NSEC3HashSHA1)
	}

	srv := server.NewServer(cfg, resolver, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("godnsd: serving %s on %s", apex, cfg.BindAddress)
	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("serve: %v", err)
	}
}

// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tochusc/authdns/wire"
	"github.com/tochusc/authdns/zone"
)

type fakeSigner struct {
	calls int32
	delay time.Duration
}

func (f *fakeSigner) SignRRSet(ctx context.Context, rrset *zone.RRSet) (*zone.RRSet, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return rrset, nil
}

func testRRSet(t *testing.T) *zone.RRSet {
	t.Helper()
	owner, err := wire.NewName("www.example.com.")
	if err != nil {
		t.Fatalf("NewName: %v", err)
	}
	return &zone.RRSet{Owner: owner, Class: wire.ClassIN, Type: wire.TypeA, TTL: 300}
}

func TestSignPoolDispatchesToWorkers(t *testing.T) {
	fs := &fakeSigner{}
	pool := NewSignPool(fs, 4)
	defer pool.Close()

	rrset := testRRSet(t)
	for i := 0; i < 10; i++ {
		got, err := pool.SignRRSet(context.Background(), rrset)
		if err != nil {
			t.Fatalf("SignRRSet: %v", err)
		}
		if got != rrset {
			t.Errorf("expected the pool to return the signer's result unchanged")
		}
	}
	if atomic.LoadInt32(&fs.calls) != 10 {
		t.Errorf("signer called %d times, want 10", fs.calls)
	}
}

func TestSignPoolDefaultsWorkerCount(t *testing.T) {
	pool := NewSignPool(&fakeSigner{}, 0)
	defer pool.Close()
	if cap(pool.jobs) != DefaultSignWorkers*4 {
		t.Errorf("job queue capacity = %d, want %d", cap(pool.jobs), DefaultSignWorkers*4)
	}
}

func TestSignPoolHonorsContextCancellation(t *testing.T) {
	fs := &fakeSigner{delay: 50 * time.Millisecond}
	pool := NewSignPool(fs, 1)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := pool.SignRRSet(ctx, testRRSet(t))
	if err == nil {
		t.Error("expected a context-deadline error from a slow signer")
	}
}

func TestSignPoolCloseIsIdempotent(t *testing.T) {
	pool := NewSignPool(&fakeSigner{}, 2)
	pool.Close()
	pool.Close()
}

// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// signpool.go implements §5's bounded goroutine pool for CPU-bound
// online signing, grounded on the teacher's per-component-struct style
// (cacher.go's Cacher, netter.go's Netter) generalized into a worker
// pool fed by a buffered channel of jobs.
package server

import (
	"context"
	"sync"

	"github.com/tochusc/authdns/zone"
)

type signJob struct {
	ctx    context.Context
	rrset  *zone.RRSet
	result chan<- signResult
}

type signResult struct {
	rrset *zone.RRSet
	err   error
}

// SignPool dispatches SignRRSet calls onto a bounded number of worker
// goroutines so a burst of DO=1 queries cannot serialize behind a single
// signing thread.
type SignPool struct {
	signer  zone.Signer
	jobs    chan signJob
	wg      sync.WaitGroup
	closeMu sync.Once
}

// NewSignPool starts workers goroutines backed by signer.
func NewSignPool(signer zone.Signer, workers int) *SignPool {
	if workers <= 0 {
		workers = DefaultSignWorkers
	}
	p := &SignPool{signer: signer, jobs: make(chan signJob, workers*4)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *SignPool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		rrset, err := p.signer.SignRRSet(job.ctx, job.rrset)
		job.result <- signResult{rrset: rrset, err: err}
	}
}

// SignRRSet implements zone.Signer by routing the call through the pool,
// so a Resolver configured with a SignPool fans signing work out across
// workers transparently. It honors ctx cancellation while the job waits
// for a free worker.
func (p *SignPool) SignRRSet(ctx context.Context, rrset *zone.RRSet) (*zone.RRSet, error) {
	result := make(chan signResult, 1)
	select {
	case p.jobs <- signJob{ctx: ctx, rrset: rrset, result: result}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-result:
		return r.rrset, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting new jobs and waits for in-flight workers to
// drain. Calling it more than once is safe: later calls only wait.
func (p *SignPool) Close() {
	p.closeMu.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}

var _ zone.Signer = (*SignPool)(nil)

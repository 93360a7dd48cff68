// Package batch implements the core's only intra-process concurrency: a
// bounded-semaphore dispatcher used to fan create/publish/inscribe/transfer
// operations out over many assets at once, plus a single-transaction
// proportional fee split for batch inscription. The engine performs no
// background work of its own — every call blocks until every dispatched
// item (or the whole batch, for fail-fast mode) completes.
package batch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/google/uuid"
	"github.com/originals/cel/pkg/cel"
	"github.com/originals/cel/pkg/layer/peer"
	"github.com/originals/cel/pkg/layer/webvh"
	"github.com/originals/cel/pkg/signing"
	"github.com/originals/cel/pkg/storage"
)

// DefaultMaxConcurrent bounds dispatch width when Options.MaxConcurrent is
// left at zero.
const DefaultMaxConcurrent = 8

// Options controls dispatch width, validation, and failure handling shared
// by every batch operation.
type Options struct {
	MaxConcurrent   int
	ValidateFirst   bool
	ContinueOnError bool
}

func (o Options) concurrency() int {
	if o.MaxConcurrent > 0 {
		return o.MaxConcurrent
	}
	return DefaultMaxConcurrent
}

// ItemResult pairs one input item's index with either its result or the
// error it failed with.
type ItemResult struct {
	Index  int
	Result *cel.EventLog
	Err    error
}

// Result is the aggregate outcome of a batch operation: batchCreate,
// batchPublish, and batchTransfer all return this shape. batchInscribe
// returns InscribeResult, which embeds it.
type Result struct {
	BatchID        string
	Operation      string
	Successful     []ItemResult
	Failed         []ItemResult
	TotalProcessed int
	TotalDuration  time.Duration
}

// EventPayload is the {operation, itemCount, results} shape a caller emits
// for batch:started/batch:completed telemetry. The engine itself performs
// no I/O and does not emit events; it returns Result (or InscribeResult),
// from which a caller builds an EventPayload for their own event bus.
type EventPayload struct {
	Operation string  `json:"operation"`
	ItemCount int     `json:"itemCount"`
	Results   *Result `json:"results,omitempty"`
}

// dispatch runs task(i) for every index in [0, n) with at most
// opts.concurrency() running at once, aggregating results under a single
// mutex: no shared mutable state between tasks beyond the
// aggregator. When !opts.ContinueOnError, the first failure prevents any
// further tasks from being *started*, though in-flight tasks still run to
// completion (matching the "in-flight items may still complete" rule).
func dispatch(ctx context.Context, n int, opts Options, task func(ctx context.Context, i int) (*cel.EventLog, error)) *Result {
	start := time.Now()
	result := &Result{
		BatchID:        uuid.NewString(),
		Successful:     make([]ItemResult, 0, n),
		Failed:         make([]ItemResult, 0),
		TotalProcessed: 0,
	}

	sem := make(chan struct{}, opts.concurrency())
	var wg sync.WaitGroup
	var mu sync.Mutex
	var aborted bool

	for i := 0; i < n; i++ {
		sem <- struct{}{}
		mu.Lock()
		stop := aborted && !opts.ContinueOnError
		mu.Unlock()
		if stop {
			<-sem
			break
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			eventLog, err := task(ctx, idx)

			mu.Lock()
			defer mu.Unlock()
			result.TotalProcessed++
			if err != nil {
				result.Failed = append(result.Failed, ItemResult{Index: idx, Err: err})
				if !opts.ContinueOnError {
					aborted = true
				}
				return
			}
			result.Successful = append(result.Successful, ItemResult{Index: idx, Result: eventLog})
		}(i)
	}

	wg.Wait()

	// Completion order is scheduling-dependent; groupings are reported in
	// input order.
	sort.Slice(result.Successful, func(a, b int) bool { return result.Successful[a].Index < result.Successful[b].Index })
	sort.Slice(result.Failed, func(a, b int) bool { return result.Failed[a].Index < result.Failed[b].Index })

	result.TotalDuration = time.Since(start)
	return result
}

// ResourceSet is one asset's resource list plus the fields batchCreate
// needs to seed its initial create event.
type ResourceSet struct {
	Name      string
	Resources []cel.ExternalReference
	Creator   string
	CreatedAt string
}

func (r ResourceSet) validate() error {
	if len(r.Resources) == 0 {
		return fmt.Errorf("%w: resourceId %q", ErrInvalidResourceSet, r.Name)
	}
	if r.Creator == "" || r.CreatedAt == "" {
		return fmt.Errorf("%w: resourceId %q missing creator/createdAt", ErrInvalidResourceSet, r.Name)
	}
	return nil
}

// BatchCreate dispatches peer-layer Create across every resource set
// concurrently, optionally validating every item before dispatch begins.
func BatchCreate(ctx context.Context, resourceLists []ResourceSet, signer signing.Signer, signOpts signing.SignOptions, opts Options) (*Result, error) {
	if len(resourceLists) == 0 {
		return nil, ErrBatchEmpty
	}
	if opts.ValidateFirst {
		for _, rs := range resourceLists {
			if err := rs.validate(); err != nil {
				return nil, err
			}
		}
	}

	mgr := peer.New()
	result := dispatch(ctx, len(resourceLists), opts, func(ctx context.Context, i int) (*cel.EventLog, error) {
		rs := resourceLists[i]
		if err := rs.validate(); err != nil {
			return nil, err
		}
		return mgr.Create(ctx, rs.Name, rs.Resources, rs.Creator, rs.CreatedAt, signer, signOpts)
	})
	result.Operation = "create"
	return result, nil
}

// PublishItem pairs a peer-layer log with the raw resource bytes webvh
// needs to publish alongside it.
type PublishItem struct {
	Log             *cel.EventLog
	ResourceContent map[string][]byte
}

// BatchPublish dispatches webvh.Migrate across every asset concurrently
// under a shared domain.
func BatchPublish(ctx context.Context, items []PublishItem, domain string, signer signing.Signer, signOpts signing.SignOptions, storageAdapter storage.Adapter, opts Options) (*Result, error) {
	if len(items) == 0 {
		return nil, ErrBatchEmpty
	}
	if !validHostname(domain) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}

	mgr := webvh.New(storageAdapter)
	result := dispatch(ctx, len(items), opts, func(ctx context.Context, i int) (*cel.EventLog, error) {
		item := items[i]
		return mgr.Migrate(ctx, item.Log, domain, item.ResourceContent, signer, signOpts)
	})
	result.Operation = "publish"
	return result, nil
}

// TransferPair is one btco-layer asset and the address it transfers to.
type TransferPair struct {
	Log         *cel.EventLog
	Destination string
}

// BatchTransfer validates every asset is at the btco layer and every
// destination is a well-formed bech32/bech32m address before dispatching
// ownership-transfer updates concurrently.
func BatchTransfer(ctx context.Context, pairs []TransferPair, signer signing.Signer, signOpts signing.SignOptions, opts Options) (*Result, error) {
	if len(pairs) == 0 {
		return nil, ErrBatchEmpty
	}
	if opts.ValidateFirst {
		for _, p := range pairs {
			if err := validateTransferPair(p); err != nil {
				return nil, err
			}
		}
	}

	result := dispatch(ctx, len(pairs), opts, func(ctx context.Context, i int) (*cel.EventLog, error) {
		p := pairs[i]
		if err := validateTransferPair(p); err != nil {
			return nil, err
		}
		state, err := cel.ReplayState(p.Log)
		if err != nil {
			return nil, err
		}
		return cel.Update(ctx, p.Log, cel.Data{
			"previousOwner": state.Creator,
			"newOwner":      p.Destination,
		}, signer, signOpts)
	})
	result.Operation = "transfer"
	return result, nil
}

func validateTransferPair(p TransferPair) error {
	state, err := cel.ReplayState(p.Log)
	if err != nil {
		return err
	}
	if state.Layer != cel.LayerBtco {
		return fmt.Errorf("%w: %s", ErrNotBtcoLayer, state.DID)
	}
	if !validBech32Address(p.Destination) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, p.Destination)
	}
	return nil
}

func validHostname(domain string) bool {
	if domain == "" {
		return false
	}
	for _, r := range domain {
		if r == ' ' || r == '/' {
			return false
		}
	}
	return true
}

var bech32Prefixes = []string{"bc1", "tb1", "bcrt1"}

func validBech32Address(addr string) bool {
	known := false
	for _, prefix := range bech32Prefixes {
		if strings.HasPrefix(addr, prefix) {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	_, data, _, err := bech32.DecodeGeneric(addr)
	return err == nil && len(data) > 0
}

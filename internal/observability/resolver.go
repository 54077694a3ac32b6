package observability

import (
	"log"
	"sync"
)

// ResolverObserver logs resolver outcomes and keeps per-source and per-tier
// failure counters for the debug endpoint.
type ResolverObserver struct {
	logger *log.Logger

	mu       sync.Mutex
	sources  map[string]int64
	failures map[string]int64
	static   int64
}

type Snapshot struct {
	Sources        map[string]int64 `json:"sources"`
	TierFailures   map[string]int64 `json:"tier_failures"`
	StaticFallback int64            `json:"static_fallbacks"`
}

func NewResolverObserver(logger *log.Logger) *ResolverObserver {
	if logger == nil {
		logger = log.Default()
	}
	return &ResolverObserver{
		logger:   logger,
		sources:  make(map[string]int64),
		failures: make(map[string]int64),
	}
}

func (o *ResolverObserver) RecordTierFailure(requestID, op, tier, kind string) {
	if o == nil {
		return
	}
	o.mu.Lock()
	o.failures[tier+"/"+kind]++
	count := o.failures[tier+"/"+kind]
	o.mu.Unlock()

	// Repeated failures of one tier usually mean the endpoint is down.
	if count%25 == 0 {
		o.logger.Printf("resolver alert request_id=%s op=%s tier=%s kind=%s repeated_failures=%d", requestID, op, tier, kind, count)
	}
}

func (o *ResolverObserver) RecordResolved(requestID, op, source string, failedTiers int, static bool) {
	if o == nil {
		return
	}
	o.mu.Lock()
	o.sources[source]++
	if static {
		o.static++
	}
	o.mu.Unlock()

	o.logger.Printf("resolver resolved request_id=%s op=%s source=%s failed_tiers=%d", requestID, op, source, failedTiers)
}

func (o *ResolverObserver) Snapshot() Snapshot {
	snap := Snapshot{Sources: map[string]int64{}, TierFailures: map[string]int64{}}
	if o == nil {
		return snap
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for k, v := range o.sources {
		snap.Sources[k] = v
	}
	for k, v := range o.failures {
		snap.TierFailures[k] = v
	}
	snap.StaticFallback = o.static
	return snap
}

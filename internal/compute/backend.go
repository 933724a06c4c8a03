package compute

import "sync/atomic"

// Backend is the reference compute backend: a goroutine pool that honors
// the same buffer/atomic-counter discipline spec §4.6 describes for a real
// GPU dispatch, so the contract (not a specific driver) is what callers and
// tests exercise. See DESIGN.md for why no real GPU library is wired in.
type Backend struct {
	cfg Config
}

// NewBackend returns a Backend configured by cfg.
func NewBackend(cfg Config) *Backend {
	return &Backend{cfg: cfg}
}

// Available reports whether this backend currently accepts dispatches.
func (b *Backend) Available() bool { return b.cfg.DeviceAvailable }

func (b *Backend) checkDispatchable(textLen int) error {
	if !b.cfg.DeviceAvailable {
		return &BackendUnavailableError{Reason: "device not initialized"}
	}
	if textLen > b.cfg.MaxTextBytes {
		return &TextTooLargeError{Size: textLen, Limit: b.cfg.MaxTextBytes}
	}
	return nil
}

// DispatchOptions carries the substitution flags that shape match
// collection, mirrored from the command (spec §3).
type DispatchOptions struct {
	Global          bool
	FirstOnly       bool
	AnchorLineStart bool
	CaseInsensitive bool
}

// resultSlots is the atomically-indexed, fixed-capacity results buffer
// shared by all dispatch threads, implementing spec §4.6's "results
// (storage): array of fixed-size match records, size MAX_RESULTS" plus its
// two atomic counters.
type resultSlots struct {
	slots   []rawMatch
	written int64
	total   int64
}

type rawMatch struct {
	start, end int
}

func newResultSlots(maxResults int) *resultSlots {
	return &resultSlots{slots: make([]rawMatch, maxResults)}
}

// record performs the kernel's atomic bookkeeping: increment both counters,
// and only store into a slot if the written index still fits the buffer —
// saturation past MAX_RESULTS is silent but total keeps counting, per spec
// §4.6's failure semantics.
func (r *resultSlots) record(m rawMatch) {
	atomic.AddInt64(&r.total, 1)
	idx := atomic.AddInt64(&r.written, 1)
	if int(idx) <= len(r.slots) {
		r.slots[idx-1] = m
	}
}

func (r *resultSlots) writtenCount() int {
	if int(r.written) > len(r.slots) {
		return len(r.slots)
	}
	return int(r.written)
}

func (r *resultSlots) totalCount() int { return int(r.total) }

package compute

import (
	"sync"

	"github.com/vecstream/vsed/internal/simd"
)

// FindLiteral dispatches a chunked parallel literal search over buf, per
// spec §4.6's literal workload shape: one thread per chunk of C consecutive
// candidate start positions, C chosen so total threads ≈ |buf| / 64.
//
// Each thread independently verifies full-pattern equality at every
// candidate position in its chunk (no skip table — unlike the host BMH
// matcher, a device thread gains nothing from skipping since neighboring
// threads already cover those positions in parallel).
func (b *Backend) FindLiteral(buf []byte, pattern []byte, opts DispatchOptions) (*DispatchResult, error) {
	if err := b.checkDispatchable(len(buf)); err != nil {
		return nil, err
	}

	n, patLen := len(buf), len(pattern)
	results := newResultSlots(b.cfg.MaxResults)

	if patLen == 0 {
		for p := 0; p <= n; p++ {
			results.record(rawMatch{start: p, end: p})
		}
	} else if patLen <= n {
		lastStart := n - patLen
		totalThreads := (n + b.cfg.BytesPerThread - 1) / b.cfg.BytesPerThread
		if totalThreads < 1 {
			totalThreads = 1
		}
		chunkSize := (lastStart + 1 + totalThreads - 1) / totalThreads
		if chunkSize < 1 {
			chunkSize = 1
		}

		var wg sync.WaitGroup
		for start := 0; start <= lastStart; start += chunkSize {
			end := start + chunkSize
			if end > lastStart+1 {
				end = lastStart + 1
			}
			wg.Add(1)
			go func(from, to int) {
				defer wg.Done()
				for p := from; p < to; p++ {
					if simd.Equal(buf[p:p+patLen], pattern, opts.CaseInsensitive) {
						results.record(rawMatch{start: p, end: p + patLen})
					}
				}
			}(start, end)
		}
		wg.Wait()
	}

	matches := postPass(buf, results.slots[:results.writtenCount()], opts)
	return &DispatchResult{Matches: matches, Written: results.writtenCount(), Total: results.totalCount()}, nil
}

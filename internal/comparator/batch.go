package comparator

import (
	"fmt"
	"sync"
	"time"

	"github.com/ivoronin/compareit/internal/progress"
	"github.com/ivoronin/compareit/internal/types"
)

type stats struct {
	total     int
	done      int
	startTime time.Time
	mu        sync.Mutex
}

func (s *stats) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("Compared %d/%d pairs in %v", s.done, s.total, time.Since(s.startTime).Truncate(time.Millisecond))
}

func (s *stats) recordOne() {
	s.mu.Lock()
	s.done++
	s.mu.Unlock()
}

// RunBatch compares every pair concurrently, bounded by workers, and
// returns results in the same order as pairs (order is a property the
// caller/export layer relies on for deterministic output, per §5).
func RunBatch(pairs []types.CandidatePair, cfg types.CompareConfig, workers int, showProgress bool) []types.ComparisonResult {
	if workers <= 0 {
		workers = 1
	}

	results := make([]types.ComparisonResult, len(pairs))
	sem := types.NewSemaphore(workers)
	var wg sync.WaitGroup

	bar := progress.New(showProgress, int64(len(pairs)))
	st := &stats{total: len(pairs), startTime: time.Now()}
	bar.Describe(st)

	for i, pair := range pairs {
		wg.Add(1)
		go func(i int, pair types.CandidatePair) {
			defer wg.Done()
			sem.Acquire()
			defer sem.Release()

			results[i] = Compare(pair, cfg)
			st.recordOne()
			bar.Set(uint64(st.done))
		}(i, pair)
	}

	wg.Wait()
	bar.Finish(st)

	return results
}

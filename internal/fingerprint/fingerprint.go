// Package fingerprint enriches indexed FileEntry values with the content
// hash, SimHash and schema signature the matcher and comparators need.
//
// # Concurrency model
//
// One goroutine per entry, bounded by a semaphore sized to Workers — the
// same bounded-fan-out shape as the teacher's screener/verifier stages, but
// flattened to a single pass since fingerprinting needs no progressive
// re-reads: each file is read once, hashed, and (for non-binary kinds)
// shingled for SimHash. Each entry is owned by exactly one worker for the
// duration of its fingerprinting, then becomes read-only (spec §5).
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ivoronin/compareit/internal/normalize"
	"github.com/ivoronin/compareit/internal/progress"
	"github.com/ivoronin/compareit/internal/types"
)

// Fingerprinter computes fingerprints for a batch of FileEntry values.
//
// Designed for single-use: create with New(), call Run() once.
type Fingerprinter struct {
	entries       []*types.FileEntry
	normalization types.NormalizationOptions
	workers       int
	showProgress  bool
	errCh         chan error
}

// New creates a Fingerprinter for the given entries. Entries are mutated in
// place by Run.
func New(entries []*types.FileEntry, normalization types.NormalizationOptions, workers int, showProgress bool, errCh chan error) *Fingerprinter {
	if workers <= 0 {
		workers = 1
	}
	return &Fingerprinter{
		entries:       entries,
		normalization: normalization,
		workers:       workers,
		showProgress:  showProgress,
		errCh:         errCh,
	}
}

type stats struct {
	total      int
	fingerprinted int
	bytesRead  int64
	startTime  time.Time
	mu         sync.Mutex
}

func (s *stats) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("Fingerprinted %d/%d files (%s) in %v",
		s.fingerprinted, s.total, humanize.IBytes(uint64(s.bytesRead)),
		time.Since(s.startTime).Truncate(time.Millisecond))
}

func (s *stats) recordOne(size int64) {
	s.mu.Lock()
	s.fingerprinted++
	s.bytesRead += size
	s.mu.Unlock()
}

// Run fingerprints every entry, skipping (with a warning sent to errCh) any
// file that can no longer be read. Entries that fail are left with their
// zero-value fingerprint fields, per the original's "Warning: Failed to
// fingerprint" behavior.
func (fp *Fingerprinter) Run() {
	bar := progress.New(fp.showProgress, int64(len(fp.entries)))
	st := &stats{total: len(fp.entries), startTime: time.Now()}
	bar.Describe(st)

	sem := types.NewSemaphore(fp.workers)
	var wg sync.WaitGroup

	for _, entry := range fp.entries {
		wg.Add(1)
		go func(e *types.FileEntry) {
			defer wg.Done()
			sem.Acquire()
			defer sem.Release()

			if err := fp.fingerprintOne(e); err != nil {
				fp.sendError(fmt.Errorf("fingerprint %s: %w", e.Path, err))
			}
			st.recordOne(e.Size)
			bar.Set(uint64(st.fingerprinted))
		}(entry)
	}

	wg.Wait()
	bar.Finish(st)
}

// fingerprintOne computes the content hash for any entry, and for
// non-binary entries additionally computes SimHash (and, for structured
// entries, the schema signature).
func (fp *Fingerprinter) fingerprintOne(e *types.FileEntry) error {
	content, err := os.ReadFile(e.Path)
	if err != nil {
		return err
	}

	sum := sha256.Sum256(content)
	e.ContentHash = hex.EncodeToString(sum[:])

	if e.Kind == types.KindBinary || e.Kind == types.KindUnknown {
		return nil
	}

	if e.Kind.IsStructured() && len(e.Columns) > 0 {
		e.SchemaSignature = ComputeSchemaSignature(e.Columns)
	}

	lines := normalize.FromBytes(content, fp.normalization)
	h := ComputeSimHash(lines)
	e.SimHash = &h

	return nil
}

func (fp *Fingerprinter) sendError(err error) {
	if fp.errCh != nil {
		fp.errCh <- err
	}
}

// Package batch fans a list of files out over a bounded worker pool. The
// analysis engine itself handles one buffer per call; retry policy and
// partial-failure accounting across a library live here.
package batch

import (
	"context"
	"log"
	"runtime"
	"sync"
	"sync/atomic"

	"songprint/internal/analysis"
)

// Result is the outcome for one file. Err is set on failure; a failed file
// never stops the batch.
type Result struct {
	Path     string
	Song     analysis.Song
	FileHash string
	Err      error
}

// ProcessFunc decodes, hashes and analyzes one file.
type ProcessFunc func(ctx context.Context, path string) (analysis.Song, string, error)

// Config configures a Pool.
type Config struct {
	Workers  int          // 0 means NumCPU-1, minimum 1
	Process  ProcessFunc
	OnResult func(Result) // called from worker goroutines
}

// Pool runs ProcessFunc over many paths concurrently.
type Pool struct {
	workers  int
	process  ProcessFunc
	onResult func(Result)

	doneCount   int64
	failedCount int64
}

// New creates a pool. Process must be non-nil.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}
	return &Pool{
		workers:  workers,
		process:  cfg.Process,
		onResult: cfg.OnResult,
	}
}

// Run processes every path and blocks until all workers finish. Cancelling
// the context stops workers from picking up new paths; in-flight files
// still complete.
func (p *Pool) Run(ctx context.Context, paths []string) {
	atomic.StoreInt64(&p.doneCount, 0)
	atomic.StoreInt64(&p.failedCount, 0)

	log.Printf("[BATCH] Processing %d files with %d workers", len(paths), p.workers)

	jobs := make(chan string, len(paths))
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id, jobs)
		}(i)
	}
	wg.Wait()

	log.Printf("[BATCH] Finished: %d processed, %d failed",
		atomic.LoadInt64(&p.doneCount), atomic.LoadInt64(&p.failedCount))
}

// Done returns how many files succeeded in the last Run.
func (p *Pool) Done() int { return int(atomic.LoadInt64(&p.doneCount)) }

// Failed returns how many files failed in the last Run.
func (p *Pool) Failed() int { return int(atomic.LoadInt64(&p.failedCount)) }

func (p *Pool) worker(ctx context.Context, id int, jobs <-chan string) {
	for path := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		song, hash, err := p.process(ctx, path)
		result := Result{Path: path, Song: song, FileHash: hash, Err: err}
		if err != nil {
			atomic.AddInt64(&p.failedCount, 1)
			log.Printf("[BATCH] Worker %d: failed %s: %v", id, path, err)
		} else {
			atomic.AddInt64(&p.doneCount, 1)
		}

		if p.onResult != nil {
			p.onResult(result)
		}
	}
}

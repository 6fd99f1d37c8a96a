package runner

import (
	"context"
	"sync"
	"time"

	"github.com/selimozcann/urlrisk/internal/model"
)

// EvalFunc scores a single input.
type EvalFunc func(input string) model.Verdict

// Config holds settings for the runner.
type Config struct {
	Threads   int
	RateLimit int // evaluations per second, 0 = unlimited
	// OnResult, when set, is called once per finished input. Calls may
	// come from several goroutines at once.
	OnResult func(idx int, v model.Verdict)
}

// Runner evaluates batches of inputs concurrently.
type Runner struct {
	cfg  Config
	eval EvalFunc
}

// New creates a new Runner. Threads below one are treated as one.
func New(cfg Config, eval EvalFunc) *Runner {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	return &Runner{cfg: cfg, eval: eval}
}

// Run evaluates targets and returns verdicts in input order. When ctx is
// cancelled, inputs not yet dispatched keep a zero Verdict.
func (r *Runner) Run(ctx context.Context, targets []string) []model.Verdict {
	out := make([]model.Verdict, len(targets))
	var (
		rateCh <-chan time.Time
		ticker *time.Ticker
	)
	if r.cfg.RateLimit > 0 {
		interval := time.Second / time.Duration(r.cfg.RateLimit)
		if interval <= 0 {
			interval = time.Nanosecond
		}
		ticker = time.NewTicker(interval)
		rateCh = ticker.C
		defer ticker.Stop()
	}

	type job struct {
		idx    int
		target string
	}

	jobs := make(chan job)
	wg := sync.WaitGroup{}
	for i := 0; i < r.cfg.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobs {
				if rateCh != nil {
					select {
					case <-ctx.Done():
						continue
					case <-rateCh:
					}
				}
				// each index is written by exactly one worker
				out[jb.idx] = r.eval(jb.target)
				if r.cfg.OnResult != nil {
					r.cfg.OnResult(jb.idx, out[jb.idx])
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, t := range targets {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{idx: i, target: t}:
			}
		}
	}()

	wg.Wait()
	return out
}

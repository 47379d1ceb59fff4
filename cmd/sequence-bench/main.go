// Command sequence-bench builds many independent sequences and advances each of them a fixed
// number of frames on a worker pool, then reports throughput.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/schollz/progressbar/v3"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/sequence"
)

// byteCounter is a mesh.Uploader that marshals the dirty buffers and counts the bytes
// a real backend would have written.
type byteCounter struct {
	uploads atomic.Int64
	bytes   atomic.Int64
}

func (c *byteCounter) Upload(m mesh.Mesh) error {
	dirty := m.Dirty()
	var n int
	if dirty.Has(mesh.DirtyPositions) {
		n += len(m.PositionData())
	}
	if dirty.Has(mesh.DirtyUVs) {
		n += len(m.UVData())
	}
	if dirty.Has(mesh.DirtyIndices) {
		n += len(m.IndexData())
	}
	c.uploads.Add(1)
	c.bytes.Add(int64(n))
	return nil
}

type benchmark struct {
	configPath string
	sequences  int
	frames     int
	workers    int
	amount     int
	unbatched  bool
}

func (b *benchmark) run() error {
	flag.StringVar(&b.configPath, "config", "", "sequence config file (defaults are used when empty)")
	flag.IntVar(&b.sequences, "n", 64, "number of independent sequences")
	flag.IntVar(&b.frames, "frames", 240, "frames to advance each sequence")
	flag.IntVar(&b.workers, "workers", runtime.NumCPU(), "worker pool size")
	flag.IntVar(&b.amount, "amount", 0, "override the sprite count of every sequence")
	flag.BoolVar(&b.unbatched, "unbatched", false, "force unbatched mode")
	flag.Parse()

	if b.sequences <= 0 || b.frames < 0 || b.workers <= 0 {
		return fmt.Errorf("n and workers must be positive and frames non-negative")
	}

	cfg := sequence.DefaultConfig()
	if b.configPath != "" {
		loaded, err := sequence.LoadConfig(b.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if b.amount > 0 {
		cfg.Amount = b.amount
	}
	if b.unbatched {
		cfg.UseBatching = false
	}

	lib := sequence.NewLibrary()
	lib.AddPrefab(mesh.NewQuad("quad"))
	// No backend: materials resolve to nil and every sprite clones the stock quad.
	cfg.Material = ""
	cfg.SpritePrefab = "quad"

	counter := &byteCounter{}
	pool := worker.NewDynamicWorkerPool(b.workers, b.sequences, time.Second)
	defer pool.Stop()

	pb := progressbar.Default(int64(b.sequences))
	defer pb.Close()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	start := time.Now()
	for i := range b.sequences {
		seqCfg := cfg
		seqCfg.Name = fmt.Sprintf("%s-%d", cfg.Name, i)
		seqCfg.Seed = cfg.Seed + int64(i)

		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				defer pb.Add(1)
				if err := b.runSequence(seqCfg, lib, counter); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					return nil, err
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	elapsed := time.Since(start)

	if err := errors.Join(errs...); err != nil {
		return err
	}

	quadFrames := float64(b.sequences) * float64(cfg.Amount) * float64(b.frames)
	fmt.Printf("\nsequences: %d x %d sprites (batched=%v), %d frames each, %d workers\n",
		b.sequences, cfg.Amount, cfg.UseBatching, b.frames, b.workers)
	fmt.Printf("elapsed:   %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("uploads:   %d (%.2f MB)\n", counter.uploads.Load(), float64(counter.bytes.Load())/1024/1024)
	if elapsed > 0 {
		fmt.Printf("rate:      %.0f quad-frames/s\n", quadFrames/elapsed.Seconds())
	}
	return nil
}

// runSequence builds one sequence and advances it b.frames times.
func (b *benchmark) runSequence(cfg sequence.Config, lib *sequence.Library, up mesh.Uploader) error {
	seq, err := sequence.NewSequenceFromConfig(cfg, lib, up)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Name, err)
	}
	if err := seq.Initialize(); err != nil {
		return fmt.Errorf("%s: %w", cfg.Name, err)
	}
	for range b.frames {
		if err := seq.Advance(); err != nil {
			return fmt.Errorf("%s: %w", cfg.Name, err)
		}
	}
	return nil
}

func main() {
	b := benchmark{}

	if err := b.run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run benchmark: %v\n", err)
		os.Exit(1)
	}
}

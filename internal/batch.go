package internal

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// VideoFailure records one video that could not be processed; the rest of
// the batch continues regardless
type VideoFailure struct {
	VideoID string
	Title   string
	Err     error
}

// BatchResult summarizes a playlist run
type BatchResult struct {
	PlaylistTitle string
	Processed     []string
	Skipped       []string
	Failed        []VideoFailure
}

// PlaylistLister resolves a playlist into its title and entries
type PlaylistLister interface {
	PlaylistVideos(ctx context.Context, playlistID string) (string, []PlaylistEntry, error)
}

// BatchProcessor walks a playlist sequentially, pausing a randomized
// interval between videos to stay polite to the caption endpoints
type BatchProcessor struct {
	resolver PlaylistLister
	engine   *Engine
	ui       UIManager
	delayMin time.Duration
	delayMax time.Duration
	verbose  bool
}

// NewBatchProcessor creates a playlist batch processor
func NewBatchProcessor(resolver PlaylistLister, engine *Engine, ui UIManager, delayMin, delayMax time.Duration, verbose bool) *BatchProcessor {
	if delayMax < delayMin {
		delayMax = delayMin
	}
	return &BatchProcessor{
		resolver: resolver,
		engine:   engine,
		ui:       ui,
		delayMin: delayMin,
		delayMax: delayMax,
		verbose:  verbose,
	}
}

// ProcessPlaylist resolves the playlist and processes each entry in order.
// One failing video does not stop the batch; cancellation does, between
// videos. The partial result is returned alongside a cancellation error.
func (b *BatchProcessor) ProcessPlaylist(ctx context.Context, playlistID string, opts ProcessOptions) (*BatchResult, error) {
	title, entries, err := b.resolver.PlaylistVideos(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("resolving playlist %s: %w", playlistID, err)
	}

	result := &BatchResult{PlaylistTitle: title}
	if len(entries) == 0 {
		return result, nil
	}

	b.ui.Printf("Playlist %q: %d videos\n", title, len(entries))
	bar := b.ui.NewProgressBar(len(entries), "Processing playlist")
	defer bar.Finish()

	for i, entry := range entries {
		if i > 0 {
			if err := b.pause(ctx); err != nil {
				return result, err
			}
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		bar.Describe(fmt.Sprintf("[%d/%d] %s", i+1, len(entries), entry.Title))
		b.ui.Verbose("Processing %s (%s)\n", entry.Title, entry.ID)

		url := "https://www.youtube.com/watch?v=" + entry.ID
		processed, err := b.engine.Process(ctx, entry.ID, url, entry.Title, opts)
		if err != nil {
			b.ui.Warnf("Warning: skipping %s: %v\n", entry.ID, err)
			result.Failed = append(result.Failed, VideoFailure{VideoID: entry.ID, Title: entry.Title, Err: err})
			bar.Set(i + 1)
			continue
		}

		if processed.EmbeddingErr != nil {
			b.ui.Warnf("Warning: transcript saved for %s but embedding failed: %v\n", entry.ID, processed.EmbeddingErr)
		}

		if processed.AlreadyProcessed {
			result.Skipped = append(result.Skipped, entry.ID)
		} else {
			result.Processed = append(result.Processed, entry.ID)
		}
		bar.Set(i + 1)
	}

	b.ui.Printf("Done: %d processed, %d already up to date, %d failed\n",
		len(result.Processed), len(result.Skipped), len(result.Failed))
	return result, nil
}

// pause sleeps a uniform random duration in [delayMin, delayMax], returning
// early if the context is cancelled
func (b *BatchProcessor) pause(ctx context.Context) error {
	delay := b.delayMin
	if spread := b.delayMax - b.delayMin; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread) + 1))
	}
	if delay <= 0 {
		return ctx.Err()
	}

	if b.verbose {
		b.ui.Printf("Waiting %s before next video\n", delay.Round(time.Second))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

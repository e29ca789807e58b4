package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrNoTranscript signals that no captions were available in any of the
// requested languages
var ErrNoTranscript = errors.New("no transcript available")

// RecordStore is the engine's view of the transcript store
type RecordStore interface {
	Load(videoID string) (*VideoRecord, error)
	Save(videoID, transcript, url string, update StatusUpdate, title string) (string, error)
}

// TranscriptFetcher obtains transcript text and a title for a video
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string, languages []string) (FetchResult, error)
}

// Ingestor makes a transcript retrievable, either by embedding it or by
// loading it into the remote corpus
type Ingestor interface {
	IngestTranscript(ctx context.Context, videoID, title, transcript string) error
}

// ProcessOptions control one engine invocation
type ProcessOptions struct {
	ForceReembed  bool
	SkipEmbedding bool
}

// ProcessResult reports what one engine invocation did. EmbeddingErr being
// non-nil means partial success: the transcript is saved and usable but the
// ingestion step failed.
type ProcessResult struct {
	Record           *VideoRecord
	AlreadyProcessed bool
	TranscriptReused bool
	EmbeddingSkipped bool
	EmbeddingErr     error
}

// Engine decides the minimal work needed per video and persists every
// completed step before starting the next one, so an interruption loses at
// most the step in progress.
type Engine struct {
	store     RecordStore
	fetcher   TranscriptFetcher
	ingestor  Ingestor
	languages []string
	verbose   bool
}

// NewEngine creates a processing engine
func NewEngine(store RecordStore, fetcher TranscriptFetcher, ingestor Ingestor, languages []string, verbose bool) *Engine {
	return &Engine{
		store:     store,
		fetcher:   fetcher,
		ingestor:  ingestor,
		languages: languages,
		verbose:   verbose,
	}
}

// Process runs the incremental pipeline for one video. The title argument
// may be empty; a better one from the fetcher or an existing record wins.
//
// A fully processed video is a no-op apart from the record lookup. A fetch
// failure aborts processing with nothing written. An ingestion failure is
// reported as partial success with the transcript already persisted.
func (e *Engine) Process(ctx context.Context, videoID, url, title string, opts ProcessOptions) (*ProcessResult, error) {
	record, err := e.store.Load(videoID)
	if err != nil {
		// A corrupt record is treated as absent; processing recreates it
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		record = nil
	}

	if record != nil && record.Status.TranscriptExtracted && record.Status.Embedded && !opts.ForceReembed {
		if e.verbose {
			fmt.Printf("Video %s fully processed (last embedded %s)\n", videoID, record.Status.LastEmbedded)
		}
		return &ProcessResult{Record: record, AlreadyProcessed: true, TranscriptReused: true}, nil
	}

	result := &ProcessResult{}

	var transcript string
	if record != nil && record.Status.TranscriptExtracted {
		if e.verbose {
			fmt.Printf("Transcript already extracted for %s\n", videoID)
		}
		transcript = record.Transcript
		result.TranscriptReused = true
		if title == "" {
			title = record.Title
		}
	} else {
		if e.verbose {
			fmt.Printf("Fetching transcript for %s (languages %v)\n", videoID, e.languages)
		}

		fetched, err := e.fetcher.Fetch(ctx, videoID, e.languages)
		if err != nil {
			return nil, fmt.Errorf("fetching transcript for %s: %w", videoID, err)
		}
		if !fetched.Found() {
			return nil, fmt.Errorf("video %s: %w", videoID, ErrNoTranscript)
		}

		transcript = fetched.Transcript
		if fetched.Title != "" && fetched.Title != UnknownTitle {
			title = fetched.Title
		}

		// Persist the transcript before any embedding work so a crash
		// afterwards still preserves it
		record = e.save(videoID, transcript, url, StatusUpdate{TranscriptExtracted: boolPtr(true)}, title, record)
	}

	if opts.SkipEmbedding {
		result.Record = record
		result.EmbeddingSkipped = true
		return result, nil
	}

	if record == nil || !record.Status.Embedded || opts.ForceReembed {
		if e.verbose {
			if opts.ForceReembed {
				fmt.Printf("Force re-embedding %s\n", videoID)
			} else {
				fmt.Printf("Embedding %s\n", videoID)
			}
		}

		if err := e.ingestor.IngestTranscript(ctx, videoID, title, transcript); err != nil {
			// Transcript stays saved and usable; report partial success
			result.Record = record
			result.EmbeddingErr = err
			return result, nil
		}

		now := time.Now().Format(time.RFC3339)
		record = e.save(videoID, "", url, StatusUpdate{
			Embedded:     boolPtr(true),
			LastEmbedded: strPtr(now),
		}, title, record)
	} else if e.verbose {
		fmt.Printf("Embeddings already exist for %s\n", videoID)
	}

	result.Record = record
	return result, nil
}

// save persists a partial update and returns the merged record. Persistence
// failures are logged and the merge is applied to the in-memory record so
// the caller still sees the result of this run.
func (e *Engine) save(videoID, transcript, url string, update StatusUpdate, title string, prev *VideoRecord) *VideoRecord {
	if _, err := e.store.Save(videoID, transcript, url, update, title); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not persist record for %s: %v\n", videoID, err)
		return mergeInMemory(prev, videoID, transcript, url, update, title)
	}

	record, err := e.store.Load(videoID)
	if err != nil || record == nil {
		return mergeInMemory(prev, videoID, transcript, url, update, title)
	}
	return record
}

// mergeInMemory mirrors the store's merge rules when persistence failed
func mergeInMemory(prev *VideoRecord, videoID, transcript, url string, update StatusUpdate, title string) *VideoRecord {
	record := prev
	if record == nil {
		record = &VideoRecord{VideoID: videoID}
	}
	if url != "" {
		record.URL = url
	}
	if transcript != "" {
		record.Transcript = transcript
		record.Timestamp = time.Now().Format(time.RFC3339)
	}
	if title != "" && title != UnknownTitle && (record.Title == "" || record.Title == UnknownTitle) {
		record.Title = title
	}
	if update.TranscriptExtracted != nil {
		record.Status.TranscriptExtracted = *update.TranscriptExtracted
	}
	if update.Embedded != nil {
		record.Status.Embedded = *update.Embedded
	}
	if update.LastEmbedded != nil {
		record.Status.LastEmbedded = *update.LastEmbedded
	}
	return record
}

// VectorIngestor embeds whole transcripts and saves the vector as a local
// artifact file (vector mode)
type VectorIngestor struct {
	embedder EmbeddingClient
	store    *TranscriptStore
	verbose  bool
}

// NewVectorIngestor creates a vector-mode ingestor
func NewVectorIngestor(embedder EmbeddingClient, store *TranscriptStore, verbose bool) *VectorIngestor {
	return &VectorIngestor{embedder: embedder, store: store, verbose: verbose}
}

// IngestTranscript implements Ingestor
func (v *VectorIngestor) IngestTranscript(ctx context.Context, videoID, title, transcript string) error {
	vector, err := v.embedder.Embed(ctx, transcript, TaskRetrievalDocument)
	if err != nil {
		return fmt.Errorf("embedding transcript: %w", err)
	}

	path, err := v.store.SaveEmbedding(videoID, vector)
	if err != nil {
		return err
	}

	if v.verbose {
		fmt.Printf("Embeddings saved to: %s\n", path)
	}
	return nil
}

// CorpusIngestor loads transcripts into the remote retrieval corpus as
// fixed-size chunks (corpus mode)
type CorpusIngestor struct {
	corpus     *CorpusClient
	corpusName string
	chunkSize  int
	verbose    bool
}

// NewCorpusIngestor creates a corpus-mode ingestor
func NewCorpusIngestor(corpus *CorpusClient, corpusName string, chunkSize int, verbose bool) *CorpusIngestor {
	return &CorpusIngestor{corpus: corpus, corpusName: corpusName, chunkSize: chunkSize, verbose: verbose}
}

// IngestTranscript implements Ingestor
func (c *CorpusIngestor) IngestTranscript(ctx context.Context, videoID, title, transcript string) error {
	corpus, err := c.corpus.GetOrCreateCorpus(ctx, c.corpusName)
	if err != nil {
		return err
	}

	if title == "" {
		title = UnknownTitle
	}

	document, err := c.corpus.CreateDocument(ctx, corpus, videoID, title)
	if err != nil {
		return err
	}

	count, err := c.corpus.Ingest(ctx, corpus, document, transcript, c.chunkSize)
	if err != nil {
		return fmt.Errorf("ingested %d chunks before failure: %w", count, err)
	}

	if c.verbose {
		fmt.Printf("Ingested %d chunks into %s\n", count, document)
	}
	return nil
}

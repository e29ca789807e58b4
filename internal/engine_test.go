package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls  int
	result FetchResult
	err    error
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoID string, languages []string) (FetchResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeIngestor struct {
	calls          int
	err            error
	lastVideoID    string
	lastTitle      string
	lastTranscript string
}

func (f *fakeIngestor) IngestTranscript(ctx context.Context, videoID, title, transcript string) error {
	f.calls++
	f.lastVideoID = videoID
	f.lastTitle = title
	f.lastTranscript = transcript
	return f.err
}

func newTestEngine(t *testing.T, fetcher *fakeFetcher, ingestor *fakeIngestor) (*Engine, *TranscriptStore) {
	t.Helper()
	store := NewTranscriptStore(t.TempDir(), false)
	return NewEngine(store, fetcher, ingestor, []string{"tr", "en"}, false), store
}

func TestEngineProcessNewVideo(t *testing.T) {
	fetcher := &fakeFetcher{result: FetchResult{Transcript: "the transcript", Title: "A Talk"}}
	ingestor := &fakeIngestor{}
	engine, store := newTestEngine(t, fetcher, ingestor)

	result, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ", "", ProcessOptions{})
	require.NoError(t, err)
	assert.False(t, result.AlreadyProcessed)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 1, ingestor.calls)
	assert.Equal(t, "the transcript", ingestor.lastTranscript)
	assert.Equal(t, "A Talk", ingestor.lastTitle)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "the transcript", record.Transcript)
	assert.Equal(t, "A Talk", record.Title)
	assert.True(t, record.Status.TranscriptExtracted)
	assert.True(t, record.Status.Embedded)
	assert.NotEmpty(t, record.Status.LastEmbedded)
}

func TestEngineSecondRunDoesNothing(t *testing.T) {
	fetcher := &fakeFetcher{result: FetchResult{Transcript: "text", Title: "T"}}
	ingestor := &fakeIngestor{}
	engine, _ := newTestEngine(t, fetcher, ingestor)

	_, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "", ProcessOptions{})
	require.NoError(t, err)

	result, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "", ProcessOptions{})
	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 1, ingestor.calls)
}

func TestEngineEmbedFailureIsPartialSuccess(t *testing.T) {
	fetcher := &fakeFetcher{result: FetchResult{Transcript: "text", Title: "T"}}
	ingestor := &fakeIngestor{err: errors.New("quota exceeded")}
	engine, store := newTestEngine(t, fetcher, ingestor)

	result, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "", ProcessOptions{})
	require.NoError(t, err)
	require.Error(t, result.EmbeddingErr)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Status.TranscriptExtracted)
	assert.False(t, record.Status.Embedded)
	assert.Empty(t, record.Status.LastEmbedded)
}

func TestEngineResumesWithoutRefetching(t *testing.T) {
	fetcher := &fakeFetcher{result: FetchResult{Transcript: "text", Title: "T"}}
	ingestor := &fakeIngestor{err: errors.New("quota exceeded")}
	engine, store := newTestEngine(t, fetcher, ingestor)

	_, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "", ProcessOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)

	// Next run reuses the saved transcript and only retries ingestion
	ingestor.err = nil
	result, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "", ProcessOptions{})
	require.NoError(t, err)
	assert.NoError(t, result.EmbeddingErr)
	assert.True(t, result.TranscriptReused)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 2, ingestor.calls)
	assert.Equal(t, "text", ingestor.lastTranscript)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.True(t, record.Status.Embedded)
}

func TestEngineSkipEmbedding(t *testing.T) {
	fetcher := &fakeFetcher{result: FetchResult{Transcript: "text", Title: "T"}}
	ingestor := &fakeIngestor{}
	engine, store := newTestEngine(t, fetcher, ingestor)

	result, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "", ProcessOptions{SkipEmbedding: true})
	require.NoError(t, err)
	assert.True(t, result.EmbeddingSkipped)
	assert.Equal(t, 0, ingestor.calls)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.True(t, record.Status.TranscriptExtracted)
	assert.False(t, record.Status.Embedded)
}

func TestEngineFetchErrorAborts(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("network down")}
	ingestor := &fakeIngestor{}
	engine, store := newTestEngine(t, fetcher, ingestor)

	_, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "", ProcessOptions{})
	require.Error(t, err)
	assert.Equal(t, 0, ingestor.calls)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestEngineNoTranscriptAvailable(t *testing.T) {
	fetcher := &fakeFetcher{result: FetchResult{Title: "T"}}
	ingestor := &fakeIngestor{}
	engine, store := newTestEngine(t, fetcher, ingestor)

	_, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "", ProcessOptions{})
	require.ErrorIs(t, err, ErrNoTranscript)
	assert.Equal(t, 0, ingestor.calls)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestEngineForceReembed(t *testing.T) {
	fetcher := &fakeFetcher{result: FetchResult{Transcript: "text", Title: "T"}}
	ingestor := &fakeIngestor{}
	engine, store := newTestEngine(t, fetcher, ingestor)

	_, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "", ProcessOptions{})
	require.NoError(t, err)
	first, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)

	result, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "", ProcessOptions{ForceReembed: true})
	require.NoError(t, err)
	assert.False(t, result.AlreadyProcessed)
	assert.True(t, result.TranscriptReused)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 2, ingestor.calls)

	second, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.True(t, second.Status.Embedded)
	assert.Equal(t, first.Transcript, second.Transcript)
}

func TestEngineKeepsStoredTitleForIngest(t *testing.T) {
	fetcher := &fakeFetcher{result: FetchResult{Transcript: "text", Title: UnknownTitle}}
	ingestor := &fakeIngestor{}
	engine, _ := newTestEngine(t, fetcher, ingestor)

	// A placeholder title from the fetcher must not override the one passed
	// in from the playlist entry
	_, err := engine.Process(context.Background(), "dQw4w9WgXcQ", "", "Playlist Title", ProcessOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Playlist Title", ingestor.lastTitle)
}

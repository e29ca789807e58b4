package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadMissing(t *testing.T) {
	store := NewTranscriptStore(t.TempDir(), false)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestStoreSaveCreatesRecord(t *testing.T) {
	store := NewTranscriptStore(t.TempDir(), false)

	path, err := store.Save("dQw4w9WgXcQ", "hello world", "https://youtu.be/dQw4w9WgXcQ",
		StatusUpdate{TranscriptExtracted: boolPtr(true)}, "Some Video")
	require.NoError(t, err)
	assert.Equal(t, "transcript_dQw4w9WgXcQ.json", filepath.Base(path))

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "dQw4w9WgXcQ", record.VideoID)
	assert.Equal(t, "hello world", record.Transcript)
	assert.Equal(t, "Some Video", record.Title)
	assert.NotEmpty(t, record.Timestamp)
	assert.True(t, record.Status.TranscriptExtracted)
	assert.False(t, record.Status.Embedded)
}

func TestStoreSavePreservesTranscriptOnStatusUpdate(t *testing.T) {
	store := NewTranscriptStore(t.TempDir(), false)

	_, err := store.Save("dQw4w9WgXcQ", "original transcript", "https://youtu.be/dQw4w9WgXcQ",
		StatusUpdate{TranscriptExtracted: boolPtr(true)}, "Some Video")
	require.NoError(t, err)

	before, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)

	// Status-only save: empty transcript must not clobber the stored one
	_, err = store.Save("dQw4w9WgXcQ", "", "https://youtu.be/dQw4w9WgXcQ",
		StatusUpdate{Embedded: boolPtr(true), LastEmbedded: strPtr("2026-08-30T12:00:00Z")}, "")
	require.NoError(t, err)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "original transcript", record.Transcript)
	assert.Equal(t, before.Timestamp, record.Timestamp)
	assert.True(t, record.Status.TranscriptExtracted)
	assert.True(t, record.Status.Embedded)
	assert.Equal(t, "2026-08-30T12:00:00Z", record.Status.LastEmbedded)
}

func TestStoreSaveStatusShallowMerge(t *testing.T) {
	store := NewTranscriptStore(t.TempDir(), false)

	_, err := store.Save("dQw4w9WgXcQ", "text", "",
		StatusUpdate{Embedded: boolPtr(true), LastEmbedded: strPtr("2026-01-01T00:00:00Z")}, "")
	require.NoError(t, err)

	// Touch only the extracted flag; embedded fields must survive
	_, err = store.Save("dQw4w9WgXcQ", "", "",
		StatusUpdate{TranscriptExtracted: boolPtr(true)}, "")
	require.NoError(t, err)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.True(t, record.Status.TranscriptExtracted)
	assert.True(t, record.Status.Embedded)
	assert.Equal(t, "2026-01-01T00:00:00Z", record.Status.LastEmbedded)
}

func TestStoreSaveTitleRules(t *testing.T) {
	store := NewTranscriptStore(t.TempDir(), false)

	// Placeholder title is never stored over nothing better
	_, err := store.Save("dQw4w9WgXcQ", "", "", StatusUpdate{}, UnknownTitle)
	require.NoError(t, err)
	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Empty(t, record.Title)

	// First real title wins
	_, err = store.Save("dQw4w9WgXcQ", "", "", StatusUpdate{}, "Real Title")
	require.NoError(t, err)
	record, err = store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Real Title", record.Title)

	// A later title does not replace an existing real one
	_, err = store.Save("dQw4w9WgXcQ", "", "", StatusUpdate{}, "Another Title")
	require.NoError(t, err)
	record, err = store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Real Title", record.Title)
}

func TestStoreSaveTitleReplacesUnknown(t *testing.T) {
	dir := t.TempDir()
	store := NewTranscriptStore(dir, false)

	// An old record that persisted the placeholder
	seed := []byte(`{"video_id":"dQw4w9WgXcQ","title":"Unknown Title","status":{}}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transcript_dQw4w9WgXcQ.json"), seed, 0644))

	_, err := store.Save("dQw4w9WgXcQ", "", "", StatusUpdate{}, "Found Title")
	require.NoError(t, err)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Found Title", record.Title)
}

func TestStoreSaveURLAlwaysUpdated(t *testing.T) {
	store := NewTranscriptStore(t.TempDir(), false)

	_, err := store.Save("dQw4w9WgXcQ", "text", "https://youtu.be/dQw4w9WgXcQ", StatusUpdate{}, "")
	require.NoError(t, err)
	_, err = store.Save("dQw4w9WgXcQ", "", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", StatusUpdate{}, "")
	require.NoError(t, err)

	record, err := store.Load("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", record.URL)
}

func TestStoreSaveEmbedding(t *testing.T) {
	dir := t.TempDir()
	store := NewTranscriptStore(dir, false)

	path, err := store.SaveEmbedding("dQw4w9WgXcQ", []float32{0.1, 0.2, 0.3})
	require.NoError(t, err)
	assert.Equal(t, "embeddings_dQw4w9WgXcQ.json", filepath.Base(path))
	assert.True(t, FileExists(path))
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	store := NewTranscriptStore(dir, false)

	_, err := store.Save("bbbbbbbbbbb", "b", "", StatusUpdate{}, "")
	require.NoError(t, err)
	_, err = store.Save("aaaaaaaaaaa", "a", "", StatusUpdate{}, "")
	require.NoError(t, err)

	// Unrelated and corrupt files are skipped, not fatal
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transcript_ccccccccccc.json"), []byte("{broken"), 0644))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "aaaaaaaaaaa", records[0].VideoID)
	assert.Equal(t, "bbbbbbbbbbb", records[1].VideoID)
}

func TestStoreListEmptyDir(t *testing.T) {
	store := NewTranscriptStore(filepath.Join(t.TempDir(), "missing"), false)

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// UnknownTitle is the sentinel used when a video's title could not be determined.
const UnknownTitle = "Unknown Title"

// Status tracks how far a video has progressed through the pipeline.
// TranscriptExtracted is only ever set alongside a non-empty transcript.
// Embedded is NOT invalidated when the transcript is later replaced; only a
// forced re-embed reruns the ingestion step.
type Status struct {
	TranscriptExtracted bool   `json:"transcript_extracted"`
	Embedded            bool   `json:"embedded"`
	LastEmbedded        string `json:"last_embedded,omitempty"`
}

// VideoRecord is the persisted per-video state, one JSON file per video ID.
type VideoRecord struct {
	VideoID    string `json:"video_id"`
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
	Status     Status `json:"status"`
}

// StatusUpdate carries partial status changes for a Save call. Nil fields
// leave the stored value untouched.
type StatusUpdate struct {
	TranscriptExtracted *bool
	Embedded            *bool
	LastEmbedded        *string
}

// EmbeddingRecord is the side artifact written in vector mode. It is never
// read back into processing decisions; the record's embedded flag is the
// source of truth.
type EmbeddingRecord struct {
	VideoID    string    `json:"video_id"`
	Embeddings []float32 `json:"embeddings"`
	CreatedAt  string    `json:"created_at"`
}

// TranscriptStore persists one VideoRecord per video ID under a directory.
type TranscriptStore struct {
	dir     string
	verbose bool
}

// NewTranscriptStore creates a store rooted at dir
func NewTranscriptStore(dir string, verbose bool) *TranscriptStore {
	return &TranscriptStore{dir: dir, verbose: verbose}
}

func (s *TranscriptStore) recordPath(videoID string) string {
	return filepath.Join(s.dir, "transcript_"+videoID+".json")
}

func (s *TranscriptStore) embeddingPath(videoID string) string {
	return filepath.Join(s.dir, "embeddings_"+videoID+".json")
}

// Load returns the record for videoID, or (nil, nil) if none exists.
// A missing record is not an error.
func (s *TranscriptStore) Load(videoID string) (*VideoRecord, error) {
	path := s.recordPath(videoID)
	if !FileExists(path) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record for %s: %w", videoID, err)
	}

	var record VideoRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing record for %s: %w", videoID, err)
	}

	return &record, nil
}

// Save merges the supplied fields into the stored record and writes it back.
// Merge rules:
//   - transcript and timestamp are overwritten only when transcript is non-empty
//   - status fields are shallow-merged; untouched fields are preserved
//   - title is overwritten only when a real title is supplied and no real
//     title is already stored
//   - url always reflects the last URL used to reach the video
//
// Returns the path of the persisted file.
func (s *TranscriptStore) Save(videoID, transcript, url string, update StatusUpdate, title string) (string, error) {
	record, err := s.Load(videoID)
	if err != nil {
		return "", err
	}
	if record == nil {
		record = &VideoRecord{VideoID: videoID, URL: url}
	}

	if url != "" {
		record.URL = url
	}

	if transcript != "" {
		record.Transcript = transcript
		record.Timestamp = time.Now().Format(time.RFC3339)
	}

	if title != "" && title != UnknownTitle {
		if record.Title == "" || record.Title == UnknownTitle {
			record.Title = title
		}
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

	if err := EnsureDirs(s.dir); err != nil {
		return "", fmt.Errorf("creating records directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling record for %s: %w", videoID, err)
	}

	path := s.recordPath(videoID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("saving record for %s: %w", videoID, err)
	}

	if s.verbose {
		fmt.Printf("Saved record: %s\n", path)
	}

	return path, nil
}

// SaveEmbedding writes the embedding artifact for a video in vector mode
func (s *TranscriptStore) SaveEmbedding(videoID string, embeddings []float32) (string, error) {
	if err := EnsureDirs(s.dir); err != nil {
		return "", fmt.Errorf("creating records directory: %w", err)
	}

	artifact := EmbeddingRecord{
		VideoID:    videoID,
		Embeddings: embeddings,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling embeddings for %s: %w", videoID, err)
	}

	path := s.embeddingPath(videoID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("saving embeddings for %s: %w", videoID, err)
	}

	return path, nil
}

// List returns all stored records sorted by video ID
func (s *TranscriptStore) List() ([]*VideoRecord, error) {
	if !FileExists(s.dir) {
		return nil, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading records directory: %w", err)
	}

	var records []*VideoRecord
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "transcript_") || !strings.HasSuffix(name, ".json") {
			continue
		}

		videoID := strings.TrimSuffix(strings.TrimPrefix(name, "transcript_"), ".json")
		record, err := s.Load(videoID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping unreadable record %s: %v\n", name, err)
			continue
		}
		if record != nil {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].VideoID < records[j].VideoID })
	return records, nil
}

// boolPtr and strPtr build StatusUpdate fields
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

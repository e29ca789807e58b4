package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// FetchResult is the outcome of a caption fetch. Transcript is empty when no
// captions were found in any requested language; Title is always populated,
// falling back to the UnknownTitle sentinel.
type FetchResult struct {
	Transcript string
	Title      string
}

// Found reports whether a transcript was obtained
func (f FetchResult) Found() bool {
	return f.Transcript != ""
}

// CaptionFetcher downloads YouTube captions with yt-dlp and converts them to
// plain text. Manually provided captions are tried first in the requested
// language order, then auto-generated ones in the same order.
type CaptionFetcher struct {
	cacheDir string
	verbose  bool
}

// NewCaptionFetcher creates a fetcher that stages subtitle files under cacheDir
func NewCaptionFetcher(cacheDir string, verbose bool) *CaptionFetcher {
	return &CaptionFetcher{cacheDir: cacheDir, verbose: verbose}
}

// Fetch obtains the transcript and title for a video. A missing transcript is
// not an error: the result's Transcript is empty and Title carries whatever
// the metadata provided.
func (f *CaptionFetcher) Fetch(ctx context.Context, videoID string, languages []string) (FetchResult, error) {
	videoURL := "https://www.youtube.com/watch?v=" + videoID

	title, err := f.fetchTitle(ctx, videoURL)
	if err != nil {
		if f.verbose {
			fmt.Printf("Could not fetch title for %s: %v\n", videoID, err)
		}
		title = UnknownTitle
	}

	if err := EnsureDirs(f.cacheDir); err != nil {
		return FetchResult{Title: title}, fmt.Errorf("creating cache directory: %w", err)
	}

	// Manual captions first, then auto-generated, in the same language order
	text, err := f.downloadCaptions(ctx, videoURL, videoID, languages, false)
	if err != nil {
		return FetchResult{Title: title}, err
	}
	if text == "" {
		text, err = f.downloadCaptions(ctx, videoURL, videoID, languages, true)
		if err != nil {
			return FetchResult{Title: title}, err
		}
	}

	return FetchResult{Transcript: text, Title: title}, nil
}

// fetchTitle extracts the video title from yt-dlp metadata
func (f *CaptionFetcher) fetchTitle(ctx context.Context, videoURL string) (string, error) {
	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		return "", fmt.Errorf("extracting video metadata: %w", err)
	}

	var metadata struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &metadata); err != nil {
		return "", fmt.Errorf("parsing video metadata: %w", err)
	}

	if metadata.Title == "" {
		return UnknownTitle, nil
	}
	return metadata.Title, nil
}

// downloadCaptions runs yt-dlp for either manual or auto-generated subtitles
// and returns the cleaned transcript text for the first language that matched
func (f *CaptionFetcher) downloadCaptions(ctx context.Context, videoURL, videoID string, languages []string, auto bool) (string, error) {
	outputPath := filepath.Join(f.cacheDir, "%(id)s.%(ext)s")

	dl := ytdlp.New().
		SubLangs(strings.Join(languages, ",")).
		ConvertSubs("srt").
		SkipDownload().
		Output(outputPath)

	if auto {
		dl = dl.WriteAutoSubs()
	} else {
		dl = dl.WriteSubs()
	}

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		if f.verbose && result != nil {
			fmt.Printf("Subtitle download error: %v\nStderr: %s\n", err, result.Stderr)
		}
		return "", fmt.Errorf("downloading subtitles: %w", err)
	}

	// Pick the first requested language that produced a file
	for _, lang := range languages {
		path := filepath.Join(f.cacheDir, fmt.Sprintf("%s.%s.srt", videoID, lang))
		if !FileExists(path) {
			continue
		}
		text, err := f.processSrtFile(path)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	return "", nil
}

// processSrtFile converts an SRT file to clean plain text and removes the
// staged file afterwards
func (f *CaptionFetcher) processSrtFile(path string) (string, error) {
	if f.verbose {
		fmt.Printf("Processing SRT transcript: %s\n", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading SRT file: %w", err)
	}

	text := srtToText(string(content))

	if err := os.Remove(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to remove SRT file from cache: %v\n", err)
	}

	return text, nil
}

// srtToText extracts the spoken lines from SRT content, dropping sequence
// numbers, timestamps and consecutive duplicates
func srtToText(content string) string {
	lines := parseSRT(content)
	deduplicated := removeDuplicates(lines)

	var sb strings.Builder
	for i, line := range deduplicated {
		sb.WriteString(line)
		if i < len(deduplicated)-1 {
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}

// parseSRT extracts text content from SRT format
func parseSRT(content string) []string {
	var lines []string

	for block := range strings.SplitSeq(content, "\n\n") {
		blockLines := strings.Split(block, "\n")
		if len(blockLines) >= 3 {
			// Skip sequence number and timestamp, keep text lines
			for i := 2; i < len(blockLines); i++ {
				if strings.TrimSpace(blockLines[i]) != "" {
					lines = append(lines, strings.TrimSpace(blockLines[i]))
				}
			}
		}
	}

	return lines
}

// removeDuplicates eliminates consecutive repeated lines, which YouTube's
// rolling captions produce in large numbers
func removeDuplicates(lines []string) []string {
	result := make([]string, 0, len(lines))
	prevLine := ""

	for _, line := range lines {
		isDuplicate := prevLine != "" && (strings.Contains(line, prevLine) || strings.Contains(prevLine, line))
		if !isDuplicate {
			result = append(result, line)
		}
		prevLine = line
	}

	return result
}

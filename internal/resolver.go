package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// PlaylistEntry is one video of a playlist, in playlist order. Titles are
// returned explicitly here and threaded into the batch driver; there is no
// ambient title cache.
type PlaylistEntry struct {
	ID    string
	Title string
}

// Resolver extracts video and playlist identifiers from YouTube URLs and
// enumerates playlist contents.
type Resolver struct {
	verbose bool
}

// NewResolver creates a new Resolver
func NewResolver(verbose bool) *Resolver {
	return &Resolver{verbose: verbose}
}

var embedPathRe = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/)|youtu\.be/)([A-Za-z0-9_-]{11})`)

// ExtractVideoID extracts the video ID from a YouTube URL. The v parameter
// always wins over a list parameter on the same URL, and extracted IDs are
// checked against the fixed 11-character format.
func (r *Resolver) ExtractVideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	host := strings.TrimPrefix(u.Host, "www.")
	if host != "youtube.com" && host != "youtu.be" && host != "m.youtube.com" {
		return "", fmt.Errorf("not a YouTube URL: %s", rawURL)
	}

	if v := u.Query().Get("v"); v != "" {
		if !IsValidVideoID(v) {
			return "", fmt.Errorf("invalid video ID format: %s", v)
		}
		return v, nil
	}

	if host == "youtu.be" {
		if id := strings.Trim(u.Path, "/"); id != "" {
			if !IsValidVideoID(id) {
				return "", fmt.Errorf("invalid video ID format: %s", id)
			}
			return id, nil
		}
	}

	// Don't extract video IDs from playlist URLs
	if strings.Contains(u.Path, "/playlist") {
		return "", fmt.Errorf("playlist URL, not a video URL: %s", rawURL)
	}

	// Embed and other path forms as a fallback
	if m := embedPathRe.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}

	return "", fmt.Errorf("could not extract video ID from URL: %s", rawURL)
}

// IsPlaylistURL reports whether the URL refers to a playlist. A URL carrying
// both a v and a list parameter is a video URL: the video parameter wins.
func (r *Resolver) IsPlaylistURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	if u.Query().Get("v") != "" {
		return false
	}
	return u.Query().Get("list") != "" || strings.Contains(u.Path, "/playlist")
}

// ExtractPlaylistID extracts the playlist ID from a YouTube URL
func (r *Resolver) ExtractPlaylistID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	host := strings.TrimPrefix(u.Host, "www.")
	if host != "youtube.com" && host != "m.youtube.com" {
		return "", fmt.Errorf("not a YouTube URL: %s", rawURL)
	}

	if list := u.Query().Get("list"); list != "" {
		if IsValidPlaylistID(list) {
			return list, nil
		}
		return "", fmt.Errorf("invalid playlist ID format: %s", list)
	}

	return "", fmt.Errorf("could not extract playlist ID from URL: %s", rawURL)
}

// flatPlaylistEntry matches yt-dlp's flat-playlist JSON entries
type flatPlaylistEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type flatPlaylist struct {
	Title   string              `json:"title"`
	Entries []flatPlaylistEntry `json:"entries"`
}

// PlaylistVideos enumerates a playlist's videos in order via yt-dlp's
// flat-playlist dump. Entries are deduplicated by ID and filtered to
// well-formed 11-character video IDs; malformed upstream data degrades to a
// shorter (possibly empty) list rather than an error.
func (r *Resolver) PlaylistVideos(ctx context.Context, playlistID string) (string, []PlaylistEntry, error) {
	playlistURL := "https://www.youtube.com/playlist?list=" + playlistID

	if r.verbose {
		fmt.Printf("Enumerating playlist %s\n", playlistID)
	}

	dl := ytdlp.New().
		FlatPlaylist().
		DumpSingleJSON().
		SkipDownload()

	result, err := dl.Run(ctx, playlistURL)
	if err != nil {
		if r.verbose && result != nil {
			fmt.Printf("Playlist enumeration error: %v\nStderr: %s\n", err, result.Stderr)
		}
		return "", nil, fmt.Errorf("enumerating playlist %s: %w", playlistID, err)
	}

	var playlist flatPlaylist
	if err := json.Unmarshal([]byte(result.Stdout), &playlist); err != nil {
		return "", nil, fmt.Errorf("parsing playlist data: %w", err)
	}

	return playlist.Title, filterPlaylistEntries(playlist.Entries), nil
}

// filterPlaylistEntries deduplicates by ID and drops malformed IDs
func filterPlaylistEntries(raw []flatPlaylistEntry) []PlaylistEntry {
	seen := make(map[string]bool, len(raw))
	var entries []PlaylistEntry

	for _, entry := range raw {
		if !IsValidVideoID(entry.ID) || seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true

		title := entry.Title
		if title == "" {
			title = UnknownTitle
		}
		entries = append(entries, PlaylistEntry{ID: entry.ID, Title: title})
	}

	return entries
}

// NormalizeArg turns a raw CLI argument (URL, video ID or playlist ID) into
// a URL plus the extracted identifier
func (r *Resolver) NormalizeArg(arg string) (string, string) {
	if strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "http://") {
		if videoID, err := r.ExtractVideoID(arg); err == nil {
			return arg, videoID
		}
		if r.IsPlaylistURL(arg) {
			if playlistID, err := r.ExtractPlaylistID(arg); err == nil {
				return arg, playlistID
			}
		}
		return arg, arg
	}

	if IsValidPlaylistID(arg) {
		return "https://www.youtube.com/playlist?list=" + arg, arg
	}

	return "https://www.youtube.com/watch?v=" + arg, arg
}

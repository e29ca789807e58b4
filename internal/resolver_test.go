package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	r := NewResolver(false)

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "watch URL", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short URL", url: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "embed URL", url: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "mobile URL", url: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{
			name: "v parameter wins over list",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLote72xi9USAQ3328pkc9WrSJtcrcrDPF",
			want: "dQw4w9WgXcQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := r.ExtractVideoID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestExtractVideoIDErrors(t *testing.T) {
	r := NewResolver(false)

	_, err := r.ExtractVideoID("https://example.com/watch?v=dQw4w9WgXcQ")
	assert.Error(t, err)

	_, err = r.ExtractVideoID("https://www.youtube.com/playlist?list=PLote72xi9USAQ3328pkc9WrSJtcrcrDPF")
	assert.Error(t, err)

	// Malformed IDs are rejected at extraction, not handed to callers
	_, err = r.ExtractVideoID("https://www.youtube.com/watch?v=tooshort")
	assert.Error(t, err)

	_, err = r.ExtractVideoID("https://youtu.be/waytoolongforavideoid")
	assert.Error(t, err)
}

func TestIsPlaylistURL(t *testing.T) {
	r := NewResolver(false)

	assert.True(t, r.IsPlaylistURL("https://www.youtube.com/playlist?list=PLote72xi9USAQ3328pkc9WrSJtcrcrDPF"))
	assert.False(t, r.IsPlaylistURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))

	// A video opened from a playlist is still a video URL
	assert.False(t, r.IsPlaylistURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLote72xi9USAQ3328pkc9WrSJtcrcrDPF"))
}

func TestExtractPlaylistID(t *testing.T) {
	r := NewResolver(false)

	id, err := r.ExtractPlaylistID("https://www.youtube.com/playlist?list=PLote72xi9USAQ3328pkc9WrSJtcrcrDPF")
	require.NoError(t, err)
	assert.Equal(t, "PLote72xi9USAQ3328pkc9WrSJtcrcrDPF", id)

	_, err = r.ExtractPlaylistID("https://www.youtube.com/playlist?list=notaplaylist")
	assert.Error(t, err)
}

func TestFilterPlaylistEntries(t *testing.T) {
	raw := []flatPlaylistEntry{
		{ID: "aaaaaaaaaaa", Title: "First"},
		{ID: "aaaaaaaaaaa", Title: "Duplicate"},
		{ID: "short", Title: "Bad ID"},
		{ID: "bbbbbbbbbbb", Title: ""},
	}

	entries := filterPlaylistEntries(raw)
	require.Len(t, entries, 2)
	assert.Equal(t, PlaylistEntry{ID: "aaaaaaaaaaa", Title: "First"}, entries[0])
	assert.Equal(t, PlaylistEntry{ID: "bbbbbbbbbbb", Title: UnknownTitle}, entries[1])
}

func TestNormalizeArg(t *testing.T) {
	r := NewResolver(false)

	url, id := r.NormalizeArg("dQw4w9WgXcQ")
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", url)
	assert.Equal(t, "dQw4w9WgXcQ", id)

	url, id = r.NormalizeArg("PLote72xi9USAQ3328pkc9WrSJtcrcrDPF")
	assert.Equal(t, "https://www.youtube.com/playlist?list=PLote72xi9USAQ3328pkc9WrSJtcrcrDPF", url)
	assert.Equal(t, "PLote72xi9USAQ3328pkc9WrSJtcrcrDPF", id)

	url, id = r.NormalizeArg("https://youtu.be/dQw4w9WgXcQ")
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", url)
	assert.Equal(t, "dQw4w9WgXcQ", id)

	_, id = r.NormalizeArg("https://www.youtube.com/playlist?list=PLote72xi9USAQ3328pkc9WrSJtcrcrDPF")
	assert.Equal(t, "PLote72xi9USAQ3328pkc9WrSJtcrcrDPF", id)
}

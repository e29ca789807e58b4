package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleSRT = `1
00:00:00,000 --> 00:00:02,500
hello and welcome

2
00:00:02,500 --> 00:00:05,000
hello and welcome to the show

3
00:00:05,000 --> 00:00:08,000
today we talk about Go

4
00:00:08,000 --> 00:00:10,000
today we talk about Go
`

func TestParseSRT(t *testing.T) {
	lines := parseSRT(sampleSRT)
	assert.Equal(t, []string{
		"hello and welcome",
		"hello and welcome to the show",
		"today we talk about Go",
		"today we talk about Go",
	}, lines)
}

func TestParseSRTSkipsShortBlocks(t *testing.T) {
	assert.Empty(t, parseSRT("1\n00:00:00,000 --> 00:00:01,000"))
	assert.Empty(t, parseSRT(""))
}

func TestRemoveDuplicates(t *testing.T) {
	lines := []string{
		"hello and welcome",
		"hello and welcome to the show",
		"today we talk about Go",
		"today we talk about Go",
		"and something new",
	}

	// Rolling captions repeat and extend the previous line; both directions
	// of containment count as duplicates
	result := removeDuplicates(lines)
	assert.Equal(t, []string{
		"hello and welcome",
		"today we talk about Go",
		"and something new",
	}, result)
}

func TestSrtToText(t *testing.T) {
	text := srtToText(sampleSRT)
	assert.Equal(t, "hello and welcome\ntoday we talk about Go", text)
}

func TestFetchResultFound(t *testing.T) {
	assert.False(t, FetchResult{Title: "T"}.Found())
	assert.True(t, FetchResult{Transcript: "x"}.Found())
}

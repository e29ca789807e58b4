package internal

// SplitText slices text into fixed-size chunks in original order. Every chunk
// except possibly the last is exactly size characters; chunks carry no
// overlap, and their concatenation reproduces the input. Counting is by rune
// so multibyte text never straddles a chunk boundary.
func SplitText(text string, size int) []string {
	if size <= 0 || text == "" {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}

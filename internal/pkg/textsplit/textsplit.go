// Package textsplit cuts long text into bounded, overlapping chunks for
// embedding. Cuts seek the most natural boundary available inside the window:
// paragraph break, then line break, then sentence end, then word boundary,
// falling back to a hard cut.
package textsplit

import "strings"

const (
	defaultSize    = 500
	defaultOverlap = 50
)

// Split returns chunks of at most size runes, each carrying up to overlap
// runes of the previous chunk's tail. Chunks are whitespace-trimmed; empty
// chunks are dropped.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = defaultSize
	}
	if overlap < 0 {
		overlap = defaultOverlap
	}
	if overlap >= size {
		overlap = size / 2
	}

	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); {
		if len(runes)-i <= size {
			if c := strings.TrimSpace(string(runes[i:])); c != "" {
				chunks = append(chunks, c)
			}
			break
		}

		cut := boundary(runes[i : i+size])
		chunk := strings.TrimSpace(string(runes[i : i+cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := i + cut - overlap
		if next <= i {
			next = i + cut
		}
		i = next
	}
	return chunks
}

// boundary returns the cut length for the window, in runes. A boundary is only
// honored when it leaves a non-empty chunk behind.
func boundary(window []rune) int {
	s := string(window)
	if idx := strings.LastIndex(s, "\n\n"); idx > 0 {
		return len([]rune(s[:idx+2]))
	}
	if idx := strings.LastIndex(s, "\n"); idx > 0 {
		return len([]rune(s[:idx+1]))
	}
	if idx := strings.LastIndexAny(s, ".!?"); idx > 0 {
		return len([]rune(s[:idx+1]))
	}
	if idx := strings.LastIndex(s, " "); idx > 0 {
		return len([]rune(s[:idx+1]))
	}
	return len(window)
}

package rag

import "github.com/iliyamo/pdf-chat/internal/model"

// Chunking constants.  Segments of at most ChunkSize characters with
// ChunkOverlap characters shared between consecutive segments, so a fact
// straddling a cut still appears whole in one of the two segments.
const (
	ChunkSize    = 1000
	ChunkOverlap = 100
)

// Segment is one chunk of a fragment, the unit that gets embedded and
// indexed.  Source and Page are carried over from the originating fragment
// so answers can cite where context came from.
type Segment struct {
	Source string
	Page   int
	Text   string
}

// SplitText cuts text into chunks of at most size characters with the
// given overlap, preferring to cut on whitespace so words stay intact.
// Returns nil for empty input.
func SplitText(text string, size, overlap int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap >= size {
		overlap = size / 10
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		// Walk back from the hard limit to the nearest whitespace.
		cut := end
		for i := end; i > start; i-- {
			if c := text[i-1]; c == ' ' || c == '\n' || c == '\t' {
				cut = i
				break
			}
		}
		// No boundary found deep enough to make progress: hard cut.
		if cut <= start+overlap {
			cut = end
		}
		chunks = append(chunks, text[start:cut])

		next := cut - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// SplitFragments splits every fragment and tags each resulting segment
// with the fragment's source metadata.  Fragment order is preserved.
func SplitFragments(fragments []model.Fragment, size, overlap int) []Segment {
	var segments []Segment
	for _, f := range fragments {
		for _, chunk := range SplitText(f.Text, size, overlap) {
			segments = append(segments, Segment{Source: f.Source, Page: f.Page, Text: chunk})
		}
	}
	return segments
}

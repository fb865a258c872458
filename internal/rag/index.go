package rag

import (
	"math"
	"sort"
)

// Index is a brute-force in-memory similarity index over embedded
// segments.  Collections here are a handful of PDFs, so exact cosine
// search over all entries beats the operational cost of an external
// vector store.  The index is immutable after Build; a reindex replaces
// it wholesale.
type Index struct {
	entries []indexEntry
}

type indexEntry struct {
	segment Segment
	vector  []float32
}

// Hit is one search result: a segment and its cosine similarity to the
// query, higher is closer.
type Hit struct {
	Segment Segment
	Score   float64
}

// Add stores one embedded segment.
func (ix *Index) Add(seg Segment, vec []float32) {
	ix.entries = append(ix.entries, indexEntry{segment: seg, vector: vec})
}

// Len returns the number of stored segments.
func (ix *Index) Len() int { return len(ix.entries) }

// Search returns the k entries most similar to the query vector, ranked
// by descending cosine similarity.
func (ix *Index) Search(query []float32, k int) []Hit {
	hits := make([]Hit, 0, len(ix.entries))
	for _, e := range ix.entries {
		hits = append(hits, Hit{Segment: e.segment, Score: cosine(query, e.vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// cosine computes cosine similarity between two vectors.  Mismatched
// lengths or zero vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

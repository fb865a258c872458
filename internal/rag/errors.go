// Package rag builds and queries the retrieval pipeline: PDF text
// extraction, fixed-size chunking, embeddings, an in-memory similarity
// index and a conversational answering loop that retains prior turns.
package rag

import "errors"

// ErrEmptyCollection is returned by Build when the session has no document
// fragments to index.  Handlers should translate this into an HTTP 400
// response.
var ErrEmptyCollection = errors.New("document collection is empty")

// ErrNoPipeline is returned when a question is asked before any index has
// been built.  Handlers should translate this into an HTTP 409 response.
var ErrNoPipeline = errors.New("no pipeline built yet")

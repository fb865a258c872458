package model

// Fragment is one unit of extracted document text, typically a single PDF
// page.  Fragments accumulate on a session in upload order and are split
// into overlapping segments before embedding.
//
// Fields:
//
//	Source – original filename of the uploaded document.
//	Page   – 1-based page number within the source document.
//	Text   – extracted plain text of the page.
type Fragment struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
	Text   string `json:"text"`
}

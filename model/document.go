package model

// Document is a single retrievable unit of text. DocID is the external,
// caller-assigned identifier (e.g. a file stem); the engine maps it to a
// dense internal ID for posting lists.
type Document struct {
	DocID string `json:"doc_id"`
	Text  string `json:"text"`
}

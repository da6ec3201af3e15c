package index

// PostingEntry records every position at which a term occurs in one document.
// DocID is the internal numeric ID. Positions are dense post-normalization
// token positions (stop words removed before counting), strictly increasing.
type PostingEntry struct {
	DocID     uint32
	Positions []int
}

// PostingList is a slice of PostingEntry kept sorted by DocID ascending, so
// document-set intersections reduce to two-pointer merges.
type PostingList []PostingEntry

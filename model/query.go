package model

// QueryNodeKind discriminates the variants of an extended boolean query tree.
type QueryNodeKind string

const (
	QueryNodeTerm QueryNodeKind = "term"
	QueryNodeAnd  QueryNodeKind = "and"
	QueryNodeOr   QueryNodeKind = "or"
	QueryNodeNot  QueryNodeKind = "not"
)

// NearSpec annotates a term leaf with a proximity constraint against another
// term. The leaf's score becomes the fraction of its occurrences that satisfy
// the constraint instead of a binary 0/1.
type NearSpec struct {
	OtherTerm   string `json:"other_term"`
	MaxDistance int    `json:"max_distance"`
	Ordered     bool   `json:"ordered"`
}

// QueryNode is one node of an extended boolean query tree. Term leaves carry
// Kind == QueryNodeTerm; And/Or nodes carry Children and optional Weights
// (uniform when omitted); Not nodes carry exactly one child.
type QueryNode struct {
	Kind     QueryNodeKind `json:"kind"`
	Term     string        `json:"term,omitempty"`
	Near     *NearSpec     `json:"near,omitempty"`
	Children []*QueryNode  `json:"children,omitempty"`
	Weights  []float64     `json:"weights,omitempty"`
}

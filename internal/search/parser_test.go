package search

import (
	"reflect"
	"testing"

	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

func TestParseBooleanQuery(t *testing.T) {
	term := func(s string) *model.QueryNode {
		return &model.QueryNode{Kind: model.QueryNodeTerm, Term: s}
	}
	and := func(children ...*model.QueryNode) *model.QueryNode {
		return &model.QueryNode{Kind: model.QueryNodeAnd, Children: children}
	}
	or := func(children ...*model.QueryNode) *model.QueryNode {
		return &model.QueryNode{Kind: model.QueryNodeOr, Children: children}
	}
	not := func(child *model.QueryNode) *model.QueryNode {
		return &model.QueryNode{Kind: model.QueryNodeNot, Children: []*model.QueryNode{child}}
	}

	tests := []struct {
		name  string
		query string
		want  *model.QueryNode
	}{
		{
			name:  "bare term",
			query: "alpha",
			want:  term("alpha"),
		},
		{
			name:  "explicit and",
			query: "alpha AND beta",
			want:  and(term("alpha"), term("beta")),
		},
		{
			name:  "implicit and",
			query: "alpha beta",
			want:  and(term("alpha"), term("beta")),
		},
		{
			name:  "and binds tighter than or",
			query: "alpha AND beta OR gamma",
			want:  or(and(term("alpha"), term("beta")), term("gamma")),
		},
		{
			name:  "or after term",
			query: "alpha OR beta AND gamma",
			want:  or(term("alpha"), and(term("beta"), term("gamma"))),
		},
		{
			name:  "not binds tightest",
			query: "NOT alpha AND beta",
			want:  and(not(term("alpha")), term("beta")),
		},
		{
			name:  "implicit and before not",
			query: "information AND retrieval NOT boolean",
			want:  and(and(term("information"), term("retrieval")), not(term("boolean"))),
		},
		{
			name:  "left-associative and",
			query: "alpha beta gamma",
			want:  and(and(term("alpha"), term("beta")), term("gamma")),
		},
		{
			name:  "left-associative or",
			query: "alpha OR beta OR gamma",
			want:  or(or(term("alpha"), term("beta")), term("gamma")),
		},
		{
			name:  "double negation",
			query: "NOT NOT alpha",
			want:  not(not(term("alpha"))),
		},
		{
			name:  "keywords are case-sensitive",
			query: "alpha and beta",
			want:  and(and(term("alpha"), term("and")), term("beta")),
		},
		{
			name:  "lowercase not is a term",
			query: "not",
			want:  term("not"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBooleanQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseBooleanQuery(%q) error = %v", tt.query, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseBooleanQuery(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseBooleanQuery_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"leading and", "AND alpha"},
		{"trailing and", "alpha AND"},
		{"trailing or", "alpha OR"},
		{"bare not", "NOT"},
		{"not before operator", "NOT AND alpha"},
		{"doubled operator", "alpha AND OR beta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBooleanQuery(tt.query); err == nil {
				t.Errorf("ParseBooleanQuery(%q), wantErr, got nil", tt.query)
			}
		})
	}
}

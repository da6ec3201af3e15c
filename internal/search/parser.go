package search

import (
	"fmt"
	"strings"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// Textual boolean operators. The keywords are case-sensitive so that
// lowercase "and", "or", and "not" remain searchable terms.
const (
	opAnd = "AND"
	opOr  = "OR"
	opNot = "NOT"
)

// ParseBooleanQuery turns the flat textual form ("information AND retrieval
// NOT boolean") into a query tree. Precedence is NOT over AND over OR, left
// associative; adjacent terms imply AND. Parsed nodes carry no explicit
// weights, so evaluation treats every child as equally weighted. A bare term
// parses to a single leaf.
func ParseBooleanQuery(text string) (*model.QueryNode, error) {
	p := &queryParser{tokens: strings.Fields(text)}
	if len(p.tokens) == 0 {
		return nil, errors.NewInvalidQueryError("empty query")
	}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, errors.NewInvalidQueryError(fmt.Sprintf("unexpected token %q", tok))
	}
	return node, nil
}

type queryParser struct {
	tokens []string
	pos    int
}

func (p *queryParser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *queryParser) next() (string, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// parseOr handles the lowest level: and-expr (OR and-expr)*.
func (p *queryParser) parseOr() (*model.QueryNode, error) {
	node, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok != opOr {
			return node, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		node = &model.QueryNode{Kind: model.QueryNodeOr, Children: []*model.QueryNode{node, right}}
	}
}

// parseAnd handles not-expr ((AND)? not-expr)*; a term or NOT directly
// following another term implies AND.
func (p *queryParser) parseAnd() (*model.QueryNode, error) {
	node, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok == opOr {
			return node, nil
		}
		if tok == opAnd {
			p.pos++
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		node = &model.QueryNode{Kind: model.QueryNodeAnd, Children: []*model.QueryNode{node, right}}
	}
}

// parseNot handles NOT not-expr | term.
func (p *queryParser) parseNot() (*model.QueryNode, error) {
	tok, ok := p.next()
	if !ok {
		return nil, errors.NewInvalidQueryError("query ends where a term was expected")
	}
	switch tok {
	case opNot:
		child, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &model.QueryNode{Kind: model.QueryNodeNot, Children: []*model.QueryNode{child}}, nil
	case opAnd, opOr:
		return nil, errors.NewInvalidQueryError(fmt.Sprintf("operator %s where a term was expected", tok))
	default:
		return &model.QueryNode{Kind: model.QueryNodeTerm, Term: tok}, nil
	}
}

package parser

import (
	"io"

	verr "github.com/nihei9/cyk/error"
)

type RootNode struct {
	Directives     []*DirectiveNode
	Productions    []*ProductionNode
	LexProductions []*ProductionNode
}

type DirectiveNode struct {
	Name       string
	Parameters []*ParameterNode
	Pos        Position
}

type ParameterNode struct {
	ID  string
	Pos Position
}

type ProductionNode struct {
	Directives []*DirectiveNode
	LHS        string
	RHS        []*AlternativeNode
	Pos        Position
}

// isLexical reports whether the production defines a lexical kind, that is, whether it has exactly one
// alternative consisting of exactly one pattern.
func (p *ProductionNode) isLexical() bool {
	return len(p.RHS) == 1 && len(p.RHS[0].Elements) == 1 && p.RHS[0].Elements[0].Pattern != ""
}

type AlternativeNode struct {
	Elements []*ElementNode
	Pos      Position
}

// ElementNode is one of an identifier, a literal, or a pattern.
type ElementNode struct {
	ID      string
	Literal string
	Pattern string
	Pos     Position
}

func raiseSyntaxError(row, col int, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   row,
		Col:   col,
	})
}

// Parse parses a grammar description. Errors are reported as verr.SpecErrors.
func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parse()
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token

	// A token position that the parser read at last.
	// It is used as additional information in error messages.
	pos Position
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		specErr, ok := v.(*verr.SpecError)
		if !ok {
			panic(v)
		}
		root = nil
		retErr = verr.SpecErrors{specErr}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for {
		if p.consume(tokenKindEOF) {
			break
		}
		if dir := p.parseTopLevelDirective(); dir != nil {
			root.Directives = append(root.Directives, dir)
			continue
		}
		prod := p.parseProduction()
		if prod.isLexical() {
			root.LexProductions = append(root.LexProductions, prod)
		} else {
			root.Productions = append(root.Productions, prod)
		}
	}
	if len(root.Productions) == 0 {
		raiseSyntaxError(0, 0, synErrNoProduction)
	}
	return root
}

func (p *parser) parseTopLevelDirective() *DirectiveNode {
	if !p.consume(tokenKindDirectiveMarker) {
		return nil
	}
	dir := p.parseDirectiveBody()
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(p.pos.Row, p.pos.Col, synErrTopLevelDirNoSemicolon)
	}
	return dir
}

func (p *parser) parseDirectiveBody() *DirectiveNode {
	dirPos := p.lastTok.pos
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.pos.Row, p.pos.Col, synErrNoDirectiveName)
	}
	dir := &DirectiveNode{
		Name: p.lastTok.text,
		Pos:  dirPos,
	}
	for p.consume(tokenKindID) {
		dir.Parameters = append(dir.Parameters, &ParameterNode{
			ID:  p.lastTok.text,
			Pos: p.lastTok.pos,
		})
	}
	return dir
}

func (p *parser) parseProduction() *ProductionNode {
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.pos.Row, p.pos.Col, synErrNoProductionName)
	}
	prod := &ProductionNode{
		LHS: p.lastTok.text,
		Pos: p.lastTok.pos,
	}
	for p.consume(tokenKindDirectiveMarker) {
		// A production directive takes no parameters so that it cannot swallow the colon.
		dirPos := p.lastTok.pos
		if !p.consume(tokenKindID) {
			raiseSyntaxError(p.pos.Row, p.pos.Col, synErrNoDirectiveName)
		}
		prod.Directives = append(prod.Directives, &DirectiveNode{
			Name: p.lastTok.text,
			Pos:  dirPos,
		})
	}
	if !p.consume(tokenKindColon) {
		raiseSyntaxError(p.pos.Row, p.pos.Col, synErrNoColon)
	}
	prod.RHS = append(prod.RHS, p.parseAlternative())
	for p.consume(tokenKindOr) {
		prod.RHS = append(prod.RHS, p.parseAlternative())
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(p.pos.Row, p.pos.Col, synErrNoSemicolon)
	}

	if !prod.isLexical() {
		for _, alt := range prod.RHS {
			for _, elem := range alt.Elements {
				if elem.Pattern != "" {
					raiseSyntaxError(elem.Pos.Row, elem.Pos.Col, synErrPatternInAlt)
				}
			}
		}
	}

	return prod
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{
		Pos: p.pos,
	}
	for {
		elem := p.parseElement()
		if elem == nil {
			break
		}
		if len(alt.Elements) == 0 {
			alt.Pos = elem.Pos
		}
		alt.Elements = append(alt.Elements, elem)
	}
	return alt
}

func (p *parser) parseElement() *ElementNode {
	switch {
	case p.consume(tokenKindID):
		return &ElementNode{
			ID:  p.lastTok.text,
			Pos: p.lastTok.pos,
		}
	case p.consume(tokenKindLiteral):
		return &ElementNode{
			Literal: p.lastTok.text,
			Pos:     p.lastTok.pos,
		}
	case p.consume(tokenKindPattern):
		return &ElementNode{
			Pattern: p.lastTok.text,
			Pos:     p.lastTok.pos,
		}
	}
	return nil
}

func (p *parser) consume(expected tokenKind) bool {
	var tok *token
	var err error
	if p.peekedTok != nil {
		tok = p.peekedTok
		p.peekedTok = nil
	} else {
		tok, err = p.lex.next()
		if err != nil {
			if specErr, ok := err.(*verr.SpecError); ok {
				panic(specErr)
			}
			panic(&verr.SpecError{
				Cause: err,
				Row:   p.pos.Row,
				Col:   p.pos.Col,
			})
		}
	}
	if tok.kind != tokenKindEOF {
		p.pos = tok.pos
	}
	if tok.kind == tokenKindInvalid {
		panic(&verr.SpecError{
			Cause:  synErrInvalidToken,
			Detail: tok.text,
			Row:    tok.pos.Row,
			Col:    tok.pos.Col,
		})
	}
	if tok.kind == expected {
		p.lastTok = tok
		return true
	}
	p.peekedTok = tok

	return false
}

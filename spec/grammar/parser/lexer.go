package parser

import (
	"fmt"
	"io"
	"strings"
	"sync"

	verr "github.com/nihei9/cyk/error"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindID              = tokenKind("id")
	tokenKindLiteral         = tokenKind("literal")
	tokenKindPattern         = tokenKind("pattern")
	tokenKindColon           = tokenKind(":")
	tokenKindOr              = tokenKind("|")
	tokenKindSemicolon       = tokenKind(";")
	tokenKindDirectiveMarker = tokenKind("#")
	tokenKindEOF             = tokenKind("eof")
	tokenKindInvalid         = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newLiteralToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindLiteral,
		text: text,
		pos:  pos,
	}
}

func newPatternToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindPattern,
		text: text,
		pos:  pos,
	}
}

func newEOFToken() *token {
	return &token{
		kind: tokenKindEOF,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

// lexEntries describes the tokens of the grammar description language. A literal is quoted by ' and
// may contain the escape sequences \' and \\. A pattern is quoted by " and is passed to the lexer
// generator as is, except for \" that stands for a quotation mark.
var lexEntries = []*mlspec.LexEntry{
	{
		Kind:    "white_space",
		Pattern: `[\u{0009}\u{000A}\u{000D}\u{0020}]+`,
	},
	{
		Kind:    "line_comment",
		Pattern: `//[^\u{000A}\u{000D}]*`,
	},
	{
		Kind:    "identifier",
		Pattern: `[A-Za-z_][0-9A-Za-z_]*`,
	},
	{
		Kind:    "literal",
		Pattern: `'(\\[\\']|[^\\'\u{000A}\u{000D}])*'`,
	},
	{
		Kind:    "unclosed_literal",
		Pattern: `'(\\[\\']|[^\\'\u{000A}\u{000D}])*\\?`,
	},
	{
		Kind:    "pattern",
		Pattern: `"(\\[^\u{000A}\u{000D}]|[^\\"\u{000A}\u{000D}])*"`,
	},
	{
		Kind:    "unclosed_pattern",
		Pattern: `"(\\[^\u{000A}\u{000D}]|[^\\"\u{000A}\u{000D}])*\\?`,
	},
	{
		Kind:    "colon",
		Pattern: `:`,
	},
	{
		Kind:    "or",
		Pattern: `\|`,
	},
	{
		Kind:    "semicolon",
		Pattern: `;`,
	},
	{
		Kind:    "directive_marker",
		Pattern: `#`,
	},
}

var (
	lexSpec     *mlspec.CompiledLexSpec
	lexSpecErr  error
	lexSpecOnce sync.Once
)

func compiledLexSpec() (*mlspec.CompiledLexSpec, error) {
	lexSpecOnce.Do(func() {
		s, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
			Name:    "cyk_grammar",
			Entries: lexEntries,
		}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				fmt.Fprintf(&b, "%v: %v", cErrs[0].Kind, cErrs[0].Cause)
				for _, cErr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n%v: %v", cErr.Kind, cErr.Cause)
				}
				lexSpecErr = fmt.Errorf("cannot compile the lexical specification of the grammar language: %v", b.String())
				return
			}
			lexSpecErr = err
			return
		}
		lexSpec = s
	})
	return lexSpec, lexSpecErr
}

type lexer struct {
	s *mlspec.CompiledLexSpec
	d *mldriver.Lexer
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := compiledLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
		d: d,
	}, nil
}

func (l *lexer) next() (*token, error) {
	var tok *mldriver.Token
	var kind string
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return newEOFToken(), nil
		}
		pos := newPosition(tok.Row+1, tok.Col+1)
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), pos), nil
		}
		kind = l.s.KindNames[tok.KindID].String()
		switch kind {
		case "white_space", "line_comment":
			continue
		}
		break
	}

	pos := newPosition(tok.Row+1, tok.Col+1)
	text := string(tok.Lexeme)
	switch kind {
	case "identifier":
		return newIDToken(text, pos), nil
	case "literal":
		lit := unescapeLiteral(text[1 : len(text)-1])
		if lit == "" {
			return nil, &verr.SpecError{
				Cause: synErrEmptyLiteral,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return newLiteralToken(lit, pos), nil
	case "unclosed_literal":
		if strings.HasSuffix(text, `\`) {
			return nil, &verr.SpecError{
				Cause: synErrIncompletedEscSeq,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return nil, &verr.SpecError{
			Cause: synErrUnclosedLiteral,
			Row:   pos.Row,
			Col:   pos.Col,
		}
	case "pattern":
		// Escape sequences other than \" are interpreted by the lexer generator.
		pat := strings.ReplaceAll(text[1:len(text)-1], `\"`, `"`)
		if pat == "" {
			return nil, &verr.SpecError{
				Cause: synErrEmptyPattern,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return newPatternToken(pat, pos), nil
	case "unclosed_pattern":
		if strings.HasSuffix(text, `\`) {
			return nil, &verr.SpecError{
				Cause: synErrIncompletedEscSeq,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return nil, &verr.SpecError{
			Cause: synErrUnclosedPattern,
			Row:   pos.Row,
			Col:   pos.Col,
		}
	case "colon":
		return newSymbolToken(tokenKindColon, pos), nil
	case "or":
		return newSymbolToken(tokenKindOr, pos), nil
	case "semicolon":
		return newSymbolToken(tokenKindSemicolon, pos), nil
	case "directive_marker":
		return newSymbolToken(tokenKindDirectiveMarker, pos), nil
	default:
		return newInvalidToken(text, pos), nil
	}
}

func unescapeLiteral(s string) string {
	var b strings.Builder
	escaped := false
	for _, c := range s {
		if !escaped && c == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(c)
	}
	return b.String()
}

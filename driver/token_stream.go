package driver

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	spec "github.com/nihei9/cyk/spec/grammar"
	mldriver "github.com/nihei9/maleeni/driver"
)

// Token is a unit of input. Name is the text that terminal rules match, and Lexeme is the text the
// token was read from. A character token has the same Name and Lexeme, whereas a token of a named
// lexical kind is matched by the kind name.
type Token struct {
	Name    string
	Lexeme  string
	Row     int
	Col     int
	EOF     bool
	Invalid bool
}

type TokenStream interface {
	Next() (*Token, error)
}

type tokenStream struct {
	lex         *mldriver.Lexer
	kindToToken []string
	skip        []int
}

// NewTokenStream splits src with the lexer of a compiled grammar.
func NewTokenStream(cgram *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	lexSpec := cgram.LexicalSpecification
	if lexSpec == nil || lexSpec.Maleeni == nil {
		return nil, fmt.Errorf("the grammar has no lexical specification")
	}

	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(lexSpec.Maleeni.Spec), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:         lex,
		kindToToken: lexSpec.Maleeni.KindToToken,
		skip:        lexSpec.Maleeni.Skip,
	}, nil
}

func (s *tokenStream) Next() (*Token, error) {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return &Token{
				Row: tok.Row,
				Col: tok.Col,
				EOF: true,
			}, nil
		}
		if tok.Invalid {
			return &Token{
				Lexeme:  string(tok.Lexeme),
				Row:     tok.Row,
				Col:     tok.Col,
				Invalid: true,
			}, nil
		}
		if s.skip[tok.KindID] > 0 {
			continue
		}
		return &Token{
			Name:   s.kindToToken[tok.KindID],
			Lexeme: string(tok.Lexeme),
			Row:    tok.Row,
			Col:    tok.Col,
		}, nil
	}
}

type charTokenStream struct {
	src *bufio.Reader
	row int
	col int
}

// NewCharTokenStream makes every character of src a token of its own.
func NewCharTokenStream(src io.Reader) TokenStream {
	return &charTokenStream{
		src: bufio.NewReader(src),
	}
}

func (s *charTokenStream) Next() (*Token, error) {
	c, size, err := s.src.ReadRune()
	if err == io.EOF {
		return &Token{
			Row: s.row,
			Col: s.col,
			EOF: true,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	tok := &Token{
		Name:    string(c),
		Lexeme:  string(c),
		Row:     s.row,
		Col:     s.col,
		Invalid: c == utf8.RuneError && size == 1,
	}
	if c == '\n' {
		s.row++
		s.col = 0
	} else {
		s.col++
	}
	return tok, nil
}

// ReadTokens reads tokens up to the end of the stream. The EOF token is not included.
func ReadTokens(s TokenStream) ([]*Token, error) {
	var toks []*Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// Names returns the names of toks, that is, the input of the parser.
func Names(toks []*Token) []string {
	names := make([]string, len(toks))
	for i, tok := range toks {
		names[i] = tok.Name
	}
	return names
}

package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/cyk/grammar/symbol"
	"github.com/nihei9/cyk/spec/grammar/parser"
)

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, g *Grammar) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := g.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

func newTestSet(genSym testSymbolGenerator, texts ...string) *symbol.Set {
	s := symbol.NewSet()
	for _, text := range texts {
		s.Add(genSym(text))
	}
	return s
}

func buildGrammar(t *testing.T, src string) (*Grammar, error) {
	t.Helper()

	ast, err := parser.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse a grammar: %v", err)
	}
	b := &GrammarBuilder{
		AST: ast,
	}
	return b.Build()
}

// arithRules is a grammar of arithmetic expressions over single digits.
func arithRules() *Rules {
	rules := &Rules{
		Name:  "arith",
		Start: "S",
		Binaries: []BinaryRule{
			{LHS: "S", Left: "E", Right: "A"},
			{LHS: "S", Left: "T", Right: "B"},
			{LHS: "E", Left: "T", Right: "A"},
			{LHS: "E", Left: "T", Right: "C"},
			{LHS: "A", Left: "p", Right: "E"},
			{LHS: "C", Left: "m", Right: "E"},
			{LHS: "T", Left: "F", Right: "B"},
			{LHS: "T", Left: "F", Right: "D"},
			{LHS: "B", Left: "t", Right: "T"},
			{LHS: "D", Left: "d", Right: "T"},
			{LHS: "F", Left: "l", Right: "G"},
			{LHS: "G", Left: "E", Right: "r"},
			{LHS: "G", Left: "T", Right: "r"},
		},
		Units: []UnitRule{
			{LHS: "S", RHS: "E"},
			{LHS: "S", RHS: "T"},
			{LHS: "S", RHS: "F"},
			{LHS: "E", RHS: "T"},
			{LHS: "E", RHS: "F"},
			{LHS: "T", RHS: "F"},
			{LHS: "F", RHS: "a"},
		},
	}
	for _, d := range "0123456789" {
		rules.Terminals = append(rules.Terminals, TerminalRule{LHS: "a", Token: string(d)})
	}
	rules.Terminals = append(rules.Terminals,
		TerminalRule{LHS: "p", Token: "+"},
		TerminalRule{LHS: "m", Token: "-"},
		TerminalRule{LHS: "t", Token: "*"},
		TerminalRule{LHS: "d", Token: "/"},
		TerminalRule{LHS: "l", Token: "("},
		TerminalRule{LHS: "r", Token: ")"},
	)
	return rules
}

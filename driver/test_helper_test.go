package driver

import (
	"strings"
	"testing"

	"github.com/nihei9/cyk/grammar"
	"github.com/nihei9/cyk/grammar/symbol"
)

// arithRules is a grammar of arithmetic expressions over single digits.
func arithRules() *grammar.Rules {
	rules := &grammar.Rules{
		Name:  "arith",
		Start: "S",
		Binaries: []grammar.BinaryRule{
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
		Units: []grammar.UnitRule{
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
		rules.Terminals = append(rules.Terminals, grammar.TerminalRule{LHS: "a", Token: string(d)})
	}
	rules.Terminals = append(rules.Terminals,
		grammar.TerminalRule{LHS: "p", Token: "+"},
		grammar.TerminalRule{LHS: "m", Token: "-"},
		grammar.TerminalRule{LHS: "t", Token: "*"},
		grammar.TerminalRule{LHS: "d", Token: "/"},
		grammar.TerminalRule{LHS: "l", Token: "("},
		grammar.TerminalRule{LHS: "r", Token: ")"},
	)
	return rules
}

func newArithGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()

	g, err := grammar.New(arithRules())
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return g
}

// chars splits src into single-character tokens.
func chars(src string) []string {
	if src == "" {
		return nil
	}
	return strings.Split(src, "")
}

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, g *grammar.Grammar) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := g.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

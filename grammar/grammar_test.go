package grammar

import (
	"errors"
	"testing"

	"github.com/nihei9/cyk/grammar/symbol"
)

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		caption string
		rules   *Rules
		err     error
	}{
		{
			caption: "a grammar needs a start symbol",
			rules: &Rules{
				Terminals: []TerminalRule{
					{LHS: "S", Token: "a"},
				},
			},
			err: semErrNoStartSymbol,
		},
		{
			caption: "the LHS of a terminal rule must not be empty",
			rules: &Rules{
				Start: "S",
				Terminals: []TerminalRule{
					{LHS: "", Token: "a"},
				},
			},
			err: semErrEmptySymbol,
		},
		{
			caption: "the token of a terminal rule must not be empty",
			rules: &Rules{
				Start: "S",
				Terminals: []TerminalRule{
					{LHS: "S", Token: ""},
				},
			},
			err: semErrEmptyToken,
		},
		{
			caption: "a binary rule must name all of its symbols",
			rules: &Rules{
				Start: "S",
				Binaries: []BinaryRule{
					{LHS: "S", Left: "A", Right: ""},
				},
			},
			err: semErrEmptySymbol,
		},
		{
			caption: "a unit rule must name both of its symbols",
			rules: &Rules{
				Start: "S",
				Units: []UnitRule{
					{LHS: "", RHS: "A"},
				},
			},
			err: semErrEmptySymbol,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := New(tt.rules)
			if !errors.Is(err, tt.err) {
				t.Fatalf("unexpected error; want: %v, got: %v", tt.err, err)
			}
		})
	}
}

func TestNew_SymbolNumbering(t *testing.T) {
	rules := arithRules()
	g1, err := New(rules)
	if err != nil {
		t.Fatal(err)
	}

	reversed := arithRules()
	for i, j := 0, len(reversed.Binaries)-1; i < j; i, j = i+1, j-1 {
		reversed.Binaries[i], reversed.Binaries[j] = reversed.Binaries[j], reversed.Binaries[i]
	}
	for i, j := 0, len(reversed.Units)-1; i < j; i, j = i+1, j-1 {
		reversed.Units[i], reversed.Units[j] = reversed.Units[j], reversed.Units[i]
	}
	g2, err := New(reversed)
	if err != nil {
		t.Fatal(err)
	}

	if g1.StartSymbol().Num() != 1 {
		t.Fatalf("the start symbol must be numbered 1; got: %v", g1.StartSymbol().Num())
	}
	syms1 := g1.NonTerminals()
	syms2 := g2.NonTerminals()
	if len(syms1) != len(syms2) {
		t.Fatalf("unexpected symbol count; want: %v, got: %v", len(syms1), len(syms2))
	}
	for i := range syms1 {
		text1, _ := g1.ToText(syms1[i])
		text2, _ := g2.ToText(syms2[i])
		if text1 != text2 {
			t.Fatalf("unexpected symbol; want: %v, got: %v", text1, text2)
		}
	}
}

func TestGrammar_TerminalsProducing(t *testing.T) {
	g, err := New(arithRules())
	if err != nil {
		t.Fatal(err)
	}
	genSym := newTestSymbolGenerator(t, g)

	tests := []struct {
		token string
		syms  []string
	}{
		{
			token: "5",
			syms:  []string{"a"},
		},
		{
			token: "+",
			syms:  []string{"p"},
		},
		{
			token: "x",
			syms:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			expected := newTestSet(genSym, tt.syms...)
			actual := g.TerminalsProducing(tt.token)
			if !actual.Equal(expected) {
				t.Fatalf("unexpected producers; want: %v, got: %v", expected.Format(g.SymbolTable()), actual.Format(g.SymbolTable()))
			}
		})
	}

	// The result is a copy.
	g.TerminalsProducing("5").Add(genSym("S"))
	if g.TerminalsProducing("5").Contains(genSym("S")) {
		t.Fatalf("TerminalsProducing must not expose the internal set")
	}
}

func TestGrammar_MergeBinaryLHS(t *testing.T) {
	g, err := New(arithRules())
	if err != nil {
		t.Fatal(err)
	}
	genSym := newTestSymbolGenerator(t, g)

	tests := []struct {
		left    string
		right   string
		changed bool
		syms    []string
	}{
		{
			left:    "T",
			right:   "A",
			changed: true,
			syms:    []string{"E"},
		},
		{
			left:    "E",
			right:   "A",
			changed: true,
			syms:    []string{"S"},
		},
		{
			left:    "F",
			right:   "B",
			changed: true,
			syms:    []string{"T"},
		},
		{
			left:    "A",
			right:   "T",
			changed: false,
		},
		{
			left:    "a",
			right:   "p",
			changed: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.left+" "+tt.right, func(t *testing.T) {
			dst := symbol.NewSet()
			changed := g.MergeBinaryLHS(dst, genSym(tt.left), genSym(tt.right))
			if changed != tt.changed {
				t.Fatalf("unexpected result; want: %v, got: %v", tt.changed, changed)
			}
			expected := newTestSet(genSym, tt.syms...)
			if !dst.Equal(expected) {
				t.Fatalf("unexpected LHSs; want: %v, got: %v", expected.Format(g.SymbolTable()), dst.Format(g.SymbolTable()))
			}
			if g.MergeBinaryLHS(dst, genSym(tt.left), genSym(tt.right)) {
				t.Fatalf("merging the same pair twice must not change the set")
			}
		})
	}
}

func TestGrammar_MergeBinaryLHS_SharedPair(t *testing.T) {
	g, err := New(&Rules{
		Start: "S",
		Binaries: []BinaryRule{
			{LHS: "S", Left: "X", Right: "C"},
			{LHS: "X", Left: "B", Right: "C"},
			{LHS: "Y", Left: "B", Right: "C"},
		},
		Terminals: []TerminalRule{
			{LHS: "B", Token: "b"},
			{LHS: "C", Token: "c"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	genSym := newTestSymbolGenerator(t, g)

	dst := symbol.NewSet(genSym("S"))
	if !g.MergeBinaryLHS(dst, genSym("B"), genSym("C")) {
		t.Fatalf("merging a pair derived by rules must change the set")
	}
	expected := newTestSet(genSym, "S", "X", "Y")
	if !dst.Equal(expected) {
		t.Fatalf("unexpected LHSs; want: %v, got: %v", expected.Format(g.SymbolTable()), dst.Format(g.SymbolTable()))
	}

	dst = symbol.NewSet()
	g.MergeBinaryLHS(dst, genSym("X"), genSym("C"))
	expected = newTestSet(genSym, "S")
	if !dst.Equal(expected) {
		t.Fatalf("unexpected LHSs; want: %v, got: %v", expected.Format(g.SymbolTable()), dst.Format(g.SymbolTable()))
	}
}

func TestGrammar_UnitClosure(t *testing.T) {
	g, err := New(arithRules())
	if err != nil {
		t.Fatal(err)
	}
	genSym := newTestSymbolGenerator(t, g)

	tests := []struct {
		caption  string
		syms     []string
		expected []string
	}{
		{
			caption:  "a digit climbs up to the start symbol",
			syms:     []string{"a"},
			expected: []string{"a", "F", "T", "E", "S"},
		},
		{
			caption:  "an operator has no unit rules",
			syms:     []string{"p"},
			expected: []string{"p"},
		},
		{
			caption:  "an empty set stays empty",
			syms:     nil,
			expected: nil,
		},
		{
			caption:  "a term reaches only the symbols above it",
			syms:     []string{"T", "B"},
			expected: []string{"T", "E", "S", "B"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			input := newTestSet(genSym, tt.syms...)
			closure := g.UnitClosure(input)
			expected := newTestSet(genSym, tt.expected...)
			if !closure.Equal(expected) {
				t.Fatalf("unexpected closure; want: %v, got: %v", expected.Format(g.SymbolTable()), closure.Format(g.SymbolTable()))
			}
			if !input.Equal(newTestSet(genSym, tt.syms...)) {
				t.Fatalf("UnitClosure must not modify its argument")
			}
			if !input.IsSubsetOf(closure) {
				t.Fatalf("a closure must contain its argument")
			}
			if !g.UnitClosure(closure).Equal(closure) {
				t.Fatalf("a closure must be idempotent")
			}
		})
	}
}

func TestGrammar_UnitClosure_Monotonic(t *testing.T) {
	g, err := New(arithRules())
	if err != nil {
		t.Fatal(err)
	}
	genSym := newTestSymbolGenerator(t, g)

	small := g.UnitClosure(newTestSet(genSym, "F"))
	large := g.UnitClosure(newTestSet(genSym, "F", "p", "G"))
	if !small.IsSubsetOf(large) {
		t.Fatalf("a closure must be monotonic; %v is not a subset of %v", small.Format(g.SymbolTable()), large.Format(g.SymbolTable()))
	}
}

func TestGrammar_UnitClosure_Cycle(t *testing.T) {
	g, err := New(&Rules{
		Start: "S",
		Terminals: []TerminalRule{
			{LHS: "C", Token: "c"},
		},
		Units: []UnitRule{
			{LHS: "S", RHS: "A"},
			{LHS: "A", RHS: "B"},
			{LHS: "B", RHS: "A"},
			{LHS: "B", RHS: "C"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	genSym := newTestSymbolGenerator(t, g)

	closure := g.UnitClosure(newTestSet(genSym, "C"))
	expected := newTestSet(genSym, "S", "A", "B", "C")
	if !closure.Equal(expected) {
		t.Fatalf("unexpected closure; want: %v, got: %v", expected.Format(g.SymbolTable()), closure.Format(g.SymbolTable()))
	}
}

func TestGrammar_UnitClosure_OrderIndependent(t *testing.T) {
	units := []UnitRule{
		{LHS: "S", RHS: "A"},
		{LHS: "A", RHS: "B"},
		{LHS: "B", RHS: "C"},
		{LHS: "C", RHS: "D"},
	}
	var reversed []UnitRule
	for i := len(units) - 1; i >= 0; i-- {
		reversed = append(reversed, units[i])
	}

	for _, us := range [][]UnitRule{units, reversed} {
		g, err := New(&Rules{
			Start: "S",
			Terminals: []TerminalRule{
				{LHS: "D", Token: "d"},
			},
			Units: us,
		})
		if err != nil {
			t.Fatal(err)
		}
		genSym := newTestSymbolGenerator(t, g)

		closure := g.UnitClosure(g.TerminalsProducing("d"))
		expected := newTestSet(genSym, "S", "A", "B", "C", "D")
		if !closure.Equal(expected) {
			t.Fatalf("unexpected closure; want: %v, got: %v", expected.Format(g.SymbolTable()), closure.Format(g.SymbolTable()))
		}
	}
}

func TestGrammar_Warnings(t *testing.T) {
	tests := []struct {
		caption  string
		rules    *Rules
		warnings []string
	}{
		{
			caption:  "a well-formed grammar has no warnings",
			rules:    arithRules(),
			warnings: nil,
		},
		{
			caption: "references to symbols without rules",
			rules: &Rules{
				Start: "S",
				Binaries: []BinaryRule{
					{LHS: "S", Left: "A", Right: "B"},
				},
				Terminals: []TerminalRule{
					{LHS: "A", Token: "a"},
				},
			},
			warnings: []string{
				"a symbol is referenced but has no rules: B",
			},
		},
		{
			caption: "a start symbol without rules",
			rules: &Rules{
				Start: "S",
				Terminals: []TerminalRule{
					{LHS: "A", Token: "a"},
				},
			},
			warnings: []string{
				"the start symbol has no rules: S",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g, err := New(tt.rules)
			if err != nil {
				t.Fatal(err)
			}
			warnings := g.Warnings()
			if len(warnings) != len(tt.warnings) {
				t.Fatalf("unexpected warnings; want: %v, got: %v", tt.warnings, warnings)
			}
			for i, w := range tt.warnings {
				if warnings[i] != w {
					t.Fatalf("unexpected warning; want: %v, got: %v", w, warnings[i])
				}
			}
		})
	}
}

func TestGrammar_DefaultName(t *testing.T) {
	g, err := New(&Rules{
		Start: "S",
		Terminals: []TerminalRule{
			{LHS: "S", Token: "a"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if g.Name() != "grammar" {
		t.Fatalf("unexpected name; want: grammar, got: %v", g.Name())
	}
}

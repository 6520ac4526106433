package grammar

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/cyk/grammar/symbol"
	spec "github.com/nihei9/cyk/spec/grammar"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

const lexSpecName = "cyk_input"

// Compile converts a grammar into its portable form. Every literal token becomes an anonymous lexical
// kind and every named lexical kind keeps its pattern, so that the compiled grammar carries a lexer
// that splits source text into the tokens the terminal rules match.
func Compile(gram *Grammar) (*spec.CompiledGrammar, error) {
	cgram := &spec.CompiledGrammar{
		Name:         gram.name,
		StartSymbol:  gram.start.Num().Int(),
		NonTerminals: gram.symTab.Texts(),
	}
	for _, rule := range gram.termRules {
		cgram.TerminalRules = append(cgram.TerminalRules, &spec.TerminalRule{
			LHS:   rule.LHS.Num().Int(),
			Token: rule.Token,
		})
	}
	for _, rule := range gram.binRules {
		cgram.BinaryRules = append(cgram.BinaryRules, &spec.BinaryRule{
			LHS:   rule.LHS.Num().Int(),
			Left:  rule.Left.Num().Int(),
			Right: rule.Right.Num().Int(),
		})
	}
	for _, rule := range gram.unitRules {
		cgram.UnitRules = append(cgram.UnitRules, &spec.UnitRule{
			LHS: rule.LHS.Num().Int(),
			RHS: rule.RHS.Num().Int(),
		})
	}

	lexSpec, err := genLexicalSpecification(gram)
	if err != nil {
		return nil, err
	}
	cgram.LexicalSpecification = lexSpec

	return cgram, nil
}

func genLexicalSpecification(gram *Grammar) (*spec.LexicalSpecification, error) {
	kindNames := map[string]struct{}{}
	for _, kind := range gram.lexKinds {
		kindNames[kind.Name] = struct{}{}
	}

	// Anonymous patterns take precedence over named patterns, so they are registered first.
	var entries []*mlspec.LexEntry
	kind2Tok := map[mlspec.LexKindName]string{}
	for _, tok := range gram.Tokens() {
		if _, ok := kindNames[tok]; ok {
			continue
		}
		kind := mlspec.LexKindName(fmt.Sprintf("x_%v", len(entries)+1))
		entries = append(entries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(mlspec.EscapePattern(tok)),
		})
		kind2Tok[kind] = tok
	}
	skipKinds := map[mlspec.LexKindName]struct{}{}
	for _, kind := range gram.lexKinds {
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(kind.Name),
			Pattern: mlspec.LexPattern(kind.Pattern),
		})
		kind2Tok[mlspec.LexKindName(kind.Name)] = kind.Name
		if kind.Skip {
			skipKinds[mlspec.LexKindName(kind.Name)] = struct{}{}
		}
	}
	if len(entries) == 0 {
		return nil, nil
	}

	lexSpec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    lexSpecName,
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}

	kindToToken := make([]string, len(lexSpec.KindNames))
	skip := make([]int, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		if k == mlspec.LexKindNameNil {
			continue
		}
		tok, ok := kind2Tok[k]
		if !ok {
			return nil, fmt.Errorf("lexical kind '%v' was not found in the grammar", k)
		}
		kindToToken[i] = tok
		if _, ok := skipKinds[k]; ok {
			skip[i] = 1
		}
	}

	var kinds []*spec.LexKind
	for _, kind := range gram.lexKinds {
		kinds = append(kinds, &spec.LexKind{
			Name:    kind.Name,
			Pattern: kind.Pattern,
			Skip:    kind.Skip,
		})
	}

	return &spec.LexicalSpecification{
		Lexer:    "maleeni",
		LexKinds: kinds,
		Maleeni: &spec.Maleeni{
			Spec:        lexSpec,
			KindToToken: kindToToken,
			Skip:        skip,
		},
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

// Load restores a grammar from its portable form.
func Load(cgram *spec.CompiledGrammar) (*Grammar, error) {
	texts := cgram.NonTerminals
	if len(texts) < 2 {
		return nil, fmt.Errorf("a compiled grammar needs at least one non-terminal")
	}
	known := map[string]struct{}{}
	for _, text := range texts[1:] {
		if _, ok := known[text]; ok {
			return nil, fmt.Errorf("a non-terminal is duplicated: %v", text)
		}
		known[text] = struct{}{}
	}
	toText := func(num int) (string, error) {
		if num <= 0 || num >= len(texts) {
			return "", fmt.Errorf("a symbol number is out of range: %v", num)
		}
		return texts[num], nil
	}

	rules := &Rules{
		Name: cgram.Name,
	}
	var err error
	rules.Start, err = toText(cgram.StartSymbol)
	if err != nil {
		return nil, err
	}
	for _, r := range cgram.TerminalRules {
		lhs, err := toText(r.LHS)
		if err != nil {
			return nil, err
		}
		rules.Terminals = append(rules.Terminals, TerminalRule{
			LHS:   lhs,
			Token: r.Token,
		})
	}
	for _, r := range cgram.BinaryRules {
		var syms [3]string
		for i, num := range []int{r.LHS, r.Left, r.Right} {
			syms[i], err = toText(num)
			if err != nil {
				return nil, err
			}
		}
		rules.Binaries = append(rules.Binaries, BinaryRule{
			LHS:   syms[0],
			Left:  syms[1],
			Right: syms[2],
		})
	}
	for _, r := range cgram.UnitRules {
		lhs, err := toText(r.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := toText(r.RHS)
		if err != nil {
			return nil, err
		}
		rules.Units = append(rules.Units, UnitRule{
			LHS: lhs,
			RHS: rhs,
		})
	}

	var kinds []*LexKind
	if lexSpec := cgram.LexicalSpecification; lexSpec != nil {
		for _, k := range lexSpec.LexKinds {
			if k.Name == "" || k.Pattern == "" {
				return nil, fmt.Errorf("a lexical kind needs a name and a pattern: %+v", k)
			}
			kinds = append(kinds, &LexKind{
				Name:    k.Name,
				Pattern: k.Pattern,
				Skip:    k.Skip,
			})
		}
	}

	return newGrammar(rules, texts[1:], kinds)
}

// Describe summarizes a grammar in a readable form.
func Describe(gram *Grammar) *spec.Description {
	desc := &spec.Description{
		Name:     gram.name,
		Warnings: gram.warnings,
	}
	for _, sym := range gram.NonTerminals() {
		desc.NonTerminals = append(desc.NonTerminals, &spec.NonTerminal{
			Number: sym.Num().Int(),
			Name:   gram.text(sym),
			Start:  sym == gram.start,
		})
	}

	kindNames := map[string]struct{}{}
	for _, kind := range gram.lexKinds {
		kindNames[kind.Name] = struct{}{}
	}
	for _, tok := range gram.Tokens() {
		t := &spec.Token{
			Text: tok,
		}
		if _, ok := kindNames[tok]; ok {
			t.Kind = tok
		}
		gram.terminals[tok].Each(func(sym symbol.Symbol) {
			t.Producers = append(t.Producers, sym.Num().Int())
		})
		desc.Tokens = append(desc.Tokens, t)
	}

	for _, rule := range gram.binRules {
		desc.BinaryRules = append(desc.BinaryRules, &spec.Rule{
			LHS: rule.LHS.Num().Int(),
			RHS: []int{rule.Left.Num().Int(), rule.Right.Num().Int()},
		})
	}
	for _, rule := range gram.unitRules {
		desc.UnitRules = append(desc.UnitRules, &spec.Rule{
			LHS: rule.LHS.Num().Int(),
			RHS: []int{rule.RHS.Num().Int()},
		})
	}

	return desc
}

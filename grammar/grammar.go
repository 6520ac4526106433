package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/cyk/compressor"
	"github.com/nihei9/cyk/grammar/symbol"
)

const defaultGrammarName = "grammar"

// TerminalRule is a rule LHS -> Token.
type TerminalRule struct {
	LHS   string
	Token string
}

// BinaryRule is a rule LHS -> Left Right.
type BinaryRule struct {
	LHS   string
	Left  string
	Right string
}

// UnitRule is a rule LHS -> RHS where RHS is a non-terminal.
type UnitRule struct {
	LHS string
	RHS string
}

// Rules is a grammar written as plain rule lists.
type Rules struct {
	Name      string
	Start     string
	Terminals []TerminalRule
	Binaries  []BinaryRule
	Units     []UnitRule
}

type TerminalProduction struct {
	LHS   symbol.Symbol
	Token string
}

type BinaryProduction struct {
	LHS   symbol.Symbol
	Left  symbol.Symbol
	Right symbol.Symbol
}

type UnitProduction struct {
	LHS symbol.Symbol
	RHS symbol.Symbol
}

// LexKind is a named lexical kind. A terminal rule matches a token of the kind by the kind name.
type LexKind struct {
	Name    string
	Pattern string
	Skip    bool
}

// Grammar is an immutable CNF grammar extended with unit rules. All methods are safe for concurrent use.
type Grammar struct {
	name      string
	symTab    *symbol.SymbolTableReader
	start     symbol.Symbol
	termRules []TerminalProduction
	binRules  []BinaryProduction
	unitRules []UnitProduction
	lexKinds  []*LexKind
	warnings  []string

	// terminals maps a token to the non-terminals producing it directly.
	terminals map[string]*symbol.Set

	// unitEdges maps the RHS of unit rules to their LHSs; unitEdges[B] lists every A such that A -> B.
	unitEdges [][]symbol.Symbol

	// pairs maps (B, C) to an index of pairLHS that holds every A such that A -> B C. The entry 0 means
	// no rule derives the pair.
	pairs   compressor.Compressor
	pairLHS []*symbol.Set
}

// New builds a grammar from rule lists. Only the shape of the rules is validated: every rule must name
// its symbols, every terminal rule needs a token, and the start symbol must be given. References to
// symbols that no rule defines are reported by Warnings, not as errors.
func New(rules *Rules) (*Grammar, error) {
	if rules.Start == "" {
		return nil, semErrNoStartSymbol
	}
	for i, r := range rules.Terminals {
		if r.LHS == "" {
			return nil, fmt.Errorf("%w: terminal rule #%v", semErrEmptySymbol, i+1)
		}
		if r.Token == "" {
			return nil, fmt.Errorf("%w: terminal rule #%v", semErrEmptyToken, i+1)
		}
	}
	for i, r := range rules.Binaries {
		if r.LHS == "" || r.Left == "" || r.Right == "" {
			return nil, fmt.Errorf("%w: binary rule #%v", semErrEmptySymbol, i+1)
		}
	}
	for i, r := range rules.Units {
		if r.LHS == "" || r.RHS == "" {
			return nil, fmt.Errorf("%w: unit rule #%v", semErrEmptySymbol, i+1)
		}
	}

	return newGrammar(rules, orderSymbols(rules), nil)
}

// orderSymbols lists the start symbol first and the other non-terminals in lexical order, so that
// symbol numbers do not depend on the order of rules.
func orderSymbols(rules *Rules) []string {
	known := map[string]struct{}{
		rules.Start: {},
	}
	var texts []string
	add := func(text string) {
		if _, ok := known[text]; ok {
			return
		}
		known[text] = struct{}{}
		texts = append(texts, text)
	}
	for _, r := range rules.Terminals {
		add(r.LHS)
	}
	for _, r := range rules.Binaries {
		add(r.LHS)
		add(r.Left)
		add(r.Right)
	}
	for _, r := range rules.Units {
		add(r.LHS)
		add(r.RHS)
	}
	sort.Strings(texts)
	return append([]string{rules.Start}, texts...)
}

func newGrammar(rules *Rules, symOrder []string, lexKinds []*LexKind) (*Grammar, error) {
	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()
	for _, text := range symOrder {
		_, err := w.Register(text)
		if err != nil {
			return nil, err
		}
	}
	r := symTab.Reader()
	toSym := func(text string) (symbol.Symbol, error) {
		sym, ok := r.ToSymbol(text)
		if !ok {
			return symbol.SymbolNil, fmt.Errorf("symbol was not found in a symbol table: %v", text)
		}
		return sym, nil
	}

	start, err := toSym(rules.Start)
	if err != nil {
		return nil, err
	}

	g := &Grammar{
		name:      rules.Name,
		symTab:    r,
		start:     start,
		lexKinds:  lexKinds,
		terminals: map[string]*symbol.Set{},
		unitEdges: make([][]symbol.Symbol, r.Count()+1),
	}
	if g.name == "" {
		g.name = defaultGrammarName
	}

	for _, rule := range rules.Terminals {
		lhs, err := toSym(rule.LHS)
		if err != nil {
			return nil, err
		}
		g.termRules = append(g.termRules, TerminalProduction{
			LHS:   lhs,
			Token: rule.Token,
		})
		producers, ok := g.terminals[rule.Token]
		if !ok {
			producers = symbol.NewSet()
			g.terminals[rule.Token] = producers
		}
		producers.Add(lhs)
	}

	for _, rule := range rules.Binaries {
		lhs, err := toSym(rule.LHS)
		if err != nil {
			return nil, err
		}
		left, err := toSym(rule.Left)
		if err != nil {
			return nil, err
		}
		right, err := toSym(rule.Right)
		if err != nil {
			return nil, err
		}
		g.binRules = append(g.binRules, BinaryProduction{
			LHS:   lhs,
			Left:  left,
			Right: right,
		})
	}

	for _, rule := range rules.Units {
		lhs, err := toSym(rule.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := toSym(rule.RHS)
		if err != nil {
			return nil, err
		}
		g.unitRules = append(g.unitRules, UnitProduction{
			LHS: lhs,
			RHS: rhs,
		})
		g.unitEdges[rhs] = append(g.unitEdges[rhs], lhs)
	}

	err = g.genPairTable()
	if err != nil {
		return nil, err
	}

	g.warnings = g.checkReferences()

	return g, nil
}

func (g *Grammar) genPairTable() error {
	symCount := g.symTab.Count()
	entries := make([]int, symCount*symCount)
	g.pairLHS = []*symbol.Set{
		nil, // No rule
	}
	for _, rule := range g.binRules {
		idx := (rule.Left.Num().Int()-1)*symCount + rule.Right.Num().Int() - 1
		if entries[idx] == 0 {
			entries[idx] = len(g.pairLHS)
			g.pairLHS = append(g.pairLHS, symbol.NewSet())
		}
		g.pairLHS[entries[idx]].Add(rule.LHS)
	}

	orig, err := compressor.NewOriginalTable(entries, symCount)
	if err != nil {
		return err
	}
	g.pairs, err = compressor.Smallest(orig, compressor.NewRowDisplacementTable(0), compressor.NewUniqueEntriesTable())
	if err != nil {
		return err
	}

	return nil
}

// checkReferences reports symbols that appear on the right-hand side of a rule but have no rule of
// their own. Such symbols never derive anything.
func (g *Grammar) checkReferences() []string {
	defined := symbol.NewSet()
	for _, rule := range g.termRules {
		defined.Add(rule.LHS)
	}
	for _, rule := range g.binRules {
		defined.Add(rule.LHS)
	}
	for _, rule := range g.unitRules {
		defined.Add(rule.LHS)
	}

	referenced := symbol.NewSet()
	for _, rule := range g.binRules {
		referenced.Add(rule.Left)
		referenced.Add(rule.Right)
	}
	for _, rule := range g.unitRules {
		referenced.Add(rule.RHS)
	}

	var warnings []string
	if !defined.Contains(g.start) {
		warnings = append(warnings, fmt.Sprintf("the start symbol has no rules: %v", g.text(g.start)))
	}
	referenced.Each(func(sym symbol.Symbol) {
		if defined.Contains(sym) || sym == g.start {
			return
		}
		warnings = append(warnings, fmt.Sprintf("a symbol is referenced but has no rules: %v", g.text(sym)))
	})
	return warnings
}

func (g *Grammar) text(sym symbol.Symbol) string {
	text, ok := g.symTab.ToText(sym)
	if !ok {
		return sym.String()
	}
	return text
}

func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) StartSymbol() symbol.Symbol {
	return g.start
}

// TerminalsProducing returns the non-terminals that have a terminal rule matching the token. The result is
// an empty set when no rule matches.
func (g *Grammar) TerminalsProducing(token string) *symbol.Set {
	producers, ok := g.terminals[token]
	if !ok {
		return symbol.NewSet()
	}
	return producers.Clone()
}

func (g *Grammar) TerminalRules() []TerminalProduction {
	return append([]TerminalProduction{}, g.termRules...)
}

func (g *Grammar) BinaryRules() []BinaryProduction {
	return append([]BinaryProduction{}, g.binRules...)
}

func (g *Grammar) UnitRules() []UnitProduction {
	return append([]UnitProduction{}, g.unitRules...)
}

// MergeBinaryLHS adds every A such that A -> left right to dst and reports whether dst changed.
func (g *Grammar) MergeBinaryLHS(dst *symbol.Set, left, right symbol.Symbol) bool {
	if left.IsNil() || right.IsNil() {
		return false
	}
	idx, err := g.pairs.Lookup(left.Num().Int()-1, right.Num().Int()-1)
	if err != nil || idx == 0 {
		return false
	}
	return dst.Merge(g.pairLHS[idx])
}

// UnitClosure returns the smallest superset of syms that contains A whenever it contains B and the
// grammar has A -> B. It follows unit rules backwards from every member breadth-first, so each
// symbol is visited once regardless of how the unit rules are ordered or whether they form cycles.
func (g *Grammar) UnitClosure(syms *symbol.Set) *symbol.Set {
	closure := syms.Clone()
	queue := closure.Symbols()
	for len(queue) > 0 {
		sym := queue[0]
		queue = queue[1:]
		if sym.Num().Int() >= len(g.unitEdges) {
			continue
		}
		for _, lhs := range g.unitEdges[sym] {
			if closure.Add(lhs) {
				queue = append(queue, lhs)
			}
		}
	}
	return closure
}

func (g *Grammar) ToSymbol(text string) (symbol.Symbol, bool) {
	return g.symTab.ToSymbol(text)
}

func (g *Grammar) ToText(sym symbol.Symbol) (string, bool) {
	return g.symTab.ToText(sym)
}

// SymbolTable returns a reader of the symbol table. Callers must not register symbols through it.
func (g *Grammar) SymbolTable() *symbol.SymbolTableReader {
	return g.symTab
}

func (g *Grammar) NonTerminals() []symbol.Symbol {
	return g.symTab.Symbols()
}

// Tokens returns every token that some terminal rule matches, in lexical order.
func (g *Grammar) Tokens() []string {
	toks := make([]string, 0, len(g.terminals))
	for tok := range g.terminals {
		toks = append(toks, tok)
	}
	sort.Strings(toks)
	return toks
}

func (g *Grammar) LexKinds() []*LexKind {
	return g.lexKinds
}

// Warnings returns informational findings about the grammar, such as references to symbols without
// rules. They never prevent the grammar from being used.
func (g *Grammar) Warnings() []string {
	return g.warnings
}

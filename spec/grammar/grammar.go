package grammar

import mlspec "github.com/nihei9/maleeni/spec"

// CompiledGrammar is the portable form of a grammar. Non-terminals are referred to by their numbers,
// which index NonTerminals. The number 0 is reserved for the nil symbol.
type CompiledGrammar struct {
	Name                 string                `json:"name"`
	StartSymbol          int                   `json:"start_symbol"`
	NonTerminals         []string              `json:"non_terminals"`
	TerminalRules        []*TerminalRule       `json:"terminal_rules"`
	BinaryRules          []*BinaryRule         `json:"binary_rules"`
	UnitRules            []*UnitRule           `json:"unit_rules"`
	LexicalSpecification *LexicalSpecification `json:"lexical_specification,omitempty"`
}

type TerminalRule struct {
	LHS   int    `json:"lhs"`
	Token string `json:"token"`
}

type BinaryRule struct {
	LHS   int `json:"lhs"`
	Left  int `json:"left"`
	Right int `json:"right"`
}

type UnitRule struct {
	LHS int `json:"lhs"`
	RHS int `json:"rhs"`
}

// LexicalSpecification holds a compiled lexer and the named lexical kinds it was compiled from, so
// that a loaded grammar can be compiled again.
type LexicalSpecification struct {
	Lexer    string     `json:"lexer"`
	LexKinds []*LexKind `json:"lex_kinds,omitempty"`
	Maleeni  *Maleeni   `json:"maleeni"`
}

type LexKind struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Skip    bool   `json:"skip,omitempty"`
}

// Maleeni holds a lexical specification compiled by maleeni. KindToToken maps a lexical kind ID to the
// token text that terminal rules match, and Skip flags the kinds the token stream drops.
type Maleeni struct {
	Spec        *mlspec.CompiledLexSpec `json:"spec"`
	KindToToken []string                `json:"kind_to_token"`
	Skip        []int                   `json:"skip"`
}

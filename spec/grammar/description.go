package grammar

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Start  bool   `json:"start"`
}

type Token struct {
	Text string `json:"text"`

	// Kind is the name of the lexical kind that yields the token. It is empty for a literal token.
	Kind string `json:"kind"`

	Producers []int `json:"producers"`
}

type Rule struct {
	LHS int   `json:"lhs"`
	RHS []int `json:"rhs"`
}

// Description is a readable summary of a grammar.
type Description struct {
	Name         string         `json:"name"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Tokens       []*Token       `json:"tokens"`
	BinaryRules  []*Rule        `json:"binary_rules"`
	UnitRules    []*Rule        `json:"unit_rules"`
	Warnings     []string       `json:"warnings"`
}

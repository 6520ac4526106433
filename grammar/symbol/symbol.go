package symbol

import (
	"fmt"
	"sort"
)

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol identifies a non-terminal symbol. Terminals are not symbols; they are matched by their token text.
type Symbol uint16

const (
	SymbolNil = Symbol(0)

	symbolNumMin = SymbolNum(1)
	symbolNumMax = SymbolNum(0xffff)
)

func (s Symbol) String() string {
	return fmt.Sprintf("n%v", s.Num())
}

func (s Symbol) Num() SymbolNum {
	return SymbolNum(s)
}

func (s Symbol) IsNil() bool {
	return s == SymbolNil
}

type SymbolTable struct {
	text2Sym map[string]Symbol
	sym2Text map[Symbol]string
	texts    []string
	num      SymbolNum
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym: map[string]Symbol{},
		sym2Text: map[Symbol]string{},
		texts: []string{
			"", // Nil
		},
		num: symbolNumMin,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

// Register returns the symbol already bound to the text or binds a new one. Symbols are numbered in
// registration order, so the same registration sequence always yields the same numbering.
func (w *SymbolTableWriter) Register(text string) (Symbol, error) {
	if text == "" {
		return SymbolNil, fmt.Errorf("a symbol text must not be empty")
	}
	if sym, ok := w.text2Sym[text]; ok {
		return sym, nil
	}
	if w.num == symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v", symbolNumMax-1)
	}
	sym := Symbol(w.num)
	w.num++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.texts = append(w.texts, text)
	return sym, nil
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	if sym, ok := r.text2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

// Symbols returns all registered symbols in ascending order.
func (r *SymbolTableReader) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(r.sym2Text))
	for sym := range r.sym2Text {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

// Texts returns the symbol texts indexed by symbol number. The element at index 0 is the empty string
// that stands for the nil symbol.
func (r *SymbolTableReader) Texts() []string {
	return r.texts
}

// Count returns the number of registered symbols.
func (r *SymbolTableReader) Count() int {
	return len(r.texts) - 1
}

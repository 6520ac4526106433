package symbol

import (
	"math/bits"
	"strings"
)

// Set is a set of symbols. Iteration always visits members in ascending order, so a set has one
// observable form regardless of the order in which its members were added. The zero value is an empty
// set ready to use.
type Set struct {
	words []uint64
}

func NewSet(syms ...Symbol) *Set {
	s := &Set{}
	for _, sym := range syms {
		s.Add(sym)
	}
	return s
}

// Add adds a symbol and reports whether the set changed. The nil symbol is never a member.
func (s *Set) Add(sym Symbol) bool {
	if sym.IsNil() {
		return false
	}
	w, b := locate(sym)
	if w >= len(s.words) {
		words := make([]uint64, w+1)
		copy(words, s.words)
		s.words = words
	}
	if s.words[w]&b != 0 {
		return false
	}
	s.words[w] |= b
	return true
}

// Merge adds all members of t and reports whether the set changed.
func (s *Set) Merge(t *Set) bool {
	if t == nil {
		return false
	}
	if len(t.words) > len(s.words) {
		words := make([]uint64, len(t.words))
		copy(words, s.words)
		s.words = words
	}
	changed := false
	for i, w := range t.words {
		if s.words[i]|w != s.words[i] {
			s.words[i] |= w
			changed = true
		}
	}
	return changed
}

func (s *Set) Contains(sym Symbol) bool {
	if s == nil || sym.IsNil() {
		return false
	}
	w, b := locate(sym)
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&b != 0
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Each calls f for every member in ascending order.
func (s *Set) Each(f func(sym Symbol)) {
	if s == nil {
		return
	}
	for i, w := range s.words {
		for w != 0 {
			t := bits.TrailingZeros64(w)
			f(Symbol(i*64 + t))
			w &= w - 1
		}
	}
}

// Symbols returns the members in ascending order.
func (s *Set) Symbols() []Symbol {
	syms := make([]Symbol, 0, s.Len())
	s.Each(func(sym Symbol) {
		syms = append(syms, sym)
	})
	return syms
}

func (s *Set) Clone() *Set {
	if s == nil {
		return &Set{}
	}
	return &Set{
		words: append([]uint64{}, s.words...),
	}
}

// Equal reports whether both sets have the same members. A nil set equals an empty set.
func (s *Set) Equal(t *Set) bool {
	var sw, tw []uint64
	if s != nil {
		sw = s.words
	}
	if t != nil {
		tw = t.words
	}
	if len(sw) < len(tw) {
		sw, tw = tw, sw
	}
	for i, w := range sw {
		var v uint64
		if i < len(tw) {
			v = tw[i]
		}
		if w != v {
			return false
		}
	}
	return true
}

// IsSubsetOf reports whether every member of s is a member of t.
func (s *Set) IsSubsetOf(t *Set) bool {
	if s == nil {
		return true
	}
	for i, w := range s.words {
		var v uint64
		if t != nil && i < len(t.words) {
			v = t.words[i]
		}
		if w&^v != 0 {
			return false
		}
	}
	return true
}

// Format renders the members with their texts, e.g. {E, S, T}. Members unknown to the reader are
// rendered with Symbol.String.
func (s *Set) Format(r *SymbolTableReader) string {
	var b strings.Builder
	b.WriteString("{")
	first := true
	s.Each(func(sym Symbol) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		if r != nil {
			if text, ok := r.ToText(sym); ok {
				b.WriteString(text)
				return
			}
		}
		b.WriteString(sym.String())
	})
	b.WriteString("}")
	return b.String()
}

func locate(sym Symbol) (int, uint64) {
	n := int(sym)
	return n / 64, uint64(1) << (uint(n) % 64)
}

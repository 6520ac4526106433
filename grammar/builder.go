package grammar

import (
	"fmt"
	"regexp"

	verr "github.com/nihei9/cyk/error"
	"github.com/nihei9/cyk/spec/grammar/parser"
)

var (
	reLexKindName     = regexp.MustCompile(`^[a-z][0-9a-z_]*$`)
	reAnonLexKindName = regexp.MustCompile(`^x_[0-9]+$`)
)

// GrammarBuilder builds a grammar from the AST of a grammar description.
type GrammarBuilder struct {
	AST *parser.RootNode

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	name, start, startPos := b.checkDirectives(b.AST)

	lexKinds, kindPos := b.genLexKinds(b.AST)

	rules := &Rules{
		Name: name,
	}
	lhsSet := map[string]struct{}{}
	for _, prod := range b.AST.Productions {
		lhsSet[prod.LHS] = struct{}{}
	}
	for _, prod := range b.AST.Productions {
		if _, ok := kindPos[prod.LHS]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		for _, dir := range prod.Directives {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDirInvalidName,
				Detail: dir.Name,
				Row:    dir.Pos.Row,
				Col:    dir.Pos.Col,
			})
		}
		for _, alt := range prod.RHS {
			b.genRule(rules, prod.LHS, alt, lexKinds)
		}
	}

	if start == "" {
		start = b.AST.Productions[0].LHS
	} else if _, ok := lhsSet[start]; !ok {
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrUndefinedStartSym,
			Detail: start,
			Row:    startPos.Row,
			Col:    startPos.Col,
		})
	}
	rules.Start = start

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	return newGrammar(rules, orderSymbols(rules), lexKinds)
}

func (b *GrammarBuilder) checkDirectives(root *parser.RootNode) (string, string, parser.Position) {
	var name string
	var start string
	var startPos parser.Position
	consumed := map[string]struct{}{}
	for _, dir := range root.Directives {
		if _, ok := consumed[dir.Name]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateDir,
				Detail: dir.Name,
				Row:    dir.Pos.Row,
				Col:    dir.Pos.Col,
			})
			continue
		}
		consumed[dir.Name] = struct{}{}

		switch dir.Name {
		case "name":
			if len(dir.Parameters) != 1 {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDirInvalidParam,
					Detail: "'name' directive needs an ID parameter",
					Row:    dir.Pos.Row,
					Col:    dir.Pos.Col,
				})
				continue
			}
			name = dir.Parameters[0].ID
		case "start":
			if len(dir.Parameters) != 1 {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDirInvalidParam,
					Detail: "'start' directive needs an ID parameter",
					Row:    dir.Pos.Row,
					Col:    dir.Pos.Col,
				})
				continue
			}
			start = dir.Parameters[0].ID
			startPos = dir.Parameters[0].Pos
		default:
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDirInvalidName,
				Detail: dir.Name,
				Row:    dir.Pos.Row,
				Col:    dir.Pos.Col,
			})
		}
	}
	return name, start, startPos
}

func findLexKind(kinds []*LexKind, name string) *LexKind {
	for _, k := range kinds {
		if k.Name == name {
			return k
		}
	}
	return nil
}

func (b *GrammarBuilder) genLexKinds(root *parser.RootNode) ([]*LexKind, map[string]parser.Position) {
	var kinds []*LexKind
	kindPos := map[string]parser.Position{}
	for _, prod := range root.LexProductions {
		if !reLexKindName.MatchString(prod.LHS) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrInvalidLexKindName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		if reAnonLexKindName.MatchString(prod.LHS) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedKindName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		if _, ok := kindPos[prod.LHS]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateLexKind,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}

		kind := &LexKind{
			Name:    prod.LHS,
			Pattern: prod.RHS[0].Elements[0].Pattern,
		}
		for _, dir := range prod.Directives {
			if dir.Name != "skip" {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDirInvalidName,
					Detail: dir.Name,
					Row:    dir.Pos.Row,
					Col:    dir.Pos.Col,
				})
				continue
			}
			kind.Skip = true
		}
		kindPos[prod.LHS] = prod.Pos
		kinds = append(kinds, kind)
	}
	return kinds, kindPos
}

func (b *GrammarBuilder) genRule(rules *Rules, lhs string, alt *parser.AlternativeNode, kinds []*LexKind) {
	notCNF := func(detail string) {
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrNotCNF,
			Detail: detail,
			Row:    alt.Pos.Row,
			Col:    alt.Pos.Col,
		})
	}

	switch len(alt.Elements) {
	case 1:
		elem := alt.Elements[0]
		if elem.Literal != "" {
			if findLexKind(kinds, elem.Literal) != nil {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrTokenCollision,
					Detail: elem.Literal,
					Row:    elem.Pos.Row,
					Col:    elem.Pos.Col,
				})
				return
			}
			rules.Terminals = append(rules.Terminals, TerminalRule{
				LHS:   lhs,
				Token: elem.Literal,
			})
			return
		}
		if kind := findLexKind(kinds, elem.ID); kind != nil {
			if kind.Skip {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrSkippedKindInRule,
					Detail: elem.ID,
					Row:    elem.Pos.Row,
					Col:    elem.Pos.Col,
				})
				return
			}
			rules.Terminals = append(rules.Terminals, TerminalRule{
				LHS:   lhs,
				Token: kind.Name,
			})
			return
		}
		rules.Units = append(rules.Units, UnitRule{
			LHS: lhs,
			RHS: elem.ID,
		})
	case 2:
		left := alt.Elements[0]
		right := alt.Elements[1]
		if left.ID == "" || right.ID == "" || findLexKind(kinds, left.ID) != nil || findLexKind(kinds, right.ID) != nil {
			notCNF("a binary alternative must consist of two non-terminals")
			return
		}
		rules.Binaries = append(rules.Binaries, BinaryRule{
			LHS:   lhs,
			Left:  left.ID,
			Right: right.ID,
		})
	case 0:
		notCNF("an alternative must not be empty")
	default:
		notCNF(fmt.Sprintf("an alternative has %v elements", len(alt.Elements)))
	}
}

package tester

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/nihei9/cyk/driver"
	"github.com/nihei9/cyk/grammar"
	gspec "github.com/nihei9/cyk/spec/grammar"
	tspec "github.com/nihei9/cyk/spec/test"
	"github.com/pkg/errors"
)

const (
	TokenizerLexer = "lexer"
	TokenizerChar  = "char"
)

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*tspec.ResultDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			if diff.Line > 0 {
				diffLines = append(diffLines, fmt.Sprintf("%v: %v", diff.Line, diff.Message))
			} else {
				diffLines = append(diffLines, diff.Message)
			}
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    errors.Wrap(err, "cannot find test cases"),
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    errors.Wrapf(err, "cannot read a directory: %v", testPath),
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open a test case: %v", testCasePath)
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

// Tester runs test cases against a grammar. Spec supplies the lexer when Tokenizer is TokenizerLexer.
// With TokenizerChar, every character of a source is a token and the surrounding white spaces of the
// source are ignored. The zero value of Tokenizer selects the lexer when Spec has one.
type Tester struct {
	Grammar   *grammar.Grammar
	Spec      *gspec.CompiledGrammar
	Tokenizer string
	Workers   int
	Cases     []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, t.runTest(c))
	}
	return rs
}

func (t *Tester) tokenizer() string {
	if t.Tokenizer != "" {
		return t.Tokenizer
	}
	if t.Spec != nil && t.Spec.LexicalSpecification != nil {
		return TokenizerLexer
	}
	return TokenizerChar
}

func (t *Tester) runTest(c *TestCaseWithMetadata) (result *TestResult) {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	defer func() {
		if v := recover(); v != nil {
			result = &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("an unexpected error occurred: %v\n%v", v, string(debug.Stack())),
			}
		}
	}()

	toks, err := t.readTokens(c.TestCase.Source)
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	var opts []driver.ParserOption
	if t.Workers > 1 {
		opts = append(opts, driver.Workers(t.Workers))
	}
	p, err := driver.NewParser(t.Grammar, opts...)
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}
	res, err := p.ParseContext(context.Background(), driver.Names(toks))
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	diffs := tspec.DiffResult(c.TestCase.Output, res.Accepted, func(i, j int, text string) (bool, error) {
		sym, ok := t.Grammar.ToSymbol(text)
		if !ok {
			return false, fmt.Errorf("unknown symbol: %v", text)
		}
		return res.Chart.Contains(i, j, sym)
	})
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

func (t *Tester) readTokens(src []byte) ([]*driver.Token, error) {
	var ts driver.TokenStream
	switch t.tokenizer() {
	case TokenizerLexer:
		if t.Spec == nil {
			return nil, fmt.Errorf("the lexer tokenizer needs a compiled grammar")
		}
		var err error
		ts, err = driver.NewTokenStream(t.Spec, bytes.NewReader(src))
		if err != nil {
			return nil, err
		}
	case TokenizerChar:
		ts = driver.NewCharTokenStream(bytes.NewReader(bytes.TrimSpace(src)))
	default:
		return nil, fmt.Errorf("unknown tokenizer: %v", t.tokenizer())
	}
	toks, err := driver.ReadTokens(ts)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read tokens")
	}
	return toks, nil
}

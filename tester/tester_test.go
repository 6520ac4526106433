package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/cyk/grammar"
	"github.com/nihei9/cyk/spec/grammar/parser"
	tspec "github.com/nihei9/cyk/spec/test"
)

const testGrammarSrc = `
#name test;

s
    : foo rest
    ;
rest
    : bar baz
    ;
foo
    : 'foo'
    ;
bar
    : 'bar'
    ;
baz
    : 'baz'
    ;

ws #skip
    : "[\u{0009}\u{0020}]+";
`

const testCharGrammarSrc = `
s : a b | a;
a : 'a';
b : 'b';
`

func TestTester_Run(t *testing.T) {
	tests := []struct {
		grammarSrc string
		tokenizer  string
		testSrc    string
		error      bool
	}{
		{
			grammarSrc: testGrammarSrc,
			testSrc: `
Test
---
foo bar baz
---
accept
cell 0 2 s
cell 1 2 rest
!cell 0 1 s
`,
		},
		{
			grammarSrc: testGrammarSrc,
			testSrc: `
Test
---
foo baz bar
---
reject
!cell 0 2 s
`,
		},
		{
			grammarSrc: testGrammarSrc,
			testSrc: `
Test
---
foo ? baz
---
reject
`,
		},
		{
			grammarSrc: testGrammarSrc,
			testSrc: `
Test
---
foo bar baz
---
reject
`,
			error: true,
		},
		{
			grammarSrc: testGrammarSrc,
			testSrc: `
Test
---
foo bar baz
---
accept
cell 0 1 s
`,
			error: true,
		},
		{
			grammarSrc: testGrammarSrc,
			testSrc: `
Test
---
foo bar baz
---
accept
cell 0 2 xxx
`,
			error: true,
		},
		{
			grammarSrc: testGrammarSrc,
			testSrc: `
Test
---
foo bar baz
---
accept
cell 2 3 s
`,
			error: true,
		},
		{
			grammarSrc: testCharGrammarSrc,
			tokenizer:  TokenizerChar,
			testSrc: `
Test
---
  ab
---
accept
cell 0 1 s
cell 0 0 s
`,
		},
		{
			grammarSrc: testCharGrammarSrc,
			tokenizer:  "word",
			testSrc: `
Test
---
ab
---
accept
`,
			error: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			ast, err := parser.Parse(strings.NewReader(tt.grammarSrc))
			if err != nil {
				t.Fatal(err)
			}
			b := grammar.GrammarBuilder{
				AST: ast,
			}
			g, err := b.Build()
			if err != nil {
				t.Fatal(err)
			}
			cg, err := grammar.Compile(g)
			if err != nil {
				t.Fatal(err)
			}
			c, err := tspec.ParseTestCase(strings.NewReader(tt.testSrc))
			if err != nil {
				t.Fatal(err)
			}
			tester := &Tester{
				Grammar:   g,
				Spec:      cg,
				Tokenizer: tt.tokenizer,
				Cases: []*TestCaseWithMetadata{
					{
						TestCase: c,
					},
				},
			}
			rs := tester.Run()
			if tt.error {
				errOccurred := false
				for _, r := range rs {
					if r.Error != nil {
						errOccurred = true
					}
				}
				if !errOccurred {
					t.Fatal("this test must fail, but it passed")
				}
			} else {
				for _, r := range rs {
					if r.Error != nil {
						t.Fatalf("unexpected error occurred: %v", r)
					}
				}
			}
		})
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "ok.txt"), []byte("Test\n---\nfoo bar baz\n---\naccept\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	err = os.Mkdir(sub, 0755)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(sub, "broken.txt"), []byte("Test\n---\nfoo\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	cases := ListTestCases(dir)
	if len(cases) != 2 {
		t.Fatalf("unexpected test case count; want: 2, got: %v", len(cases))
	}
	if cases[0].Error != nil || cases[0].TestCase == nil {
		t.Fatalf("a well-formed test case must be loaded: %v", cases[0].Error)
	}
	if cases[1].Error == nil {
		t.Fatalf("a broken test case must be reported")
	}

	cases = ListTestCases(filepath.Join(dir, "missing"))
	if len(cases) != 1 || cases[0].Error == nil {
		t.Fatalf("a missing path must be reported")
	}
}

func TestTester_Arith(t *testing.T) {
	f, err := os.Open(filepath.Join("..", "testdata", "arith.cyk"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ast, err := parser.Parse(f)
	if err != nil {
		t.Fatal(err)
	}
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	cg, err := grammar.Compile(g)
	if err != nil {
		t.Fatal(err)
	}

	cases := ListTestCases(filepath.Join("..", "testdata", "arith"))
	if len(cases) == 0 {
		t.Fatalf("no test cases were found")
	}
	for _, workers := range []int{1, 4} {
		tester := &Tester{
			Grammar: g,
			Spec:    cg,
			Workers: workers,
			Cases:   cases,
		}
		for _, r := range tester.Run() {
			if r.Error != nil {
				t.Fatalf("unexpected error occurred: %v", r)
			}
		}
	}
}

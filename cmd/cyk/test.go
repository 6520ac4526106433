package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/cyk/grammar"
	"github.com/nihei9/cyk/tester"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Test a grammar",
		Example: `  cyk test grammar.cyk test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	cmd.Flags().String("tokenizer", "", "lexer or char (default lexer when the grammar has a lexical specification)")
	cmd.Flags().Int("workers", 1, "number of goroutines that fill the cells of one span length")
	mustBindFlags(cmd, map[string]string{
		"test.tokenizer": "tokenizer",
		"test.workers":   "workers",
	})
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	g, err := readGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}
	cg, err := grammar.Compile(g)
	if err != nil {
		return fmt.Errorf("Cannot compile a grammar: %w", err)
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[1])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Grammar:   g,
		Spec:      cg,
		Tokenizer: viper.GetString("test.tokenizer"),
		Workers:   viper.GetInt("test.workers"),
		Cases:     cs,
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/nihei9/cyk/driver"
	"github.com/nihei9/cyk/grammar"
	"github.com/nihei9/cyk/tester"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var parseFlags = struct {
	source  *string
	chart   *bool
	verbose *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <compiled grammar file path>",
		Short: "Decide whether a text stream is derivable from a grammar",
		Example: `  cat src | cyk parse grammar.json
  cyk parse grammar.json -s src --tokenizer char --chart`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.chart = cmd.Flags().Bool("chart", false, "print the chart")
	parseFlags.verbose = cmd.Flags().Bool("verbose", false, "print the progress of every span length to stderr")
	cmd.Flags().String("tokenizer", "", "lexer or char (default lexer when the grammar has a lexical specification)")
	cmd.Flags().Int("workers", 1, "number of goroutines that fill the cells of one span length")
	cmd.Flags().Duration("timeout", 0, "abort parsing after the duration (default no limit)")
	mustBindFlags(cmd, map[string]string{
		"parse.tokenizer": "tokenizer",
		"parse.workers":   "workers",
		"parse.timeout":   "timeout",
	})
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				err = fmt.Errorf("an unexpected error occurred: %v", v)
			}
			fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
			retErr = err
		}
	}()

	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}
	gram, err := grammar.Load(cgram)
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	var src io.Reader = os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	var ts driver.TokenStream
	tokenizer := viper.GetString("parse.tokenizer")
	if tokenizer == "" {
		tokenizer = tester.TokenizerChar
		if cgram.LexicalSpecification != nil {
			tokenizer = tester.TokenizerLexer
		}
	}
	switch tokenizer {
	case tester.TokenizerLexer:
		ts, err = driver.NewTokenStream(cgram, src)
		if err != nil {
			return err
		}
	case tester.TokenizerChar:
		b, err := io.ReadAll(src)
		if err != nil {
			return err
		}
		ts = driver.NewCharTokenStream(bytes.NewReader(bytes.TrimSpace(b)))
	default:
		return fmt.Errorf("Unknown tokenizer: %v", tokenizer)
	}
	toks, err := driver.ReadTokens(ts)
	if err != nil {
		return err
	}
	for _, tok := range toks {
		if tok.Invalid {
			fmt.Fprintf(os.Stderr, "%v:%v: invalid token: '%v'\n", tok.Row+1, tok.Col+1, tok.Lexeme)
		}
	}

	var opts []driver.ParserOption
	if n := viper.GetInt("parse.workers"); n > 1 {
		opts = append(opts, driver.Workers(n))
	}
	if *parseFlags.verbose {
		opts = append(opts, driver.Trace(os.Stderr))
	}
	p, err := driver.NewParser(gram, opts...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if d := viper.GetDuration("parse.timeout"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	res, err := p.ParseContext(ctx, driver.Names(toks))
	if err != nil {
		return fmt.Errorf("Parsing was aborted: %w", err)
	}

	if res.Accepted {
		fmt.Fprintln(os.Stdout, "accepted")
	} else {
		fmt.Fprintln(os.Stdout, "rejected")
	}
	if *parseFlags.chart {
		driver.PrintChart(os.Stdout, res.Chart, toks, gram.SymbolTable())
	}

	return nil
}

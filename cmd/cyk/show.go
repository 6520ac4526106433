package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/cyk/grammar"
	spec "github.com/nihei9/cyk/spec/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <compiled grammar file path>",
		Short:   "Print a compiled grammar in a readable format",
		Example: `  cyk show grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}
	gram, err := grammar.Load(cgram)
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	err = writeDescription(os.Stdout, grammar.Describe(gram))
	if err != nil {
		return err
	}

	return nil
}

const descTemplate = `# Name

{{ .Name }}

# Non-terminals

{{ range .NonTerminals -}}
{{ printNonTerminal . }}
{{ end }}
# Tokens

{{ range .Tokens -}}
{{ printToken . }}
{{ end }}
# Binary rules

{{ range .BinaryRules -}}
{{ printRule . }}
{{ end }}
# Unit rules

{{ range .UnitRules -}}
{{ printRule . }}
{{ end }}
{{- if .Warnings }}
# Warnings

{{ range .Warnings -}}
{{ . }}
{{ end }}
{{- end }}`

func writeDescription(w io.Writer, desc *spec.Description) error {
	nonTermName := func(num int) string {
		for _, nt := range desc.NonTerminals {
			if nt.Number == num {
				return nt.Name
			}
		}
		return fmt.Sprintf("n%v", num)
	}

	fns := template.FuncMap{
		"printNonTerminal": func(nt *spec.NonTerminal) string {
			if nt.Start {
				return fmt.Sprintf("%4v %v (start)", nt.Number, nt.Name)
			}
			return fmt.Sprintf("%4v %v", nt.Number, nt.Name)
		},
		"printToken": func(tok *spec.Token) string {
			var b strings.Builder
			if tok.Kind != "" {
				fmt.Fprintf(&b, "%v (lexical kind)", tok.Kind)
			} else {
				fmt.Fprintf(&b, "'%v'", tok.Text)
			}
			fmt.Fprintf(&b, " ←")
			for _, p := range tok.Producers {
				fmt.Fprintf(&b, " %v", nonTermName(p))
			}
			return b.String()
		},
		"printRule": func(rule *spec.Rule) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(rule.LHS))
			for _, e := range rule.RHS {
				fmt.Fprintf(&b, " %v", nonTermName(e))
			}
			return b.String()
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, desc)
	if err != nil {
		return err
	}

	return nil
}

package driver

import (
	"fmt"
	"io"

	"github.com/nihei9/cyk/grammar/symbol"
)

type node struct {
	label    string
	children []*node
}

// PrintChart writes the cells of a chart as a tree, the longest span first. toks labels the base
// cells and may be nil.
func PrintChart(w io.Writer, chart *Chart, toks []*Token, symTab *symbol.SymbolTableReader) {
	root := &node{
		label: fmt.Sprintf("chart (%v tokens)", chart.Len()),
	}
	for l := chart.Len(); l >= 1; l-- {
		span := &node{
			label: fmt.Sprintf("span %v", l),
		}
		for i := 0; i+l-1 < chart.Len(); i++ {
			j := i + l - 1
			label := fmt.Sprintf("(%v, %v) %v", i, j, chart.cell(i, j).Format(symTab))
			if l == 1 && i < len(toks) {
				label = fmt.Sprintf("(%v, %v) %#v %v", i, j, toks[i].Lexeme, chart.cell(i, j).Format(symTab))
			}
			span.children = append(span.children, &node{
				label: label,
			})
		}
		root.children = append(root.children, span)
	}
	printTree(w, root, "", "")
}

func printTree(w io.Writer, n *node, ruledLine string, childRuledLinePrefix string) {
	if n == nil {
		return
	}

	fmt.Fprintf(w, "%v%v\n", ruledLine, n.label)

	num := len(n.children)
	for i, child := range n.children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

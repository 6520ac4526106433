package driver

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/nihei9/cyk/grammar"
	"github.com/nihei9/cyk/grammar/symbol"
)

type Result struct {
	Accepted bool
	Chart    *Chart
}

type ParserOption func(p *Parser) error

// Workers sets the number of goroutines that fill the cells of one span length. The default is 1.
func Workers(n int) ParserOption {
	return func(p *Parser) error {
		if n < 1 {
			return fmt.Errorf("the number of workers must be 1 or greater; got: %v", n)
		}
		p.workers = n
		return nil
	}
}

// Trace makes the parser report the progress of every span length to w.
func Trace(w io.Writer) ParserOption {
	return func(p *Parser) error {
		p.trace = w
		return nil
	}
}

// Parser fills CYK charts for a grammar. A parser holds no state between parses, so one parser can
// serve many goroutines.
type Parser struct {
	gram    *grammar.Grammar
	workers int
	trace   io.Writer
}

func NewParser(gram *grammar.Grammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		gram:    gram,
		workers: 1,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse fills the chart of toks and reports whether the start symbol derives them.
func Parse(gram *grammar.Grammar, toks []string) *Result {
	p := &Parser{
		gram:    gram,
		workers: 1,
	}
	return p.Parse(toks)
}

func (p *Parser) Parse(toks []string) *Result {
	res, _ := p.ParseContext(context.Background(), toks)
	return res
}

// ParseContext is Parse with cancellation. When ctx is done before the chart is complete, it returns
// ctx.Err() and no chart.
func (p *Parser) ParseContext(ctx context.Context, toks []string) (*Result, error) {
	n := len(toks)
	chart := newChart(n)

	for i, tok := range toks {
		chart.setCell(i, i, p.gram.UnitClosure(p.gram.TerminalsProducing(tok)))
	}
	p.traceSpan(chart, 1)

	for l := 2; l <= n; l++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := p.fillSpan(ctx, chart, l)
		if err != nil {
			return nil, err
		}
		p.traceSpan(chart, l)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Accepted: n > 0 && chart.cell(0, n-1).Contains(p.gram.StartSymbol()),
		Chart:    chart,
	}, nil
}

// fillSpan fills every cell covering l tokens. The cells depend only on shorter spans, so they are
// independent of one another and workers can fill them in any order.
func (p *Parser) fillSpan(ctx context.Context, chart *Chart, l int) error {
	count := chart.n - l + 1
	workers := p.workers
	if workers > count {
		workers = count
	}

	if workers <= 1 {
		for i := 0; i < count; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			p.fillCell(chart, i, i+l-1)
		}
		return nil
	}

	starts := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range starts {
				p.fillCell(chart, i, i+l-1)
			}
		}()
	}

	var err error
FEED:
	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break FEED
		case starts <- i:
		}
	}
	close(starts)
	wg.Wait()

	return err
}

func (p *Parser) fillCell(chart *Chart, i, j int) {
	cell := symbol.NewSet()
	for k := i; k < j; k++ {
		left := chart.cell(i, k)
		right := chart.cell(k+1, j)
		if left.IsEmpty() || right.IsEmpty() {
			continue
		}
		left.Each(func(b symbol.Symbol) {
			right.Each(func(c symbol.Symbol) {
				p.gram.MergeBinaryLHS(cell, b, c)
			})
		})
	}
	chart.setCell(i, j, p.gram.UnitClosure(cell))
}

func (p *Parser) traceSpan(chart *Chart, l int) {
	if p.trace == nil || l > chart.n {
		return
	}
	count := chart.n - l + 1
	populated := 0
	for i := 0; i < count; i++ {
		if !chart.cell(i, i+l-1).IsEmpty() {
			populated++
		}
	}
	fmt.Fprintf(p.trace, "span %v: %v/%v cells populated\n", l, populated, count)
}

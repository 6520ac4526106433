package test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CellAssertion states that a symbol derives (or, when negated, does not derive) the tokens i through j.
type CellAssertion struct {
	I       int
	J       int
	Symbol  string
	Negated bool

	// Line is the line number of the assertion in the test case file.
	Line int
}

func (a *CellAssertion) String() string {
	if a.Negated {
		return fmt.Sprintf("!cell %v %v %v", a.I, a.J, a.Symbol)
	}
	return fmt.Sprintf("cell %v %v %v", a.I, a.J, a.Symbol)
}

type Expectation struct {
	Accepted bool
	Cells    []*CellAssertion
}

type TestCase struct {
	Description string
	Source      []byte
	Output      *Expectation
}

// ParseTestCase reads a test case consisting of three parts separated by lines of hyphens: a
// description, a source text, and an expectation. The expectation begins with `accept` or `reject`
// followed by any number of `cell i j symbol` and `!cell i j symbol` lines.
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read a test case")
	}
	if len(parts) != 3 {
		return nil, errors.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	ep := &expectationParser{
		lineOffset: parts[0].lineCount + parts[1].lineCount + 2,
	}
	exp, err := ep.parse(parts[2].buf)
	if err != nil {
		return nil, err
	}

	return &TestCase{
		Description: string(parts[0].buf),
		Source:      parts[1].buf,
		Output:      exp,
	}, nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// Return an empty slice because (*bytes.Buffer).Bytes() returns nil if we have never written data.
		return []byte{}, 0, nil
	}
	buf.Write(line)
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		buf.WriteByte('\n')
		buf.Write(line)
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}

type expectationParser struct {
	lineOffset int
}

func (ep *expectationParser) parse(src []byte) (*Expectation, error) {
	var exp *Expectation
	for i, line := range strings.Split(string(src), "\n") {
		row := ep.lineOffset + i + 1
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "//") {
			continue
		}

		if exp == nil {
			if len(fields) != 1 {
				return nil, errors.Errorf("%v: an expectation must begin with 'accept' or 'reject'", row)
			}
			switch fields[0] {
			case "accept":
				exp = &Expectation{
					Accepted: true,
				}
			case "reject":
				exp = &Expectation{}
			default:
				return nil, errors.Errorf("%v: an expectation must begin with 'accept' or 'reject': %v", row, fields[0])
			}
			continue
		}

		var negated bool
		switch fields[0] {
		case "cell":
		case "!cell":
			negated = true
		case "accept", "reject":
			return nil, errors.Errorf("%v: 'accept' or 'reject' must appear just once", row)
		default:
			return nil, errors.Errorf("%v: unknown assertion: %v", row, fields[0])
		}
		if len(fields) != 4 {
			return nil, errors.Errorf("%v: a cell assertion needs a start, an end, and a symbol", row)
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "%v: invalid start position", row)
		}
		j, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errors.Wrapf(err, "%v: invalid end position", row)
		}
		exp.Cells = append(exp.Cells, &CellAssertion{
			I:       i,
			J:       j,
			Symbol:  fields[3],
			Negated: negated,
			Line:    row,
		})
	}
	if exp == nil {
		return nil, errors.Errorf("%v: an expectation is missing", ep.lineOffset+1)
	}
	return exp, nil
}

type ResultDiff struct {
	Line    int
	Message string
}

// CellLookup reports whether a symbol derives the tokens i through j.
type CellLookup func(i, j int, sym string) (bool, error)

// DiffResult compares an actual result with an expectation. A failed lookup, such as an assertion on a
// cell the chart does not have, is reported as a difference.
func DiffResult(exp *Expectation, accepted bool, lookup CellLookup) []*ResultDiff {
	var diffs []*ResultDiff
	if accepted != exp.Accepted {
		diffs = append(diffs, &ResultDiff{
			Message: fmt.Sprintf("unexpected result: expected %v but got %v", resultText(exp.Accepted), resultText(accepted)),
		})
	}
	for _, c := range exp.Cells {
		ok, err := lookup(c.I, c.J, c.Symbol)
		if err != nil {
			diffs = append(diffs, &ResultDiff{
				Line:    c.Line,
				Message: fmt.Sprintf("%v: %v", c, err),
			})
			continue
		}
		if ok == c.Negated {
			msg := fmt.Sprintf("%v: the cell doesn't contain %v", c, c.Symbol)
			if c.Negated {
				msg = fmt.Sprintf("%v: the cell contains %v", c, c.Symbol)
			}
			diffs = append(diffs, &ResultDiff{
				Line:    c.Line,
				Message: msg,
			})
		}
	}
	return diffs
}

func resultText(accepted bool) string {
	if accepted {
		return "accept"
	}
	return "reject"
}

package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Iterator classifies a filter list one line at a time.
//
// Each Next call consumes exactly one input line, so a *ParseError on
// one line does not stop iteration: the caller may keep calling Next
// to reach the lines after it. A 100,000-line list with one bad line
// still yields the other 99,999.
type Iterator struct {
	scanner *bufio.Scanner
	done    bool
}

// ParseFilterList reads a whole filter list lazily from r.
func ParseFilterList(r io.Reader) *Iterator {
	return &Iterator{scanner: bufio.NewScanner(r)}
}

// ParseFilterListString reads a filter list from a string.
func ParseFilterListString(src string) *Iterator {
	return ParseFilterList(strings.NewReader(src))
}

// Next returns the classification of the next input line, in input
// order. It returns io.EOF once the input is exhausted; a reader
// failure is reported once, then io.EOF.
func (it *Iterator) Next() (Line, error) {
	if it.done {
		return nil, io.EOF
	}
	if !it.scanner.Scan() {
		it.done = true
		if err := it.scanner.Err(); err != nil {
			return nil, fmt.Errorf("read filter list: %w", err)
		}
		return nil, io.EOF
	}
	return ParseLine(it.scanner.Text())
}

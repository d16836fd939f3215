// Package location parses genomic location requests of the form
// identifier:left-right.
package location

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned for lines that are not identifier:left-right.
var ErrMalformed = errors.New("location does not have expected format")

// MalformedError reports the offending line and what was wrong with it.
type MalformedError struct {
	Line   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %q (%s)", ErrMalformed, e.Line, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// Strand is the orientation implied by the order of the coordinates.
type Strand int

const (
	Plus Strand = iota
	Minus
)

func (s Strand) String() string {
	if s == Minus {
		return "-"
	}
	return "+"
}

// Location is a single parsed request. Left and Right are 1-based and
// inclusive; Right < Left requests the minus strand.
type Location struct {
	Raw   string
	ID    string
	Left  int
	Right int
}

// Parse splits line on its last ':' and its last '-'. Identifiers may
// contain either character, so only the final occurrence of each counts.
func Parse(line string) (Location, error) {
	colon := strings.LastIndexByte(line, ':')
	dash := strings.LastIndexByte(line, '-')
	switch {
	case colon < 0:
		return Location{}, &MalformedError{Line: line, Reason: "missing ':'"}
	case dash < 0:
		return Location{}, &MalformedError{Line: line, Reason: "missing '-'"}
	case colon >= dash:
		return Location{}, &MalformedError{Line: line, Reason: "':' must come before '-'"}
	}

	left, err := parseCoord(line[colon+1 : dash])
	if err != nil {
		return Location{}, &MalformedError{Line: line, Reason: "bad left coordinate"}
	}
	right, err := parseCoord(line[dash+1:])
	if err != nil {
		return Location{}, &MalformedError{Line: line, Reason: "bad right coordinate"}
	}
	return Location{Raw: line, ID: line[:colon], Left: left, Right: right}, nil
}

func parseCoord(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 0)
	return int(n), err
}

// Strand reports Minus when the coordinates are descending. Equal
// coordinates are a single base on the plus strand.
func (l Location) Strand() Strand {
	if l.Left > l.Right {
		return Minus
	}
	return Plus
}

// Span returns the interval as ascending 1-based inclusive bounds.
func (l Location) Span() (start, end int) {
	if l.Left > l.Right {
		return l.Right, l.Left
	}
	return l.Left, l.Right
}

// Len is the number of bases the location covers.
func (l Location) Len() int {
	start, end := l.Span()
	return end - start + 1
}

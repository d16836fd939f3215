// Package extract cuts requested locations out of reference sequences and
// writes them as FASTA records.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"genomicseq/internal/location"
	"genomicseq/internal/seqstore"
)

var (
	// ErrChromosomeNotFound is returned when no reference record has the
	// requested identifier.
	ErrChromosomeNotFound = errors.New("the designated chromosome is not in the database")

	// ErrCoordinateOutOfRange is returned when a location does not fit inside
	// the matched sequence.
	ErrCoordinateOutOfRange = errors.New("coordinates fall outside the sequence")
)

// OutOfRangeError describes one match that could not be sliced.
type OutOfRangeError struct {
	Line   string
	Start  int
	End    int
	SeqLen int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %q covers %d-%d but the sequence has %d bases",
		ErrCoordinateOutOfRange, e.Line, e.Start, e.End, e.SeqLen)
}

func (e *OutOfRangeError) Unwrap() error { return ErrCoordinateOutOfRange }

// Bounds selects what happens to locations that run past a sequence.
type Bounds int

const (
	// Strict rejects the match with ErrCoordinateOutOfRange.
	Strict Bounds = iota
	// Clamp truncates the interval to the sequence and only fails when
	// nothing is left.
	Clamp
)

func (b Bounds) String() string {
	if b == Clamp {
		return "clamp"
	}
	return "strict"
}

// ParseBounds accepts "strict", "clamp" or "" (strict).
func ParseBounds(s string) (Bounds, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "clamp":
		return Clamp, nil
	}
	return Strict, fmt.Errorf("unknown bounds policy %q (want strict or clamp)", s)
}

// Lookuper finds reference records by exact identifier.
type Lookuper interface {
	Lookup(id string) []seqstore.Record
}

// Result is one extracted record. Header echoes the request line.
type Result struct {
	Header   string
	Sequence string
	Strand   location.Strand
}

// Extractor resolves locations against a store.
type Extractor struct {
	store  Lookuper
	bounds Bounds
	logger *log.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithBounds sets the out-of-range policy.
func WithBounds(b Bounds) Option {
	return func(e *Extractor) { e.bounds = b }
}

// WithLogger sets where per-line diagnostics go.
func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// New returns an Extractor over store.
func New(store Lookuper, opts ...Option) *Extractor {
	e := &Extractor{store: store, bounds: Strict, logger: log.Default()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract returns one Result per store record matching loc.ID, in store
// order. Matches that are out of range are left out and reported through
// the returned error, so a non-nil error may come with results.
func (e *Extractor) Extract(loc location.Location) ([]Result, error) {
	matches := e.store.Lookup(loc.ID)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrChromosomeNotFound, loc.Raw)
	}

	results := make([]Result, 0, len(matches))
	var errs []error
	for _, rec := range matches {
		seq, err := Slice(rec.Sequence, loc, e.bounds)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, Result{Header: loc.Raw, Sequence: seq, Strand: loc.Strand()})
	}
	return results, errors.Join(errs...)
}

// Slice cuts loc out of seq using 1-based inclusive coordinates and
// reverse-complements it for the minus strand.
func Slice(seq string, loc location.Location, b Bounds) (string, error) {
	start, end := loc.Span()
	if b == Clamp {
		start = max(start, 1)
		end = min(end, len(seq))
	}
	if start < 1 || end > len(seq) || start > end {
		return "", &OutOfRangeError{Line: loc.Raw, Start: start, End: end, SeqLen: len(seq)}
	}

	sub := seq[start-1 : end]
	if loc.Strand() == location.Minus {
		return ReverseComplement(sub), nil
	}
	return sub, nil
}

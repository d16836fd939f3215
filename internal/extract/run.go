package extract

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"genomicseq/internal/fasta"
	"genomicseq/internal/location"
)

// maxLineLen caps a location line. Longer lines are skipped as malformed.
const maxLineLen = 1 << 20

// excerptLen is how much of an overlong line is logged.
const excerptLen = 64

// Summary counts what happened during a Run.
type Summary struct {
	Lines      int
	Records    int
	Malformed  int
	NotFound   int
	OutOfRange int
}

// Run reads one location per line from r and writes a FASTA record to w for
// every match. Bad lines are logged and skipped. It returns early only on
// I/O errors or when ctx is done.
func (e *Extractor) Run(ctx context.Context, r io.Reader, w io.Writer) (Summary, error) {
	var sum Summary
	out := fasta.NewWriter(w)
	br := bufio.NewReader(r)

	for {
		raw, tooLong, readErr := readLine(br)
		if readErr != nil && readErr != io.EOF {
			_ = out.Flush()
			return sum, fmt.Errorf("read locations: %w", readErr)
		}
		if readErr == io.EOF && raw == "" && !tooLong {
			break
		}
		if err := ctx.Err(); err != nil {
			_ = out.Flush()
			return sum, err
		}
		sum.Lines++
		line := strings.TrimSuffix(raw, "\r")

		if tooLong {
			sum.Malformed++
			e.logger.Warn("location does not have expected format, skipping",
				"line", excerpt(line), "reason", fmt.Sprintf("line longer than %d bytes", maxLineLen))
		} else if err := e.processLine(line, out, &sum); err != nil {
			return sum, err
		}
		if readErr == io.EOF {
			break
		}
	}
	if err := out.Flush(); err != nil {
		return sum, fmt.Errorf("write output: %w", err)
	}
	return sum, nil
}

func (e *Extractor) processLine(line string, out *fasta.Writer, sum *Summary) error {
	loc, err := location.Parse(line)
	if err != nil {
		sum.Malformed++
		var me *location.MalformedError
		if errors.As(err, &me) {
			e.logger.Warn("location does not have expected format, skipping", "line", line, "reason", me.Reason)
		} else {
			e.logger.Warn("location does not have expected format, skipping", "line", line)
		}
		return nil
	}

	results, err := e.Extract(loc)
	if errors.Is(err, ErrChromosomeNotFound) {
		sum.NotFound++
		e.logger.Warn("the designated chromosome is not in the database, skipping", "line", line, "chromosome", loc.ID)
		return nil
	}
	if err != nil {
		e.reportOutOfRange(err, sum)
	}

	for _, res := range results {
		if err := out.Write(fasta.FastaRecord{Header: res.Header, Sequence: res.Sequence}); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		sum.Records++
	}
	if len(results) > 0 {
		e.logger.Debug("extracted location", "line", line, "strand", loc.Strand(), "length", len(results[0].Sequence), "records", len(results))
	}
	return nil
}

// readLine returns the next line without its '\n'. Bytes past maxLineLen are
// discarded and tooLong is set. err is io.EOF on the last line, which may be
// empty.
func readLine(br *bufio.Reader) (line string, tooLong bool, err error) {
	var sb strings.Builder
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if sb.Len()+len(chunk) > maxLineLen+1 {
				tooLong = true
				sb.Write(chunk[:min(len(chunk), excerptLen)])
			} else {
				sb.Write(chunk)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		line = strings.TrimSuffix(sb.String(), "\n")
		if len(line) > maxLineLen {
			tooLong = true
		}
		return line, tooLong, err
	}
}

func excerpt(s string) string {
	if len(s) <= excerptLen {
		return s + "..."
	}
	return s[:excerptLen] + "..."
}

func (e *Extractor) reportOutOfRange(err error, sum *Summary) {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	for _, err := range errs {
		var oe *OutOfRangeError
		if !errors.As(err, &oe) {
			e.logger.Warn("extraction failed, skipping", "err", err)
			continue
		}
		sum.OutOfRange++
		e.logger.Warn("location is outside the sequence, skipping",
			"line", oe.Line, "start", oe.Start, "end", oe.End, "sequence_length", oe.SeqLen, "bounds", e.bounds)
	}
}

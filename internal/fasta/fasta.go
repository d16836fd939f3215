package fasta

// Package fasta contains minimal helpers to read and write FASTA formatted
// data. Headers are kept verbatim so they can be used as lookup keys.

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single FASTA line. Some assemblies ship whole
// chromosomes on one line, so the bufio default of 64KiB is far too small.
const maxLineSize = 1 << 30

// FastaRecord represents a single FASTA record (header and sequence).
type FastaRecord struct {
	Header   string
	Sequence string
}

// ParseFasta reads FASTA records from r and returns them in file order.
// Lines beginning with '>' denote headers; sequence lines are concatenated
// with surrounding whitespace removed. Text before the first header is
// ignored.
func ParseFasta(r io.Reader) ([]FastaRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []FastaRecord
	var header string
	var seq strings.Builder
	open := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			if open {
				records = append(records, FastaRecord{Header: header, Sequence: seq.String()})
			}
			header = strings.TrimSuffix(line[1:], "\r")
			seq.Reset()
			open = true
			continue
		}
		if !open {
			continue
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read fasta: %w", err)
	}
	if open {
		records = append(records, FastaRecord{Header: header, Sequence: seq.String()})
	}
	return records, nil
}

// Writer emits FASTA records with the sequence on a single line.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer buffering output to w. Callers must Flush.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes one record as ">header\nsequence\n".
func (fw *Writer) Write(rec FastaRecord) error {
	if _, err := fw.w.WriteString(">" + rec.Header + "\n"); err != nil {
		return err
	}
	_, err := fw.w.WriteString(rec.Sequence + "\n")
	return err
}

// Flush writes any buffered data to the underlying writer.
func (fw *Writer) Flush() error {
	return fw.w.Flush()
}

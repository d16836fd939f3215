// Package seqstore holds reference sequences in memory, keyed by their
// full FASTA header.
package seqstore

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"genomicseq/internal/fasta"
	"genomicseq/internal/ncbi"
)

// NCBIPrefix marks a genome source that names NCBI nucleotide accessions,
// e.g. "ncbi:NC_001422.1,NC_045512.2".
const NCBIPrefix = "ncbi:"

// Record is a loaded reference sequence.
type Record = fasta.FastaRecord

// Store is an ordered, read-only collection of records. Identifiers may
// repeat; every record is kept.
type Store struct {
	records []Record
	byID    map[string][]int
}

// New builds a Store from records, preserving their order.
func New(records []Record) *Store {
	s := &Store{records: records, byID: make(map[string][]int, len(records))}
	for i, r := range records {
		s.byID[r.Header] = append(s.byID[r.Header], i)
	}
	return s
}

// Read parses FASTA from r. Gzip-compressed input is detected by its magic
// bytes.
func Read(r io.Reader) (*Store, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(2)
	var src io.Reader = br
	if bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		src = zr
	}
	records, err := fasta.ParseFasta(src)
	if err != nil {
		return nil, err
	}
	return New(records), nil
}

// Load reads a store from path. "-" reads standard input and an "ncbi:"
// source is fetched from NCBI E-utilities.
func Load(ctx context.Context, path string) (*Store, error) {
	if strings.HasPrefix(path, NCBIPrefix) {
		return loadNCBI(ctx, strings.Split(strings.TrimPrefix(path, NCBIPrefix), ","))
	}
	if path == "-" {
		return Read(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func loadNCBI(ctx context.Context, accessions []string) (*Store, error) {
	texts, err := ncbi.FetchFasta(ctx, accessions)
	if err != nil {
		return nil, err
	}
	var records []Record
	for _, text := range texts {
		recs, err := fasta.ParseFasta(strings.NewReader(text))
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no sequences in %q", NCBIPrefix+strings.Join(accessions, ","))
	}
	return New(records), nil
}

// Lookup returns every record whose identifier equals id exactly, in load
// order.
func (s *Store) Lookup(id string) []Record {
	idx := s.byID[id]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Record, len(idx))
	for i, j := range idx {
		out[i] = s.records[j]
	}
	return out
}

// Len is the number of records, duplicates included.
func (s *Store) Len() int { return len(s.records) }

// Records returns all records in load order.
func (s *Store) Records() []Record { return s.records }

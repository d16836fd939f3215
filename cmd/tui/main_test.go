package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"genomicseq/internal/fasta"
	"genomicseq/internal/location"
)

var testRecords = []fasta.FastaRecord{
	{Header: "chr1:2-5", Sequence: "CGTA"},
	{Header: "chr1:5-2", Sequence: "TACG"},
	{Header: "not a location", Sequence: "NNNN"},
}

func TestCycleMode(t *testing.T) {
	m := initialModel("out.fa", testRecords)
	if m.currentMode != modeExtracted {
		t.Fatalf("expected initial mode extracted, got %v", m.currentMode)
	}
	m = m.cycleMode()
	if m.currentMode != modeReverseComplement {
		t.Fatalf("expected reverse complement, got %v", m.currentMode)
	}
	m = m.cycleMode()
	if m.currentMode != modeComposition {
		t.Fatalf("expected composition, got %v", m.currentMode)
	}
	m = m.cycleMode()
	if m.currentMode != modeExtracted {
		t.Fatalf("expected extracted, got %v", m.currentMode)
	}
}

func TestEntryStrand(t *testing.T) {
	m := initialModel("out.fa", testRecords)
	if !m.entries[0].parsed || m.entries[0].strand != location.Plus {
		t.Fatalf("expected plus strand for %q", testRecords[0].Header)
	}
	if !m.entries[1].parsed || m.entries[1].strand != location.Minus {
		t.Fatalf("expected minus strand for %q", testRecords[1].Header)
	}
	if m.entries[2].parsed {
		t.Fatalf("expected %q not to parse as a location", testRecords[2].Header)
	}
}

func TestBuildRightLinesWrap(t *testing.T) {
	m := initialModel("out.fa", testRecords)
	m.width = 120
	m.height = 40
	rec := fasta.FastaRecord{Header: "test", Sequence: strings.Repeat("ATG", 50)}
	lines := m.buildRightLines(rec)
	if len(lines) < 2 {
		t.Fatalf("expected wrapped lines, got %d", len(lines))
	}
	if strings.Join(lines, "") != rec.Sequence {
		t.Fatalf("wrapping lost bases")
	}
}

func TestComposition(t *testing.T) {
	c := composition("AACGTtnX")
	want := baseCounts{A: 2, C: 1, G: 1, T: 2, N: 1, Other: 1, Total: 8}
	if c != want {
		t.Fatalf("composition = %+v, want %+v", c, want)
	}
	if got := c.GC(); math.Abs(got-2.0/6.0) > 1e-9 {
		t.Fatalf("GC = %v, want %v", got, 2.0/6.0)
	}
	if (baseCounts{}).GC() != 0 {
		t.Fatalf("empty composition should have zero GC")
	}
}

func TestUpdateKeys(t *testing.T) {
	var m tea.Model = initialModel("out.fa", testRecords)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	if got := m.(model).currentMode; got != modeComposition {
		t.Fatalf("expected composition mode after '3', got %v", got)
	}
	if view := m.View(); !strings.Contains(view, "GC content") {
		t.Fatalf("composition view missing GC content")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if !m.(model).showHelp {
		t.Fatalf("expected help to be shown after 'h'")
	}
}

func TestLoadRecords(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.fa")
	if err := os.WriteFile(p, []byte(">chr1:2-5\nCGTA\n>chr1:5-2\nTACG\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	recs, err := loadRecords(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 || recs[1].Sequence != "TACG" {
		t.Fatalf("unexpected records %+v", recs)
	}
}

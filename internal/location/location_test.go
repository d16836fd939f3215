package location

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  Location
		strnd Strand
	}{
		{"plus strand", "chr1:2-5", Location{Raw: "chr1:2-5", ID: "chr1", Left: 2, Right: 5}, Plus},
		{"minus strand", "chr1:5-2", Location{Raw: "chr1:5-2", ID: "chr1", Left: 5, Right: 2}, Minus},
		{"single base", "chr1:7-7", Location{Raw: "chr1:7-7", ID: "chr1", Left: 7, Right: 7}, Plus},
		{"colon in identifier", "HLA:A*01:01-3:1-10", Location{Raw: "HLA:A*01:01-3:1-10", ID: "HLA:A*01:01-3", Left: 1, Right: 10}, Plus},
		{"dash in identifier", "chr1-alt:20-11", Location{Raw: "chr1-alt:20-11", ID: "chr1-alt", Left: 20, Right: 11}, Minus},
		{"header with spaces", "chr2 Homo sapiens:1-2", Location{Raw: "chr2 Homo sapiens:1-2", ID: "chr2 Homo sapiens", Left: 1, Right: 2}, Plus},
		{"signed left", "chr1:+3-4", Location{Raw: "chr1:+3-4", ID: "chr1", Left: 3, Right: 4}, Plus},
		{"negative left", "chr1:-5-10", Location{Raw: "chr1:-5-10", ID: "chr1", Left: -5, Right: 10}, Plus},
		{"empty identifier", ":1-2", Location{Raw: ":1-2", ID: "", Left: 1, Right: 2}, Plus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.line, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
			if got.Strand() != tt.strnd {
				t.Fatalf("Parse(%q).Strand() = %v, want %v", tt.line, got.Strand(), tt.strnd)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no colon", "chr1 2-5"},
		{"no dash", "chr1:25"},
		{"colon after dash", "chr1-2:5"},
		{"empty line", ""},
		{"trailing garbage left", "chr1:10x-20"},
		{"trailing garbage right", "chr1:10-20 "},
		{"empty left", "chr1:-20"},
		{"empty right", "chr1:10-"},
		{"leading space", "chr1: 10-20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Parse(%q) error = %v, want ErrMalformed", tt.line, err)
			}
			var me *MalformedError
			if !errors.As(err, &me) || me.Line != tt.line {
				t.Fatalf("Parse(%q) error does not carry the line: %v", tt.line, err)
			}
		})
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		loc        Location
		start, end int
		length     int
	}{
		{Location{Left: 2, Right: 5}, 2, 5, 4},
		{Location{Left: 5, Right: 2}, 2, 5, 4},
		{Location{Left: 3, Right: 3}, 3, 3, 1},
	}
	for _, tt := range tests {
		start, end := tt.loc.Span()
		if start != tt.start || end != tt.end {
			t.Errorf("%+v.Span() = %d,%d want %d,%d", tt.loc, start, end, tt.start, tt.end)
		}
		if got := tt.loc.Len(); got != tt.length {
			t.Errorf("%+v.Len() = %d want %d", tt.loc, got, tt.length)
		}
	}
}

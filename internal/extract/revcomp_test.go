package extract

import "testing"

func TestReverseComplement(t *testing.T) {
	var testtable = []struct {
		in  string
		out string
	}{
		{"", ""},
		{"CGTA", "TACG"},
		{"GATC", "GATC"},
		{"acgt", "acgt"},
		{"AaCcGgTt", "aAcCgGtT"},
		{"ACGTN", "NACGT"},
		{"nRYx-.", "NNNNNN"},
		{"AUG", "CNT"},
	}
	for _, tt := range testtable {
		if rc := ReverseComplement(tt.in); rc != tt.out {
			t.Errorf("ReverseComplement(%q) => %q expected %q", tt.in, rc, tt.out)
		}
	}
}

func TestReverseComplementRoundTrip(t *testing.T) {
	seqs := []string{"A", "ACGTTGCA", "aaccggttAACCGGTT", "GATTACAgattaca"}
	for _, s := range seqs {
		rc := ReverseComplement(s)
		if len(rc) != len(s) {
			t.Fatalf("ReverseComplement(%q) changed length to %d", s, len(rc))
		}
		if back := ReverseComplement(rc); back != s {
			t.Errorf("round trip of %q gave %q", s, back)
		}
	}
}

func TestReverseComplementUnknownIsUpperN(t *testing.T) {
	for c := 0; c < 256; c++ {
		switch byte(c) {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
			continue
		}
		if rc := ReverseComplement(string([]byte{byte(c)})); rc != "N" {
			t.Fatalf("ReverseComplement(%q) = %q, want N", byte(c), rc)
		}
	}
}

package parser

import (
	"strings"
	"testing"
)

func TestBaseYear(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"standalone line", "2024\nSeptember 15, 8:53 AM - Celestial Early (12.5%)", 2024},
		{"indented", "  2023  \nSeptember 15 entry", 2023},
		{"absent", "September 15, 8:53 AM - Celestial Early (12.5%)", DefaultBaseYear},
		{"inline year ignored", "logs from 2022 onwards\nSeptember 15", DefaultBaseYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseYear(tt.text, 0); got != tt.want {
				t.Errorf("BaseYear() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBaseYear_Fallback(t *testing.T) {
	if got := BaseYear("no year here", 2020); got != 2020 {
		t.Errorf("BaseYear() = %d, want 2020", got)
	}
}

func TestSegment(t *testing.T) {
	text := `Progression Log
2025

September 15, 8:53 AM - Celestial Early (12.5%)
G3 at 40%

September 16, 9:00 AM - Celestial Early (13.0%)
Pill used

Random trailing note without a date
`
	blocks := Segment(text)
	if len(blocks) != 2 {
		t.Fatalf("Segment() returned %d blocks, want 2: %#v", len(blocks), blocks)
	}
	if !strings.HasPrefix(blocks[0], "September 15") {
		t.Errorf("first block starts with %q", blocks[0][:20])
	}
	if !strings.HasPrefix(blocks[1], "September 16") {
		t.Errorf("second block starts with %q", blocks[1][:20])
	}
	if !strings.Contains(blocks[0], "G3 at 40%") {
		t.Error("body lines should stay inside their block")
	}
}

func TestSegment_DiscardsNonEntryBlocks(t *testing.T) {
	text := `=== SECTION HEADER ===
some preamble notes

October 2, 1:00 PM - Celestial Middle (5%)
`
	blocks := Segment(text)
	if len(blocks) != 1 {
		t.Fatalf("Segment() returned %d blocks, want 1", len(blocks))
	}
}

func TestSegment_OrderPreserved(t *testing.T) {
	text := "March 1 first\nJanuary 5 second\nDecember 9 third\n"
	blocks := Segment(text)
	if len(blocks) != 3 {
		t.Fatalf("Segment() returned %d blocks, want 3", len(blocks))
	}
	for i, prefix := range []string{"March", "January", "December"} {
		if !strings.HasPrefix(blocks[i], prefix) {
			t.Errorf("blocks[%d] = %q, want prefix %q", i, blocks[i], prefix)
		}
	}
}

func TestSegment_Empty(t *testing.T) {
	if blocks := Segment(""); len(blocks) != 0 {
		t.Errorf("Segment(\"\") = %#v, want none", blocks)
	}
	if blocks := Segment("nothing resembling an entry"); len(blocks) != 0 {
		t.Errorf("Segment() = %#v, want none", blocks)
	}
}

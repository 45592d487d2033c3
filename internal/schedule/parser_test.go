package schedule

import (
	"strings"
	"testing"
	"time"
)

func TestParseTableRoundTrip(t *testing.T) {
	raw := "Subtopic | Duration | Suggested Time Slot\n" +
		"---------|----------|--------------------\n" +
		"Introduction | 30 minutes | 10:00 AM - 10:30 AM\n" +
		"Practice | 1 hour | 10:30 AM - 11:30 AM\n" +
		"Review | 30 minutes | 11:30 AM - 12:00 PM\n"

	rows := ParseTable(raw)
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	want := []Row{
		{"Introduction", "30 minutes", "10:00 AM - 10:30 AM"},
		{"Practice", "1 hour", "10:30 AM - 11:30 AM"},
		{"Review", "30 minutes", "11:30 AM - 12:00 PM"},
	}
	for i, w := range want {
		if rows[i] != w {
			t.Errorf("row[%d] = %+v, want %+v", i, rows[i], w)
		}
	}
}

func TestParseTableScenario(t *testing.T) {
	rows := ParseTable("H|D|S\n--|--|--\nIntro|30 minutes|10:00-10:30\n")
	if len(rows) != 1 {
		t.Fatalf("len = %d, want 1", len(rows))
	}
	if rows[0] != (Row{"Intro", "30 minutes", "10:00-10:30"}) {
		t.Fatalf("row = %+v", rows[0])
	}
}

func TestParseTableLeadingDelimiter(t *testing.T) {
	rows := ParseTable("H|D|S\n--|--\n| Intro | 30 minutes | 10:00 AM - 10:30 AM |\n")
	if len(rows) != 1 {
		t.Fatalf("len = %d, want 1", len(rows))
	}
	if rows[0].Subtopic != "Intro" {
		t.Fatalf("subtopic = %q", rows[0].Subtopic)
	}
}

func TestParseTableDropsShortRows(t *testing.T) {
	raw := "H|D|S\n--|--|--\nonly|two\nIntro|30 minutes|10:00-10:30\nplain text without delimiter\n"
	rows := ParseTable(raw)
	if len(rows) != 1 {
		t.Fatalf("len = %d, want 1 (short and plain rows dropped)", len(rows))
	}
}

func TestParseTableTruncatesExtraFields(t *testing.T) {
	rows := ParseTable("H|D|S\n--|--|--\nIntro|30 minutes|10:00-10:30|notes|more\n")
	if len(rows) != 1 {
		t.Fatalf("len = %d, want 1", len(rows))
	}
	if rows[0].TimeSlot != "10:00-10:30" {
		t.Fatalf("time slot = %q", rows[0].TimeSlot)
	}
}

func TestParseTableEmptyAndHeaderOnly(t *testing.T) {
	if rows := ParseTable(""); rows != nil {
		t.Fatalf("empty input: %v", rows)
	}
	if rows := ParseTable("H|D|S\n--|--|--"); rows != nil {
		t.Fatalf("header only: %v", rows)
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	in := PromptInput{
		Category:       "Programming",
		TaskTitle:      "Learn Go",
		FromDate:       time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		AvailableSlots: []string{"2025-03-16 10:00 AM - 10:30 AM"},
		SearchSnippets: []string{"A Tour of Go"},
	}
	a := BuildPrompt(in)
	b := BuildPrompt(in)
	if a != b {
		t.Fatal("prompt must be deterministic")
	}
	for _, fragment := range []string{
		"Learn Go",
		"Programming",
		"2025-03-16",
		"2025-03-20",
		"10:00 AM - 10:30 AM",
		"A Tour of Go",
		"exactly 3 columns",
		"Separate columns using the '|' symbol",
	} {
		if !strings.Contains(a, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestBuildPromptHandlesEmptyInputs(t *testing.T) {
	p := BuildPrompt(PromptInput{Category: "Math", TaskTitle: "Algebra"})
	if !strings.Contains(p, "none") {
		t.Fatal("expected placeholder for missing slots and snippets")
	}
}

func TestPromptOutputParsesBack(t *testing.T) {
	// The example table embedded in the prompt must itself satisfy the
	// parser's format assumptions.
	p := BuildPrompt(PromptInput{Category: "C", TaskTitle: "T"})
	idx := strings.Index(p, "Subtopic | Duration | Suggested Time Slot")
	if idx < 0 {
		t.Fatal("prompt missing example header")
	}
	rows := ParseTable(p[idx:])
	if len(rows) != 3 {
		t.Fatalf("example table parsed to %d rows, want 3", len(rows))
	}
	if rows[0].Subtopic != "Introduction" {
		t.Fatalf("first example row = %+v", rows[0])
	}
}

package textnorm

import (
	"strings"
	"testing"
)

func TestNormalize_CollapsesWhitespaceAndQuotes(t *testing.T) {
	input := "НАКАЗ\r\n\r\nкомандира   військової\tчастини «А1890»\r\n  від „17“ березня\t2025  \r\n"
	got := Normalize(input)

	if strings.Contains(got, "\r") {
		t.Error("carriage returns were not removed")
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace runs survive: %q", got)
	}
	if strings.Contains(got, "«") || strings.Contains(got, "„") {
		t.Errorf("quote variants were not folded: %q", got)
	}
	if strings.Contains(got, "\n\n") {
		t.Errorf("empty lines survive: %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"солдат  ПЕТРЕНКО   Іван\tОлександрович",
		"«цитата»\r\nдругий  рядок\n\n\nтретій",
		"",
		"   \n\t\n  ",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize is not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeDocument_KeepsParagraphBreaks(t *testing.T) {
	input := "перший   абзац\r\n\r\n\r\nдругий «абзац»\r\n  \r\nтретій\r\n"
	got := NormalizeDocument(input)

	if got != "перший абзац\n\nдругий \"абзац\"\n\nтретій" {
		t.Errorf("NormalizeDocument = %q", got)
	}
	if len(Paragraphs(got)) != 3 {
		t.Errorf("paragraph structure lost: %q", got)
	}
}

func TestParagraphs(t *testing.T) {
	text := "перший абзац\nпродовження\n\nдругий абзац\n\n\n  третій  \n\n"
	got := Paragraphs(text)
	if len(got) != 3 {
		t.Fatalf("got %d paragraphs, want 3: %v", len(got), got)
	}
	if got[0] != "перший абзац\nпродовження" {
		t.Errorf("first paragraph = %q", got[0])
	}
	if got[2] != "третій" {
		t.Errorf("third paragraph = %q", got[2])
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"17 березня 2025", "17.03.2025", true},
		{"1 січня 2024", "01.01.2024", true},
		{"з \"5\" серпня 2023 року", "05.08.2023", true},
		{"''21'' листопада 2025", "21.11.2025", true},
		{"30 грудня 2025 року", "30.12.2025", true},
		{"17 Березня 2025", "17.03.2025", true},
		{"17 марта 2025", "", false},
		{"немає дати", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseDate(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseDate_RoundTripThroughNormalize(t *testing.T) {
	raw := "з  «17»   березня\t2025 року"
	got, ok := ParseDate(Normalize(raw))
	if !ok || got != "17.03.2025" {
		t.Errorf("ParseDate(Normalize(%q)) = (%q, %v), want (17.03.2025, true)", raw, got, ok)
	}
}

func TestMonthNumber(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"січня", "01", true},
		{"Серпня", "08", true},
		{"ГРУДНЯ", "12", true},
		{"august", "", false},
	}
	for _, tt := range tests {
		got, ok := MonthNumber(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MonthNumber(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatNumericDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"5.8.2023", "05.08.2023", true},
		{"17.03.2025", "17.03.2025", true},
		{"31.12.2024", "31.12.2024", true},
		{"32.01.2024", "", false},
		{"10.13.2024", "", false},
		{"not a date", "", false},
	}
	for _, tt := range tests {
		got, ok := FormatNumericDate(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("FormatNumericDate(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

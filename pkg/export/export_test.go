package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coolbeans/oblik/pkg/record"
)

func sampleRecords() []record.PersonnelRecord {
	return []record.PersonnelRecord{
		{
			Rank:       "солдат",
			Name:       "КОВАЛЯ Івана Івановича",
			NameNormal: "КОВАЛЬ Іван Іванович",
			Unit:       "А1890",
			Location:   "ППД",
			Type:       record.TypePermanent,
			Date:       "15.08.2025",
			Meal:       record.MealBreakfast,
			Cause:      "ППОС",
			Action:     record.ActionEnroll,
		},
		{
			Rank:     "сержант",
			Name:     "БОЙКО Петро Петрович",
			Unit:     "А1890",
			Location: "3 НБ",
			Type:     record.TypeMobilized,
			Date:     "16.08.2025",
			Meal:     record.MealLunch,
			Cause:    "Переміщення",
			Action:   record.ActionRemove,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf strings.Builder
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != strings.Join(Columns, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "солдат,КОВАЛЯ Івана Івановича,КОВАЛЬ Іван Іванович,А1890,ППД") {
		t.Errorf("first row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "виключити") {
		t.Errorf("second row lost the action: %q", lines[2])
	}
}

func TestWriteJSON_EmptySliceNotNull(t *testing.T) {
	var buf strings.Builder
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}

func TestSaveJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "records.json")
	want := sampleRecords()
	if err := SaveJSON(path, want); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []record.PersonnelRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	if got[0] != want[0] {
		t.Errorf("first record = %+v, want %+v", got[0], want[0])
	}
}

func TestRunReport(t *testing.T) {
	report := NewRunReport()
	if report.RunID == "" {
		t.Fatal("run ID is empty")
	}
	report.Add("a.txt", 3, nil)
	report.Add("b.txt", 0, errors.New("empty document"))
	report.Finish()

	if report.TotalRecords != 3 {
		t.Errorf("TotalRecords = %d, want 3", report.TotalRecords)
	}
	if report.Failed != 1 {
		t.Errorf("Failed = %d, want 1", report.Failed)
	}
	if report.Documents[1].Error != "empty document" {
		t.Errorf("second document error = %q", report.Documents[1].Error)
	}

	var buf strings.Builder
	if err := report.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded RunReport
	if err := json.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.RunID != report.RunID {
		t.Errorf("round-tripped run ID = %q, want %q", decoded.RunID, report.RunID)
	}
}

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.TXT", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := ListDocuments(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %v, want the two .txt files", paths)
	}
	if filepath.Base(paths[0]) != "a.TXT" || filepath.Base(paths[1]) != "b.txt" {
		t.Errorf("got %v, want sorted a.TXT then b.txt", paths)
	}
}

package extract

import (
	"testing"

	"github.com/coolbeans/oblik/pkg/config"
	"github.com/coolbeans/oblik/pkg/trace"
)

func newTestExtractor(t *testing.T) (*PersonExtractor, *trace.Log) {
	t.Helper()
	log := trace.New(nil)
	return NewPersonExtractor(config.Default(), log), log
}

func findPerson(people []Person, rank, name string) bool {
	for _, p := range people {
		if p.Rank == rank && p.Name == name {
			return true
		}
	}
	return false
}

func TestPersons_ExclusionPhraseYieldsNothing(t *testing.T) {
	e, log := newTestExtractor(t)
	text := "Тимчасове виконання обов'язків покласти на солдата ПЕТРЕНКА Івана Олександровича"
	people := e.Persons(text)
	if len(people) != 0 {
		t.Fatalf("got %d people from a duty-reassignment passage, want 0: %v", len(people), people)
	}
	if !log.Has(trace.PathExclusionPhrase) {
		t.Error("exclusion decision was not traced")
	}
}

func TestPersons_NumberedEntry(t *testing.T) {
	e, _ := newTestExtractor(t)
	text := "у кількості 1 осіб:\n1. солдат ПЕТРЕНКО Іван Олександрович"
	people := e.Persons(text)
	if len(people) != 1 {
		t.Fatalf("got %d people, want 1: %v", len(people), people)
	}
	if people[0].Rank != "солдат" || people[0].Name != "ПЕТРЕНКО Іван Олександрович" {
		t.Errorf("got %+v, want солдат ПЕТРЕНКО Іван Олександрович", people[0])
	}
}

func TestPersons_DirectMobilization(t *testing.T) {
	e, log := newTestExtractor(t)
	text := "Солдата за призовом по мобілізації КОВАЛЯ Петра Івановича зарахувати на котлове забезпечення."
	people := e.Persons(text)
	if !findPerson(people, "солдат", "КОВАЛЯ Петра Івановича") {
		t.Fatalf("mobilized person not found: %v", people)
	}
	if !log.Has(trace.PathDirectMobilization) {
		t.Error("direct-mobilization path was not traced")
	}
}

func TestPersons_GenitiveRankIsCanonicalized(t *testing.T) {
	e, _ := newTestExtractor(t)
	text := "Старшого солдата БОНДАРЕНКА Олега Петровича, зарахувати на котлове забезпечення"
	people := e.Persons(text)
	if !findPerson(people, "старший солдат", "БОНДАРЕНКА Олега Петровича") {
		t.Fatalf("genitive rank was not canonicalized: %v", people)
	}
}

func TestPersons_CountReconciliationByCommaSplit(t *testing.T) {
	e, _ := newTestExtractor(t)
	// Only the leading entry carries a rank; the remaining names must be
	// recovered by comma splitting with the leading rank.
	text := "у кількості 3 осіб: солдат ШЕВЧЕНКО Тарас Григорович, МЕЛЬНИК Олег Іванович, ТКАЧЕНКО Петро Сергійович\nПідстава: рапорт"
	people := e.Persons(text)
	if len(people) != 3 {
		t.Fatalf("got %d people, want 3: %v", len(people), people)
	}
	if !findPerson(people, "солдат", "МЕЛЬНИК Олег Іванович") {
		t.Errorf("comma-split entry missing leading rank: %v", people)
	}
}

func TestPersons_MaterielSupportFalsePositiveRejected(t *testing.T) {
	e, _ := newTestExtractor(t)
	text := "солдата Івана Петровича Коваленка з матеріального забезпечення"
	for _, p := range e.Persons(text) {
		if badName(p.Name) {
			t.Errorf("blacklisted name survived: %+v", p)
		}
	}
}

func TestPersons_DuplicateCollapsed(t *testing.T) {
	e, _ := newTestExtractor(t)
	text := "солдат ПЕТРЕНКО Іван Олександрович, солдат ПЕТРЕНКО Іван Олександрович"
	people := e.Persons(text)
	if len(people) != 1 {
		t.Fatalf("duplicate mention not collapsed: %v", people)
	}
}

func TestListBlocks_UnitLedWithCount(t *testing.T) {
	e, _ := newTestExtractor(t)
	text := "військовослужбовців військової частини А2222, у кількості 2 осіб:\nсолдат КОВАЛЬ Іван Іванович\nсолдат БОЙКО Петро Петрович\nПідстава: рапорт"
	blocks := e.ListBlocks(text)
	if len(blocks) == 0 {
		t.Fatal("no list blocks found")
	}
	b := blocks[0]
	if b.Kind != ListBlockUnitLed {
		t.Errorf("Kind = %q, want %q", b.Kind, ListBlockUnitLed)
	}
	if b.UnitHint != "А2222" {
		t.Errorf("UnitHint = %q, want А2222", b.UnitHint)
	}
	if b.ExpectedCount != 2 {
		t.Errorf("ExpectedCount = %d, want 2", b.ExpectedCount)
	}
}

func TestListBlocks_LatinUnitLetterNormalized(t *testing.T) {
	e, _ := newTestExtractor(t)
	text := "з військовослужбовців військової частини A-3333:\nсолдат КОВАЛЬ Іван Іванович"
	blocks := e.ListBlocks(text)
	if len(blocks) == 0 {
		t.Fatal("no list blocks found")
	}
	if blocks[0].UnitHint != "А3333" {
		t.Errorf("UnitHint = %q, want А3333 (Cyrillic А)", blocks[0].UnitHint)
	}
	if blocks[0].Kind != ListBlockFromUnit {
		t.Errorf("Kind = %q, want %q", blocks[0].Kind, ListBlockFromUnit)
	}
}

func TestListBlocks_DestinationSkippedWhenOverlapping(t *testing.T) {
	e, _ := newTestExtractor(t)
	text := "до військової частини А4444:\n1. солдат КОВАЛЬ Іван Іванович\nПідстава: рапорт"
	blocks := e.ListBlocks(text)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != ListBlockDestination {
		t.Errorf("Kind = %q, want %q", blocks[0].Kind, ListBlockDestination)
	}
	if blocks[0].UnitHint != "А4444" {
		t.Errorf("UnitHint = %q, want А4444", blocks[0].UnitHint)
	}
}

func TestRankAndName(t *testing.T) {
	e, _ := newTestExtractor(t)

	rank, name, ok := e.RankAndName("5. молодшого сержанта за призовом по мобілізації КУЛИКА Віталія Борисовича")
	if !ok || rank != "молодший сержант" || name != "КУЛИКА Віталія Борисовича" {
		t.Errorf("mobilization form: got (%q, %q, %v)", rank, name, ok)
	}

	rank, name, ok = e.RankAndName("капітана ЛИСЕНКА Андрія Миколайовича")
	if !ok || rank != "капітан" || name != "ЛИСЕНКА Андрія Миколайовича" {
		t.Errorf("standard form: got (%q, %q, %v)", rank, name, ok)
	}

	if _, _, ok = e.RankAndName("немає нікого в цьому рядку"); ok {
		t.Error("expected no match on rank-free text")
	}
}

func TestPersonnelTypeOf(t *testing.T) {
	if got := PersonnelTypeOf("курсанта ШЕВЧЕНКА Тараса Григоровича"); got != "Курсант" {
		t.Errorf("cadet text = %q, want Курсант", got)
	}
	if got := PersonnelTypeOf("солдата КОВАЛЯ Івана Івановича"); got != "Постійний склад" {
		t.Errorf("plain text = %q, want Постійний склад", got)
	}
}

package section

import (
	"strings"
	"testing"

	"github.com/coolbeans/oblik/pkg/config"
	"github.com/coolbeans/oblik/pkg/trace"
)

func TestCarve_BetweenMarkers(t *testing.T) {
	text := "Шапка наказу\n" +
		"Вважати такими, що прибули та приступили до виконання службових обов'язків:\n" +
		"тіло прибуття\n" +
		"Вважати такими, що вибули:\n" +
		"тіло вибуття\n" +
		"Командир військової частини А1890"
	w := Carve(text, nil)
	if w.Fallback {
		t.Fatal("Fallback set although the arrival marker is present")
	}
	if !strings.Contains(w.Arrival, "тіло прибуття") {
		t.Errorf("Arrival = %q, want the arrival body", w.Arrival)
	}
	if strings.Contains(w.Arrival, "тіло вибуття") {
		t.Errorf("Arrival leaked past the departure marker: %q", w.Arrival)
	}
	if w.Departure != "тіло вибуття" {
		t.Errorf("Departure = %q, want тіло вибуття", w.Departure)
	}
}

func TestCarve_NoArrivalMarkerFallsBackToWholeDocument(t *testing.T) {
	log := trace.New(nil)
	w := Carve("документ без маркерів", log)
	if !w.Fallback {
		t.Error("Fallback not set")
	}
	if w.Arrival != "документ без маркерів" {
		t.Errorf("Arrival = %q, want the whole document", w.Arrival)
	}
	if !log.Has(trace.PathWindowFallback) {
		t.Error("window fallback was not traced")
	}
}

func TestCarve_NoDepartureMarker(t *testing.T) {
	text := "Вважати такими, що прибули та приступили до виконання службових обов'язків:\nтіло до кінця"
	w := Carve(text, nil)
	if !strings.Contains(w.Arrival, "тіло до кінця") {
		t.Errorf("Arrival = %q, want text to end of document", w.Arrival)
	}
	if w.Departure != "" {
		t.Errorf("Departure = %q, want empty", w.Departure)
	}
}

func TestFindSections_MarkersAndOrder(t *testing.T) {
	log := trace.New(nil)
	text := "Відповідно до мобілізаційного призначення прибули:\nсолдат КОВАЛЬ Іван Іванович\n\n" +
		"10.2. З відрядження:\nсолдат БОЙКО Петро Петрович"
	sections := FindSections(text, log)
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2: %+v", len(sections), sections)
	}
	if sections[0].Kind != KindPPOS {
		t.Errorf("first section kind = %q, want %q", sections[0].Kind, KindPPOS)
	}
	if sections[1].Kind != KindTripReturn {
		t.Errorf("second section kind = %q, want %q", sections[1].Kind, KindTripReturn)
	}
	if sections[0].Start > sections[1].Start {
		t.Error("sections out of positional order")
	}
	if log.Count(trace.PathSectionDetected) != 2 {
		t.Errorf("detected %d sections in trace, want 2", log.Count(trace.PathSectionDetected))
	}
}

func TestFindSections_NoMarkersReturnsWholeBlock(t *testing.T) {
	sections := FindSections("текст без жодного маркера", nil)
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if sections[0].Kind != KindPPOS || sections[0].Start != 0 {
		t.Errorf("got %+v, want whole block as %s", sections[0], KindPPOS)
	}
}

func TestFindSections_TripArrivalRefinedToTraining(t *testing.T) {
	log := trace.New(nil)
	text := "Нижчепойменованих військовослужбовців вважати такими, що прибули у службове відрядження " +
		"з метою проходження навчання до навчального центру"
	sections := FindSections(text, log)
	if len(sections) == 0 {
		t.Fatal("no sections found")
	}
	if sections[0].Kind != KindTripTraining {
		t.Errorf("kind = %q, want %q", sections[0].Kind, KindTripTraining)
	}
	if !log.Has(trace.PathSectionRefined) {
		t.Error("refinement was not traced")
	}
}

func TestFindSections_TripArrivalStaysServiceTrip(t *testing.T) {
	text := "Нижчепойменованих військовослужбовців вважати такими, що прибули у службове відрядження " +
		"з метою виконання службового завдання до військової частини А1890"
	sections := FindSections(text, nil)
	if len(sections) == 0 {
		t.Fatal("no sections found")
	}
	if sections[0].Kind != KindTripArrival {
		t.Errorf("kind = %q, want %q", sections[0].Kind, KindTripArrival)
	}
}

func TestFindSections_HospitalAlternativePattern(t *testing.T) {
	sections := FindSections("11.4. з лікарні виписаний солдат КОВАЛЬ Іван Іванович", nil)
	if len(sections) == 0 {
		t.Fatal("no sections found")
	}
	if sections[0].Kind != KindHospital {
		t.Errorf("kind = %q, want %q", sections[0].Kind, KindHospital)
	}
}

func TestSplit_NumberedSubsections(t *testing.T) {
	text := "11.1. перший пункт\nрядок один\n\nрядок два\n11.2. другий пункт"
	subs := Split(text)
	if len(subs) != 2 {
		t.Fatalf("got %d subsections, want 2: %+v", len(subs), subs)
	}
	if subs[0].Number != "11.1." {
		t.Errorf("first number = %q, want 11.1.", subs[0].Number)
	}
	if len(subs[0].Paragraphs) != 2 {
		t.Errorf("first subsection has %d paragraphs, want 2: %v", len(subs[0].Paragraphs), subs[0].Paragraphs)
	}
	if subs[1].Number != "11.2." || len(subs[1].Paragraphs) != 1 || subs[1].Paragraphs[0] != "другий пункт" {
		t.Errorf("second subsection = %+v", subs[1])
	}
}

func TestSplit_NumberOnlyHeadingLine(t *testing.T) {
	// A point number alone on its line, with the next point starting on
	// the very next line, must not break the boundary math.
	subs := Split("11.1.\n11.2. солдат ПЕТРЕНКО Іван Олександрович")
	if len(subs) != 1 {
		t.Fatalf("got %d subsections, want 1: %+v", len(subs), subs)
	}
	if subs[0].Number != "11.2." {
		t.Errorf("number = %q, want 11.2.", subs[0].Number)
	}
	if len(subs[0].Paragraphs) != 1 || !strings.Contains(subs[0].Paragraphs[0], "ПЕТРЕНКО") {
		t.Errorf("paragraphs = %v", subs[0].Paragraphs)
	}
}

func TestSplit_AltUnitHeading(t *testing.T) {
	text := "11.9.1 військовослужбовців військової частини А2222:\nсолдат КОВАЛЬ Іван Іванович"
	subs := Split(text)
	if len(subs) != 1 {
		t.Fatalf("got %d subsections, want 1: %+v", len(subs), subs)
	}
	if subs[0].Number != "11.9.1" {
		t.Errorf("number = %q, want 11.9.1", subs[0].Number)
	}
}

func TestSplit_NoNumbersReturnsParagraphs(t *testing.T) {
	subs := Split("перший абзац\n\nдругий абзац")
	if len(subs) != 1 {
		t.Fatalf("got %d subsections, want 1", len(subs))
	}
	if subs[0].Number != "" {
		t.Errorf("number = %q, want empty", subs[0].Number)
	}
	if len(subs[0].Paragraphs) != 2 {
		t.Errorf("got %d paragraphs, want 2: %v", len(subs[0].Paragraphs), subs[0].Paragraphs)
	}
}

func TestSZCHFinder_NumberedPoint(t *testing.T) {
	f := NewSZCHFinder(config.Default())
	log := trace.New(nil)
	text := "1. Солдата КОВАЛЯ Івана Івановича у зв'язку з самовільним залишенням частини " +
		"виключити з усіх видів забезпечення.\n2. Інший пункт без ознак."
	sections := f.Find(text, log)
	if len(sections) == 0 {
		t.Fatal("no absence sections found")
	}
	if sections[0].Kind != KindSZCH {
		t.Errorf("kind = %q, want %q", sections[0].Kind, KindSZCH)
	}
	if !strings.Contains(sections[0].Text, "КОВАЛЯ") {
		t.Errorf("section text missing the person: %q", sections[0].Text)
	}
}

func TestSZCHFinder_KeywordFallbackRequiresRank(t *testing.T) {
	f := NewSZCHFinder(config.Default())
	log := trace.New(nil)
	// No numbered points at all; rank-free context must yield nothing
	// beyond the general pass, which also requires a rank.
	sections := f.Find("самовільне залишення згадано без жодного звання", log)
	if len(sections) != 0 {
		t.Fatalf("got %d sections from rank-free text, want 0", len(sections))
	}
	if !log.Has(trace.PathKeywordFallback) {
		t.Error("keyword fallback was not traced")
	}
}

func TestSZCHFinder_CleanTextFindsNothing(t *testing.T) {
	f := NewSZCHFinder(config.Default())
	sections := f.Find("1. солдат КОВАЛЬ Іван Іванович зарахувати на котлове забезпечення", nil)
	if len(sections) != 0 {
		t.Fatalf("got %d sections from clean text, want 0: %+v", len(sections), sections)
	}
}

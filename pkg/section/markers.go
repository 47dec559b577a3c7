package section

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/coolbeans/oblik/pkg/trace"
)

// Section kinds, named after the heading phrases of the source orders.
const (
	KindPPOS              = "ППОС"
	KindTripReturn        = "Повернення з відрядження"
	KindVacationAnnual    = "Відпустка щорічна"
	KindVacationFamily    = "Відпустка сімейна"
	KindVacationTreatment = "Відпустка лікування"
	KindHospital          = "Лікарня"
	KindTripArrival       = "Прибуття у відрядження"
	KindTripTraining      = "Прибуття у відрядження (навчання)"
	KindIllness           = "Хвороба"
	KindTripA1890         = "Відрядження А1890"
	KindLocationTransfer  = "Переведення між локаціями"
)

// Section is one typed region of the arrival block. Start is the byte
// offset of the heading inside the block the section was cut from.
type Section struct {
	Kind  string
	Text  string
	Start int
}

type marker struct {
	pattern *regexp.Regexp
	kind    string
}

// numberedPrefix lets every marker also match inside a numbered
// subpoint, e.g. "10.2. З відрядження:".
const numberedPrefix = `(?i)(?:\d+\.\d+\.\s*)?`

func literalMarker(text, kind string) marker {
	text = strings.ReplaceAll(text, ":", "")
	return marker{regexp.MustCompile(numberedPrefix + regexp.QuoteMeta(text)), kind}
}

func patternMarker(expr, kind string) marker {
	return marker{regexp.MustCompile(numberedPrefix + expr), kind}
}

// sectionMarkers is the heading table, ordered from most to least
// specific within each kind. Numbered variants come first so the
// refinement context starts at the heading.
var sectionMarkers = []marker{
	patternMarker(`\d+\.\d+\.\s*Відповідно до мобілізаційного призначення`, KindPPOS),
	literalMarker(`Відповідно до мобілізаційного призначення`, KindPPOS),

	patternMarker(`\d+\.\d+\.\d+\s+з військової частини`, KindTripReturn),
	patternMarker(`\d+\.\d+\.\s*З відрядження`, KindTripReturn),
	literalMarker(`З відрядження`, KindTripReturn),

	patternMarker(`\d+\.\d+\.\s*З частини щорічної основної відпустки`, KindVacationAnnual),
	literalMarker(`З частини щорічної основної відпустки`, KindVacationAnnual),
	patternMarker(`\d+\.\d+\.\s*З відпустки за сімейними обставинами`, KindVacationFamily),
	literalMarker(`З відпустки за сімейними обставинами`, KindVacationFamily),
	patternMarker(`\d+\.\d+\.\s*З відпустки для лікування`, KindVacationTreatment),
	literalMarker(`З відпустки для лікування`, KindVacationTreatment),

	patternMarker(`\d+\.\d+\.\d+\s+з.*?лікувального закладу`, KindHospital),
	literalMarker(`з лікувального закладу`, KindHospital),

	patternMarker(`\d+\.\d+\.\s*Нижчепойменованих військовослужбовців вважати такими, що прибули у службове відрядження`, KindTripArrival),
	literalMarker(`Нижчепойменованих військовослужбовців вважати такими, що прибули у службове відрядження до`, KindTripArrival),
	literalMarker(`Нижчепойменованих військовослужбовців вважати такими, що прибули у службове відрядження`, KindTripArrival),

	patternMarker(`\d+\.\d+\.\s*Нижчепойменовані військовослужбовці, які були звільнені від виконання службових обов'язків`, KindIllness),
	literalMarker(`Нижчепойменовані військовослужбовці, які були звільнені від виконання службових обов'язків у зв'язку з хворобою`, KindIllness),

	patternMarker(`\d+\.\d+\.\d+\s+військовослужбов.*?А1890.*?вважати такими, що вибули`, KindTripA1890),
	literalMarker(`Нижчепойменованих військовослужбовців, які перебували у відрядженні у військовій частині А1890, вважати такими, що вибули`, KindTripA1890),

	patternMarker(`до \d+ навчального батальйону (?:школи )?(?:індивідуальної підготовки)?`, KindLocationTransfer),
}

// hospitalAltPatterns catch medical-discharge sections whose heading
// wording is not in the main table.
var hospitalAltPatterns = []*regexp.Regexp{
	regexp.MustCompile(numberedPrefix + `з\s+лікувального\s+закладу`),
	regexp.MustCompile(numberedPrefix + `з\s+лікарні`),
	regexp.MustCompile(numberedPrefix + `з\s+медичного\s+закладу`),
	regexp.MustCompile(numberedPrefix + `з\s+медичного\s+установи`),
}

var (
	tripTrainingPhrases = []string{
		"з метою проходження навчання",
		"для проходження навчання",
		"з метою навчання",
		"навчального батальйону",
		"школи індивідуальної підготовки",
	}
	tripServicePhrases = []string{
		"з метою виконання службового завдання",
		"для виконання службового завдання",
		"для виконання службових обов'язків",
	}
	tripDestinationUnitPattern      = regexp.MustCompile(`(?i)до\s+військової\s+частини\s+[АA]-?\d{4}`)
	tripDestinationBattalionPattern = regexp.MustCompile(`(?i)до\s+\d+-?(?:го|й)?\s+навчальн(?:ого|ий)\s+батальйон`)

	hospitalKeywords = []string{
		"лікувальний заклад",
		"лікарня",
		"медичний заклад",
		"медична установа",
		"виписаний",
		"виписана",
		"виписаних",
		"виписний епікриз",
	}
)

// refineContextWindow bounds how far past the heading context sniffing
// looks when deciding between section kinds.
const refineContextWindow = 500

// FindSections scans the arrival block for the known heading markers
// and returns the typed sections between them, sorted by position.
// A block with no recognizable heading is returned whole as a single
// mobilization-assignment section.
func FindSections(text string, log *trace.Log) []Section {
	type start struct {
		pos  int
		kind string
	}
	var starts []start
	seen := make(map[int]bool)

	for _, m := range sectionMarkers {
		for _, loc := range m.pattern.FindAllStringIndex(text, -1) {
			// Numbered and plain variants of the same heading match at
			// the same offset; the first, most specific marker wins.
			if seen[loc[0]] {
				continue
			}
			kind := m.kind
			switch kind {
			case KindTripArrival:
				kind = refineTripKind(text, loc[0], kind, log)
			case KindHospital:
				confirmHospital(text, loc[0], log)
			}
			starts = append(starts, start{pos: loc[0], kind: kind})
			seen[loc[0]] = true
		}
	}

	for _, p := range hospitalAltPatterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			if seen[loc[0]] {
				continue
			}
			seen[loc[0]] = true
			starts = append(starts, start{pos: loc[0], kind: KindHospital})
		}
	}

	if len(starts) == 0 {
		log.Record(trace.PathSectionDetected, "no markers, whole block as "+KindPPOS)
		return []Section{{Kind: KindPPOS, Text: text, Start: 0}}
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i].pos < starts[j].pos })

	sections := make([]Section, 0, len(starts))
	for i, s := range starts {
		end := len(text)
		if i < len(starts)-1 {
			end = starts[i+1].pos
		}
		sections = append(sections, Section{Kind: s.kind, Text: text[s.pos:end], Start: s.pos})
		log.Record(trace.PathSectionDetected, fmt.Sprintf("%s at %d", s.kind, s.pos))
	}
	return sections
}

// refineTripKind decides between a training trip and a service trip by
// sniffing the text right after the heading.
func refineTripKind(text string, pos int, kind string, log *trace.Log) string {
	context := strings.ToLower(contextAfter(text, pos))
	for _, phrase := range tripTrainingPhrases {
		if strings.Contains(context, phrase) {
			log.Record(trace.PathSectionRefined, KindTripTraining)
			return KindTripTraining
		}
	}
	for _, phrase := range tripServicePhrases {
		if strings.Contains(context, phrase) {
			return kind
		}
	}
	if tripDestinationUnitPattern.MatchString(context) {
		return kind
	}
	if tripDestinationBattalionPattern.MatchString(context) || strings.Contains(context, "школи") {
		log.Record(trace.PathSectionRefined, KindTripTraining)
		return KindTripTraining
	}
	return kind
}

func confirmHospital(text string, pos int, log *trace.Log) {
	context := strings.ToLower(contextAfter(text, pos))
	for _, keyword := range hospitalKeywords {
		if strings.Contains(context, keyword) {
			log.Record(trace.PathSectionRefined, KindHospital+" confirmed")
			return
		}
	}
}

func contextAfter(text string, pos int) string {
	end := pos + refineContextWindow
	if end > len(text) {
		end = len(text)
	}
	return text[pos:end]
}

package process

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coolbeans/oblik/pkg/extract"
	"github.com/coolbeans/oblik/pkg/record"
	"github.com/coolbeans/oblik/pkg/trace"
)

var (
	// firstNumberedEntry marks where the mobilization preamble ends and
	// the per-person entries begin.
	firstNumberedEntry = regexp.MustCompile(`(?m)^\s*1\.\s+`)

	// arrivalOriginPattern captures where a mobilized person arrived
	// from ("який прибув з міста Київ;").
	arrivalOriginPattern = regexp.MustCompile(`(?i)який\s+прибув\s+з\s+([^;\n]+)`)

	battalionNumberPattern = regexp.MustCompile(`(?i)(\d+)\s+навчального\s+батальйону`)
)

// mobilizationDefaultLocation is where mobilized arrivals are placed
// when neither a trigger nor a battalion number says otherwise.
const mobilizationDefaultLocation = "НЦ"

// processMobilization handles arrivals under a mobilization assignment.
// The section preamble carries the shared unit, date, meal and location;
// each numbered entry carries the people and their origin.
func (p *Pipeline) processMobilization(text string) []record.PersonnelRecord {
	preamble := text
	body := text
	if loc := firstNumberedEntry.FindStringIndex(text); loc != nil {
		preamble = strings.TrimSpace(text[:loc[0]])
		body = text[loc[0]:]
	}

	unit := p.units.Unit(preamble)
	if unit == "" {
		unit = p.cfg.DefaultUnit
	}
	arrivalDate := extract.SectionDate(preamble, "")
	meal, mealDate := extract.MealInfo(preamble, "")
	if meal == "" {
		meal = p.cfg.DefaultMeal
	}
	date := mealDate
	if date == "" {
		date = arrivalDate
	}

	location := p.locs.Resolve(preamble)
	if location == "" {
		if m := battalionNumberPattern.FindStringSubmatch(preamble); m != nil {
			location = m[1] + " НБ"
		} else {
			location = mobilizationDefaultLocation
		}
	}

	var records []record.PersonnelRecord
	for _, entry := range numberedEntries(body) {
		persons := p.persons.Persons(entry)
		if len(persons) == 0 {
			continue
		}

		entryLocation := p.locs.ResolveOr(entry, location)

		origin := "Не вказано"
		if m := arrivalOriginPattern.FindStringSubmatch(entry); m != nil {
			origin = strings.TrimSpace(m[1])
			if cut := strings.Index(origin, "Підстава:"); cut >= 0 {
				origin = strings.TrimSpace(origin[:cut])
			}
		}

		lower := strings.ToLower(entry)
		personnelType := extract.PersonnelTypeOf(entry)
		if strings.Contains(lower, "курсант") {
			personnelType = record.TypeCadet
		} else if strings.Contains(lower, "мобілізації") {
			personnelType = record.TypeMobilized
		}

		cause := fmt.Sprintf("ППОС (прибув з: %s)", origin)
		for _, person := range persons {
			if p.tracker.Seen(person.Rank, person.Name, record.AnyAction, date) {
				p.log.Record(trace.PathDuplicateSkip, person.Rank+" "+person.Name)
				continue
			}
			records = append(records, record.New(
				person.Rank, person.Name, unit, entryLocation,
				personnelType, date, meal, cause, p.cfg.DefaultUnit))
			p.tracker.Add(person.Rank, person.Name, record.AnyAction, date)
		}
	}
	return records
}

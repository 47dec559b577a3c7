package process

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coolbeans/oblik/pkg/extract"
	"github.com/coolbeans/oblik/pkg/record"
	"github.com/coolbeans/oblik/pkg/section"
	"github.com/coolbeans/oblik/pkg/trace"
)

var (
	// tripOriginQuotedPattern reads the trip origin from a heading that
	// carries a quoted return date, preferring an explicit unit mention.
	tripOriginQuotedPattern = regexp.MustCompile(
		`(?i)з\s+((?:військової\s+частини\s+[А-Я]\d{4})|[^,\n]+?)(?:,|\s+з)?\s*(?:''|")\d{1,2}(?:''|")`)

	// tripOriginSimplePattern is the loose fallback: anything between
	// "з" and the heading colon.
	tripOriginSimplePattern = regexp.MustCompile(`(?i)з\s+([^:\n]+?):`)
)

// processTripReturn handles returns from service trips. Each subsection
// names the origin in its heading; each paragraph carries people with
// their own date and meal.
func (p *Pipeline) processTripReturn(text string) []record.PersonnelRecord {
	var records []record.PersonnelRecord
	for _, sub := range section.Split(text) {
		origin := "Unknown Origin"
		if len(sub.Paragraphs) > 0 {
			header := sub.Paragraphs[0]
			if m := tripOriginQuotedPattern.FindStringSubmatch(header); m != nil {
				origin = strings.TrimSpace(m[1])
			} else if m := tripOriginSimplePattern.FindStringSubmatch(header); m != nil {
				origin = strings.TrimSpace(m[1])
			}
		}
		cause := fmt.Sprintf("Повернення з відрядження (%s)", origin)
		records = append(records, p.returnParagraphs(sub.Paragraphs, cause)...)
	}
	return records
}

// processVacationReturn handles returns from leave. The vacation type
// read from the subsection heading becomes part of the cause.
func (p *Pipeline) processVacationReturn(text string) []record.PersonnelRecord {
	var records []record.PersonnelRecord
	for _, sub := range section.Split(text) {
		header := text
		if len(sub.Paragraphs) > 0 {
			header = sub.Paragraphs[0]
		}
		cause := "Повернення з " + vacationTypeOf(header)
		records = append(records, p.returnParagraphs(sub.Paragraphs, cause)...)
	}
	return records
}

// vacationTypeOf classifies the leave type from heading text, most
// specific wording first.
func vacationTypeOf(header string) string {
	lower := strings.ToLower(header)
	switch {
	case strings.Contains(lower, "щорічної основної"),
		strings.Contains(lower, "частини щорічної"):
		return "щорічної основної відпустки"
	case strings.Contains(lower, "за сімейними обставинами"):
		return "відпустки за сімейними обставинами"
	case strings.Contains(lower, "для лікування"),
		strings.Contains(lower, "у зв'язку з хворобою"):
		return "відпустки для лікування"
	case strings.Contains(lower, "за іншими поважними причинами"):
		return "відпустки за іншими поважними причинами"
	case strings.Contains(lower, "відпустки"), strings.Contains(lower, "відпустку"):
		return "відпустки (тип не уточнено)"
	}
	return "відпустки (тип не знайдено)"
}

// returnParagraphs emits one enrollment record per person found in each
// paragraph, with the paragraph's own date, meal and location.
func (p *Pipeline) returnParagraphs(paragraphs []string, cause string) []record.PersonnelRecord {
	var records []record.PersonnelRecord
	for _, para := range paragraphs {
		persons := p.persons.Persons(para)
		if len(persons) == 0 {
			continue
		}

		returnDate := extract.SectionDate(para, "")
		meal, mealDate := extract.MealInfo(para, "")
		if meal == "" {
			meal = p.cfg.DefaultMeal
		}
		date := mealDate
		if date == "" {
			date = returnDate
		}
		location := p.locs.ResolveOr(para, p.cfg.DefaultLocation)
		personnelType := extract.PersonnelTypeOf(para)

		for _, person := range persons {
			if p.tracker.Seen(person.Rank, person.Name, record.AnyAction, date) {
				p.log.Record(trace.PathDuplicateSkip, person.Rank+" "+person.Name)
				continue
			}
			records = append(records, record.New(
				person.Rank, person.Name, p.cfg.DefaultUnit, location,
				personnelType, date, meal, cause, p.cfg.DefaultUnit))
			p.tracker.Add(person.Rank, person.Name, record.AnyAction, date)
		}
	}
	return records
}

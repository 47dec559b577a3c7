package process

import (
	"regexp"

	"github.com/coolbeans/oblik/pkg/extract"
	"github.com/coolbeans/oblik/pkg/record"
	"github.com/coolbeans/oblik/pkg/section"
	"github.com/coolbeans/oblik/pkg/trace"
)

// headerUnitPattern reads the origin unit from a subsection heading.
var headerUnitPattern = regexp.MustCompile(`(?i)(?:з|до)\s+військової\s+частини\s+([АA]-?\d{4})`)

// trainingArrivalLocation is where training-trip arrivals are placed
// when the paragraph names no location.
const trainingArrivalLocation = "НЦ"

// processTrainingArrival handles arrivals on a training trip.
func (p *Pipeline) processTrainingArrival(text string) []record.PersonnelRecord {
	return p.arrivalParagraphs(text, trainingArrivalLocation, "Прибуття у відрядження для навчання")
}

// processAssignmentArrival handles arrivals on a service trip.
func (p *Pipeline) processAssignmentArrival(text string) []record.PersonnelRecord {
	return p.arrivalParagraphs(text, p.cfg.DefaultLocation, record.CauseMissionTrip)
}

// arrivalParagraphs walks the subsections of a trip-arrival section.
// The origin unit comes from the paragraph, then the subsection
// heading, then the home unit.
func (p *Pipeline) arrivalParagraphs(text, defaultLocation, cause string) []record.PersonnelRecord {
	var records []record.PersonnelRecord
	for _, sub := range section.Split(text) {
		headerUnit := ""
		if len(sub.Paragraphs) > 0 {
			if m := headerUnitPattern.FindStringSubmatch(sub.Paragraphs[0]); m != nil {
				headerUnit = m[1]
			}
		}

		for _, para := range sub.Paragraphs {
			persons := p.persons.Persons(para)
			if len(persons) == 0 {
				continue
			}

			unit := p.units.Unit(para)
			if unit == "" {
				unit = headerUnit
			}
			location := p.locs.ResolveOr(para, defaultLocation)
			arrivalDate := extract.SectionDate(para, "")
			meal, mealDate := extract.MealInfo(para, "")
			if meal == "" {
				meal = p.cfg.DefaultMeal
			}
			date := mealDate
			if date == "" {
				date = arrivalDate
			}
			personnelType := extract.PersonnelTypeOf(para)

			for _, person := range persons {
				if p.tracker.Seen(person.Rank, person.Name, record.AnyAction, date) {
					p.log.Record(trace.PathDuplicateSkip, person.Rank+" "+person.Name)
					continue
				}
				records = append(records, record.New(
					person.Rank, person.Name, unit, location,
					personnelType, date, meal, cause, p.cfg.DefaultUnit))
				p.tracker.Add(person.Rank, person.Name, record.AnyAction, date)
			}
		}
	}
	return records
}

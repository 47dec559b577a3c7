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

// illnessCause marks people relieved of duties for illness; they stay
// on site, so no roster movement is implied beyond the record itself.
const illnessCause = "Звільнення від обов'язків через хворобу"

// hospitalNamePattern reads the facility name from a subsection
// heading, stopping at a quoted date, a colon, or line end.
var hospitalNamePattern = regexp.MustCompile(`(?i)з\s+(.+?)(?:\s+з\s+(?:''|")\d{1,2}(?:''|")|:|$)`)

var illnessMarkers = []string{
	"звільнені від виконання службових обов'язків",
	"звільнений від виконання службових обов'язків",
}

// processHospitalReturn handles discharges from medical facilities.
// When causeOverride is set the section is an illness-relief one and
// every record carries that cause instead of the facility-return cause.
func (p *Pipeline) processHospitalReturn(text, causeOverride string) []record.PersonnelRecord {
	var records []record.PersonnelRecord
	for _, sub := range section.Split(text) {
		facility := "Невідомий лікувальний заклад"
		if len(sub.Paragraphs) > 0 {
			headerLine, _, _ := strings.Cut(sub.Paragraphs[0], "\n")
			if m := hospitalNamePattern.FindStringSubmatch(headerLine); m != nil {
				facility = strings.TrimSpace(m[1])
			}
		}

		for _, para := range sub.Paragraphs {
			lower := strings.ToLower(para)
			illness := false
			for _, marker := range illnessMarkers {
				if strings.Contains(lower, marker) {
					illness = true
					break
				}
			}
			enrolled := strings.Contains(lower, "зарахувати на котлове")
			// Relief from duties without a roster enrollment moves nobody.
			if illness && !enrolled {
				continue
			}

			persons := p.persons.Persons(para)
			if len(persons) == 0 {
				continue
			}

			cause := causeOverride
			if cause == "" {
				if illness {
					cause = illnessCause
				} else {
					cause = fmt.Sprintf("Повернення з лікувального закладу (%s)", facility)
				}
			}

			unit := p.units.Unit(para)
			eventDate := extract.SectionDate(para, "")
			meal, mealDate := extract.MealInfo(para, "")
			if meal == "" {
				meal = p.cfg.DefaultMeal
			}
			date := mealDate
			if date == "" {
				date = eventDate
			}
			location := p.locs.ResolveOr(para, p.cfg.DefaultLocation)
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

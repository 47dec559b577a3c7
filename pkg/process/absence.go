package process

import (
	"regexp"
	"strings"

	"github.com/coolbeans/oblik/pkg/extract"
	"github.com/coolbeans/oblik/pkg/record"
	"github.com/coolbeans/oblik/pkg/textnorm"
	"github.com/coolbeans/oblik/pkg/trace"
)

// absenceKeywords gate a passage as an unauthorized-absence one; the
// point-level check repeats the gate on the carved point text.
var absenceKeywords = []string{
	"самовільним залишенням",
	"виключити з усіх видів забезпечення",
	"самовільним залишенням частини",
	"самовільним залишенням лікувального закладу",
}

var (
	// absencePointPattern matches "5. Солдата за призовом ... ПРІЗВИЩЕ
	// Ім'я По батькові": point number, rank words, then a 2-3 token name.
	absencePointPattern = regexp.MustCompile(
		`(\d+)\.\s+([А-ЯІЇЄҐа-яіїєґ\s]+?)\s+([А-ЯІЇЄҐ][А-ЯІЇЄҐа-яіїєґ']*(?:\s+[А-ЯІЇЄҐа-яіїєґ][А-ЯІЇЄҐа-яіїєґ']*){1,2})`)

	// absenceAltPointPattern covers an all-caps surname followed by a
	// separate given-name pair.
	absenceAltPointPattern = regexp.MustCompile(
		`(\d+)\.\s+([А-ЯІЇЄҐа-яіїєґ\s]+?)\s+([А-ЯІЇЄҐ]+)\s+([А-ЯІЇЄҐ][а-яіїєґ']+\s+[А-ЯІЇЄҐ][а-яіїєґ']+)`)

	nextAbsencePointPattern = regexp.MustCompile(`\n\s*\d+\.\s+`)

	// absenceDatePatterns try the date formats seen in absence points,
	// tightest first. Each captures (day, month, year).
	absenceDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`з\s+(?:''|")(\d{1,2})(?:''|")\s*(\p{L}+)\s+(\d{4})\s+року`),
		regexp.MustCompile(`(?:''|")(\d{1,2})(?:''|")\s*(\p{L}+)\s+(\d{4})`),
		regexp.MustCompile(`(\d{1,2})\s+(\p{L}+)\s+(\d{4})\s+року`),
		regexp.MustCompile(`з\s+(\d{1,2})\s+(\p{L}+)\s+(\d{4})`),
	}
	absenceNumericDatePattern = regexp.MustCompile(`(\d{1,2}\.\d{1,2}\.\d{4})`)

	// absenceComplexDatePattern digs the date out of a full sentence
	// ("самовільно залишив ... 10 серпня 2024").
	absenceComplexDatePattern = regexp.MustCompile(
		`(?is)самовільно залишив.*?(\d{1,2})[\s\.]+(\p{L}+)[\s\.]+(\d{4})`)

	absenceBattalionPattern = regexp.MustCompile(`(?i)(\d+)\s*навчальн(?:ого|ий)\s*батальйон`)
)

// processAbsence handles unauthorized-absence points: each confirmed
// point removes its person from all provisions.
func (p *Pipeline) processAbsence(text string) []record.PersonnelRecord {
	if len(strings.TrimSpace(text)) < 10 {
		return nil
	}
	lower := strings.ToLower(text)
	gated := false
	for _, key := range absenceKeywords {
		if strings.Contains(lower, key) {
			gated = true
			break
		}
	}
	if !gated {
		return nil
	}

	points := absencePointPattern.FindAllStringSubmatchIndex(text, -1)
	alt := false
	if len(points) == 0 {
		points = absenceAltPointPattern.FindAllStringSubmatchIndex(text, -1)
		alt = true
	}

	var records []record.PersonnelRecord
	for _, m := range points {
		rankText := strings.TrimSpace(text[m[4]:m[5]])
		nameStart := text[m[6]:m[7]]
		if alt {
			nameStart = text[m[6]:m[7]] + " " + text[m[8]:m[9]]
		}
		pointText := absencePointText(text, m[0])

		pointLower := strings.ToLower(pointText)
		confirmed := false
		for _, key := range absenceKeywords {
			if strings.Contains(pointLower, key) {
				confirmed = true
				break
			}
		}
		if !confirmed {
			continue
		}

		// Re-assemble the head of the point so the extractor sees the
		// rank right next to the name even when the point interleaves
		// them with qualifiers.
		combined := rankText + " " + nameStart + ". " + pointText
		persons := p.persons.Persons(combined)
		if len(persons) == 0 {
			continue
		}

		unit := p.units.Unit(pointText)
		departureDate := absenceDate(pointText)
		meal, mealDate := extract.MealInfo(pointText, "")
		if meal == "" {
			meal = p.cfg.DefaultMeal
		}
		date := mealDate
		if date == "" {
			date = departureDate
		}

		location := p.cfg.DefaultLocation
		if bm := absenceBattalionPattern.FindStringSubmatch(pointText); bm != nil {
			location = bm[1] + " НБ"
		}
		personnelType := extract.PersonnelTypeOf(pointText)

		for _, person := range persons {
			if p.tracker.Seen(person.Rank, person.Name, record.AnyAction, date) {
				p.log.Record(trace.PathDuplicateSkip, person.Rank+" "+person.Name)
				continue
			}
			rec := record.New(person.Rank, person.Name, unit, location,
				personnelType, date, meal, record.CauseUnauthorized, p.cfg.DefaultUnit)
			rec.Action = record.ActionRemove
			records = append(records, rec)
			p.tracker.Add(person.Rank, person.Name, record.AnyAction, date)
		}
	}
	return records
}

// absencePointText carves the point starting at start: up to the next
// numbered point, a grounds marker, or the end of the passage.
func absencePointText(text string, start int) string {
	rest := text[start:]
	end := len(rest)
	if next := nextAbsencePointPattern.FindStringIndex(rest[1:]); next != nil {
		end = 1 + next[0]
	} else if cut := strings.Index(rest[1:], "Підстава:"); cut >= 0 {
		end = 1 + cut
	}
	return rest[:end]
}

// absenceDate finds the departure date of an absence point, trying the
// known formats and then the loose sentence form.
func absenceDate(pointText string) string {
	for _, pattern := range absenceDatePatterns {
		if m := pattern.FindStringSubmatch(pointText); m != nil {
			if d, ok := textnorm.ParseDate(m[1] + " " + m[2] + " " + m[3]); ok {
				return d
			}
		}
	}
	if m := absenceNumericDatePattern.FindStringSubmatch(pointText); m != nil {
		if d, ok := textnorm.FormatNumericDate(m[1]); ok {
			return d
		}
	}
	if m := absenceComplexDatePattern.FindStringSubmatch(pointText); m != nil {
		if d, ok := textnorm.ParseDate(m[1] + " " + m[2] + " " + m[3]); ok {
			return d
		}
	}
	return ""
}

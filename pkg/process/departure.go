package process

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/coolbeans/oblik/pkg/extract"
	"github.com/coolbeans/oblik/pkg/record"
	"github.com/coolbeans/oblik/pkg/section"
	"github.com/coolbeans/oblik/pkg/textnorm"
	"github.com/coolbeans/oblik/pkg/trace"
)

// Departure subsection kinds, keyed by their heading phrases.
const (
	departureFurtherService = "further_service"
	departureReserve        = "reserve"
	departureAssignment     = "assignment"
	departureVacation       = "vacation"
	departureSickLeave      = "sick_leave"
	departureHospital       = "hospital"
	departureA1890          = "a1890"
)

var departureHeaderPatterns = []struct {
	kind    string
	pattern *regexp.Regexp
}{
	{departureFurtherService, regexp.MustCompile(`Для\s+подальшого\s+проходження\s+служби:`)},
	{departureReserve, regexp.MustCompile(`У\s+звільнення\s+в\s+запас:`)},
	{departureAssignment, regexp.MustCompile(`У\s+відрядження:`)},
	{departureVacation, regexp.MustCompile(`У\s+частину\s+щорічної\s+основної\s+відпустки`)},
	{departureSickLeave, regexp.MustCompile(`У\s+відпустку\s+для\s+лікування\s+у\s+зв'язку\s+з\s+хворобою:`)},
	{departureHospital, regexp.MustCompile(`У\s+лікувальний\s+заклад:`)},
	{departureA1890, regexp.MustCompile(`\d+\.\d+\.\s*Нижчепойменованих\s+військовослужбовців,\s+які\s+перебували\s+у\s+відрядженні\s+у\s+військовій\s+частині\s+А1890,\s+вважати\s+такими,\s+що\s+вибули`)},
}

var (
	departurePointNumberPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

	// departureDatePatterns read the quoted effective date of a
	// departure, tightest phrasing first. The month group also accepts
	// digits for the numeric-month variant.
	departureDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`[Зз]\s+"(\d{1,2})"\s+([\p{L}\d]+)\s+(\d{4})\s+року`),
		regexp.MustCompile(`[Зз]\s+''(\d{1,2})''\s+([\p{L}\d]+)\s+(\d{4})`),
		regexp.MustCompile(`"(\d{1,2})"\s+([\p{L}\d]+)\s+(\d{4})`),
		regexp.MustCompile(`''(\d{1,2})''\s+([\p{L}\d]+)\s+(\d{4})`),
	}

	// reserveListRemovalPattern is the date phrasing specific to
	// discharge points ("З "20" серпня 2025 року виключити зі списків").
	reserveListRemovalPattern = regexp.MustCompile(
		`[Зз]\s+"(\d{1,2})"\s+([\p{L}\d]+)\s+(\d{4})\s+року\s+виключити\s+зі\s+списків`)

	// vacationExclusionDatePattern ties the date to the roster-removal
	// clause of a leave departure.
	vacationExclusionDatePattern = regexp.MustCompile(
		`[Вв]иключити\s+з\s+котлового\s+забезпечення\s+(?:частини\s+)?.*?(?:зі|з)\s+(?:сніданку|вечері|обіду)\s+(?:''|")?(\d{1,2})(?:''|")?\s+(\p{L}+)\s+(\d{4})`)

	departureHospitalNamePattern = regexp.MustCompile(
		`(?i)до\s+([^,\.]+(?:лікарн|госпітал|шпитал)[^,\.]*)`)

	// a1890SubitemPattern reads one full departing-attachment subitem:
	// number, unit, rank, name, the removal clause, then meal and date.
	a1890SubitemPattern = regexp.MustCompile(
		`(?s)(\d+\.\d+\.\d+)\s+військовослужбовц[а-яіїєґ]*\s+військової\s+частини\s+([АA]-?\d{4})\s*:?\s*([а-яіїєґ][а-яіїєґ\s-]*?)\s+([А-ЯІЇЄҐ][А-ЯІЇЄҐа-яіїєґ']*(?:\s+[А-ЯІЇЄҐ][а-яіїєґ']+){2})(.*?виключити\s+з\s+котлового.*?)(з|зі)\s+(?:''|")(\d{1,2})(?:''|")\s+([а-яіїєґ]+)\s+(\d{4})`)

	a1890HeaderPattern = regexp.MustCompile(
		`(?s)(?:військовослужбовців|військовослужбовця),\s+які\s+перебували\s+у\s+відрядженні.*?вважати\s+такими,\s+що\s+вибули:`)

	a1890LineMealDatePattern = regexp.MustCompile(
		`(з|зі)\s+([а-яіїєґ]+).*?(?:''|")(\d{1,2})(?:''|")\s+([а-яіїєґ]+)\s+(\d{4})`)

	standaloneQuotedDatePattern = regexp.MustCompile(
		`(?:''|")(\d{1,2})(?:''|")\s+([а-яіїєґ]+)\s+(\d{4})`)
)

// a1890Cause marks people whose attachment to the home unit ended.
const a1890Cause = "перебували у відрядженні 1890"

// reserveDefaultLocation is where discharge candidates are mustered
// when nothing in the text says otherwise.
const reserveDefaultLocation = "3 НБ"

// processDeparture walks the departure window: relocation paragraphs go
// to the transfer processor, headed subsections to their handlers, and
// everything outside a recognized subsection through the direct-entry
// scan.
func (p *Pipeline) processDeparture(text string) []record.PersonnelRecord {
	var records []record.PersonnelRecord

	// Paragraphs carrying both roster clauses are relocations between
	// locations, not true departures.
	var transferParagraphs []string
	for _, para := range textnorm.Paragraphs(text) {
		lower := strings.ToLower(para)
		if strings.Contains(lower, "виключити з котлового забезпечення") &&
			strings.Contains(lower, "зарахувати на котлове забезпечення") {
			transferParagraphs = append(transferParagraphs, para)
		}
	}
	if len(transferParagraphs) > 0 {
		records = append(records, p.processTransfer(strings.Join(transferParagraphs, "\n\n"))...)
	}

	type subsection struct {
		kind       string
		start, end int
	}
	var subsections []subsection
	for _, h := range departureHeaderPatterns {
		for _, loc := range h.pattern.FindAllStringIndex(text, -1) {
			subsections = append(subsections, subsection{kind: h.kind, start: loc[0]})
		}
	}
	sort.Slice(subsections, func(i, j int) bool { return subsections[i].start < subsections[j].start })
	for i := range subsections {
		if i < len(subsections)-1 {
			subsections[i].end = subsections[i+1].start
		} else {
			subsections[i].end = len(text)
		}
	}

	if len(subsections) == 0 {
		return append(records, p.directDepartureEntries(text)...)
	}
	if subsections[0].start > 0 {
		records = append(records, p.directDepartureEntries(text[:subsections[0].start])...)
	}
	for _, s := range subsections {
		body := text[s.start:s.end]
		switch s.kind {
		case departureFurtherService:
			records = append(records, p.directDepartureEntries(body)...)
		case departureReserve:
			records = append(records, p.departureToReserve(body)...)
		case departureAssignment:
			records = append(records, p.departureToAssignment(body)...)
		case departureVacation:
			records = append(records, p.departureToVacation(body, "щорічної основної відпустки")...)
		case departureSickLeave:
			records = append(records, p.departureToVacation(body, "відпустки для лікування")...)
		case departureHospital:
			records = append(records, p.departureToHospital(body)...)
		case departureA1890:
			records = append(records, p.departureFromA1890(body)...)
		}
	}
	return records
}

// directDepartureEntries scans X.X.X-numbered points anywhere in the
// text, inferring the cause from each point's wording.
func (p *Pipeline) directDepartureEntries(text string) []record.PersonnelRecord {
	starts := departurePointNumberPattern.FindAllStringIndex(text, -1)
	var records []record.PersonnelRecord
	for i, loc := range starts {
		end := len(text)
		if i < len(starts)-1 {
			end = starts[i+1][0]
		}
		point := text[loc[0]:end]

		persons := p.personsOf(point)
		if len(persons) == 0 {
			continue
		}

		cause := departureCause(point)
		date := p.departureDate(point)
		unit := p.units.Unit(point)
		location := p.locs.ResolveOr(point, p.cfg.DefaultLocation)
		meal, _ := extract.MealInfo(point, p.cfg.DefaultMeal)
		personnelType := extract.PersonnelTypeOf(point)

		for _, person := range persons {
			if p.skip(person.Rank, person.Name, record.ActionRemove, date) {
				continue
			}
			rec := record.New(person.Rank, person.Name, unit, location,
				personnelType, date, meal, cause, p.cfg.DefaultUnit)
			rec.Action = record.ActionRemove
			records = append(records, rec)
			p.tracker.Add(person.Rank, person.Name, record.ActionRemove, date)
		}
	}
	return records
}

// departureCause infers why a person left from the point's wording.
func departureCause(point string) string {
	lower := strings.ToLower(point)
	switch {
	case strings.Contains(lower, "для подальшого проходження служби"),
		strings.Contains(lower, "нового місця служби"):
		return record.CauseFurtherService
	case strings.Contains(lower, "звільнити у запас"),
		strings.Contains(lower, "у звільнення в запас"):
		return record.CauseReserveDischarge
	case strings.Contains(lower, "відрядження"):
		return "Відрядження"
	}
	return "Вибуття"
}

// quotedDepartureDate reads the quoted effective date from a point.
func quotedDepartureDate(text string) (string, bool) {
	for _, pattern := range departureDatePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d, ok := textnorm.ParseDate(m[1] + " " + m[2] + " " + m[3]); ok {
			return d, true
		}
		if n, err := strconv.Atoi(m[2]); err == nil && n >= 1 && n <= 12 {
			if d, ok := textnorm.FormatNumericDate(fmt.Sprintf("%s.%d.%s", m[1], n, m[3])); ok {
				return d, true
			}
		}
	}
	return "", false
}

// departureDate is quotedDepartureDate with the current-date fallback.
func (p *Pipeline) departureDate(text string) string {
	if d, ok := quotedDepartureDate(text); ok {
		return d
	}
	p.log.Record(trace.PathDateFallback, "departure point")
	return p.currentDate()
}

// departureToReserve handles discharge-to-reserve subsections.
func (p *Pipeline) departureToReserve(text string) []record.PersonnelRecord {
	location := p.locs.Resolve(text)
	if location == "" {
		location = reserveDefaultLocation
	}

	var records []record.PersonnelRecord
	for _, sub := range section.Split(text) {
		for _, para := range sub.Paragraphs {
			persons := p.personsOf(para)
			if len(persons) == 0 {
				continue
			}

			date := ""
			if m := reserveListRemovalPattern.FindStringSubmatch(para); m != nil {
				if d, ok := textnorm.ParseDate(m[1] + " " + m[2] + " " + m[3]); ok {
					date = d
				}
			}
			if date == "" {
				date, _ = quotedDepartureDate(para)
			}
			meal, mealDate := extract.MealInfo(para, p.cfg.DefaultMeal)
			if date == "" {
				date = extract.SectionDate(para, "")
			}
			if date == "" {
				date = mealDate
			}
			if date == "" {
				date = p.currentDate()
				p.log.Record(trace.PathDateFallback, "reserve discharge")
			}
			unit := p.units.Unit(para)
			personnelType := extract.PersonnelTypeOf(para)

			for _, person := range persons {
				if p.skip(person.Rank, person.Name, record.ActionRemove, date) {
					continue
				}
				rec := record.New(person.Rank, person.Name, unit, location,
					personnelType, date, meal, record.CauseReserveDischarge, p.cfg.DefaultUnit)
				rec.Action = record.ActionRemove
				records = append(records, rec)
				p.tracker.Add(person.Rank, person.Name, record.ActionRemove, date)
			}
		}
	}
	return records
}

// departureToAssignment handles people sent away on a service trip.
func (p *Pipeline) departureToAssignment(text string) []record.PersonnelRecord {
	var records []record.PersonnelRecord
	for _, sub := range section.Split(text) {
		for _, para := range sub.Paragraphs {
			records = append(records, p.simpleDepartureParagraph(para, "Відрядження", p.cfg.DefaultLocation)...)
		}
	}
	return records
}

// departureToVacation handles leave departures; the leave type from the
// heading shapes the cause.
func (p *Pipeline) departureToVacation(text, vacationType string) []record.PersonnelRecord {
	cause := vacationType
	switch {
	case strings.Contains(vacationType, "щорічної"):
		cause = "У відпустку щорічна"
	case strings.Contains(vacationType, "лікування"):
		cause = "У відпустку лікування"
	}

	var records []record.PersonnelRecord
	for _, sub := range section.Split(text) {
		for _, para := range sub.Paragraphs {
			persons := p.personsOf(para)
			if len(persons) == 0 {
				continue
			}

			date := ""
			if m := vacationExclusionDatePattern.FindStringSubmatch(para); m != nil {
				if d, ok := textnorm.ParseDate(m[1] + " " + m[2] + " " + m[3]); ok {
					date = d
				}
			}
			if date == "" {
				date, _ = quotedDepartureDate(para)
			}
			if date == "" {
				date = p.currentDate()
				p.log.Record(trace.PathDateFallback, "vacation departure")
			}
			meal, _ := extract.MealInfo(para, p.cfg.DefaultMeal)
			unit := p.units.Unit(para)
			location := p.locs.ResolveOr(para, p.cfg.DefaultLocation)
			personnelType := extract.PersonnelTypeOf(para)

			for _, person := range persons {
				if p.skip(person.Rank, person.Name, record.ActionRemove, date) {
					continue
				}
				rec := record.New(person.Rank, person.Name, unit, location,
					personnelType, date, meal, cause, p.cfg.DefaultUnit)
				rec.Action = record.ActionRemove
				records = append(records, rec)
				p.tracker.Add(person.Rank, person.Name, record.ActionRemove, date)
			}
		}
	}
	return records
}

// departureToHospital handles people sent to a medical facility.
func (p *Pipeline) departureToHospital(text string) []record.PersonnelRecord {
	var records []record.PersonnelRecord
	for _, sub := range section.Split(text) {
		for _, para := range sub.Paragraphs {
			persons := p.personsOf(para)
			if len(persons) == 0 {
				continue
			}

			unit := p.cfg.DefaultUnit
			if m := unitMentionPattern.FindStringSubmatch(para); m != nil {
				unit = m[1]
			}
			date := p.departureDate(para)
			meal, _ := extract.MealInfo(para, p.cfg.DefaultMeal)
			location := p.locs.ResolveOr(para, p.cfg.DefaultLocation)
			personnelType := extract.PersonnelTypeOf(para)

			for _, person := range persons {
				if p.skip(person.Rank, person.Name, record.ActionRemove, date) {
					continue
				}
				rec := record.New(person.Rank, person.Name, unit, location,
					personnelType, date, meal, record.CauseHospital, p.cfg.DefaultUnit)
				rec.Action = record.ActionRemove
				records = append(records, rec)
				p.tracker.Add(person.Rank, person.Name, record.ActionRemove, date)
			}
		}
	}
	return records
}

// simpleDepartureParagraph emits a removal per person in the paragraph
// with a fixed cause.
func (p *Pipeline) simpleDepartureParagraph(para, cause, defaultLocation string) []record.PersonnelRecord {
	persons := p.personsOf(para)
	if len(persons) == 0 {
		return nil
	}

	meal, mealDate := extract.MealInfo(para, p.cfg.DefaultMeal)
	date := mealDate
	if date == "" {
		date, _ = quotedDepartureDate(para)
	}
	if date == "" {
		date = extract.SectionDate(para, "")
	}
	if date == "" {
		date = p.currentDate()
		p.log.Record(trace.PathDateFallback, "departure paragraph")
	}
	unit := p.units.Unit(para)
	location := p.locs.ResolveOr(para, defaultLocation)
	personnelType := extract.PersonnelTypeOf(para)

	var records []record.PersonnelRecord
	for _, person := range persons {
		if p.skip(person.Rank, person.Name, record.ActionRemove, date) {
			continue
		}
		rec := record.New(person.Rank, person.Name, unit, location,
			personnelType, date, meal, cause, p.cfg.DefaultUnit)
		rec.Action = record.ActionRemove
		records = append(records, rec)
		p.tracker.Add(person.Rank, person.Name, record.ActionRemove, date)
	}
	return records
}

// departureFromA1890 handles people whose attachment to the home unit
// ended. The structured subitem form is tried first; the loose
// line-per-person form is the fallback.
func (p *Pipeline) departureFromA1890(text string) []record.PersonnelRecord {
	var records []record.PersonnelRecord

	matches := a1890SubitemPattern.FindAllStringSubmatch(text, -1)
	for _, m := range matches {
		unit := p.units.Unit(m[0])
		if unit == "" {
			unit = m[2]
		}
		rank := p.cfg.CanonicalRank(strings.TrimSpace(m[3]))
		name := strings.TrimSpace(m[4])
		meal := m[6] + " " + m[7]
		date, ok := textnorm.ParseDate(m[8] + " " + m[9] + " " + m[10])
		if !ok {
			date = p.currentDate()
			p.log.Record(trace.PathDateFallback, "attachment departure subitem")
		}

		if p.skip(rank, name, record.ActionRemove, date) {
			continue
		}
		rec := record.New(rank, name, unit, p.cfg.DefaultLocation,
			extract.PersonnelTypeOf(m[0]), date, meal, a1890Cause, p.cfg.DefaultUnit)
		rec.Action = record.ActionRemove
		records = append(records, rec)
		p.tracker.Add(rank, name, record.ActionRemove, date)
	}
	if len(matches) > 0 {
		return records
	}

	header := a1890HeaderPattern.FindStringIndex(text)
	if header == nil {
		return records
	}
	body := text[header[1]:]
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rank, name, ok := p.persons.RankAndName(line)
		if !ok {
			continue
		}

		unit := p.units.Unit(line)
		meal := p.cfg.DefaultMeal
		date := ""
		if m := a1890LineMealDatePattern.FindStringSubmatch(line); m != nil {
			meal = m[1] + " " + m[2]
			if d, parsed := textnorm.ParseDate(m[3] + " " + m[4] + " " + m[5]); parsed {
				date = d
			}
		}
		if date == "" {
			date, _ = quotedDepartureDate(line)
		}
		if date == "" {
			if all := standaloneQuotedDatePattern.FindAllStringSubmatch(body, -1); len(all) > 0 {
				last := all[len(all)-1]
				if d, parsed := textnorm.ParseDate(last[1] + " " + last[2] + " " + last[3]); parsed {
					date = d
				}
			}
		}
		if date == "" {
			date = p.currentDate()
			p.log.Record(trace.PathDateFallback, "attachment departure line")
		}

		if p.skip(rank, name, record.ActionRemove, date) {
			continue
		}
		rec := record.New(rank, name, unit, p.cfg.DefaultLocation,
			extract.PersonnelTypeOf(line), date, meal, a1890Cause, p.cfg.DefaultUnit)
		rec.Action = record.ActionRemove
		records = append(records, rec)
		p.tracker.Add(rank, name, record.ActionRemove, date)
	}
	return records
}

// processA1890Departure routes an arrival-window section of the same
// wording through the attachment-departure handler.
func (p *Pipeline) processA1890Departure(text string) []record.PersonnelRecord {
	return p.departureFromA1890(text)
}

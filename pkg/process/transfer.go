package process

import (
	"regexp"
	"strings"

	"github.com/coolbeans/oblik/pkg/extract"
	"github.com/coolbeans/oblik/pkg/record"
	"github.com/coolbeans/oblik/pkg/textnorm"
	"github.com/coolbeans/oblik/pkg/trace"
)

var (
	transferHeaderNumber = regexp.MustCompile(`^\d+\.\d+\.\d+`)

	transferDestinationPattern = regexp.MustCompile(`до\s+(\d+)\s+навчального\s+батальйону`)

	exclusionClausePattern  = regexp.MustCompile(`[Вв]иключити\s+з\s+котлового\s+забезпечення`)
	enrollmentClausePattern = regexp.MustCompile(`[Зз]арахувати\s+на\s+котлове\s+забезпечення`)

	// transferExclusionInfoPattern reads battalion, meal and date out of
	// a full exclusion clause. Groups: battalion, meal prefix, meal
	// word, day, month, year.
	transferExclusionInfoPattern = regexp.MustCompile(
		`[Вв]иключити\s+з\s+котлового\s+забезпечення.*?(\d+)\s+навчального\s+батальйону.*?(з|зі)\s+([а-яіїєґ]+)\s+(?:''|")?(\d{1,2})(?:''|")?\s+([а-яіїєґ]+)\s+(\d{4})`)
	transferEnrollmentInfoPattern = regexp.MustCompile(
		`[Зз]арахувати\s+на\s+котлове\s+забезпечення.*?(\d+)\s+навчального\s+батальйону.*?(з|зі)\s+([а-яіїєґ]+)\s+(?:''|")?(\d{1,2})(?:''|")?\s+([а-яіїєґ]+)\s+(\d{4})`)

	// altExclusionLocationPattern recovers just the source battalion
	// when the clause is too irregular for the full pattern.
	altExclusionLocationPattern = regexp.MustCompile(
		`(?i)виключити\s+з\s+котлового\s+забезпечення[^,]*?(\d+)\s*навчального\s+батальйону`)

	battalionMentionPattern = regexp.MustCompile(`(\d+)\s+навчального\s+батальйону`)
	quotedDayPattern        = regexp.MustCompile(`(?:''|")(\d{1,2})(?:''|")\s+([а-яіїєґ]+)\s+(\d{4})`)
	unitMentionPattern      = regexp.MustCompile(`військової\s+частини\s+([АA]-?\d{4})`)
)

// rosterClause holds the shared location, date and meal of a roster
// clause paragraph.
type rosterClause struct {
	location string
	date     string
	meal     string
}

// processTransfer handles relocations between locations: each person
// is removed from the roster at the source and enrolled at the
// destination, two records per person.
func (p *Pipeline) processTransfer(text string) []record.PersonnelRecord {
	paragraphs := textnorm.Paragraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	// A leading numbered paragraph is a heading only when it does not
	// itself carry the roster clauses; a clause-bearing paragraph still
	// holds people to process.
	destination := ""
	first := paragraphs[0]
	if transferHeaderNumber.MatchString(first) && !exclusionClausePattern.MatchString(first) {
		if m := transferDestinationPattern.FindStringSubmatch(first); m != nil {
			destination = m[1] + " НБ"
		}
		paragraphs = paragraphs[1:]
	}

	if len(paragraphs) >= 3 &&
		exclusionClausePattern.MatchString(paragraphs[0]) &&
		enrollmentClausePattern.MatchString(paragraphs[1]) &&
		!enrollmentClausePattern.MatchString(paragraphs[0]) {
		return p.transferRoster(paragraphs, destination)
	}
	return p.transferParagraphs(paragraphs, destination)
}

// transferRoster handles the shared-clause format: one exclusion
// paragraph, one enrollment paragraph, then a line per person.
func (p *Pipeline) transferRoster(paragraphs []string, destination string) []record.PersonnelRecord {
	exclusion := p.readRosterClause(paragraphs[0], p.cfg.DefaultLocation, p.cfg.DefaultMeal, "")
	if exclusion.date == "" {
		exclusion.date = p.currentDate()
		p.log.Record(trace.PathDateFallback, "transfer exclusion clause")
	}
	enrollment := p.readRosterClause(paragraphs[1], destination, exclusion.meal, exclusion.date)
	if enrollment.location == "" {
		enrollment.location = p.cfg.DefaultLocation
	}

	var records []record.PersonnelRecord
	for _, para := range paragraphs[2:] {
		if strings.HasPrefix(para, "Підстава:") {
			continue
		}
		for _, m := range transferRosterLinePattern.FindAllStringSubmatch(para, -1) {
			unit := m[1]
			rank := p.cfg.CanonicalRank(m[2])
			name := strings.TrimSpace(m[3])
			personnelType := extract.PersonnelTypeOf(para)
			records = p.appendTransferPair(records, rank, name, unit, personnelType, exclusion, enrollment)
		}
	}
	return records
}

// transferRosterLinePattern matches one roster line: number, unit code,
// rank words, then a three-token name starting with the surname.
var transferRosterLinePattern = regexp.MustCompile(
	`(?m)^\s*\d+\.\s+([AА]\d+)\s+([а-яіїєґ][а-яіїєґ\s-]*?)\s+([А-ЯІЇЄҐ']+\s+[А-ЯІЇЄҐ][а-яіїєґ']*\s+[А-ЯІЇЄҐ][а-яіїєґ']*)`)

// readRosterClause pulls location, date and meal from a clause
// paragraph, substituting the given fallbacks.
func (p *Pipeline) readRosterClause(para, fallbackLocation, fallbackMeal, fallbackDate string) rosterClause {
	c := rosterClause{location: fallbackLocation, meal: fallbackMeal, date: fallbackDate}
	if m := battalionMentionPattern.FindStringSubmatch(para); m != nil {
		c.location = m[1] + " НБ"
	}
	if m := quotedDayPattern.FindStringSubmatch(para); m != nil {
		if d, ok := textnorm.ParseDate(m[1] + " " + m[2] + " " + m[3]); ok {
			c.date = d
		}
	}
	if meal, _ := extract.MealInfo(para, ""); meal != "" {
		c.meal = meal
	}
	return c
}

// transferParagraphs handles the per-person format, where each
// paragraph carries its own exclusion and enrollment clauses.
func (p *Pipeline) transferParagraphs(paragraphs []string, destination string) []record.PersonnelRecord {
	var records []record.PersonnelRecord
	for _, para := range paragraphs {
		persons := p.personsOf(para)
		if len(persons) == 0 {
			continue
		}

		exclusion := rosterClause{}
		if m := transferExclusionInfoPattern.FindStringSubmatch(para); m != nil {
			exclusion.location = m[1] + " НБ"
			exclusion.meal = m[2] + " " + m[3]
			if d, ok := textnorm.ParseDate(m[4] + " " + m[5] + " " + m[6]); ok {
				exclusion.date = d
			}
		} else if m := altExclusionLocationPattern.FindStringSubmatch(para); m != nil {
			exclusion.location = m[1] + " НБ"
		}

		enrollment := rosterClause{location: destination}
		if m := transferEnrollmentInfoPattern.FindStringSubmatch(para); m != nil {
			if enrollment.location == "" {
				enrollment.location = m[1] + " НБ"
			}
			enrollment.meal = m[2] + " " + m[3]
			if d, ok := textnorm.ParseDate(m[4] + " " + m[5] + " " + m[6]); ok {
				enrollment.date = d
			}
		}
		if enrollment.location == "" {
			if m := transferDestinationPattern.FindStringSubmatch(para); m != nil {
				enrollment.location = m[1] + " НБ"
			}
		}

		if exclusion.location == "" {
			exclusion.location = p.cfg.DefaultLocation
		}
		if enrollment.location == "" {
			enrollment.location = p.cfg.DefaultLocation
		}
		if exclusion.meal == "" {
			exclusion.meal = p.cfg.DefaultMeal
		}
		if enrollment.meal == "" {
			enrollment.meal = exclusion.meal
		}
		if exclusion.date == "" {
			if m := quotedDayPattern.FindStringSubmatch(para); m != nil {
				if d, ok := textnorm.ParseDate(m[1] + " " + m[2] + " " + m[3]); ok {
					exclusion.date = d
				}
			}
		}
		if exclusion.date == "" {
			exclusion.date = p.currentDate()
			p.log.Record(trace.PathDateFallback, "transfer paragraph")
		}
		if enrollment.date == "" {
			enrollment.date = exclusion.date
		}

		unit := p.cfg.DefaultUnit
		if m := unitMentionPattern.FindStringSubmatch(para); m != nil {
			unit = m[1]
		}
		personnelType := extract.PersonnelTypeOf(para)

		for _, person := range persons {
			records = p.appendTransferPair(records, person.Rank, person.Name, unit, personnelType, exclusion, enrollment)
		}
	}
	return records
}

// appendTransferPair emits the removal and enrollment records for one
// transferred person, each deduplicated on its own action and date.
func (p *Pipeline) appendTransferPair(records []record.PersonnelRecord, rank, name, unit, personnelType string, exclusion, enrollment rosterClause) []record.PersonnelRecord {
	if !p.skip(rank, name, record.ActionRemove, exclusion.date) {
		rec := record.New(rank, name, unit, exclusion.location,
			personnelType, exclusion.date, exclusion.meal, record.CauseTransfer, p.cfg.DefaultUnit)
		rec.Action = record.ActionRemove
		records = append(records, rec)
		p.tracker.Add(rank, name, record.ActionRemove, exclusion.date)
	}
	if !p.skip(rank, name, record.ActionEnroll, enrollment.date) {
		rec := record.New(rank, name, unit, enrollment.location,
			personnelType, enrollment.date, enrollment.meal, record.CauseTransfer, p.cfg.DefaultUnit)
		rec.Action = record.ActionEnroll
		records = append(records, rec)
		p.tracker.Add(rank, name, record.ActionEnroll, enrollment.date)
	}
	return records
}

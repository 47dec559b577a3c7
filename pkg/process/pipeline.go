// Package process drives extraction over a whole order: the document
// is normalized, unauthorized-absence points are collected, the arrival
// and departure windows are carved, arrival sections are typed and
// routed to their processors, and the resulting records are finalized
// for export.
package process

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/coolbeans/oblik/pkg/config"
	"github.com/coolbeans/oblik/pkg/extract"
	"github.com/coolbeans/oblik/pkg/namecase"
	"github.com/coolbeans/oblik/pkg/record"
	"github.com/coolbeans/oblik/pkg/section"
	"github.com/coolbeans/oblik/pkg/textnorm"
	"github.com/coolbeans/oblik/pkg/trace"
)

// Pipeline extracts personnel transitions from a single order. It
// carries the duplicate tracker and the decision trace of one run, so
// callers build a fresh Pipeline per document.
type Pipeline struct {
	cfg     *config.Config
	log     *trace.Log
	persons *extract.PersonExtractor
	units   *extract.UnitExtractor
	locs    *extract.LocationResolver
	absence *section.SZCHFinder
	names   *namecase.Converter
	tracker *record.Tracker
	now     func() time.Time
}

// New builds a pipeline for one document.
func New(cfg *config.Config, logger *zap.Logger) *Pipeline {
	log := trace.New(logger)
	return &Pipeline{
		cfg:     cfg,
		log:     log,
		persons: extract.NewPersonExtractor(cfg, log),
		units:   extract.NewUnitExtractor(cfg),
		locs:    extract.NewLocationResolver(cfg),
		absence: section.NewSZCHFinder(cfg),
		names:   namecase.New(cfg),
		tracker: record.NewTracker(),
		now:     time.Now,
	}
}

// Trace returns the decision log accumulated by Run.
func (p *Pipeline) Trace() *trace.Log { return p.log }

// Run extracts every personnel transition from the raw order text.
func (p *Pipeline) Run(raw string) ([]record.PersonnelRecord, error) {
	text := textnorm.NormalizeDocument(raw)
	if text == "" {
		return nil, fmt.Errorf("process: empty document")
	}

	var records []record.PersonnelRecord

	// Unauthorized-absence points can sit anywhere in the order, so
	// they are collected over the whole document before the window is
	// carved.
	for _, s := range p.absence.Find(text, p.log) {
		records = append(records, p.processAbsence(s.Text)...)
	}

	w := section.Carve(text, p.log)
	for _, s := range section.FindSections(w.Arrival, p.log) {
		records = append(records, p.route(s)...)
	}
	if w.Departure != "" {
		records = append(records, p.processDeparture(w.Departure)...)
	}

	p.finalize(records)
	return records, nil
}

// route hands an arrival section to the processor matching its kind.
func (p *Pipeline) route(s section.Section) []record.PersonnelRecord {
	switch s.Kind {
	case section.KindPPOS:
		return p.processMobilization(s.Text)
	case section.KindTripReturn:
		return p.processTripReturn(s.Text)
	case section.KindVacationAnnual, section.KindVacationFamily, section.KindVacationTreatment:
		return p.processVacationReturn(s.Text)
	case section.KindHospital:
		return p.processHospitalReturn(s.Text, "")
	case section.KindIllness:
		return p.processHospitalReturn(s.Text, illnessCause)
	case section.KindTripTraining:
		return p.processTrainingArrival(s.Text)
	case section.KindTripArrival:
		// The heading table cannot always tell a training trip from a
		// service trip; re-check the heading area before committing.
		head := strings.ToLower(headOf(s.Text, tripRecheckWindow))
		if strings.Contains(head, "навчальн") || strings.Contains(head, "школи") {
			p.log.Record(trace.PathSectionRefined, section.KindTripTraining)
			return p.processTrainingArrival(s.Text)
		}
		return p.processAssignmentArrival(s.Text)
	case section.KindTripA1890:
		return p.processA1890Departure(s.Text)
	case section.KindLocationTransfer:
		return p.processTransfer(s.Text)
	case section.KindSZCH:
		return p.processAbsence(s.Text)
	}
	return p.autodetect(s.Text)
}

// tripRecheckWindow bounds the heading-area sniff for trip sections.
const tripRecheckWindow = 500

// autodetect routes a section of unknown kind by its keyword content,
// falling back to mobilization handling, the most common case.
func (p *Pipeline) autodetect(text string) []record.PersonnelRecord {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "до навчального батальйону"),
		strings.Contains(lower, "виключити з котлового") && strings.Contains(lower, "зарахувати на котлове"):
		return p.processTransfer(text)
	case strings.Contains(lower, "лікуваль"), strings.Contains(lower, "лікарн"):
		return p.processHospitalReturn(text, "")
	case strings.Contains(lower, "відпустк"):
		return p.processVacationReturn(text)
	case strings.Contains(lower, "відрядженн"):
		switch {
		case strings.Contains(lower, "повернення"):
			return p.processTripReturn(text)
		case strings.Contains(lower, "навчання"), strings.Contains(lower, "навчальн"):
			return p.processTrainingArrival(text)
		}
		return p.processAssignmentArrival(text)
	case strings.Contains(lower, "мобілізаці"):
		return p.processMobilization(text)
	case strings.Contains(lower, "самовільним залишенням частини"):
		return p.processAbsence(text)
	}
	return p.processMobilization(text)
}

// finalize applies the export-side passes: implicit enrollment actions,
// canonical causes, and nominative name forms.
func (p *Pipeline) finalize(records []record.PersonnelRecord) {
	record.DefaultActions(records)
	record.CanonicalizeCauses(records)
	for i := range records {
		if records[i].Name == "" {
			continue
		}
		if normal := p.names.FullName(records[i].Name); normal != "" {
			records[i].NameNormal = normal
		} else {
			records[i].NameNormal = records[i].Name
		}
	}
}

// skip records a duplicate drop and reports whether the person was
// already tracked with the given action and date.
func (p *Pipeline) skip(rank, name string, action record.Action, date string) bool {
	if !p.tracker.Seen(rank, name, action, date) {
		return false
	}
	p.log.Record(trace.PathDuplicateSkip, rank+" "+name)
	return true
}

// personsOf runs full extraction over a passage, falling back to the
// single rank-and-name scan when the cascade finds nobody.
func (p *Pipeline) personsOf(text string) []extract.Person {
	if persons := p.persons.Persons(text); len(persons) > 0 {
		return persons
	}
	if rank, name, ok := p.persons.RankAndName(text); ok {
		return []extract.Person{{Rank: rank, Name: name}}
	}
	return nil
}

func (p *Pipeline) currentDate() string {
	return p.now().Format("02.01.2006")
}

// entryStartPattern matches the start of a top-level numbered entry
// ("1. ", "2. "); subsection numbers like "11.1." do not qualify.
var entryStartPattern = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)

// numberedEntries splits body text into its top-level numbered entries,
// cutting each at a grounds line.
func numberedEntries(text string) []string {
	starts := entryStartPattern.FindAllStringIndex(text, -1)
	entries := make([]string, 0, len(starts))
	for i, loc := range starts {
		end := len(text)
		if i < len(starts)-1 {
			end = starts[i+1][0]
		}
		entry := text[loc[0]:end]
		if cut := strings.Index(entry, "\nПідстава:"); cut >= 0 {
			entry = entry[:cut]
		}
		entries = append(entries, strings.TrimSpace(entry))
	}
	return entries
}

// headOf returns the first n bytes of text, backed up to a rune start.
func headOf(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}

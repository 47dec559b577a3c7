// Package extract holds the leaf extractors that pull people, units,
// locations, dates and meal boundaries out of normalized order text.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"

	"github.com/coolbeans/oblik/pkg/config"
	"github.com/coolbeans/oblik/pkg/record"
	"github.com/coolbeans/oblik/pkg/trace"
)

// Name building blocks. The first word may be an all-caps surname; the
// following words are capitalized given name and patronymic.
const (
	nameHead = `[А-ЯІЇЄҐ][А-ЯІЇЄҐа-яіїєґ'-]+`
	nameTail = `[А-ЯІЇЄҐ][а-яіїєґ'-]+`

	// nameTriple matches "Surname Name Patronymic".
	nameTriple = nameHead + `(?:\s+` + nameTail + `){2}`

	// nameShort matches two or three capitalized words, used inside
	// list blocks where the patronymic is sometimes dropped.
	nameShort = nameHead + `(?:\s+` + nameTail + `){1,2}`
)

// exclusionPhrases mark passages about duty reassignment, not roster
// transitions. Any hit aborts person extraction for the passage. The
// bare "тво" abbreviation is deliberately absent: as a substring it
// fires inside ordinary words like "керівництво".
var exclusionPhrases = []string{
	"тимчасове виконання обов'язків",
	"виконання обов'язків покласти на",
	"покласти на",
	"призначити",
	"признач",
	"виконуючим обов'язки",
}

// nameBlacklist rejects captures that swallowed surrounding order
// boilerplate instead of a real name.
var nameBlacklist = []string{
	"за призовом по",
	"військовослужбовця військової частини",
	"з матеріального",
	"матеріального забезпечення",
}

// forbiddenNameSuffix rejects a name capture when the text right after
// it continues into a materiel-support phrase.
var forbiddenNameSuffix = regexp.MustCompile(`^\s+забезпечення|^\s+з\s+матеріального`)

// Person is one extracted rank and name pair.
type Person struct {
	Rank string
	Name string
}

// ListBlockKind says which surface form introduced a personnel list.
type ListBlockKind string

const (
	// ListBlockUnitLed is "військовослужбовців військової частини АXXXX[, у кількості N осіб]:".
	ListBlockUnitLed ListBlockKind = "unit_led"

	// ListBlockFromUnit is "з військовослужбовців військової частини АXXXX:".
	ListBlockFromUnit ListBlockKind = "from_unit"

	// ListBlockCountOnly is a bare "у кількості N осіб:".
	ListBlockCountOnly ListBlockKind = "count_only"

	// ListBlockDestination is "до військової частини АXXXX:".
	ListBlockDestination ListBlockKind = "destination"

	// ListBlockExtendedCount is the looser count form with open-ended
	// terminators.
	ListBlockExtendedCount ListBlockKind = "extended_count"
)

// ListBlockMatch is one carved-out personnel list.
type ListBlockMatch struct {
	// UnitHint is the unit code attached to the block header, if any.
	UnitHint string

	// ExpectedCount is the declared head count, 0 when none.
	ExpectedCount int

	// Span is the [start, end) range of the list text in the section.
	Span [2]int

	// Kind records which header form matched.
	Kind ListBlockKind

	// Text is the list body.
	Text string
}

// PersonExtractor finds people in section text. Patterns that depend on
// the configured rank vocabulary are compiled once in the constructor.
type PersonExtractor struct {
	cfg *config.Config
	log *trace.Log

	exclusions *ahocorasick.Automaton

	directMobilization *regexp.Regexp
	listBlock          *regexp.Regexp
	destinationBlock   *regexp.Regexp
	extendedCountBlock *regexp.Regexp
	numberedEntry      *regexp.Regexp
	lineEntry          *regexp.Regexp
	inlineEntry        *regexp.Regexp
	leadingRank        *regexp.Regexp
	itemRankName       *regexp.Regexp
	bareName           *regexp.Regexp
	standardCascade    []standardPattern

	rankNameSimple  *regexp.Regexp
	mobRankName     *regexp.Regexp
}

// standardPattern is one step of the ordered cascade applied outside
// list blocks, from most specific to most generic.
type standardPattern struct {
	name    string
	pattern *regexp.Regexp

	// notAfter rejects a match whose preceding text ends with this
	// word sequence (lookbehind stand-in).
	notAfter string

	// wordStart requires the match to start at a word boundary.
	wordStart bool
}

// NewPersonExtractor compiles the extraction patterns for the given
// configuration.
func NewPersonExtractor(cfg *config.Config, log *trace.Log) *PersonExtractor {
	ranks := rankAlternation(cfg)

	builder := ahocorasick.NewBuilder().
		AddStrings(exclusionPhrases).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true)
	automaton, err := builder.Build()
	if err != nil {
		// The phrase set is static and known-good; a build failure is
		// a programming error.
		panic(fmt.Sprintf("extract: exclusion automaton: %v", err))
	}

	e := &PersonExtractor{
		cfg:        cfg,
		log:        log,
		exclusions: automaton,

		directMobilization: regexp.MustCompile(
			`(?i)(` + ranks + `)\s+за\s+призовом\s+по\s+мобілізації\s+(` + nameTriple + `)`),

		listBlock: regexp.MustCompile(
			`(?is)(?:військовослужбовців\s+військової\s+частини\s+([АA]-?\d{4})(?:,\s*у\s+кількості\s+(\d+)\s+осіб)?|(?:з|зі|із)\s+військовослужбовців\s+військової\s+частини\s+([АA]-?\d{4})|у\s+кількості\s+(\d+)\s+осіб)\s*:\s*(.*?)(?:\n\s*Підстава:|\n\s*\d+\.|\z)`),

		destinationBlock: regexp.MustCompile(
			`(?is)(?:до|у)\s+військов(?:ої|у)\s+частин(?:и|у)\s+([АA]-?\d{4})\s*:\s*(.*?)(?:\n\s*Видати|\n\s*Підстава:|\n\s*\d+\.\d+\.\d+|\z)`),

		extendedCountBlock: regexp.MustCompile(
			`(?is)у\s+кількості\s+(\d+)\s+осіб:?\s*(.*?)(?:\n\s*Підстава:|\n\s*\d+\.\d+|\n\s*зарахувати|\n\s*військов|\z)`),

		numberedEntry: regexp.MustCompile(
			`(?im)^\s*\d+\.\s+(` + ranks + `)\s+(` + nameShort + `)`),

		lineEntry: regexp.MustCompile(
			`(?im)^(` + ranks + `)\s+(` + nameShort + `)`),

		inlineEntry: regexp.MustCompile(
			`(?i)(?:^|[,:]\s*)(` + ranks + `)\s+(` + nameShort + `)`),

		leadingRank: regexp.MustCompile(
			`(?i)^\s*(` + ranks + `)(?:[\s,:]|$)`),

		itemRankName: regexp.MustCompile(
			`(?i)(` + ranks + `)\s+(` + nameShort + `)`),

		bareName: regexp.MustCompile(`(` + nameTriple + `)`),

		rankNameSimple: regexp.MustCompile(
			`(?i)(` + ranks + `)\s+(` + nameTriple + `)`),
		mobRankName: regexp.MustCompile(
			`(?i)(` + ranks + `)\s+за\s+призовом\s+по\s+мобілізації\s+(` + nameTriple + `)`),
	}

	e.standardCascade = []standardPattern{
		{
			name:      "mobilization_full",
			pattern:   regexp.MustCompile(`(?i)(` + ranks + `)\s+за\s+призовом\s+по\s+мобілізації\s+(` + nameTriple + `)`),
			wordStart: true,
		},
		{
			name:    "numbered_mobilization",
			pattern: regexp.MustCompile(`(?i)\d+\.\s+(` + ranks + `)\s+за\s+призовом\s+по\s+мобілізації\s+(` + nameTriple + `)`),
		},
		{
			name:      "before_enroll",
			pattern:   regexp.MustCompile(`(?i)(` + ranks + `)\s+(` + nameTriple + `),?\s+зарахувати`),
			wordStart: true,
		},
		{
			name:     "numbered_standard",
			pattern:  regexp.MustCompile(`(?i)\d+\.\s+(` + ranks + `)\s+(` + nameTriple + `)`),
			notAfter: "мобілізації",
		},
		{
			name:     "comma_separated",
			pattern:  regexp.MustCompile(`(?i),\s*(` + ranks + `)\s+(` + nameTriple + `)`),
			notAfter: "мобілізації",
		},
		{
			name:      "standard",
			pattern:   regexp.MustCompile(`(?i)(` + ranks + `)\s+(` + nameTriple + `)`),
			notAfter:  "за призовом по мобілізації",
			wordStart: true,
		},
	}

	return e
}

// rankAlternation joins the rank surface forms into a regexp
// alternation, longest first so multi-word forms win over prefixes.
func rankAlternation(cfg *config.Config) string {
	forms := cfg.RankForms()
	quoted := make([]string, len(forms))
	for i, f := range forms {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return strings.Join(quoted, "|")
}

// HasExclusionPhrase reports whether the text is a duty-reassignment
// passage that must not yield personnel.
func (e *PersonExtractor) HasExclusionPhrase(text string) bool {
	matches := e.exclusions.FindAllOverlapping([]byte(strings.ToLower(text)))
	return len(matches) > 0
}

// Persons extracts every unique person in the section text. The
// cascade order follows the orders' own structure: direct mobilization
// mentions, then carved list blocks, then the standard patterns over
// the text outside any claimed block.
func (e *PersonExtractor) Persons(text string) []Person {
	if e.HasExclusionPhrase(text) {
		e.log.Record(trace.PathExclusionPhrase, snippet(text))
		return nil
	}

	var personnel []Person
	seen := make(map[string]bool)
	var claimed [][2]int

	add := func(path trace.Path, rankRaw, name string) bool {
		rank := e.cfg.CanonicalRank(rankRaw)
		name = strings.TrimSpace(name)
		if len(strings.Fields(name)) < 2 || badName(name) {
			return false
		}
		key := strings.ToLower(rank) + "|" + strings.ToLower(name)
		if seen[key] {
			return false
		}
		seen[key] = true
		personnel = append(personnel, Person{Rank: rank, Name: name})
		e.log.Record(path, rank+" "+name)
		return true
	}

	// Stage 1: direct mobilization mentions, anywhere, unconditionally.
	for _, m := range e.directMobilization.FindAllStringSubmatchIndex(text, -1) {
		rank := text[m[2]:m[3]]
		name := text[m[4]:m[5]]
		if e.nameContinuesBadly(text, m[5]) {
			continue
		}
		add(trace.PathDirectMobilization, rank, name)
	}

	// Stage 2: carved list blocks.
	for _, block := range e.ListBlocks(text) {
		claimed = append(claimed, block.Span)
		found := e.personsInBlock(block, add)
		if block.ExpectedCount > 0 && found != block.ExpectedCount {
			e.log.Record(trace.PathCountMismatch,
				fmt.Sprintf("found %d of %d declared", found, block.ExpectedCount))
		}
	}

	// Stage 3: standard cascade over text outside claimed ranges.
	for _, step := range e.standardCascade {
		for _, m := range step.pattern.FindAllStringSubmatchIndex(text, -1) {
			start := m[0]
			if insideAny(claimed, start) {
				continue
			}
			if step.wordStart && !atWordStart(text, start) {
				continue
			}
			if step.notAfter != "" && precededBy(text, start, step.notAfter) {
				continue
			}
			name := text[m[4]:m[5]]
			if e.nameContinuesBadly(text, m[5]) {
				continue
			}
			add(trace.PathStandardPattern, text[m[2]:m[3]], name)
		}
	}

	return personnel
}

// personsInBlock runs the in-block parsing ladder: numbered entries,
// then line-per-entry, then inline lists, then (only when short of the
// declared head count) comma splitting and finally a bare-name scan
// that infers the rank.
func (e *PersonExtractor) personsInBlock(block ListBlockMatch, add func(trace.Path, string, string) bool) int {
	found := 0
	listText := block.Text
	e.log.Record(trace.PathListBlock, string(block.Kind)+" "+snippet(listText))

	numbered := e.numberedEntry.FindAllStringSubmatch(listText, -1)
	for _, m := range numbered {
		if add(trace.PathNumberedEntry, m[1], m[2]) {
			found++
		}
	}

	if len(numbered) == 0 {
		for _, m := range e.lineEntry.FindAllStringSubmatch(listText, -1) {
			if add(trace.PathLinePerEntry, m[1], m[2]) {
				found++
			}
		}
	}

	for _, m := range e.inlineEntry.FindAllStringSubmatch(listText, -1) {
		if add(trace.PathInlineList, m[1], m[2]) {
			found++
		}
	}

	currentRank := ""
	if m := e.leadingRank.FindStringSubmatch(listText); m != nil {
		currentRank = e.cfg.CanonicalRank(m[1])
	}

	if block.ExpectedCount > 0 && found < block.ExpectedCount {
		e.log.Record(trace.PathCommaSplit,
			fmt.Sprintf("found %d of %d, re-reading by commas", found, block.ExpectedCount))
		for _, item := range strings.Split(listText, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if m := e.itemRankName.FindStringSubmatch(item); m != nil {
				if add(trace.PathCommaSplit, m[1], m[2]) {
					found++
				}
				continue
			}
			if currentRank == "" {
				continue
			}
			if m := e.bareName.FindStringSubmatch(item); m != nil {
				if add(trace.PathCommaSplit, currentRank, m[1]) {
					found++
				}
			}
		}
	}

	if block.ExpectedCount > 0 && found < block.ExpectedCount {
		rank := currentRank
		if rank == "" {
			rank = "солдат"
		}
		for _, m := range e.bareName.FindAllStringSubmatch(listText, -1) {
			if add(trace.PathInferredRank, rank, m[1]) {
				found++
			}
		}
	}

	return found
}

// ListBlocks carves every personnel list out of the section text.
func (e *PersonExtractor) ListBlocks(text string) []ListBlockMatch {
	var blocks []ListBlockMatch

	for _, m := range e.listBlock.FindAllStringSubmatchIndex(text, -1) {
		block := ListBlockMatch{
			Span: [2]int{m[10], m[11]},
			Text: strings.TrimSpace(text[m[10]:m[11]]),
		}
		switch {
		case m[2] >= 0:
			block.Kind = ListBlockUnitLed
			block.UnitHint = record.NormalizeUnit(text[m[2]:m[3]])
			if m[4] >= 0 {
				block.ExpectedCount = atoi(text[m[4]:m[5]])
			}
		case m[6] >= 0:
			block.Kind = ListBlockFromUnit
			block.UnitHint = record.NormalizeUnit(text[m[6]:m[7]])
		default:
			block.Kind = ListBlockCountOnly
			block.ExpectedCount = atoi(text[m[8]:m[9]])
		}
		blocks = append(blocks, block)
	}

	// Destination lists ("до військової частини АXXXX:") are added only
	// when they do not overlap a block already found.
	for _, m := range e.destinationBlock.FindAllStringSubmatchIndex(text, -1) {
		span := [2]int{m[4], m[5]}
		if overlapsAny(blocks, span) {
			continue
		}
		blocks = append(blocks, ListBlockMatch{
			UnitHint: record.NormalizeUnit(text[m[2]:m[3]]),
			Span:     span,
			Kind:     ListBlockDestination,
			Text:     strings.TrimSpace(text[m[4]:m[5]]),
		})
	}

	// The looser count form is added only when no existing block already
	// contains it.
	for _, m := range e.extendedCountBlock.FindAllStringSubmatchIndex(text, -1) {
		span := [2]int{m[4], m[5]}
		if containedInAny(blocks, span) {
			continue
		}
		blocks = append(blocks, ListBlockMatch{
			ExpectedCount: atoi(text[m[2]:m[3]]),
			Span:          span,
			Kind:          ListBlockExtendedCount,
			Text:          strings.TrimSpace(text[m[4]:m[5]]),
		})
	}

	return blocks
}

// RankAndName extracts a single rank and name from a line of text,
// preferring the mobilization form.
func (e *PersonExtractor) RankAndName(text string) (rank, name string, ok bool) {
	for _, p := range []*regexp.Regexp{e.mobRankName, e.rankNameSimple} {
		m := p.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(text[m[4]:m[5]])
		if badName(name) || e.nameContinuesBadly(text, m[5]) {
			continue
		}
		return e.cfg.CanonicalRank(text[m[2]:m[3]]), name, true
	}
	return "", "", false
}

// PersonnelTypeOf classifies the personnel category from passage text.
func PersonnelTypeOf(text string) string {
	if strings.Contains(strings.ToLower(text), "курсант") {
		return "Курсант"
	}
	return "Постійний склад"
}

// nameContinuesBadly reports whether the text right after a name
// capture runs into a materiel-support phrase, meaning the capture was
// a false positive.
func (e *PersonExtractor) nameContinuesBadly(text string, end int) bool {
	return forbiddenNameSuffix.MatchString(text[end:])
}

func badName(name string) bool {
	lower := strings.ToLower(name)
	for _, phrase := range nameBlacklist {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func insideAny(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if r[0] <= pos && pos < r[1] {
			return true
		}
	}
	return false
}

func overlapsAny(blocks []ListBlockMatch, span [2]int) bool {
	for _, b := range blocks {
		if span[0] < b.Span[1] && b.Span[0] < span[1] {
			return true
		}
	}
	return false
}

func containedInAny(blocks []ListBlockMatch, span [2]int) bool {
	for _, b := range blocks {
		if b.Span[0] <= span[0] && span[1] <= b.Span[1] {
			return true
		}
	}
	return false
}

// atWordStart reports whether position start is not preceded by a
// letter. regexp's \b is ASCII-only, so Cyrillic boundaries are checked
// by hand.
func atWordStart(text string, start int) bool {
	if start == 0 {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isLetter(last)
}

// precededBy reports whether the text before start ends with the given
// words, ignoring trailing whitespace.
func precededBy(text string, start int, words string) bool {
	before := strings.TrimRight(text[:start], " \t\n,")
	return strings.HasSuffix(strings.ToLower(before), words)
}

func isLetter(r rune) bool {
	return (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') ||
		strings.ContainsRune("іїєґІЇЄҐ'", r) ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > 80 {
		return string(runes[:80])
	}
	return text
}

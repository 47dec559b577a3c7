package section

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coolbeans/oblik/pkg/config"
	"github.com/coolbeans/oblik/pkg/trace"
)

// KindSZCH marks unauthorized-absence passages, which are discovered
// over the raw document rather than inside the arrival block.
const KindSZCH = "СЗЧ"

// szchKeywords are the phrases that mark an unauthorized-absence
// passage. Matching is case-insensitive substring search.
var szchKeywords = []string{
	"самовільним залишенням частини",
	"самовільним залишенням лікувального закладу",
	"самовільне залишення",
	"самовільно залишив",
	"самовільно залишивши",
	"залишенням частини",
	"залишенням лікувального",
	"виключити з усіх видів забезпечення",
	"виключити з котлового забезпечення",
	"виключити зі всіх видів забезпечення",
	"виключити з забезпечення",
	"у зв'язку з самовільним",
	"вважати таким, що самовільно залишив",
}

var (
	numberedPointPattern = regexp.MustCompile(`(\d+)\.\s+`)

	szchExclusionHint  = regexp.MustCompile(`виключити.{1,50}забезпеч`)
	szchAbsenceHint    = regexp.MustCompile(`самовільн.{1,30}залиш`)
	szchProvisionsHint = regexp.MustCompile(`з\s+(?:котлового|усіх|всіх).{1,20}забезпечення`)

	szchGeneralPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)виключити\s+з\s+(?:усіх|всіх|котлового)\s+видів\s+забезпечення`),
		regexp.MustCompile(`(?i)самовільн[а-яіїєґ]+\s+залиш[а-яіїєґ]+`),
		regexp.MustCompile(`(?i)у\s+зв'язку\s+з\s+самовільн[а-яіїєґ]+`),
	}
)

const (
	szchSearchCap      = 100000
	szchPointWindow    = 2500
	szchPointFallback  = 2000
	szchContextBefore  = 500
	szchContextAfter   = 1500
	szchSearchBudget   = 20 * time.Second
	szchMinSections    = 3
	szchMaxSections    = 10
	szchPointProximity = 50
	szchMatchProximity = 100
)

// SZCHFinder locates unauthorized-absence passages in raw documents.
// Discovery runs in three passes: numbered points whose text carries an
// absence indicator, a raw keyword search when no point matched, and a
// general-pattern sweep when fewer than three passages were found. Each
// pass honors a soft wall-clock budget.
type SZCHFinder struct {
	rankForms []string
	budget    time.Duration
}

// NewSZCHFinder builds a finder over the configured rank vocabulary.
func NewSZCHFinder(cfg *config.Config) *SZCHFinder {
	forms := cfg.RankForms()
	lowered := make([]string, len(forms))
	for i, f := range forms {
		lowered[i] = strings.ToLower(f)
	}
	return &SZCHFinder{rankForms: lowered, budget: szchSearchBudget}
}

// Find returns the absence passages of the document, ordered as found.
func (f *SZCHFinder) Find(text string, log *trace.Log) []Section {
	deadline := time.Now().Add(f.budget)
	search := capText(text, szchSearchCap)

	var sections []Section
	added := make(map[int]bool)

	points := numberedPointPattern.FindAllStringSubmatchIndex(search, -1)
	for _, point := range points {
		if time.Now().After(deadline) {
			log.Record(trace.PathBudgetExceeded, "numbered point pass")
			break
		}
		start := point[0]
		if added[start] {
			continue
		}
		pointText := search[start:pointEnd(search, point)]
		if f.looksLikeAbsence(pointText) {
			sections = append(sections, Section{Kind: KindSZCH, Text: pointText, Start: start})
			added[start] = true
		}
	}

	if len(sections) == 0 {
		log.Record(trace.PathKeywordFallback, "no numbered absence points")
		sections = f.keywordPass(search, deadline, added, sections, log)
	}

	if len(sections) < szchMinSections {
		sections = f.generalPass(search, deadline, added, sections, log)
	}
	return sections
}

// pointEnd bounds a numbered point at the next point number within the
// lookahead window, or a fixed distance past its start.
func pointEnd(search string, point []int) int {
	lookahead := point[0] + szchPointWindow
	if lookahead > len(search) {
		lookahead = len(search)
	}
	if next := numberedPointPattern.FindStringIndex(search[point[1]:runeFloor(search, lookahead)]); next != nil {
		return point[1] + next[0]
	}
	return runeFloor(search, min(point[0]+szchPointFallback, len(search)))
}

// looksLikeAbsence reports whether a numbered point carries an
// unauthorized-absence indicator: a known keyword, a loose exclusion
// or absence phrase, a conscript mention with exclusion language, or a
// rank mention next to provisions-exclusion language.
func (f *SZCHFinder) looksLikeAbsence(pointText string) bool {
	lower := strings.ToLower(pointText)
	for _, key := range szchKeywords {
		if strings.Contains(lower, key) {
			return true
		}
	}
	if szchExclusionHint.MatchString(lower) || szchAbsenceHint.MatchString(lower) {
		return true
	}
	if strings.Contains(pointText, "за призовом") &&
		(strings.Contains(lower, "самовільн") || strings.Contains(lower, "виключити") || strings.Contains(lower, "залишенн")) {
		return true
	}
	if f.hasRank(lower) {
		if szchProvisionsHint.MatchString(lower) ||
			(strings.Contains(lower, "виключити") && strings.Contains(lower, "забезпечення")) {
			return true
		}
	}
	return false
}

// keywordPass searches for raw keywords and carves a passage around
// each hit, anchored to the enclosing numbered point when one is near.
// A passage only counts when it mentions a military rank.
func (f *SZCHFinder) keywordPass(search string, deadline time.Time, added map[int]bool, sections []Section, log *trace.Log) []Section {
	lowerSearch := strings.ToLower(search)
	for _, key := range szchKeywords {
		if time.Now().After(deadline) {
			log.Record(trace.PathBudgetExceeded, "keyword pass")
			return sections
		}
		offset := 0
		for {
			rel := strings.Index(lowerSearch[offset:], key)
			if rel < 0 {
				break
			}
			matchStart := offset + rel
			offset = matchStart + len(key)

			if nearAdded(added, matchStart, szchPointProximity) {
				continue
			}

			contextStart := runeFloor(search, max(matchStart-szchContextBefore, 0))
			contextEnd := runeFloor(search, min(matchStart+szchContextAfter, len(search)))

			sectionStart, sectionEnd := contextStart, contextEnd
			if p := numberedPointPattern.FindStringIndex(search[contextStart:matchStart]); p != nil {
				sectionStart = contextStart + p[0]
				if next := numberedPointPattern.FindStringIndex(search[matchStart:contextEnd]); next != nil {
					sectionEnd = matchStart + next[0]
				}
			}

			sectionText := search[sectionStart:sectionEnd]
			if f.hasRank(strings.ToLower(sectionText)) {
				sections = append(sections, Section{Kind: KindSZCH, Text: sectionText, Start: sectionStart})
				added[sectionStart] = true
			}
		}
	}
	return sections
}

// generalPass sweeps the looser absence patterns to pick up passages
// the earlier passes missed, capped at a sane total.
func (f *SZCHFinder) generalPass(search string, deadline time.Time, added map[int]bool, sections []Section, log *trace.Log) []Section {
	for _, pattern := range szchGeneralPatterns {
		if time.Now().After(deadline) {
			log.Record(trace.PathBudgetExceeded, "general pattern pass")
			return sections
		}
		if len(sections) >= szchMaxSections {
			return sections
		}
		for _, m := range pattern.FindAllStringIndex(search, -1) {
			if nearAdded(added, m[0], szchMatchProximity) {
				continue
			}
			contextStart := runeFloor(search, max(m[0]-szchContextBefore, 0))
			contextEnd := runeFloor(search, min(m[0]+szchContextAfter, len(search)))
			sectionText := search[contextStart:contextEnd]
			if f.hasRank(strings.ToLower(sectionText)) {
				sections = append(sections, Section{Kind: KindSZCH, Text: sectionText, Start: contextStart})
				added[contextStart] = true
			}
		}
	}
	return sections
}

func (f *SZCHFinder) hasRank(lowerText string) bool {
	for _, form := range f.rankForms {
		if strings.Contains(lowerText, form) {
			return true
		}
	}
	return false
}

func nearAdded(added map[int]bool, pos, distance int) bool {
	for p := range added {
		if p-pos < distance && pos-p < distance {
			return true
		}
	}
	return false
}

// capText truncates at a rune boundary near the byte limit.
func capText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:runeFloor(text, limit)]
}

// runeFloor backs a byte offset up to the nearest rune start.
func runeFloor(text string, i int) int {
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

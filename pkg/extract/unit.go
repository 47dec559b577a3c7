package extract

import (
	"regexp"
	"strings"

	"github.com/coolbeans/oblik/pkg/config"
)

// codedUnitPatterns match unit codes like "А1890" in their usual
// phrasings, most specific first. Coded units always beat specialized
// unit names because a code is unambiguous.
var codedUnitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)військовослужбовц(?:ів|я)\s+військової\s+частини\s+([А-ЯA-Z]-?\d{4})`),
	regexp.MustCompile(`(?i)військов(?:ої|у)\s+частин(?:и|у)\s+([А-ЯA-Z]-?\d{4})`),
	regexp.MustCompile(`(?i)військовослужбовц[а-яіїєґ]*\s+військової\s+частини\s+([А-ЯA-Z]-?\d{4})`),
	regexp.MustCompile(`(?i)в/ч\s+([А-ЯA-Z]-?\d{4})`),
	regexp.MustCompile(`(?i)(?:з|зі|із)\s+(?:військової\s+частини\s+|в/ч\s+)?([А-ЯA-Z]-?\d{4})`),
}

// codedUnitFollows matches the coded-unit phrasing that must NOT follow
// the "військовослужбовців" prefix when a specialized unit name is
// being read (the coded patterns own that case).
var codedUnitFollows = regexp.MustCompile(`(?i)^військової\s+частини\s+[А-ЯA-Z]-?\d{4}`)

// servicememberPrefix anchors specialized-unit matching.
var servicememberPrefix = regexp.MustCompile(`(?i)військовослужбовц[а-яіїєґ]*\s+`)

// UnitExtractor pulls military unit references out of passage text.
// The specialized-name patterns depend on the configured prefix list,
// so they are compiled in the constructor.
type UnitExtractor struct {
	specialUnit       *regexp.Regexp
	simpleSpecialUnit *regexp.Regexp
}

// NewUnitExtractor compiles the specialized-unit patterns from the
// configured institutional-noun prefixes and rank vocabulary.
func NewUnitExtractor(cfg *config.Config) *UnitExtractor {
	prefixes := make([]string, 0, len(cfg.SpecialUnitPrefixes))
	for _, p := range cfg.SpecialUnitPrefixes {
		prefixes = append(prefixes, regexp.QuoteMeta(p))
	}
	prefixAlt := strings.Join(prefixes, "|")
	rankAlt := rankAlternation(cfg)

	nameBody := `(\d*\s*(?:` + prefixAlt + `)[а-яіїєґ'-]*(?:\s+[-а-яіїєґА-ЯІЇЄҐ']+){0,10})`

	return &UnitExtractor{
		specialUnit: regexp.MustCompile(
			`(?i)^` + nameBody + `(?:(?:\s*:\s*|,\s*|\s+)(?:` + rankAlt + `)|\s*:\s*)`),
		simpleSpecialUnit: regexp.MustCompile(
			`(?i)^` + nameBody + `\s+у\s+кількості`),
	}
}

// Unit extracts the first military unit reference: a coded unit like
// "А1890" when one is present, otherwise a specialized unit name built
// from the configured prefixes ("25 окремої бригади...", "госпіталю...").
// The empty string means no unit was found.
func (u *UnitExtractor) Unit(text string) string {
	for i, p := range codedUnitPatterns {
		m := p.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		// The directional pattern has no anchor word of its own, so it
		// must start on a word boundary to avoid matching inside codes.
		if i == len(codedUnitPatterns)-1 && !atWordStart(text, m[0]) {
			continue
		}
		return strings.ToUpper(strings.TrimSpace(text[m[2]:m[3]]))
	}

	// Specialized names only after every coded pattern has failed.
	for _, pm := range servicememberPrefix.FindAllStringIndex(text, -1) {
		rest := text[pm[1]:]
		if codedUnitFollows.MatchString(rest) {
			continue
		}
		if m := u.specialUnit.FindStringSubmatch(rest); m != nil {
			return strings.TrimSpace(m[1])
		}
		if m := u.simpleSpecialUnit.FindStringSubmatch(rest); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	return ""
}

package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coregx/ahocorasick"

	"github.com/coolbeans/oblik/pkg/config"
)

// trainingBattalionPattern matches explicit training-battalion mentions
// like "3-го навчального батальйону"; these beat any trigger word.
var trainingBattalionPattern = regexp.MustCompile(`(?i)(\d+)[\s-]?(?:го|й|ї)?\s+навчальн(?:ого|ий|ому)\s+батальйон(?:у)?`)

// LocationResolver maps passage text to a duty location label. A
// training-battalion number wins; otherwise the first configured
// trigger substring found in the text decides.
type LocationResolver struct {
	automaton *ahocorasick.Automaton
	labels    []string
}

// NewLocationResolver builds the trigger automaton from the configured
// trigger map.
func NewLocationResolver(cfg *config.Config) *LocationResolver {
	triggers := make([]string, 0, len(cfg.LocationTriggers))
	labels := make([]string, 0, len(cfg.LocationTriggers))
	for trigger, label := range cfg.LocationTriggers {
		triggers = append(triggers, strings.ToLower(trigger))
		labels = append(labels, label)
	}
	automaton, err := ahocorasick.NewBuilder().
		AddStrings(triggers).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		panic(fmt.Sprintf("extract: location automaton: %v", err))
	}
	return &LocationResolver{automaton: automaton, labels: labels}
}

// Resolve returns the location implied by the passage, or "" when
// neither a training battalion nor a trigger is present.
func (r *LocationResolver) Resolve(text string) string {
	if m := trainingBattalionPattern.FindStringSubmatch(text); m != nil {
		return m[1] + " НБ"
	}
	if len(r.labels) == 0 {
		return ""
	}
	matches := r.automaton.FindAllOverlapping([]byte(strings.ToLower(text)))
	if len(matches) == 0 {
		return ""
	}
	return r.labels[matches[0].PatternID]
}

// ResolveOr resolves the location, substituting fallback when no
// trigger applies.
func (r *LocationResolver) ResolveOr(text, fallback string) string {
	if loc := r.Resolve(text); loc != "" {
		return loc
	}
	return fallback
}

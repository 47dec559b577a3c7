// Package namecase converts Ukrainian personal names from the genitive
// case the orders use ("КОВАЛЯ Івана Івановича") to nominative
// ("КОВАЛЬ Іван Іванович"). Conversion is rule-based: the configured
// override map is consulted first, then ordered suffix tables per name
// part. A token no rule covers is kept as written.
package namecase

import (
	"strings"
	"unicode"

	"github.com/coolbeans/oblik/pkg/config"
)

type rule struct {
	from, to string
}

// surnameRules run longest suffix first; the generic trailing-а drop
// comes last so the specific stems win.
var surnameRules = []rule{
	{"енка", "енко"},
	{"єнка", "єнко"},
	{"ього", "ій"},
	{"ого", "ий"},
	{"ова", "ов"},
	{"єва", "єв"},
	{"ева", "ев"},
	{"іна", "ін"},
	{"їна", "їн"},
	{"ука", "ук"},
	{"юка", "юк"},
	{"ака", "ак"},
	{"яка", "як"},
	{"ика", "ик"},
	{"іка", "ік"},
	{"ка", "ко"},
	{"вця", "вець"},
	{"ая", "ай"},
	{"ея", "ей"},
	{"ія", "ій"},
	{"оя", "ой"},
	{"ча", "ч"},
	{"ля", "ль"},
	{"ня", "нь"},
	{"ся", "сь"},
	{"зя", "зь"},
	{"тя", "ть"},
	{"а", ""},
	{"я", "ь"},
}

var givenRules = []rule{
	{"ії", "ія"},
	{"ія", "ій"},
	{"ля", "ль"},
	{"ря", "р"},
	{"и", "а"},
	{"а", ""},
	{"я", "ь"},
}

var patronymicRules = []rule{
	{"овича", "ович"},
	{"йовича", "йович"},
	{"ича", "ич"},
	{"івни", "івна"},
	{"ївни", "ївна"},
}

// Converter turns genitive names into nominative ones.
type Converter struct {
	overrides map[string]string
}

// New builds a converter using the configured name overrides.
func New(cfg *config.Config) *Converter {
	overrides := make(map[string]string, len(cfg.NameMap))
	for from, to := range cfg.NameMap {
		overrides[strings.ToLower(strings.TrimSpace(from))] = to
	}
	return &Converter{overrides: overrides}
}

// FullName converts a full name. Three tokens are treated as surname,
// given name and patronymic; anything else is converted token by token
// with the surname rules. Whitespace is collapsed.
func (c *Converter) FullName(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ""
	}
	if full, ok := c.override(strings.Join(tokens, " ")); ok {
		return full
	}
	if len(tokens) == 3 {
		return c.token(tokens[0], surnameRules) + " " +
			c.token(tokens[1], givenRules) + " " +
			c.token(tokens[2], patronymicRules)
	}
	converted := make([]string, len(tokens))
	for i, tok := range tokens {
		converted[i] = c.token(tok, surnameRules)
	}
	return strings.Join(converted, " ")
}

// Surname converts a single surname token.
func (c *Converter) Surname(word string) string {
	return c.token(word, surnameRules)
}

func (c *Converter) token(word string, rules []rule) string {
	if replaced, ok := c.override(word); ok {
		return matchCase(word, replaced)
	}
	lower := strings.ToLower(word)
	for _, r := range rules {
		if !strings.HasSuffix(lower, r.from) {
			continue
		}
		stem := lower[:len(lower)-len(r.from)]
		// Do not reduce a token to almost nothing.
		if len([]rune(stem)) < 2 {
			continue
		}
		return matchCase(word, stem+r.to)
	}
	return word
}

func (c *Converter) override(word string) (string, bool) {
	v, ok := c.overrides[strings.ToLower(word)]
	return v, ok
}

// matchCase applies the capitalization shape of the original token to
// the converted one: all-caps stays all-caps, a leading capital stays
// a leading capital.
func matchCase(original, converted string) string {
	if original == strings.ToUpper(original) && strings.ContainsFunc(original, unicode.IsLetter) {
		return strings.ToUpper(converted)
	}
	runes := []rune(original)
	if len(runes) > 0 && unicode.IsUpper(runes[0]) {
		out := []rune(converted)
		if len(out) > 0 {
			out[0] = unicode.ToUpper(out[0])
		}
		return string(out)
	}
	return converted
}

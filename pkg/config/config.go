// Package config holds the extraction dictionaries: rank aliases,
// location triggers, special-unit name prefixes, name overrides, and
// the fallback constants used when an order omits a value.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full extraction configuration. YAML and JSON files are
// both accepted (yaml.v3 parses JSON as a YAML subset).
type Config struct {
	// RankMap maps every surface form of a rank (genitive, accusative,
	// abbreviated) to its canonical nominative form.
	RankMap map[string]string `yaml:"rank_map" json:"rank_map"`

	// LocationTriggers maps a literal trigger substring to the location
	// label it implies.
	LocationTriggers map[string]string `yaml:"location_triggers" json:"location_triggers"`

	// SpecialUnitPrefixes lists word stems that introduce non-coded unit
	// names ("національн", "госпітал", ...).
	SpecialUnitPrefixes []string `yaml:"special_unit_prefixes" json:"special_unit_prefixes"`

	// NameMap overrides the rule-based nominative conversion for names
	// the rules get wrong.
	NameMap map[string]string `yaml:"name_map" json:"name_map"`

	// DefaultUnit is the home unit code assumed when an order names none.
	DefaultUnit string `yaml:"default_unit" json:"default_unit"`

	// DefaultLocation is the location assumed when no trigger matches.
	DefaultLocation string `yaml:"default_location" json:"default_location"`

	// DefaultMeal is the meal boundary assumed when none is stated.
	DefaultMeal string `yaml:"default_meal" json:"default_meal"`
}

// Default returns the built-in configuration matching the home unit's
// standing order conventions.
func Default() *Config {
	return &Config{
		RankMap:             defaultRankMap(),
		LocationTriggers:    defaultLocationTriggers(),
		SpecialUnitPrefixes: defaultSpecialUnitPrefixes(),
		NameMap:             defaultNameMap(),
		DefaultUnit:         "А1890",
		DefaultLocation:     "ППД",
		DefaultMeal:         "зі сніданку",
	}
}

// Load reads a YAML or JSON configuration file and overlays it on the
// defaults, so partial files only override what they mention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the dictionaries needed by extraction are present.
func (c *Config) Validate() error {
	if len(c.RankMap) == 0 {
		return fmt.Errorf("rank_map is empty")
	}
	if c.DefaultUnit == "" {
		return fmt.Errorf("default_unit is empty")
	}
	if c.DefaultMeal == "" {
		return fmt.Errorf("default_meal is empty")
	}
	for form, base := range c.RankMap {
		if strings.TrimSpace(form) == "" || strings.TrimSpace(base) == "" {
			return fmt.Errorf("rank_map contains an empty form or base")
		}
	}
	return nil
}

// RankForms returns all rank surface forms, longest first so that
// multi-word forms win over their single-word prefixes.
func (c *Config) RankForms() []string {
	forms := make([]string, 0, len(c.RankMap))
	for form := range c.RankMap {
		forms = append(forms, form)
	}
	sort.Slice(forms, func(i, j int) bool {
		if len(forms[i]) != len(forms[j]) {
			return len(forms[i]) > len(forms[j])
		}
		return forms[i] < forms[j]
	})
	return forms
}

// CanonicalRank maps a rank surface form to its canonical nominative
// form. Unknown forms come back unchanged.
func (c *Config) CanonicalRank(form string) string {
	if base, ok := c.RankMap[strings.ToLower(strings.TrimSpace(form))]; ok {
		return base
	}
	return strings.TrimSpace(form)
}

// defaultRankMap covers the enlisted, NCO and officer ranks the orders
// use, with their genitive and accusative surface forms.
func defaultRankMap() map[string]string {
	base := map[string][]string{
		"солдат":               {"солдата", "солдату"},
		"старший солдат":       {"старшого солдата", "старшому солдату"},
		"матрос":               {"матроса"},
		"молодший сержант":     {"молодшого сержанта", "молодшому сержанту"},
		"сержант":              {"сержанта", "сержанту"},
		"старший сержант":      {"старшого сержанта", "старшому сержанту"},
		"головний сержант":     {"головного сержанта"},
		"штаб-сержант":         {"штаб-сержанта"},
		"майстер-сержант":      {"майстер-сержанта"},
		"старший майстер-сержант": {"старшого майстер-сержанта"},
		"головний майстер-сержант": {"головного майстер-сержанта"},
		"прапорщик":            {"прапорщика"},
		"старший прапорщик":    {"старшого прапорщика"},
		"молодший лейтенант":   {"молодшого лейтенанта"},
		"лейтенант":            {"лейтенанта"},
		"старший лейтенант":    {"старшого лейтенанта"},
		"капітан":              {"капітана"},
		"майор":                {"майора"},
		"підполковник":         {"підполковника"},
		"полковник":            {"полковника"},
		"курсант":              {"курсанта", "курсанту"},
		"рядовий":              {"рядового"},
	}
	m := make(map[string]string, len(base)*3)
	for canonical, forms := range base {
		m[canonical] = canonical
		for _, f := range forms {
			m[f] = canonical
		}
	}
	return m
}

func defaultLocationTriggers() map[string]string {
	return map[string]string{
		"пункті постійної дислокації": "ППД",
		"пункту постійної дислокації": "ППД",
		"навчальному центрі":          "НЦ",
		"навчального центру":          "НЦ",
		"польовому таборі":            "Полігон",
		"полігоні":                    "Полігон",
	}
}

func defaultSpecialUnitPrefixes() []string {
	return []string{
		"національн", "військов", "медичн", "клінічн", "центр", "управлінн",
		"командуванн", "окрем", "механізован", "бригад", "батальйон", "полк",
		"дивізіон", "рот", "взвод", "груп", "збор", "підрозділ", "загон",
		"частин", "академі", "інститут", "училищ", "школ", "коледж",
		"госпітал", "пункт", "територіальн", "зональн", "відділ", "служб",
	}
}

// defaultNameMap covers given names whose nominative cannot be
// recovered by suffix rules alone (о-stem names and other irregulars).
// Keys are lowercase genitive tokens.
func defaultNameMap() map[string]string {
	return map[string]string{
		"петра":    "Петро",
		"павла":    "Павло",
		"михайла":  "Михайло",
		"дмитра":   "Дмитро",
		"данила":   "Данило",
		"кирила":   "Кирило",
		"лева":     "Лев",
		"іллі":     "Ілля",
		"миколи":   "Микола",
		"сави":     "Сава",
		"микити":   "Микита",
		"хоми":     "Хома",
	}
}

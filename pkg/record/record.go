// Package record defines the personnel-transition record produced by
// extraction, the shared duplicate tracker, and the cause
// canonicalization applied before export.
package record

import "strings"

// Action is the meal-roster operation an order performs on a person.
type Action string

const (
	// ActionEnroll puts a person on the meal roster.
	ActionEnroll Action = "зарахувати"

	// ActionRemove takes a person off the meal roster.
	ActionRemove Action = "виключити"

	// AnyAction marks tracker lookups that only care about membership.
	AnyAction Action = ""
)

// Personnel type labels.
const (
	TypePermanent = "Постійний склад"
	TypeCadet     = "Курсант"
	TypeMobilized = "Мобілізований"
)

// Meal boundary labels.
const (
	MealBreakfast = "зі сніданку"
	MealLunch     = "з обіду"
	MealDinner    = "з вечері"
)

// PersonnelRecord is one extracted personnel transition.
type PersonnelRecord struct {
	// Rank is the canonical nominative rank.
	Rank string `json:"rank"`

	// Name is the full name as written in the order (usually genitive).
	Name string `json:"name"`

	// NameNormal is the nominative form of Name, filled in by the
	// finalization pass.
	NameNormal string `json:"name_normal"`

	// Unit is the military unit code, e.g. "А1890".
	Unit string `json:"unit"`

	// Location is the duty location label ("ППД", "НЦ", "3 НБ", ...).
	Location string `json:"location"`

	// Type is the personnel category (permanent, cadet, mobilized).
	Type string `json:"type"`

	// Date is the transition date in DD.MM.YYYY form.
	Date string `json:"date"`

	// Meal is the meal boundary the transition takes effect from.
	Meal string `json:"meal"`

	// Cause is the canonical transition cause.
	Cause string `json:"cause"`

	// Action is the roster operation; defaults to enrollment when the
	// order leaves it implicit.
	Action Action `json:"action"`
}

// unknownUnitValues are the unit spellings treated as absent.
var unknownUnitValues = map[string]bool{
	"":            true,
	"невідомо":    true,
	"не визначено": true,
}

// New builds a record, substituting defaultUnit when the extracted unit
// is absent or an explicit unknown marker.
func New(rank, name, unit, location, personnelType, date, meal, cause, defaultUnit string) PersonnelRecord {
	if unknownUnitValues[strings.ToLower(strings.TrimSpace(unit))] {
		unit = defaultUnit
	}
	return PersonnelRecord{
		Rank:     strings.TrimSpace(rank),
		Name:     strings.TrimSpace(name),
		Unit:     NormalizeUnit(unit),
		Location: location,
		Type:     personnelType,
		Date:     date,
		Meal:     meal,
		Cause:    cause,
	}
}

// NormalizeUnit folds Latin-A and hyphenated unit code spellings to the
// canonical Cyrillic form: "A-1890" and "A1890" become "А1890".
func NormalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if len(unit) == 0 {
		return unit
	}
	if strings.HasPrefix(unit, "A") || strings.HasPrefix(unit, "А") {
		rest := strings.TrimPrefix(strings.TrimPrefix(unit, "A"), "А")
		rest = strings.TrimPrefix(rest, "-")
		if rest != "" && isDigits(rest) {
			return "А" + rest
		}
	}
	return unit
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DefaultActions fills the enrollment action into records that carry
// none. Orders only spell out removals; enrollment is the implied case.
func DefaultActions(records []PersonnelRecord) {
	for i := range records {
		if records[i].Action == AnyAction {
			records[i].Action = ActionEnroll
		}
	}
}

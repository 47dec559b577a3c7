package record

import "strings"

// Canonical cause labels used in the exported table.
const (
	CausePPOS             = "ППОС"
	CauseFromAssignment   = "З відрядження"
	CauseVacation         = "Відпустка"
	CauseHospital         = "Шпиталь"
	CauseTrainingTrip     = "Відрядження (навчання)"
	CauseMissionTrip      = "Відрядження (завдання)"
	CauseUnauthorized     = "СЗЧ"
	CauseFurtherService   = "Вибув для подальшого"
	CauseReserveDischarge = "Звільнення в запас"
	CauseTransfer         = "Переміщення"
)

// causeRule maps raw processor causes to canonical export labels. Rules
// are tried in order; the first match wins.
type causeRule struct {
	match func(raw, lower string) bool
	out   string
}

var causeRules = []causeRule{
	{func(raw, _ string) bool { return strings.HasPrefix(raw, CausePPOS) }, CausePPOS},
	{func(_, lower string) bool {
		return strings.Contains(lower, "повернення з") && strings.Contains(lower, "відпустки")
	}, CauseVacation},
	{func(_, lower string) bool {
		return strings.HasPrefix(lower, "повернення з лікувального закладу") ||
			strings.HasPrefix(lower, "поверненя з лікувального закладу")
	}, CauseHospital},
	{func(raw, _ string) bool { return raw == "Прибуття у відрядження для навчання" }, CauseTrainingTrip},
	{func(raw, _ string) bool {
		return raw == "Прибуття у відрядження для виконання службового завдання"
	}, CauseMissionTrip},
	{func(_, lower string) bool {
		return strings.HasPrefix(lower, "повернення з відрядження") || lower == "з відрядження"
	}, CauseFromAssignment},
}

// CanonicalCause folds the free-form cause a processor attached into
// the canonical export label. Causes already canonical (СЗЧ, Переміщення,
// Звільнення в запас, ...) pass through unchanged.
func CanonicalCause(cause string) string {
	lower := strings.ToLower(strings.TrimSpace(cause))
	for _, rule := range causeRules {
		if rule.match(cause, lower) {
			return rule.out
		}
	}
	return cause
}

// CanonicalizeCauses rewrites every record's cause in place.
func CanonicalizeCauses(records []PersonnelRecord) {
	for i := range records {
		records[i].Cause = CanonicalCause(records[i].Cause)
	}
}

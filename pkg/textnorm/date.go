package textnorm

import (
	"fmt"
	"regexp"
	"strings"
)

// monthNumbers maps genitive Ukrainian month names to their two-digit
// calendar numbers.
var monthNumbers = map[string]string{
	"січня":    "01",
	"лютого":   "02",
	"березня":  "03",
	"квітня":   "04",
	"травня":   "05",
	"червня":   "06",
	"липня":    "07",
	"серпня":   "08",
	"вересня":  "09",
	"жовтня":   "10",
	"листопада": "11",
	"грудня":   "12",
}

var (
	longDatePattern    = regexp.MustCompile(`(\d{1,2})\s+([А-Яа-яІіЇїЄєҐґ']+)\s+(\d{4})`)
	numericDatePattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	dateQuoteStripper  = strings.NewReplacer("\"", "", "«", "", "»", "", "''", "", "'", "")
)

// ParseDate converts a long-form Ukrainian date such as
// "17 березня 2025" into "17.03.2025". Quote characters around the day
// are tolerated. The second return value is false when no date with a
// known month name is present.
func ParseDate(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	text = dateQuoteStripper.Replace(text)

	m := longDatePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	month, ok := MonthNumber(m[2])
	if !ok {
		return "", false
	}
	day := m[1]
	if len(day) == 1 {
		day = "0" + day
	}
	return fmt.Sprintf("%s.%s.%s", day, month, m[3]), true
}

// FormatNumericDate normalizes a DD.MM.YYYY string, zero-padding the
// day and month. It returns false for values that are not numeric dates.
func FormatNumericDate(text string) (string, bool) {
	m := numericDatePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	day, month := m[1], m[2]
	if len(day) == 1 {
		day = "0" + day
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if month > "12" || month == "00" || day > "31" || day == "00" {
		return "", false
	}
	return fmt.Sprintf("%s.%s.%s", day, month, m[3]), true
}

// MonthNumber returns the calendar number for a genitive month name, or
// false when the name is unknown.
func MonthNumber(name string) (string, bool) {
	n, ok := monthNumbers[strings.ToLower(name)]
	return n, ok
}

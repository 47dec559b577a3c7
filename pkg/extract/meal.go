package extract

import (
	"regexp"
	"strings"

	"github.com/coolbeans/oblik/pkg/textnorm"
)

// q matches the quoting around a day number: doubled apostrophes in the
// source documents, a straight quote after normalization.
const q = `(?:''|")`

// quotedDate captures day, month name and year inside a meal phrase.
const quotedDate = q + `(\d{1,2})` + q + `\s+(\p{L}+)\s+(\d{4})`

// mealDatePatterns locate the date tied to a meal-roster phrase, from
// the tightest phrasing to the loosest. Each captures (day, month, year).
var mealDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:зі|з)\s+(?:сніданку|вечері|обіду)\s+` + quotedDate),
	regexp.MustCompile(`(?i)зарахувати\s+на\s+котлов(?:е|ого)\s+забезпечення\s+(?:частини|в\s+місці\s+тимчасового\s+розміщення\s+особового\s+складу,\s+[\d\p{L}\s]+)?\s*(?:зі|з)\s+(?:сніданку|вечері|обіду)\s+` + quotedDate),
	regexp.MustCompile(`(?i)котлове\s+забезпечення\s+(?:частини\s+)?(?:зі|з)\s+(?:сніданку|вечері|обіду)\s+` + quotedDate),
	regexp.MustCompile(`(?is)зарахувати\s+на\s+котлов(?:е|ого)\s+забезпечення\s+.*?(?:зі|з)\s+(?:сніданку|вечері|обіду)\s+` + quotedDate),
}

// fallbackEventDate matches a bare "з ''17'' березня 2025 року" event
// date used when no meal-tied date is present.
var fallbackEventDate = regexp.MustCompile(`з\s+` + quotedDate + `\s+року`)

// sectionDatePattern matches any quoted long-form date in a section.
var sectionDatePattern = regexp.MustCompile(q + `(\d{1,2})` + q + `\s+(\p{L}+)\s+(\d{4})(?:\s+року)?`)

// MealInfo extracts the meal boundary and the date tied to it from a
// passage. When the passage names no meal, defaultMeal is returned; when
// no date is tied to a meal phrase, the bare event date is tried. The
// date is empty when nothing parses.
func MealInfo(text, defaultMeal string) (meal, date string) {
	meal = defaultMeal
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "зі сніданку"):
		meal = "зі сніданку"
	case strings.Contains(lower, "з обіду"):
		meal = "з обіду"
	case strings.Contains(lower, "з вечері"):
		meal = "з вечері"
	}

	for _, p := range mealDatePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d, ok := textnorm.ParseDate(m[1] + " " + m[2] + " " + m[3]); ok {
			date = d
			// A meal name inside the matched phrase wins over the
			// default when the plain scan above found nothing.
			if meal == defaultMeal {
				context := strings.ToLower(m[0])
				switch {
				case strings.Contains(context, "зі сніданку"):
					meal = "зі сніданку"
				case strings.Contains(context, "з обіду"):
					meal = "з обіду"
				case strings.Contains(context, "з вечері"):
					meal = "з вечері"
				}
			}
			break
		}
	}

	if date == "" {
		if m := fallbackEventDate.FindStringSubmatch(text); m != nil {
			if d, ok := textnorm.ParseDate(m[1] + " " + m[2] + " " + m[3]); ok {
				date = d
			}
		}
	}

	return meal, date
}

// SectionDate extracts the first quoted long-form date from a section,
// falling back to defaultDate when none parses.
func SectionDate(text, defaultDate string) string {
	for _, m := range sectionDatePattern.FindAllStringSubmatch(text, -1) {
		if d, ok := textnorm.ParseDate(m[1] + " " + m[2] + " " + m[3]); ok {
			return d
		}
	}
	return defaultDate
}

// Package section carves order documents into processable regions: the
// outer arrival/departure window, typed sections found by marker
// scanning, numbered subsections, and unauthorized-absence passages
// that live outside the regular section structure.
package section

import (
	"regexp"
	"strings"

	"github.com/coolbeans/oblik/pkg/trace"
)

var (
	arrivalStartPattern = regexp.MustCompile(`(?i)Вважати\s+такими,\s+що\s+прибули\s+та\s+приступили\s+до\s+виконання\s+службових\s+обов'язків\s*:?`)
	departurePattern    = regexp.MustCompile(`(?i)Вважати\s+такими,\s+що\s+вибули\s*:?`)
	commanderPattern    = regexp.MustCompile(`(?i)Командир\s+військової\s+частини\s+А1890`)
)

// Window is the carved-out processing region of one order document.
// Arrival holds the text between the arrival phrase and the departure
// phrase; Departure holds the text after the departure phrase up to
// the commander signature. Either may be empty.
type Window struct {
	Arrival   string
	Departure string

	// Fallback reports that no arrival phrase was found and the whole
	// document stands in for the arrival block.
	Fallback bool
}

// Carve locates the arrival and departure phrase markers in the
// document and returns the regions between them. With no arrival
// marker the entire document becomes the arrival block; with no
// departure marker after the arrival marker the arrival block runs to
// the end of the document.
func Carve(text string, log *trace.Log) Window {
	var w Window

	start := arrivalStartPattern.FindStringIndex(text)
	if start == nil {
		log.Record(trace.PathWindowFallback, "no arrival phrase marker")
		w.Arrival = text
		w.Fallback = true
		w.Departure = departureRegion(text, 0)
		return w
	}

	arrivalFrom := start[1]
	arrivalTo := len(text)
	for _, m := range departurePattern.FindAllStringIndex(text, -1) {
		if m[0] > arrivalFrom {
			arrivalTo = m[0]
			break
		}
	}
	w.Arrival = text[arrivalFrom:arrivalTo]
	w.Departure = departureRegion(text, arrivalFrom)
	return w
}

// departureRegion returns the text of the departure block: from the
// end of the first departure marker at or after from, to the commander
// signature line or the end of the document.
func departureRegion(text string, from int) string {
	for _, m := range departurePattern.FindAllStringIndex(text, -1) {
		if m[0] < from {
			continue
		}
		end := len(text)
		if sig := commanderPattern.FindStringIndex(text[m[1]:]); sig != nil {
			end = m[1] + sig[0]
		}
		return strings.TrimSpace(text[m[1]:end])
	}
	return ""
}

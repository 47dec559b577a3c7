package section

import (
	"regexp"
	"sort"
	"strings"

	"github.com/coolbeans/oblik/pkg/textnorm"
)

var (
	// subsectionNumberPattern matches X.Y or X.Y.Z point numbers at the
	// start of a line, with or without a trailing dot.
	subsectionNumberPattern = regexp.MustCompile(`(?m)(?:^|\n)\s*(\d+(?:\.\d+)+\.?)\s+`)

	// altSubsectionPattern catches "11.9.1 військовослужбовців
	// військової частини ..." headings that omit the trailing dot and
	// run straight into text.
	altSubsectionPattern = regexp.MustCompile(`(?m)(?:^|\n)\s*(\d+\.\d+\.\d+)\s+військовослужбовців\s+військової\s+частини`)

	// simpleSubsectionPattern is the fallback for bare "11.8" style
	// numbers that stand alone on a line.
	simpleSubsectionPattern = regexp.MustCompile(`(?m)(?:^|\n)\s*(\d+\.\d+)(?:$|\s|\n)`)
)

// Subsection is one numbered point of a section, split into paragraphs.
// Number is empty when the section had no numbered points and was
// processed whole.
type Subsection struct {
	Number     string
	Paragraphs []string
}

type subsectionMark struct {
	numStart int
	matchEnd int
	number   string
}

// Split divides a section into its numbered subsections and their
// paragraphs. A section without point numbers comes back as a single
// unnumbered subsection holding the whole text's paragraphs.
func Split(sectionText string) []Subsection {
	marks := collectMarks(sectionText, subsectionNumberPattern)
	for _, alt := range collectMarks(sectionText, altSubsectionPattern) {
		if !hasMarkAt(marks, alt.numStart) {
			marks = append(marks, alt)
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].numStart < marks[j].numStart })

	if len(marks) == 0 {
		marks = collectMarks(sectionText, simpleSubsectionPattern)
	}

	if len(marks) == 0 {
		paragraphs := textnorm.Paragraphs(sectionText)
		if len(paragraphs) == 0 && strings.TrimSpace(sectionText) != "" {
			paragraphs = []string{strings.TrimSpace(sectionText)}
		}
		return []Subsection{{Paragraphs: paragraphs}}
	}

	var out []Subsection
	for i, mark := range marks {
		end := len(sectionText)
		if i < len(marks)-1 {
			// Back the boundary up to the newline before the next
			// point number so its heading line is not swallowed. A
			// number-only heading line puts that newline before this
			// mark's own end; the boundary must never cross it.
			end = marks[i+1].numStart
			if nl := strings.LastIndex(sectionText[:end], "\n"); nl >= mark.matchEnd {
				end = nl
			}
		}
		raw := strings.TrimSpace(sectionText[mark.matchEnd:end])
		if raw == "" {
			continue
		}
		paragraphs := textnorm.Paragraphs(raw)
		if len(paragraphs) == 0 {
			paragraphs = []string{raw}
		}
		out = append(out, Subsection{Number: mark.number, Paragraphs: paragraphs})
	}
	return out
}

func collectMarks(text string, pattern *regexp.Regexp) []subsectionMark {
	var marks []subsectionMark
	for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
		if m[2] < 0 {
			continue
		}
		marks = append(marks, subsectionMark{
			numStart: m[2],
			matchEnd: m[1],
			number:   text[m[2]:m[3]],
		})
	}
	return marks
}

func hasMarkAt(marks []subsectionMark, pos int) bool {
	for _, m := range marks {
		if m.numStart == pos {
			return true
		}
	}
	return false
}

package extraction

import (
	"fmt"
	"strings"
)

// segment is the raw material for one bid item: every line between two CPV
// boundaries, bucketed by kind but kept in original order.
type segment struct {
	cpv     string   // merged code, e.g. "50421200-4"; "" if the boundary had no code
	tokens  []string // KindText lines, in order
	numbers []string // KindNumeric lines, in order
	raw     []string // all lines of the segment including the boundary, verbatim
}

// scan performs the single forward pass over the classified line stream:
// it locates CPV boundaries, merges check-digit suffix lines into their code,
// and collects the lines of each segment. Lines before the first boundary
// cannot be attributed to any item and are discarded with a warning.
func scan(lines []string) ([]segment, []ParseWarning) {
	var (
		segments []segment
		warnings []ParseWarning
		current  *segment
		leading  []string
	)

	flush := func() {
		if current != nil {
			segments = append(segments, *current)
			current = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			continue
		}

		switch ClassifyLine(line) {
		case KindCPVCode:
			flush()
			code := line
			raw := []string{line}
			// A suffix line immediately after the code carries its check
			// digit; both lines belong to the boundary.
			if i+1 < len(lines) && ClassifyLine(lines[i+1]) == KindCPVSuffix {
				code += lines[i+1]
				raw = append(raw, lines[i+1])
				i++
			}
			current = &segment{cpv: code, raw: raw}

		case KindText:
			if current == nil {
				leading = append(leading, line)
				continue
			}
			current.tokens = append(current.tokens, line)
			current.raw = append(current.raw, line)

		case KindNumeric:
			if current == nil {
				leading = append(leading, line)
				continue
			}
			current.numbers = append(current.numbers, line)
			current.raw = append(current.raw, line)

		case KindCPVSuffix:
			// A suffix with no preceding code line is an extraction artefact.
			if current == nil {
				leading = append(leading, line)
				continue
			}
			warnings = append(warnings, ParseWarning{
				Kind:    WarnSkippedLine,
				Message: "unattached cpv suffix inside segment",
				RawText: line,
			})
		}
	}
	flush()

	if len(leading) > 0 {
		warnings = append([]ParseWarning{{
			Kind:    WarnNoLeadingCode,
			Message: fmt.Sprintf("%d line(s) before first cpv code discarded", len(leading)),
			RawText: strings.Join(leading, "\n"),
		}}, warnings...)
	}

	return segments, warnings
}

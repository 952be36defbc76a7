package intent

import (
	"fmt"
	"strings"
)

// parseSections tokenizes a document into an ordered section list.
//
// A heading line is one to six '#' characters followed by a space.
// Heading-like lines inside fenced code blocks (``` or ~~~) are
// ignored. A document that declares the same top-level heading twice is
// malformed.
func parseSections(raw []byte) ([]Section, error) {
	var (
		sections   []Section
		bodyStarts []int
		inFence    bool
		fence      string
		offset     int
		seen       = map[string]bool{}
	)

	lines := strings.SplitAfter(string(raw), "\n")
	for _, line := range lines {
		lineStart := offset
		offset += len(line)

		trimmed := strings.TrimSpace(line)

		if inFence {
			if strings.HasPrefix(trimmed, fence) {
				inFence = false
			}
			continue
		}
		if marker, ok := fenceMarker(trimmed); ok {
			inFence = true
			fence = marker
			continue
		}

		depth, heading, ok := parseHeading(line)
		if !ok {
			continue
		}

		// A heading at the same or a shallower depth closes any section
		// still open.
		for i := range sections {
			if sections[i].bodyEnd == 0 && sections[i].Depth >= depth {
				sections[i].bodyEnd = lineStart
			}
		}

		if depth == SectionDepth {
			if seen[heading] {
				return nil, fmt.Errorf("%w: duplicate heading %q", ErrMalformedDocument, heading)
			}
			seen[heading] = true
			sections = append(sections, Section{Depth: depth, Heading: heading})
			bodyStarts = append(bodyStarts, offset)
		}
	}

	for i := range sections {
		if sections[i].bodyEnd == 0 {
			sections[i].bodyEnd = len(raw)
		}
		start := bodyStarts[i]
		if start > sections[i].bodyEnd {
			start = sections[i].bodyEnd
		}
		sections[i].Body = string(raw[start:sections[i].bodyEnd])
	}

	return sections, nil
}

// parseHeading returns the depth and text of a markdown heading line.
func parseHeading(line string) (int, string, bool) {
	trimmed := strings.TrimRight(line, "\n")
	depth := 0
	for depth < len(trimmed) && trimmed[depth] == '#' {
		depth++
	}
	if depth == 0 || depth > 6 {
		return 0, "", false
	}
	if depth >= len(trimmed) || trimmed[depth] != ' ' {
		return 0, "", false
	}
	heading := strings.TrimSpace(trimmed[depth+1:])
	if heading == "" {
		return 0, "", false
	}
	return depth, heading, true
}

// fenceMarker reports whether a line opens a fenced code block and
// returns the fence marker.
func fenceMarker(trimmed string) (string, bool) {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, marker) {
			return marker, true
		}
	}
	return "", false
}

package intent

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMalformedDocument indicates a document whose headings cannot be
	// parsed into a section list (for example a duplicate top-level
	// heading). Callers other than the validator should degrade to an
	// empty section list rather than abort.
	ErrMalformedDocument = errors.New("malformed intent document")

	// ErrSectionNotFound indicates the named section is absent.
	ErrSectionNotFound = errors.New("section not found")
)

// SectionDepth is the heading depth at which document sections live
// ("## Pitfalls"). Sub-entries within a section use SectionDepth+1.
const SectionDepth = 2

// KnownSections lists the section names the resolver extracts by
// default, in presentation order.
var KnownSections = []string{
	"Purpose",
	"Ownership",
	"How to Start",
	"Contracts",
	"Pitfalls",
	"Checks",
	"Patterns",
	"Insights",
	"Sources",
}

// Section is one heading-delimited region of a document.
type Section struct {
	// Depth is the heading level (2 for "## Heading").
	Depth int

	// Heading is the heading text with markers and surrounding
	// whitespace stripped.
	Heading string

	// Body is the raw text between this heading and the next heading at
	// the same or shallower depth, without the heading line itself.
	Body string

	// bodyEnd is the byte offset just past the section body in the raw
	// document, used by the append primitives.
	bodyEnd int
}

// Node is a single intent document loaded from disk.
type Node struct {
	// Path is the absolute path of the document file.
	Path string

	// ScopeDir is the directory this node covers.
	ScopeDir string

	// IsRoot reports whether this is the checkout-level root document.
	IsRoot bool

	// Sections holds the parsed top-level sections in document order.
	Sections []Section

	// ModTime is the file's last modification time.
	ModTime time.Time

	// Warnings collects non-fatal parse findings (e.g. the document was
	// malformed and degraded to zero sections).
	Warnings []string

	raw []byte
}

// Raw returns the document's raw bytes as read from disk.
func (n *Node) Raw() []byte {
	return n.raw
}

// Section returns the top-level section with the given heading. The
// match is exact and case-sensitive.
func (n *Node) Section(name string) (*Section, bool) {
	for i := range n.Sections {
		if n.Sections[i].Depth == SectionDepth && n.Sections[i].Heading == name {
			return &n.Sections[i], true
		}
	}
	return nil, false
}

// AppendToSection returns the full document content with block appended
// at the end of the named section. Every byte preceding the insertion
// point is preserved exactly.
func (n *Node) AppendToSection(name, block string) ([]byte, error) {
	sec, ok := n.Section(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrSectionNotFound, name, n.Path)
	}

	head := n.raw[:sec.bodyEnd]
	tail := n.raw[sec.bodyEnd:]

	var b strings.Builder
	b.Grow(len(n.raw) + len(block) + 4)
	b.Write(head)
	if len(head) > 0 && head[len(head)-1] != '\n' {
		b.WriteByte('\n')
	}
	// Blank line between the existing body and the new entry unless the
	// body already ends with one.
	if !endsWithBlankLine(head) {
		b.WriteByte('\n')
	}
	b.WriteString(strings.TrimRight(block, "\n"))
	b.WriteByte('\n')
	b.Write(tail)
	return []byte(b.String()), nil
}

// AppendSection returns the full document content with a new section
// appended at the end of the document. Existing content is preserved
// exactly.
func (n *Node) AppendSection(name, block string) []byte {
	var b strings.Builder
	b.Grow(len(n.raw) + len(name) + len(block) + 8)
	b.Write(n.raw)
	if len(n.raw) > 0 && n.raw[len(n.raw)-1] != '\n' {
		b.WriteByte('\n')
	}
	if !endsWithBlankLine(n.raw) {
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", SectionDepth), name)
	b.WriteString(strings.TrimRight(block, "\n"))
	b.WriteByte('\n')
	return []byte(b.String())
}

// endsWithBlankLine reports whether content ends with an empty line
// (ignoring a single trailing newline terminator).
func endsWithBlankLine(content []byte) bool {
	s := string(content)
	if s == "" {
		return true
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.HasSuffix(s, "\n")
}

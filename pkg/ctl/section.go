package ctl

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNonContiguousSection is returned when the lines belonging to a
	// named section do not form one contiguous block, e.g. because the
	// section occurs more than once in the document.
	ErrNonContiguousSection = errors.Base("section lines are not contiguous")
)

// NormalizeSection canonicalizes a section name: surrounding whitespace is
// trimmed, one leading '$' is stripped, and the rest is uppercased. The
// operation is idempotent, so "$est", "EST" and " est " all normalize to
// "EST".
func NormalizeSection(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "$")
	return strings.ToUpper(name)
}

// SectionRange is a closed interval of 0-based line indices occupied by one
// section occurrence. The zero value is not meaningful; use EmptyRange for
// "not found".
type SectionRange struct {
	Start int
	End   int
}

// EmptyRange returns the "section not found" range.
func EmptyRange() SectionRange {
	return SectionRange{Start: -1, End: -1}
}

// IsEmpty reports whether the range denotes "not found".
func (r SectionRange) IsEmpty() bool {
	return r.Start < 0
}

// Len returns the number of lines covered by the range.
func (r SectionRange) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End - r.Start + 1
}

// spansAll reports whether the range covers every line of a document with n
// lines.
func (r SectionRange) spansAll(n int) bool {
	return !r.IsEmpty() && r.Start == 0 && r.End == n-1
}

// markerName extracts the section name from a marker line, or "" if the
// line is not a marker. A marker line is one whose first non-blank rune is
// '$'; the name is the run of characters up to the first blank.
func markerName(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "$") {
		return ""
	}
	name := trimmed
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		name = trimmed[:i]
	}
	return NormalizeSection(name)
}

// SectionLines returns the 0-based indices of every line belonging to the
// named section, across all of its occurrences. A section extends from its
// marker line through the line before the next marker line, or through the
// end of the document.
func SectionLines(doc Document, name string) []int {
	want := NormalizeSection(name)
	var idx []int
	inSection := false
	for i, line := range doc {
		if m := markerName(line); m != "" {
			inSection = m == want
		}
		if inSection {
			idx = append(idx, i)
		}
	}
	return idx
}

// FindSection locates the named section and returns its range, or an empty
// range when the section is absent. The locator contract requires a single
// contiguous occurrence: a gapped index set fails with
// ErrNonContiguousSection.
func FindSection(doc Document, name string) (SectionRange, error) {
	return RangeFromIndices(SectionLines(doc, name))
}

// RangeFromIndices converts a sorted index set into a SectionRange,
// enforcing contiguity.
func RangeFromIndices(idx []int) (SectionRange, error) {
	if len(idx) == 0 {
		return EmptyRange(), nil
	}
	for i := 1; i < len(idx); i++ {
		if idx[i]-idx[i-1] > 1 {
			return EmptyRange(), errors.Errorf("%w: gap between lines %d and %d",
				ErrNonContiguousSection, idx[i-1]+1, idx[i]+1)
		}
	}
	return SectionRange{Start: idx[0], End: idx[len(idx)-1]}, nil
}

// DataFileName returns the data file referenced by the document's $DATA
// section: the first token following the marker, possibly on a
// continuation line. Returns "" when the document has no $DATA section or
// the section names no file.
func DataFileName(doc Document) string {
	rng, err := FindSection(doc, "DATA")
	if err != nil || rng.IsEmpty() {
		return ""
	}
	for i := rng.Start; i <= rng.End; i++ {
		fields := strings.Fields(doc[i])
		for _, f := range fields {
			if strings.HasPrefix(f, "$") {
				continue
			}
			if strings.HasPrefix(f, ";") {
				break
			}
			return f
		}
	}
	return ""
}

// Package ctl models NONMEM-style control streams: line-oriented text
// files divided into sections introduced by "$NAME" marker lines.
package ctl

import (
	"strings"
)

// Document is an ordered sequence of physical text lines. Operations on
// Documents never mutate their input; they return a new Document.
type Document []string

// ParseText splits raw file content into a Document. Both LF and CRLF
// terminators are accepted; the terminators themselves are not stored.
func ParseText(text string) Document {
	if text == "" {
		return Document{}
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return Document(lines)
}

// Text renders the Document with a single LF after every line, including
// the last one.
func (d Document) Text() string {
	if len(d) == 0 {
		return ""
	}
	return strings.Join(d, "\n") + "\n"
}

// Clone returns an independent copy of the Document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	copy(out, d)
	return out
}

// Copyright 2025 the NMdata authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ctl

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrFirstLineSection is returned when a replace/before/after splice
	// targets a section that starts on the document's first line. The one
	// exemption is a replace whose range covers the whole document.
	ErrFirstLineSection = errors.Base("section starts at the first line")

	// ErrUnsupportedPolicy is returned for policy names outside the
	// supported set, including "first", which is recognized but not
	// implemented.
	ErrUnsupportedPolicy = errors.Base("unsupported location policy")
)

// Policy determines how new text relates to the located section range.
type Policy string

const (
	// PolicyReplace substitutes the new text for the section's lines.
	PolicyReplace Policy = "replace"
	// PolicyBefore inserts the new text immediately before the section.
	PolicyBefore Policy = "before"
	// PolicyAfter inserts the new text immediately after the section.
	PolicyAfter Policy = "after"
	// PolicyLast appends the new text at the end of the document,
	// whether or not the section exists.
	PolicyLast Policy = "last"
)

// ParsePolicy validates a policy name. "first" is rejected explicitly
// rather than silently aliased to another policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyReplace:
		return PolicyReplace, nil
	case PolicyBefore:
		return PolicyBefore, nil
	case PolicyAfter:
		return PolicyAfter, nil
	case PolicyLast:
		return PolicyLast, nil
	case "first":
		return "", errors.Errorf("%w: %q is recognized but not implemented, use one of replace, before, after, last", ErrUnsupportedPolicy, s)
	default:
		return "", errors.Errorf("%w: %q, use one of replace, before, after, last", ErrUnsupportedPolicy, s)
	}
}

// SpliceOptions adjust how new text is prepared before splicing.
type SpliceOptions struct {
	// TrailingBlank appends exactly one empty line after the new text.
	TrailingBlank bool
}

// NormalizeNewText prepares replacement lines for splicing: the leading
// blank prefix of every line is stripped, and a single empty line is
// appended when opts.TrailingBlank is set. The input is not mutated.
func NormalizeNewText(newText Document, opts SpliceOptions) Document {
	out := make(Document, 0, len(newText)+1)
	for _, line := range newText {
		out = append(out, strings.TrimLeft(line, " \t"))
	}
	if opts.TrailingBlank {
		out = append(out, "")
	}
	return out
}

// Splice produces a new Document from doc, a located section range, new
// text and a policy. It is pure: doc and newText are never mutated.
//
// An empty range is a no-op for replace, before and after; callers are
// expected to check for it and report. PolicyLast ignores the range
// entirely and always appends.
func Splice(doc Document, rng SectionRange, newText Document, policy Policy, opts SpliceOptions) (Document, error) {
	replacement := NormalizeNewText(newText, opts)

	if policy == PolicyLast {
		out := make(Document, 0, len(doc)+len(replacement))
		out = append(out, doc...)
		out = append(out, replacement...)
		return out, nil
	}

	if rng.IsEmpty() {
		return doc.Clone(), nil
	}
	if rng.Start < 0 || rng.End >= len(doc) || rng.Start > rng.End {
		return nil, errors.Errorf("section range [%d,%d] out of bounds for %d lines",
			rng.Start+1, rng.End+1, len(doc))
	}

	// Whole-document replace is exempt from the first-line restriction:
	// the result is exactly the new text.
	if policy == PolicyReplace && rng.spansAll(len(doc)) {
		return replacement, nil
	}
	if rng.Start == 0 {
		return nil, errors.Errorf("%w: cannot apply %q", ErrFirstLineSection, policy)
	}

	var head, tail Document
	switch policy {
	case PolicyReplace:
		head, tail = doc[:rng.Start], doc[rng.End+1:]
	case PolicyBefore:
		head, tail = doc[:rng.Start], doc[rng.Start:]
	case PolicyAfter:
		head, tail = doc[:rng.End+1], doc[rng.End+1:]
	default:
		return nil, errors.Errorf("%w: %q", ErrUnsupportedPolicy, policy)
	}

	out := make(Document, 0, len(head)+len(replacement)+len(tail))
	out = append(out, head...)
	out = append(out, replacement...)
	out = append(out, tail...)
	return out, nil
}

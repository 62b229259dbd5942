// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package frontmatter

import (
	"errors"
	"regexp"
	"strings"
)

// ErrMissingDelimiters indicates the document does not start with a `---`
// fenced header block.
var ErrMissingDelimiters = errors.New("missing front matter delimiters (---)")

var documentPattern = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\r?\n(.*)\z`)

// Document is a parsed header plus the free-text body that follows it.
type Document struct {
	Header *Map
	Body   string
}

// Extract splits content into its header and body. The header must open the
// document and both fences must be on their own line.
func Extract(content string) (Document, error) {
	m := documentPattern.FindStringSubmatch(content)
	if m == nil {
		return Document{}, ErrMissingDelimiters
	}
	return Document{
		Header: Parse(m[1]),
		Body:   strings.TrimSpace(m[2]),
	}, nil
}

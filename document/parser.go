// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document

import (
	"regexp"
	"strings"

	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/grammar"
	"github.com/wotledger/wotd/keypair"
)

// capture at any line position
const anyLine = -1

// trailing signature counts
const (
	noSignatures        = 0
	unlimitedSignatures = -1
)

// a single line field
type capture struct {
	line    int
	pattern *regexp.Regexp
	assign  func(e Entity, match []string)
}

// a multi-line field: the header line followed by one item per line
type section struct {
	header *regexp.Regexp
	assign func(e Entity, items []string)
}

// the description of one kind of document
type variant struct {
	kind       Kind
	create     func() Entity
	captures   []capture
	sections   []section
	signatures int
	sign       func(e Entity, signatures []string)
	clean      func(e Entity)
	verify     func(e Entity) error
}

var variants = map[Kind]*variant{
	IdentityDocument:      &identityVariant,
	MembershipDocument:    &membershipVariant,
	CertificationDocument: &certificationVariant,
	RevocationDocument:    &revocationVariant,
	TransactionDocument:   &transactionVariant,
	BlockDocument:         &blockVariant,
}

// Validator - runs all stages and optionally checks signatures
type Validator struct {
	verifier keypair.Verifier
}

// NewValidator - signatures are checked when verifier is not nil
func NewValidator(verifier keypair.Verifier) *Validator {
	return &Validator{
		verifier: verifier,
	}
}

// Validate - parse, clean and verify the raw text of a document
//
// returns the entity or the rejection reason
func (v *Validator) Validate(kind Kind, raw string) (Entity, error) {
	vt, ok := variants[kind]
	if !ok {
		return nil, fault.InvalidDocumentKind
	}

	text := normalise(raw)
	e, err := vt.parse(text)
	if nil != err {
		return nil, err
	}

	vt.clean(e)

	err = vt.verify(e)
	if nil != err {
		return nil, err
	}

	if e.Raw() != text {
		return nil, fault.UnknownFieldsOrFormat
	}

	if nil != v.verifier {
		for _, s := range e.Signed() {
			if !v.verifier.Verify(s.Content, s.Signature, s.Pubkey) {
				return nil, fault.SignatureDoesNotMatch
			}
		}
	}
	return e, nil
}

// Validate - all stages without signature checks
func Validate(kind Kind, raw string) (Entity, error) {
	return NewValidator(nil).Validate(kind, raw)
}

// Parse - only the parse stage
func Parse(kind Kind, raw string) (Entity, error) {
	vt, ok := variants[kind]
	if !ok {
		return nil, fault.InvalidDocumentKind
	}
	return vt.parse(normalise(raw))
}

// Clean - only the clean stage
func Clean(e Entity) {
	if vt, ok := variants[e.Kind()]; ok {
		vt.clean(e)
	}
}

// Verify - only the required field checks
func Verify(e Entity) error {
	vt, ok := variants[e.Kind()]
	if !ok {
		return fault.InvalidDocumentKind
	}
	return vt.verify(e)
}

// drop carriage returns and trailing blanks, end with exactly one newline
func normalise(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r", ""), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	s := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	if "" == s {
		return ""
	}
	return s + "\n"
}

// split into fields
//
// lines not matching any capture at their position are ignored, the
// verify stage decides whether something required is missing
func (vt *variant) parse(text string) (Entity, error) {
	if "" == text {
		return nil, fault.NoDocumentGiven
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	e := vt.create()

	if noSignatures != vt.signatures {
		if len(lines) < 2 {
			return nil, fault.WrongLineCount
		}
		signatures := []string{}
		for len(lines) > 1 && grammar.IsSignature(lines[len(lines)-1]) {
			if unlimitedSignatures != vt.signatures && len(signatures) >= vt.signatures {
				break
			}
			signatures = append([]string{lines[len(lines)-1]}, signatures...)
			lines = lines[:len(lines)-1]
		}
		vt.sign(e, signatures)
	}

	var open *section
	items := []string(nil)
	flush := func() {
		if nil != open {
			open.assign(e, items)
		}
		open = nil
		items = nil
	}

scan_lines:
	for i, line := range lines {
		for j := range vt.sections {
			if vt.sections[j].header.MatchString(line) {
				flush()
				open = &vt.sections[j]
				items = []string{}
				continue scan_lines
			}
		}
		for _, c := range vt.captures {
			if anyLine != c.line && i != c.line {
				continue
			}
			if m := c.pattern.FindStringSubmatch(line); nil != m {
				flush()
				c.assign(e, m)
				continue scan_lines
			}
		}
		if nil != open {
			items = append(items, line)
		}
	}
	flush()

	return e, nil
}

// capture for "Name: value" at any position
func header(name string, assign func(e Entity, value string)) capture {
	return capture{
		line:    anyLine,
		pattern: grammar.Header(name),
		assign: func(e Entity, m []string) {
			assign(e, m[1])
		},
	}
}

// capture a complete line at a fixed position
func positional(line int, pattern *regexp.Regexp, assign func(e Entity, m []string)) capture {
	return capture{
		line:    line,
		pattern: pattern,
		assign:  assign,
	}
}

func multiline(name string, assign func(e Entity, items []string)) section {
	return section{
		header: grammar.Section(name),
		assign: assign,
	}
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
)

// Entity - a validated document
type Entity interface {
	Kind() Kind
	Hash() string
	Raw() string
	Signed() []SignedContent
}

// SignedContent - one signature over some exact text
type SignedContent struct {
	Content   string
	Signature string
	Pubkey    string
}

// fields common to all entities
type base struct {
	hash string
}

// Hash - computed by the clean stage, empty before
func (b *base) Hash() string {
	return b.hash
}

// uppercase hex SHA1 of the concatenated parts
func sha1Upper(parts ...string) string {
	h := sha1.New()
	for _, p := range parts {
		io.WriteString(h, p)
	}
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// "Name: value" or "Name:" for an empty value
func writeHeader(b *strings.Builder, name string, value string) {
	b.WriteString(name)
	b.WriteByte(':')
	if "" != value {
		b.WriteByte(' ')
		b.WriteString(value)
	}
	b.WriteByte('\n')
}

func writeSection(b *strings.Builder, name string, items []string) {
	b.WriteString(name)
	b.WriteString(":\n")
	for _, item := range items {
		b.WriteString(item)
		b.WriteByte('\n')
	}
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteByte('\n')
}

func formatUint(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func parseUint(s string) (uint64, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	return n, nil == err
}

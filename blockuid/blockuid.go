// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockuid

import (
	"strconv"
	"strings"

	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/grammar"
)

// EmptyHash - SHA1 of zero bytes
const EmptyHash = "DA39A3EE5E6B4B0D3255BFEF95601890AFD80709"

// BlockUID - block number and uppercase hex block hash
type BlockUID struct {
	Number uint64
	Hash   string
}

// Root - anchor for documents issued before any block
var Root = BlockUID{Number: 0, Hash: EmptyHash}

// New - create from parts
func New(number uint64, hash string) BlockUID {
	return BlockUID{
		Number: number,
		Hash:   strings.ToUpper(hash),
	}
}

// Parse - convert "number-hash" text
func Parse(s string) (BlockUID, error) {
	m := grammar.BlockUID.FindStringSubmatch(s)
	if nil == m {
		return BlockUID{}, fault.InvalidBlockUID
	}
	n, err := strconv.ParseUint(m[1], 10, 64)
	if nil != err {
		return BlockUID{}, fault.InvalidBlockUID
	}
	return BlockUID{Number: n, Hash: m[2]}, nil
}

// FromTimestamp - extract the block UID from a "META:TS:number-hash" line
func FromTimestamp(line string) (BlockUID, error) {
	if !strings.HasPrefix(line, grammar.TimestampMeta) {
		return BlockUID{}, fault.InvalidBlockUID
	}
	return Parse(strings.TrimPrefix(line, grammar.TimestampMeta))
}

// IsZero - true if never assigned
func (b BlockUID) IsZero() bool {
	return "" == b.Hash
}

// String - "number-hash" or empty for the zero value
func (b BlockUID) String() string {
	if b.IsZero() {
		return ""
	}
	return strconv.FormatUint(b.Number, 10) + "-" + b.Hash
}

// GoString - for %#v
func (b BlockUID) GoString() string {
	return "<buid:" + b.String() + ">"
}

// MarshalText - convert to text
func (b BlockUID) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText - convert from text, empty text gives the zero value
func (b *BlockUID) UnmarshalText(s []byte) error {
	if 0 == len(s) {
		*b = BlockUID{}
		return nil
	}
	u, err := Parse(string(s))
	if nil != err {
		return err
	}
	*b = u
	return nil
}

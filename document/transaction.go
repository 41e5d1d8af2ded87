// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document

import (
	"strings"

	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/grammar"
)

// TransactionType - value of the Type header
const TransactionType = "Transaction"

// Input - a source being consumed
type Input struct {
	Index       uint64
	Source      string // D: dividend, T: transaction
	Number      uint64
	Fingerprint string
	Amount      uint64
}

// Output - an amount credited to a recipient
type Output struct {
	Recipient string
	Amount    uint64
}

// Transaction - transfer of units between keys
type Transaction struct {
	base
	Version    string
	Type       string
	Currency   string
	Issuers    []string
	Inputs     []Input
	Outputs    []Output
	Comment    string
	Signatures []string

	// first malformed item seen by parse
	malformed error
}

// Kind - implements Entity
func (t *Transaction) Kind() Kind {
	return TransactionDocument
}

// Unsigned - the body covered by every issuer signature
func (t *Transaction) Unsigned() string {
	b := strings.Builder{}
	writeHeader(&b, "Version", t.Version)
	writeHeader(&b, "Type", t.Type)
	writeHeader(&b, "Currency", t.Currency)
	writeSection(&b, "Issuers", t.Issuers)

	inputs := make([]string, len(t.Inputs))
	for i, in := range t.Inputs {
		inputs[i] = strings.Join([]string{
			formatUint(in.Index),
			in.Source,
			formatUint(in.Number),
			in.Fingerprint,
			formatUint(in.Amount),
		}, ":")
	}
	writeSection(&b, "Inputs", inputs)

	outputs := make([]string, len(t.Outputs))
	for i, out := range t.Outputs {
		outputs[i] = out.Recipient + ":" + formatUint(out.Amount)
	}
	writeSection(&b, "Outputs", outputs)

	writeHeader(&b, "Comment", t.Comment)
	return b.String()
}

// Raw - canonical form
func (t *Transaction) Raw() string {
	b := strings.Builder{}
	b.WriteString(t.Unsigned())
	for _, s := range t.Signatures {
		writeLine(&b, s)
	}
	return b.String()
}

// Signed - implements Entity
//
// signatures pair with issuers by position
func (t *Transaction) Signed() []SignedContent {
	body := t.Unsigned()
	signed := make([]SignedContent, 0, len(t.Issuers))
	for i, issuer := range t.Issuers {
		if i >= len(t.Signatures) {
			break
		}
		signed = append(signed, SignedContent{
			Content:   body,
			Signature: t.Signatures[i],
			Pubkey:    issuer,
		})
	}
	return signed
}

func asTransaction(e Entity) *Transaction {
	return e.(*Transaction)
}

func (t *Transaction) fail(err error) {
	if nil == t.malformed {
		t.malformed = err
	}
}

func parseInputs(t *Transaction, items []string) {
	for _, item := range items {
		m := grammar.Input.FindStringSubmatch(item)
		if nil == m {
			t.fail(fault.WrongInputFormat)
			continue
		}
		index, ok1 := parseUint(m[1])
		number, ok2 := parseUint(m[3])
		amount, ok3 := parseUint(m[5])
		if !ok1 || !ok2 || !ok3 {
			t.fail(fault.WrongInputFormat)
			continue
		}
		t.Inputs = append(t.Inputs, Input{
			Index:       index,
			Source:      m[2],
			Number:      number,
			Fingerprint: m[4],
			Amount:      amount,
		})
	}
}

func parseOutputs(t *Transaction, items []string) {
	for _, item := range items {
		m := grammar.Output.FindStringSubmatch(item)
		if nil == m {
			t.fail(fault.WrongOutputFormat)
			continue
		}
		amount, ok := parseUint(m[2])
		if !ok {
			t.fail(fault.WrongOutputFormat)
			continue
		}
		t.Outputs = append(t.Outputs, Output{
			Recipient: m[1],
			Amount:    amount,
		})
	}
}

var transactionVariant = variant{
	kind:   TransactionDocument,
	create: func() Entity { return &Transaction{} },
	captures: []capture{
		header("Version", func(e Entity, v string) { asTransaction(e).Version = v }),
		header("Type", func(e Entity, v string) { asTransaction(e).Type = v }),
		header("Currency", func(e Entity, v string) { asTransaction(e).Currency = v }),
		header("Comment", func(e Entity, v string) { asTransaction(e).Comment = v }),
	},
	sections: []section{
		multiline("Issuers", func(e Entity, items []string) {
			t := asTransaction(e)
			for _, item := range items {
				if !grammar.IsPublicKey(item) {
					t.fail(fault.IncorrectIssuer)
					continue
				}
				t.Issuers = append(t.Issuers, item)
			}
		}),
		multiline("Inputs", func(e Entity, items []string) {
			parseInputs(asTransaction(e), items)
		}),
		multiline("Outputs", func(e Entity, items []string) {
			parseOutputs(asTransaction(e), items)
		}),
	},
	signatures: unlimitedSignatures,
	sign: func(e Entity, signatures []string) {
		asTransaction(e).Signatures = signatures
	},
	clean: func(e Entity) {
		t := asTransaction(e)
		t.hash = sha1Upper(t.Raw())
	},
	verify: func(e Entity) error {
		t := asTransaction(e)
		switch {
		case DocumentVersion != t.Version:
			return fault.VersionUnknown
		case TransactionType != t.Type:
			return fault.WrongDocumentType
		case !grammar.IsCurrency(t.Currency):
			return fault.CurrencyRequired
		case nil != t.malformed:
			return t.malformed
		case 0 == len(t.Issuers):
			return fault.NoIssuers
		case 0 == len(t.Inputs):
			return fault.NoInputs
		case 0 == len(t.Outputs):
			return fault.NoOutputs
		case 0 == len(t.Signatures):
			return fault.NoSignature
		case len(t.Signatures) != len(t.Issuers):
			return fault.WrongSignatureCount
		}
		return nil
	},
}

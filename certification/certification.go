// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certification

import (
	"github.com/bitmark-inc/logger"

	"github.com/wotledger/wotd/relational"
)

// Schema - table layout
var Schema = relational.Schema{
	Name:       tableName,
	PrimaryKey: []string{"from", "target", "sig"},
}

const (
	colFrom        = "from"
	colTarget      = "target"
	colSig         = "sig"
	colLinked      = "linked"
	colBlockNumber = "block_number"
)

// Certifications - data access for the cert table
type Certifications struct {
	table *relational.Table[Record]
	log   *logger.L
}

// New - bind to an open database, call Init before use
func New(database *relational.Database) (*Certifications, error) {
	table, err := relational.NewTable[Record](database, Schema)
	if nil != err {
		return nil, err
	}
	return &Certifications{
		table: table,
		log:   logger.New("certification"),
	}, nil
}

// WithDatabase - the same access bound to another handle
func (cs *Certifications) WithDatabase(database *relational.Database) *Certifications {
	return &Certifications{
		table: cs.table.WithDatabase(database),
		log:   cs.log,
	}
}

// Init - create table and indexes
func (cs *Certifications) Init() error {
	return cs.table.Init()
}

// ToTarget - all certifications of an identity, oldest first
func (cs *Certifications) ToTarget(target string) ([]Record, error) {
	return cs.table.Find(
		[]relational.Criterion{relational.Eq(colTarget, target)},
		relational.Asc(colBlockNumber),
	)
}

// FromIssuer - all certifications made by a key, oldest first
func (cs *Certifications) FromIssuer(from string) ([]Record, error) {
	return cs.table.Find(
		[]relational.Criterion{relational.Eq(colFrom, from)},
		relational.Asc(colBlockNumber),
	)
}

// Pending - certifications not yet linked by a block
func (cs *Certifications) Pending() ([]Record, error) {
	return cs.table.Find([]relational.Criterion{relational.Eq(colLinked, false)})
}

// LinkedTo - number of linked certifications of an identity
func (cs *Certifications) LinkedTo(target string) (int64, error) {
	return cs.table.Count([]relational.Criterion{
		relational.Eq(colTarget, target),
		relational.Eq(colLinked, true),
	})
}

// Existing - the certification with this key or nil
func (cs *Certifications) Existing(from string, target string, sig string) (*Record, error) {
	return cs.table.Existing(
		relational.Eq(colFrom, from),
		relational.Eq(colTarget, target),
		relational.Eq(colSig, sig),
	)
}

// SavePending - store as pending, r is updated to match
func (cs *Certifications) SavePending(r *Record) error {
	r.Linked = false
	r.WrittenNumber = nil
	return cs.table.Save(r)
}

// SaveOfficial - store a copy of r as linked in block blockNumber
func (cs *Certifications) SaveOfficial(r *Record, blockNumber uint64) error {
	linked := *r
	linked.Linked = true
	linked.WrittenNumber = &blockNumber
	err := cs.table.Save(&linked)
	if nil != err {
		return err
	}
	cs.log.Debugf("linked: %s -> %s  block: %d", linked.From, linked.To, blockNumber)
	return nil
}

// Unwrite - return a linked certification to pending on rollback
//
// nothing happens if the certification is absent or already pending
func (cs *Certifications) Unwrite(r *Record) error {
	existing, err := cs.Existing(r.From, r.Target, r.Sig)
	if nil != err || nil == existing || !existing.Linked {
		return err
	}
	existing.Linked = false
	existing.WrittenNumber = nil
	return cs.table.Save(existing)
}

// BatchInsert - store many new certifications in one statement
//
// any existing key fails the whole batch
func (cs *Certifications) BatchInsert(records []Record) error {
	return cs.table.BatchInsert(records)
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package membership - pending and written membership events
package membership

import (
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/relational"
)

const tableName = "membership"

// Schema - table layout
var Schema = relational.Schema{
	Name:       tableName,
	PrimaryKey: []string{"issuer", "signature"},
}

// column names used in queries
const (
	colMembership = "membership"
	colIssuer     = "issuer"
	colNumber     = "number"
	colIdtyHash   = "idtyHash"
	colWritten    = "written"
	colSignature  = "signature"
)

// Memberships - data access for the membership table
type Memberships struct {
	table *relational.Table[Record]
	log   *logger.L
}

// New - bind to an open database, call Init before use
func New(database *relational.Database) (*Memberships, error) {
	table, err := relational.NewTable[Record](database, Schema)
	if nil != err {
		return nil, err
	}
	return &Memberships{
		table: table,
		log:   logger.New("membership"),
	}, nil
}

// WithDatabase - the same access bound to another handle, e.g. a transaction
func (ms *Memberships) WithDatabase(database *relational.Database) *Memberships {
	return &Memberships{
		table: ms.table.WithDatabase(database),
		log:   ms.log,
	}
}

// Init - create table and indexes
func (ms *Memberships) Init() error {
	return ms.table.Init()
}

// GetMembershipOfIssuer - the stored version of r or nil
func (ms *Memberships) GetMembershipOfIssuer(r *Record) (*Record, error) {
	return ms.table.Existing(
		relational.Eq(colIssuer, r.Issuer),
		relational.Eq(colSignature, r.Signature),
	)
}

// MembershipsOfIssuer - all records of one issuer in no particular order
func (ms *Memberships) MembershipsOfIssuer(issuer string) ([]Record, error) {
	return ms.table.Find([]relational.Criterion{
		relational.Eq(colIssuer, issuer),
	})
}

// PendingIN - join requests not yet in a block
func (ms *Memberships) PendingIN() ([]Record, error) {
	return ms.pending(document.MembershipIn)
}

// PendingOUT - leave requests not yet in a block
func (ms *Memberships) PendingOUT() ([]Record, error) {
	return ms.pending(document.MembershipOut)
}

// PendingINOfTarget - pending join requests for one identity
func (ms *Memberships) PendingINOfTarget(idtyHash string) ([]Record, error) {
	return ms.table.Find([]relational.Criterion{
		relational.Eq(colIdtyHash, idtyHash),
		relational.Eq(colMembership, document.MembershipIn),
		relational.Eq(colWritten, false),
	})
}

func (ms *Memberships) pending(membership string) ([]Record, error) {
	return ms.table.Find([]relational.Criterion{
		relational.Eq(colMembership, membership),
		relational.Eq(colWritten, false),
	})
}

// PreviousMS - the written record of issuer with the highest number
// below before
//
// when there is none the result has Number == NoPreviousNumber
func (ms *Memberships) PreviousMS(issuer string, before int64) (*Record, error) {
	return ms.previous([]relational.Criterion{
		relational.Eq(colIssuer, issuer),
		relational.Lt(colNumber, before),
		relational.Eq(colWritten, true),
	})
}

// PreviousIN - as PreviousMS restricted to IN records
func (ms *Memberships) PreviousIN(issuer string, before int64) (*Record, error) {
	return ms.previous([]relational.Criterion{
		relational.Eq(colIssuer, issuer),
		relational.Eq(colMembership, document.MembershipIn),
		relational.Lt(colNumber, before),
		relational.Eq(colWritten, true),
	})
}

func (ms *Memberships) previous(criteria []relational.Criterion) (*Record, error) {
	r, err := ms.table.FindOne(criteria, relational.Desc(colNumber))
	if nil != err {
		return nil, err
	}
	if nil == r {
		return &Record{Number: NoPreviousNumber}, nil
	}
	return r, nil
}

// Unwrite - return a written record to pending on rollback
//
// nothing happens if the record is absent or already pending
func (ms *Memberships) Unwrite(r *Record) error {
	existing, err := ms.GetMembershipOfIssuer(r)
	if nil != err {
		return err
	}
	if nil == existing || !existing.Written {
		return nil
	}

	existing.Written = false
	existing.WrittenNumber = nil
	err = ms.table.Save(existing)
	if nil != err {
		return err
	}
	ms.log.Debugf("unwrite: issuer: %s  number: %d", existing.Issuer, existing.Number)
	return nil
}

// SaveOfficialMS - store a copy of r as written in block blockNumber
func (ms *Memberships) SaveOfficialMS(membershipType string, r *Record, blockNumber uint64) error {
	membershipType, err := normalise(membershipType)
	if nil != err {
		return err
	}

	written := *r
	written.Membership = membershipType
	written.Written = true
	written.WrittenNumber = &blockNumber

	err = ms.table.Save(&written)
	if nil != err {
		return err
	}
	ms.log.Debugf("written: %s  issuer: %s  block: %d", membershipType, written.Issuer, blockNumber)
	return nil
}

// SavePendingMembership - store r as pending, r is updated to match
func (ms *Memberships) SavePendingMembership(r *Record) error {
	membershipType, err := normalise(r.Membership)
	if nil != err {
		return err
	}

	r.Membership = membershipType
	r.Written = false
	r.WrittenNumber = nil

	return ms.table.Save(r)
}

// BatchUpdate - store all records in one statement
func (ms *Memberships) BatchUpdate(records []Record) error {
	if 0 == len(records) {
		return nil
	}
	err := ms.table.BatchSave(records)
	if nil != err {
		return err
	}
	ms.log.Debugf("batch update: %d records", len(records))
	return nil
}

func normalise(membershipType string) (string, error) {
	m := strings.ToUpper(membershipType)
	if document.MembershipIn != m && document.MembershipOut != m {
		return "", fault.InvalidMembershipType
	}
	return m, nil
}

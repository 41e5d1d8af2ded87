// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identity - pending and written self-certifications
package identity

import (
	"github.com/bitmark-inc/logger"

	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/relational"
)

const tableName = "identity"

// Schema - table layout
var Schema = relational.Schema{
	Name:       tableName,
	PrimaryKey: []string{"hash"},
}

const (
	colHash    = "hash"
	colPubkey  = "pubkey"
	colWritten = "written"
)

// Record - one identity, table "identity"
type Record struct {
	Hash          string  `gorm:"column:hash;primaryKey;type:varchar(64)"`
	Pubkey        string  `gorm:"column:pubkey;type:varchar(50);not null;index:idx_identity_pubkey"`
	UID           string  `gorm:"column:uid;type:varchar(255);not null"`
	BUID          string  `gorm:"column:buid;type:varchar(100);not null"`
	Sig           string  `gorm:"column:sig;type:varchar(100);not null"`
	Revoked       bool    `gorm:"column:revoked;not null"`
	RevokedOn     *uint64 `gorm:"column:revoked_on"`
	RevocationSig string  `gorm:"column:revocation_sig;type:varchar(100)"`
	Member        bool    `gorm:"column:member;not null;index:idx_identity_member"`
	Written       bool    `gorm:"column:written;not null;index:idx_identity_written"`
	WrittenNumber *uint64 `gorm:"column:written_number"`
}

// TableName - for gorm
func (Record) TableName() string {
	return tableName
}

// FromDocument - pending record for a validated identity
func FromDocument(i *document.Identity) Record {
	return Record{
		Hash:   i.Hash(),
		Pubkey: i.Pubkey,
		UID:    i.UID,
		BUID:   i.BUID.String(),
		Sig:    i.Signature,
	}
}

// Identities - data access for the identity table
type Identities struct {
	table *relational.Table[Record]
	log   *logger.L
}

// New - bind to an open database, call Init before use
func New(database *relational.Database) (*Identities, error) {
	table, err := relational.NewTable[Record](database, Schema)
	if nil != err {
		return nil, err
	}
	return &Identities{
		table: table,
		log:   logger.New("identity"),
	}, nil
}

// WithDatabase - the same access bound to another handle
func (ids *Identities) WithDatabase(database *relational.Database) *Identities {
	return &Identities{
		table: ids.table.WithDatabase(database),
		log:   ids.log,
	}
}

// Init - create table and indexes
func (ids *Identities) Init() error {
	return ids.table.Init()
}

// GetByHash - the identity or nil
func (ids *Identities) GetByHash(hash string) (*Record, error) {
	return ids.table.Existing(relational.Eq(colHash, hash))
}

// FindByPubkey - all identities of a key, written ones first
func (ids *Identities) FindByPubkey(pubkey string) ([]Record, error) {
	return ids.table.Find(
		[]relational.Criterion{relational.Eq(colPubkey, pubkey)},
		relational.Desc(colWritten),
	)
}

// Pending - identities not yet in a block
func (ids *Identities) Pending() ([]Record, error) {
	return ids.table.Find([]relational.Criterion{relational.Eq(colWritten, false)})
}

// SavePending - store as pending, r is updated to match
func (ids *Identities) SavePending(r *Record) error {
	r.Written = false
	r.WrittenNumber = nil
	r.Member = false
	return ids.table.Save(r)
}

// SaveOfficial - store a copy of r as written in block blockNumber
//
// a revocation already recorded for the same identity is kept
func (ids *Identities) SaveOfficial(r *Record, blockNumber uint64) error {
	stored, err := ids.GetByHash(r.Hash)
	if nil != err {
		return err
	}

	written := *r
	written.Written = true
	written.WrittenNumber = &blockNumber
	written.Member = true

	if nil != stored {
		if "" == written.RevocationSig {
			written.RevocationSig = stored.RevocationSig
		}
		if stored.Revoked {
			written.Revoked = true
			written.RevokedOn = stored.RevokedOn
			written.Member = false
		}
	}

	err = ids.table.Save(&written)
	if nil != err {
		return err
	}
	ids.log.Debugf("written: %s  uid: %s  block: %d", written.Hash, written.UID, blockNumber)
	return nil
}

// Unwrite - return a written identity to pending on rollback
//
// nothing happens if the identity is absent or already pending
func (ids *Identities) Unwrite(hash string) error {
	return ids.update(hash, func(r *Record) bool {
		if !r.Written {
			return false
		}
		r.Written = false
		r.WrittenNumber = nil
		r.Member = false
		return true
	})
}

// SetMember - include or exclude a written identity
func (ids *Identities) SetMember(hash string, member bool) error {
	return ids.update(hash, func(r *Record) bool {
		if r.Member == member || (member && !r.Written) {
			return false
		}
		r.Member = member
		return true
	})
}

// SetRevocation - remember a revocation not yet in a block
func (ids *Identities) SetRevocation(hash string, revocationSig string) error {
	return ids.update(hash, func(r *Record) bool {
		if r.RevocationSig == revocationSig {
			return false
		}
		r.RevocationSig = revocationSig
		return true
	})
}

// Revoke - mark as revoked by block blockNumber
func (ids *Identities) Revoke(hash string, revocationSig string, blockNumber uint64) error {
	return ids.update(hash, func(r *Record) bool {
		r.Revoked = true
		r.RevokedOn = &blockNumber
		r.RevocationSig = revocationSig
		r.Member = false
		return true
	})
}

// Unrevoke - undo Revoke on rollback, the revocation stays pending
func (ids *Identities) Unrevoke(hash string) error {
	return ids.update(hash, func(r *Record) bool {
		if !r.Revoked {
			return false
		}
		r.Revoked = false
		r.RevokedOn = nil
		r.Member = r.Written
		return true
	})
}

// BatchInsert - store many new identities in one statement
func (ids *Identities) BatchInsert(records []Record) error {
	return ids.table.BatchInsert(records)
}

// read, modify and store if changed, absent records are ignored
func (ids *Identities) update(hash string, modify func(r *Record) bool) error {
	r, err := ids.GetByHash(hash)
	if nil != err || nil == r {
		return err
	}
	if !modify(r) {
		return nil
	}
	return ids.table.Save(r)
}

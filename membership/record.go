// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package membership

import (
	"github.com/wotledger/wotd/document"
)

// NoPreviousNumber - Number of the record returned when an issuer has no
// earlier written membership
const NoPreviousNumber = -1

// Record - one membership event, table "membership"
//
// written=false implies WrittenNumber is nil, written=true implies it is
// the number of the block that included the membership
type Record struct {
	Membership    string  `gorm:"column:membership;type:char(3);not null;index:idx_membership_membership"`
	Issuer        string  `gorm:"column:issuer;primaryKey;type:varchar(50)"`
	Number        int64   `gorm:"column:number;not null"`
	BlockNumber   *uint64 `gorm:"column:blockNumber"`
	BlockHash     string  `gorm:"column:blockHash;type:varchar(64)"`
	UserID        string  `gorm:"column:userid;type:varchar(255);not null"`
	CertTS        string  `gorm:"column:certts;type:varchar(100);not null"`
	Block         string  `gorm:"column:block;type:varchar(100)"`
	Fingerprint   string  `gorm:"column:fingerprint;type:varchar(64)"`
	IdtyHash      string  `gorm:"column:idtyHash;type:varchar(64);index:idx_membership_idtyHash"`
	Written       bool    `gorm:"column:written;not null;index:idx_membership_written"`
	WrittenNumber *uint64 `gorm:"column:written_number"`
	Signature     string  `gorm:"column:signature;primaryKey;type:varchar(100)"`
}

// TableName - for gorm
func (Record) TableName() string {
	return tableName
}

// IsNone - true for the "no previous membership" record
func (r *Record) IsNone() bool {
	return nil == r || NoPreviousNumber == r.Number
}

// FromDocument - pending record for a validated membership document
func FromDocument(m *document.Membership) Record {
	return Record{
		Membership:  m.Membership,
		Issuer:      m.Issuer,
		Number:      int64(m.Number),
		UserID:      m.UserID,
		CertTS:      m.CertTS,
		Block:       m.Block,
		Fingerprint: m.Fingerprint,
		IdtyHash:    m.IdtyHash,
		Signature:   m.Signature,
	}
}

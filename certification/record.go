// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certification

import (
	"github.com/wotledger/wotd/document"
)

const tableName = "cert"

// Record - one certification, table "cert"
//
// Target is the hash of the certified identity
type Record struct {
	From          string  `gorm:"column:from;primaryKey;type:varchar(50)"`
	To            string  `gorm:"column:to;type:varchar(50);not null;index:idx_cert_to"`
	Target        string  `gorm:"column:target;primaryKey;type:varchar(64);index:idx_cert_target"`
	BlockNumber   uint64  `gorm:"column:block_number;not null"`
	Sig           string  `gorm:"column:sig;primaryKey;type:varchar(100)"`
	Linked        bool    `gorm:"column:linked;not null;index:idx_cert_linked"`
	WrittenNumber *uint64 `gorm:"column:written_number"`
}

// TableName - for gorm
func (Record) TableName() string {
	return tableName
}

// FromDocument - pending record for a certification of target
func FromDocument(c *document.Certification, target string) Record {
	return Record{
		From:        c.From,
		To:          c.To,
		Target:      target,
		BlockNumber: c.BlockNumber,
		Sig:         c.Signature,
	}
}

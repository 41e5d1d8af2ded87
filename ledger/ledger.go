// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/logger"

	"github.com/wotledger/wotd/certification"
	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/identity"
	"github.com/wotledger/wotd/indicator"
	"github.com/wotledger/wotd/membership"
	"github.com/wotledger/wotd/relational"
	"github.com/wotledger/wotd/storage"
)

// Ledger - block application over the data access modules
type Ledger struct {
	database       *relational.Database
	identities     *identity.Identities
	memberships    *membership.Memberships
	certifications *certification.Certifications
	indicators     *indicator.Indicators
	log            *logger.L
}

// New - create the data access modules on database
//
// storage must be initialised before blocks are applied
func New(database *relational.Database, indicators *indicator.Indicators) (*Ledger, error) {
	ids, err := identity.New(database)
	if nil != err {
		return nil, err
	}
	ms, err := membership.New(database)
	if nil != err {
		return nil, err
	}
	cs, err := certification.New(database)
	if nil != err {
		return nil, err
	}

	log := logger.New("ledger")
	if nil == log {
		return nil, fault.InvalidLoggerChannel
	}

	return &Ledger{
		database:       database,
		identities:     ids,
		memberships:    ms,
		certifications: cs,
		indicators:     indicators,
		log:            log,
	}, nil
}

// Init - create all tables and the indicator namespaces
func (l *Ledger) Init() error {
	for _, f := range []func() error{
		l.identities.Init,
		l.memberships.Init,
		l.certifications.Init,
		l.indicators.Init,
	} {
		if err := f(); nil != err {
			return err
		}
	}
	return nil
}

// Identities - the identity table
func (l *Ledger) Identities() *identity.Identities {
	return l.identities
}

// Memberships - the membership table
func (l *Ledger) Memberships() *membership.Memberships {
	return l.memberships
}

// Certifications - the certification table
func (l *Ledger) Certifications() *certification.Certifications {
	return l.certifications
}

// Indicators - the flat indicators
func (l *Ledger) Indicators() *indicator.Indicators {
	return l.indicators
}

// Head - number and hash of the last applied block
func (l *Ledger) Head() (uint64, string, error) {
	n, hash, ok := storage.HighestBlock()
	if !ok {
		return 0, "", fault.NoBlocksApplied
	}
	return n, hash, nil
}

// ApplyBlock - write everything a validated block contains
//
// the block must be the root block of an empty ledger or directly follow
// the current head
func (l *Ledger) ApplyBlock(b *document.Block) error {
	n, hash, ok := storage.HighestBlock()
	if ok {
		if b.Number != n+1 || b.PreviousHash != hash {
			return fault.BlockOutOfSequence
		}
	} else if !b.IsRoot() {
		return fault.BlockOutOfSequence
	}

	// the archive write is the last step of the transaction so a failure
	// there rolls back the tables; a failed commit removes it again
	archived := false
	err := l.database.Transaction(func(tx *relational.Database) error {
		if err := l.with(tx).apply(b); nil != err {
			return err
		}
		if err := storage.StoreBlock(b); nil != err {
			return err
		}
		archived = true
		return nil
	})
	if nil != err {
		if archived {
			storage.RemoveBlock(b.Number)
		}
		l.log.Errorf("apply block: %d  error: %s", b.Number, err)
		return err
	}

	// indicators only summarise the applied block, after a failure here
	// reverting and applying the block again rewrites them
	err = l.updateIndicators(b)
	if nil != err {
		return err
	}

	l.log.Infof("applied block: %d  hash: %s", b.Number, b.Hash())
	return nil
}

// RevertBlock - undo the head block and return it
func (l *Ledger) RevertBlock() (*document.Block, error) {
	n, hash, ok := storage.HighestBlock()
	if !ok {
		return nil, fault.NoBlocksApplied
	}

	archived, ok := storage.GetDocument(document.BlockDocument, hash)
	if !ok {
		l.log.Criticalf("block: %d  hash: %s not archived", n, hash)
		return nil, fault.NotFound
	}

	e, err := document.Validate(document.BlockDocument, archived.Raw)
	if nil != err {
		return nil, err
	}
	b := e.(*document.Block)

	err = l.database.Transaction(func(tx *relational.Database) error {
		return l.with(tx).revert(b)
	})
	if nil != err {
		l.log.Errorf("revert block: %d  error: %s", n, err)
		return nil, err
	}

	storage.RemoveBlock(n)

	err = l.resetIndicators(n)
	if nil != err {
		return nil, err
	}

	l.log.Infof("reverted block: %d  hash: %s", n, hash)
	return b, nil
}

// tables bound to one transaction
type tables struct {
	identities     *identity.Identities
	memberships    *membership.Memberships
	certifications *certification.Certifications
}

func (l *Ledger) with(tx *relational.Database) *tables {
	return &tables{
		identities:     l.identities.WithDatabase(tx),
		memberships:    l.memberships.WithDatabase(tx),
		certifications: l.certifications.WithDatabase(tx),
	}
}

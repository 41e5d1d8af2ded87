// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/logger"

	"github.com/wotledger/wotd/flatfile"
	"github.com/wotledger/wotd/indicator"
	"github.com/wotledger/wotd/keypair"
	"github.com/wotledger/wotd/ledger"
	"github.com/wotledger/wotd/relational"
	"github.com/wotledger/wotd/reservoir"
	"github.com/wotledger/wotd/storage"
)

// all open stores
type node struct {
	log      *logger.L
	currency string
	database *relational.Database
	ledger   *ledger.Ledger
}

// open every store in dependency order, anything already opened is
// closed again on failure
func openNode(log *logger.L, options *Configuration) (*node, error) {
	log.Infof("archive: %q", options.Database.Name)
	err := storage.Initialise(options.Database.Name, storage.ReadWrite)
	if nil != err {
		return nil, err
	}

	log.Infof("database: %q", options.Database.SQLite)
	database, err := relational.Open(options.Database.SQLite)
	if nil != err {
		storage.Finalise()
		return nil, err
	}

	n := &node{
		log:      log,
		currency: options.Currency,
		database: database,
	}

	log.Infof("indicators: %q", options.Indicators)
	n.ledger, err = ledger.New(database, indicator.New(flatfile.New(options.Indicators)))
	if nil == err {
		err = n.ledger.Init()
	}
	if nil == err {
		err = reservoir.Initialise(reservoir.Handles{
			Identities:     n.ledger.Identities(),
			Memberships:    n.ledger.Memberships(),
			Certifications: n.ledger.Certifications(),
		}, keypair.Ed25519{})
	}
	if nil != err {
		database.Close()
		storage.Finalise()
		return nil, err
	}

	reservoir.SetLimit(options.Reservoir.RateLimit, options.Reservoir.Burst)

	return n, nil
}

func (n *node) close() {
	reservoir.Finalise()
	if err := n.database.Close(); nil != err {
		n.log.Errorf("database close error: %s", err)
	}
	storage.Finalise()
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package relational

import (
	"github.com/bitmark-inc/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InMemory - database file name for a private in-memory database
const InMemory = ":memory:"

// Database - shared handle for all tables
type Database struct {
	db  *gorm.DB
	log *logger.L
}

// Open - open or create an SQLite database file
//
// a single connection is used so all writes are serialised by the
// storage engine and an in-memory database is shared by all tables
func Open(file string) (*Database, error) {
	log := logger.New("sql")

	db, err := gorm.Open(sqlite.Open(file), &gorm.Config{
		Logger: newGormLogger(log),
	})
	if nil != err {
		log.Criticalf("open: %q  error: %s", file, err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if nil != err {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	log.Infof("opened: %q", file)

	return &Database{
		db:  db,
		log: log,
	}, nil
}

// Close - release the connection
func (d *Database) Close() error {
	if nil == d || nil == d.db {
		return nil
	}
	sqlDB, err := d.db.DB()
	if nil != err {
		return err
	}
	d.log.Info("closing")
	d.log.Flush()
	return sqlDB.Close()
}

// Transaction - run fn inside a single transaction
//
// tables opened with the handle passed to fn take part in the
// transaction
func (d *Database) Transaction(fn func(tx *Database) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Database{db: tx, log: d.log})
	})
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package relational_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/require"

	"github.com/wotledger/wotd/relational"
)

const loggerFile = "relational.log"

type thing struct {
	Owner         string   `gorm:"column:owner;primaryKey"`
	Sig           string   `gorm:"column:sig;primaryKey"`
	Number        int64    `gorm:"column:number"`
	Written       bool     `gorm:"column:written;index:idx_thing_written"`
	WrittenNumber *uint64  `gorm:"column:written_number"`
	Tags          []string `gorm:"column:tags;serializer:json"`
}

func (thing) TableName() string {
	return "thing"
}

var thingSchema = relational.Schema{
	Name:       "thing",
	PrimaryKey: []string{"owner", "sig"},
}

func TestMain(m *testing.M) {
	err := logger.Initialise(logger.Configuration{
		Directory: ".",
		File:      loggerFile,
		Size:      1048576,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "trace",
		},
	})
	if nil != err {
		panic(fmt.Sprintf("logger initialization failed: %s", err))
	}
	rc := m.Run()
	logger.Finalise()
	os.Remove(loggerFile)
	os.Exit(rc)
}

func setupTable(t *testing.T) (*relational.Database, *relational.Table[thing]) {
	db, err := relational.Open(relational.InMemory)
	require.Nil(t, err, "open")
	t.Cleanup(func() { db.Close() })

	table, err := relational.NewTable[thing](db, thingSchema)
	require.Nil(t, err, "new table")
	require.Nil(t, table.Init(), "init")
	return db, table
}

func u64(n uint64) *uint64 {
	return &n
}

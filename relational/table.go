// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package relational

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wotledger/wotd/fault"
)

// Schema - table name and primary key columns
type Schema struct {
	Name       string
	PrimaryKey []string
}

// Table - typed access to one table, T is the gorm tagged record
type Table[T any] struct {
	database *Database
	schema   Schema
	columns  map[string]struct{}
	conflict clause.OnConflict
}

// NewTable - bind a record type to a table
//
// the primary key columns must be columns of the record
func NewTable[T any](database *Database, schema Schema) (*Table[T], error) {
	if nil == database || nil == database.db {
		return nil, fault.DatabaseIsNotSet
	}
	if 0 == len(schema.PrimaryKey) {
		return nil, fault.MissingPrimaryKey
	}

	stmt := &gorm.Statement{DB: database.db}
	if err := stmt.Parse(new(T)); nil != err {
		return nil, err
	}

	columns := make(map[string]struct{}, len(stmt.Schema.DBNames))
	for _, name := range stmt.Schema.DBNames {
		columns[name] = struct{}{}
	}

	keys := make([]clause.Column, 0, len(schema.PrimaryKey))
	for _, k := range schema.PrimaryKey {
		if _, ok := columns[k]; !ok {
			return nil, fault.InvalidCriteriaField
		}
		keys = append(keys, clause.Column{Name: k})
	}

	return &Table[T]{
		database: database,
		schema:   schema,
		columns:  columns,
		conflict: clause.OnConflict{
			Columns:   keys,
			UpdateAll: true,
		},
	}, nil
}

// Name - of the table
func (t *Table[T]) Name() string {
	return t.schema.Name
}

// Init - create the table and its indexes if absent
func (t *Table[T]) Init() error {
	err := t.tx().AutoMigrate(new(T))
	if nil != err {
		t.database.log.Criticalf("init table: %s  error: %s", t.schema.Name, err)
	}
	return err
}

// Find - all records matching the criteria, optionally sorted
func (t *Table[T]) Find(criteria []Criterion, order ...Order) ([]T, error) {
	q, err := t.query(criteria, order)
	if nil != err {
		return nil, err
	}
	records := []T{}
	err = q.Find(&records).Error
	if nil != err {
		return nil, err
	}
	return records, nil
}

// FindOne - first record matching the criteria or nil if none
func (t *Table[T]) FindOne(criteria []Criterion, order ...Order) (*T, error) {
	q, err := t.query(criteria, order)
	if nil != err {
		return nil, err
	}
	records := []T{}
	err = q.Limit(1).Find(&records).Error
	if nil != err {
		return nil, err
	}
	if 0 == len(records) {
		return nil, nil
	}
	return &records[0], nil
}

// Existing - record with the given primary key or nil if none
//
// the criteria must be equality on every primary key column and nothing else
func (t *Table[T]) Existing(key ...Criterion) (*T, error) {
	if len(key) != len(t.schema.PrimaryKey) {
		return nil, fault.IncompleteCriteria
	}
	seen := make(map[string]struct{}, len(key))
check_keys:
	for _, c := range key {
		if Equal != c.Operator {
			return nil, fault.IncompleteCriteria
		}
		for _, k := range t.schema.PrimaryKey {
			if k == c.Field {
				seen[k] = struct{}{}
				continue check_keys
			}
		}
		return nil, fault.IncompleteCriteria
	}
	if len(seen) != len(t.schema.PrimaryKey) {
		return nil, fault.IncompleteCriteria
	}
	return t.FindOne(key)
}

// Save - insert or replace the record with the same primary key
func (t *Table[T]) Save(record *T) error {
	return t.tx().Clauses(t.conflict).Create(record).Error
}

// BatchInsert - all records in a single statement
//
// a primary key conflict fails the whole statement
func (t *Table[T]) BatchInsert(records []T) error {
	if 0 == len(records) {
		return nil
	}
	return t.tx().Create(&records).Error
}

// BatchSave - insert or replace all records in a single statement
func (t *Table[T]) BatchSave(records []T) error {
	if 0 == len(records) {
		return nil
	}
	return t.tx().Clauses(t.conflict).Create(&records).Error
}

// Count - number of records matching the criteria
func (t *Table[T]) Count(criteria []Criterion) (int64, error) {
	q, err := t.query(criteria, nil)
	if nil != err {
		return 0, err
	}
	n := int64(0)
	err = q.Model(new(T)).Count(&n).Error
	return n, err
}

// WithDatabase - the same table bound to another handle, used to take
// part in a transaction
func (t *Table[T]) WithDatabase(database *Database) *Table[T] {
	n := *t
	n.database = database
	return &n
}

// new session on this table
func (t *Table[T]) tx() *gorm.DB {
	return t.database.db.Table(t.schema.Name)
}

func (t *Table[T]) query(criteria []Criterion, order []Order) (*gorm.DB, error) {
	q := t.tx()

	if 0 != len(criteria) {
		exprs := make([]clause.Expression, 0, len(criteria))
		for _, c := range criteria {
			e, err := c.expression(t.columns)
			if nil != err {
				return nil, err
			}
			exprs = append(exprs, e)
		}
		q = q.Clauses(clause.Where{Exprs: exprs})
	}

	for _, o := range order {
		e, err := o.expression(t.columns)
		if nil != err {
			return nil, err
		}
		q = q.Order(e)
	}
	return q, nil
}

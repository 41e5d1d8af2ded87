// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/wotledger/wotd/fault"
)

// Access - database access with a write batch
type Access interface {
	Abort()
	Begin() error
	Commit() error
	Delete([]byte)
	Get([]byte) ([]byte, error)
	Has([]byte) (bool, error)
	InUse() bool
	Iterator(*ldb_util.Range) iterator.Iterator
	Put([]byte, []byte)
	Remove([]byte) error
	Write([]byte, []byte) error
}

// AccessData - Access over one LevelDB database
type AccessData struct {
	sync.Mutex
	inUse bool
	db    *leveldb.DB
	batch *leveldb.Batch
	dirty *overlay
}

func newDA(db *leveldb.DB) Access {
	return &AccessData{
		inUse: false,
		db:    db,
		batch: new(leveldb.Batch),
		dirty: newOverlay(),
	}
}

// Begin - start collecting a batch
func (d *AccessData) Begin() error {
	d.Lock()
	defer d.Unlock()

	if d.inUse {
		return fault.TransactionInUse
	}

	d.inUse = true
	return nil
}

// Put - add to the batch, visible to Get immediately
func (d *AccessData) Put(key []byte, value []byte) {
	d.dirty.write(key, value)
	d.batch.Put(key, value)
}

// Delete - add to the batch, visible to Get immediately
func (d *AccessData) Delete(key []byte) {
	d.dirty.delete(key)
	d.batch.Delete(key)
}

// Commit - write the batch
func (d *AccessData) Commit() error {
	d.Lock()
	defer d.Unlock()

	err := d.db.Write(d.batch, nil)
	d.batch.Reset()
	d.dirty.reset()
	d.inUse = false
	return err
}

// Abort - drop the batch
func (d *AccessData) Abort() {
	d.Lock()
	defer d.Unlock()

	d.batch.Reset()
	d.dirty.reset()
	d.inUse = false
}

// Write - store immediately, outside any batch
func (d *AccessData) Write(key []byte, value []byte) error {
	return d.db.Put(key, value, nil)
}

// Remove - delete immediately, outside any batch
func (d *AccessData) Remove(key []byte) error {
	return d.db.Delete(key, nil)
}

// Get - batch value first then database
func (d *AccessData) Get(key []byte) ([]byte, error) {
	switch state, value := d.dirty.lookup(key); state {
	case written:
		return value, nil
	case deleted:
		return nil, leveldb.ErrNotFound
	}
	return d.db.Get(key, nil)
}

// Has - batch first then database
func (d *AccessData) Has(key []byte) (bool, error) {
	switch state, _ := d.dirty.lookup(key); state {
	case written:
		return true, nil
	case deleted:
		return false, nil
	}
	return d.db.Has(key, nil)
}

// Iterator - over committed data only
func (d *AccessData) Iterator(searchRange *ldb_util.Range) iterator.Iterator {
	return d.db.NewIterator(searchRange, nil)
}

// InUse - true while a batch is open
func (d *AccessData) InUse() bool {
	d.Lock()
	defer d.Unlock()
	return d.inUse
}

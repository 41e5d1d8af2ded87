// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Transaction - batch of writes committed together
type Transaction interface {
	Begin() error
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
	Get(*PoolHandle, []byte) []byte
	Has(*PoolHandle, []byte) bool
	Commit() error
	Abort()
}

// TransactionImpl - Transaction over a single Access
type TransactionImpl struct {
	access Access
}

func newTransaction(access Access) Transaction {
	return &TransactionImpl{
		access: access,
	}
}

// Begin - open the batch
func (t *TransactionImpl) Begin() error {
	return t.access.Begin()
}

// Put - add key/value to the batch
func (t *TransactionImpl) Put(p *PoolHandle, key []byte, value []byte) {
	t.access.Put(p.prefixKey(key), value)
}

// PutN - add key/uint64 to the batch
func (t *TransactionImpl) PutN(p *PoolHandle, key []byte, value uint64) {
	t.access.Put(p.prefixKey(key), uint64ToBytes(value))
}

// Delete - add a removal to the batch
func (t *TransactionImpl) Delete(p *PoolHandle, key []byte) {
	t.access.Delete(p.prefixKey(key))
}

// Get - value including pending writes
func (t *TransactionImpl) Get(p *PoolHandle, key []byte) []byte {
	return p.Get(key)
}

// Has - presence including pending writes
func (t *TransactionImpl) Has(p *PoolHandle, key []byte) bool {
	return p.Has(key)
}

// Commit - write everything
func (t *TransactionImpl) Commit() error {
	return t.access.Commit()
}

// Abort - discard everything
func (t *TransactionImpl) Abort() {
	t.access.Abort()
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/fault"
)

// ArchivedDocument - an entry of the Documents pool
type ArchivedDocument struct {
	Kind document.Kind
	Hash string
	Raw  string
}

// StoreDocument - archive the canonical text of a validated document
//
// returns false without writing if it is already archived
//
// the key includes the kind so a revocation and the identity it revokes
// can both be kept
func StoreDocument(e document.Entity) (bool, error) {
	trx, err := NewDBTransaction()
	if nil != err {
		return false, err
	}

	if trx.Has(Pool.Documents, documentKey(e.Kind(), e.Hash())) {
		trx.Abort()
		return false, nil
	}

	putDocument(trx, e)

	err = trx.Commit()
	if nil != err {
		return false, err
	}
	return true, nil
}

func putDocument(trx Transaction, e document.Entity) {
	trx.Put(Pool.Documents, documentKey(e.Kind(), e.Hash()), []byte(e.Raw()))
}

// GetDocument - archived document by kind and hash
func GetDocument(kind document.Kind, hash string) (ArchivedDocument, bool) {
	value := Pool.Documents.Get(documentKey(kind, hash))
	if nil == value {
		return ArchivedDocument{}, false
	}
	return ArchivedDocument{
		Kind: kind,
		Hash: hash,
		Raw:  string(value),
	}, true
}

// HasDocument - true if archived
func HasDocument(kind document.Kind, hash string) bool {
	return Pool.Documents.Has(documentKey(kind, hash))
}

// DeleteDocument - remove from the archive
func DeleteDocument(kind document.Kind, hash string) error {
	key := documentKey(kind, hash)
	if !Pool.Documents.Has(key) {
		return fault.NotFound
	}

	trx, err := NewDBTransaction()
	if nil != err {
		return err
	}
	trx.Delete(Pool.Documents, key)
	return trx.Commit()
}

// DocumentsOfKind - call f with each archived hash of one kind, in hash order
func DocumentsOfKind(kind document.Kind, f func(hash string) error) error {
	cursor := Pool.Documents.NewFetchCursor().WithPrefix([]byte{byte(kind)})
	return cursor.Map(func(key []byte, _ []byte) error {
		return f(string(key[1:]))
	})
}

func documentKey(kind document.Kind, hash string) []byte {
	key := make([]byte, 0, 1+len(hash))
	key = append(key, byte(kind))
	return append(key, hash...)
}

// StoreBlock - archive a block and record it as the block at its height
func StoreBlock(b *document.Block) error {
	trx, err := NewDBTransaction()
	if nil != err {
		return err
	}
	putDocument(trx, b)
	trx.Put(Pool.BlockHashes, uint64ToBytes(b.Number), []byte(b.Hash()))
	return trx.Commit()
}

// RemoveBlock - forget the block at a height, its text stays archived
func RemoveBlock(number uint64) {
	Pool.BlockHashes.Delete(uint64ToBytes(number))
}

// BlockHash - hash of the block applied at number
func BlockHash(number uint64) (string, bool) {
	value := Pool.BlockHashes.Get(uint64ToBytes(number))
	if nil == value {
		return "", false
	}
	return string(value), true
}

// HighestBlock - number and hash of the highest block applied
func HighestBlock() (uint64, string, bool) {
	e, found := Pool.BlockHashes.LastElement()
	if !found || 8 != len(e.Key) {
		return 0, "", false
	}
	return binary.BigEndian.Uint64(e.Key), string(e.Value), true
}

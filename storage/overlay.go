// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	cache "github.com/patrickmn/go-cache"
)

// the state of a key inside an open batch
type pendingState int

const (
	unchanged pendingState = iota
	written
	deleted
)

// overlay - uncommitted values of the current batch
//
// entries live exactly as long as the batch so nothing expires
type overlay struct {
	entries *cache.Cache
}

type pendingEntry struct {
	state pendingState
	value []byte
}

func newOverlay() *overlay {
	return &overlay{
		entries: cache.New(cache.NoExpiration, 0),
	}
}

func (o *overlay) write(key []byte, value []byte) {
	o.entries.Set(string(key), pendingEntry{state: written, value: value}, cache.NoExpiration)
}

func (o *overlay) delete(key []byte) {
	o.entries.Set(string(key), pendingEntry{state: deleted}, cache.NoExpiration)
}

// lookup - state of the key and its value when written
func (o *overlay) lookup(key []byte) (pendingState, []byte) {
	obj, found := o.entries.Get(string(key))
	if !found {
		return unchanged, nil
	}
	e := obj.(pendingEntry)
	return e.state, e.value
}

func (o *overlay) reset() {
	o.entries.Flush()
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk document archive
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. block number = big endian uint64 (8 bytes)
// 4. hash         = document hash as 40 character uppercase hex text
// 5. kind         = document kind as a single byte
// 6. raw          = canonical document text
//
// Documents:
//
//   D ++ kind ++ hash          - every accepted document
//                                data: raw
//
// Blocks:
//
//   B ++ block number          - hash of the block applied at this height
//                                data: hash
//
// Testing:
//   Z ++ key                   - testing data
package storage

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockuid - the "number-hash" anchor of a document
//
// A block UID pins a document to one block of one chain.  The root
// value uses block 0 and the SHA1 of the empty string so that documents
// can be written before the first block exists.
package blockuid

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - write the contents of accepted blocks and undo them
//
// a block is applied inside one database transaction, only after that
// succeeds is it recorded as the head in storage; reverting always
// removes the head block
package ledger

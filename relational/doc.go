// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package relational - typed table access over an SQLite database
//
// each table is described by a record struct carrying gorm tags for
// column names, indexes and serialisation (booleans are stored as 0/1,
// slices as JSON text) plus a Schema giving the table name and the
// primary key columns
//
// absence of a record is never an error: Find returns an empty slice
// and FindOne/Existing return nil, all storage errors are returned
// unmodified so callers can tell them apart
package relational

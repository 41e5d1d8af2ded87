// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package document - parse and validate signed text documents
//
// Every kind of document goes through the same three stages:
//
//   parse   split the normalised text into lines and assign the fields
//           that match the grammar of the kind
//   clean   compute the derived fields and the document hash
//   verify  check required fields in a fixed order, then check that the
//           canonical form reproduces the submitted text exactly
//
// A kind is described by a variant: its line captures, multi-line
// sections, trailing signatures and its clean/verify functions.  The
// stage sequencing itself is only in parser.go.
//
// The canonical form of an entity is returned by Raw() and is the text
// that was signed (plus its signatures).
package document

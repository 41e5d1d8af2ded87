// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package grammar - field patterns for the line oriented documents
//
// Every exported regular expression is anchored to a complete line.
// Value patterns (PublicKeyPattern etc.) are unanchored fragments used
// to build the line patterns.
//
//   public key  = base58 of a 32 byte ed25519 key (43 or 44 characters)
//   signature   = base64 of a 64 byte ed25519 signature (88 characters)
//   block uid   = number ++ "-" ++ uppercase hex SHA1
//   user id     = 2 to 100 of [A-Za-z0-9_-]
package grammar

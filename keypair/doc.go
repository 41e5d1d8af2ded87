// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keypair - ed25519 signing keys for document issuers
//
// Keys are derived from a salt and password with scrypt so that a
// member can regenerate them anywhere.  Public keys are base58 and
// signatures base64, which is the form they take inside documents.
//
//go:generate mockgen -destination=mocks/verifier.go -package=mocks github.com/wotledger/wotd/keypair Verifier
package keypair

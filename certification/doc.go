// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package certification - links between identities
//
// a record is keyed by the certifier, the certified identity hash and
// the signature; it is pending until a block links it
package certification

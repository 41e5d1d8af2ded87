// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reservoir - intake for submitted documents:
// 1. raw text is validated and its signatures checked
// 2. accepted text is archived in storage
// 3. a pending record waits in the database for a block to write it
package reservoir

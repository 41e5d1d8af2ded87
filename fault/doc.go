// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.
//
// Document rejections are RecordError (the text could not be split
// into fields at all) or InvalidError (a required field is missing or
// malformed).  Their text is the reason reported to the submitter.
package fault

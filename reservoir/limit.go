// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"time"

	"github.com/wotledger/wotd/fault"
)

// wait for the submission limiter, must be called without the lock
//
// the reservation is taken under the lock but the wait is not, so a
// throttled submission does not hold up Finalise or other callers
func limit() error {
	globalData.Lock()
	if !globalData.enabled {
		globalData.Unlock()
		return fault.NotInitialised
	}
	r := globalData.limiter.Reserve()
	globalData.Unlock()

	if !r.OK() {
		return fault.RateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"sync"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/wotledger/wotd/certification"
	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/identity"
	"github.com/wotledger/wotd/keypair"
	"github.com/wotledger/wotd/membership"
)

// default submission limits
const (
	rateLimitSubmission = 200 // per second
	rateBurstSubmission = 100
)

// Handles - the data access modules pending records are saved through
type Handles struct {
	Identities     *identity.Identities
	Memberships    *membership.Memberships
	Certifications *certification.Certifications
}

// globals
type globalDataType struct {
	sync.Mutex
	log       *logger.L
	enabled   bool
	handles   Handles
	verifier  keypair.Verifier
	validator *document.Validator
	limiter   *rate.Limiter
}

// gobal storage
var globalData globalDataType

// Initialise - start accepting documents
//
// storage must already be initialised; a nil verifier disables all
// signature checks
func Initialise(handles Handles, verifier keypair.Verifier) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.enabled {
		return fault.AlreadyInitialised
	}

	if nil == handles.Identities || nil == handles.Memberships || nil == handles.Certifications {
		return fault.DatabaseIsNotSet
	}

	globalData.log = logger.New("reservoir")
	if nil == globalData.log {
		return fault.InvalidLoggerChannel
	}
	globalData.log.Info("starting…")

	globalData.handles = handles
	globalData.verifier = verifier
	globalData.validator = document.NewValidator(verifier)
	globalData.limiter = rate.NewLimiter(rateLimitSubmission, rateBurstSubmission)

	globalData.enabled = true

	return nil
}

// SetLimit - change the submission rate, burst is the largest number
// accepted at once
func SetLimit(perSecond float64, burst int) {
	globalData.Lock()
	defer globalData.Unlock()

	globalData.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Finalise - stop accepting documents
func Finalise() {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.enabled {
		return
	}

	globalData.log.Info("shutting down…")
	globalData.enabled = false
	globalData.handles = Handles{}
	globalData.verifier = nil
	globalData.validator = nil

	globalData.log.Info("finished")
	globalData.log.Flush()
}

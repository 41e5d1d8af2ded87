// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package indicator - current exclusion and revocation sets
//
// each indicator is a single JSON value that is replaced as a whole on
// every write, a never written indicator reads as an empty set
package indicator

import (
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"

	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/flatfile"
)

// indicator keys
const (
	ExcludingMembership    = "indicators/excludingMS.json"
	RevocatingMembership   = "indicators/revocatingMS.json"
	ExcludingCertification = "indicators/excludingCRT.json"
)

// Value - identity set computed at a head block
type Value struct {
	Number     uint64   `json:"number"`
	Hash       string   `json:"hash"`
	Identities []string `json:"identities"`
}

// IsEmpty - no identities
func (v Value) IsEmpty() bool {
	return 0 == len(v.Identities)
}

// Contains - true if pubkey is in the set
func (v Value) Contains(pubkey string) bool {
	for _, p := range v.Identities {
		if p == pubkey {
			return true
		}
	}
	return false
}

func (v Value) clone() Value {
	identities := make([]string, len(v.Identities))
	copy(identities, v.Identities)
	v.Identities = identities
	return v
}

// Indicators - read and write the three indicators
type Indicators struct {
	sync.Mutex
	store *flatfile.Store
	cache *cache.Cache
	log   *logger.L
}

// New - indicators kept in store
func New(store *flatfile.Store) *Indicators {
	return &Indicators{
		store: store,
		cache: cache.New(cache.NoExpiration, 0),
		log:   logger.New("indicator"),
	}
}

// Init - create the storage namespaces
func (ind *Indicators) Init() error {
	return ind.store.Init()
}

// WriteCurrentExcluding - identities excluded for lack of membership
func (ind *Indicators) WriteCurrentExcluding(v Value) error {
	return ind.write(ExcludingMembership, v)
}

// WriteCurrentRevocating - identities whose membership is being revoked
func (ind *Indicators) WriteCurrentRevocating(v Value) error {
	return ind.write(RevocatingMembership, v)
}

// WriteCurrentExcludingForCert - identities excluded for lack of certifications
func (ind *Indicators) WriteCurrentExcludingForCert(v Value) error {
	return ind.write(ExcludingCertification, v)
}

// GetCurrentMembershipExcludingBlock - see WriteCurrentExcluding
func (ind *Indicators) GetCurrentMembershipExcludingBlock() (Value, error) {
	return ind.read(ExcludingMembership)
}

// GetCurrentMembershipRevocatingBlock - see WriteCurrentRevocating
func (ind *Indicators) GetCurrentMembershipRevocatingBlock() (Value, error) {
	return ind.read(RevocatingMembership)
}

// GetCurrentCertificationExcludingBlock - see WriteCurrentExcludingForCert
func (ind *Indicators) GetCurrentCertificationExcludingBlock() (Value, error) {
	return ind.read(ExcludingCertification)
}

func (ind *Indicators) write(key string, v Value) error {
	ind.Lock()
	defer ind.Unlock()

	v = v.clone()
	err := ind.store.WriteJSON(key, v)
	if nil != err {
		ind.cache.Delete(key)
		return err
	}
	ind.cache.Set(key, v, cache.NoExpiration)
	ind.log.Infof("%s: block: %d  identities: %d", key, v.Number, len(v.Identities))
	return nil
}

func (ind *Indicators) read(key string) (Value, error) {
	ind.Lock()
	defer ind.Unlock()

	if cached, ok := ind.cache.Get(key); ok {
		return cached.(Value).clone(), nil
	}

	v := Value{}
	err := ind.store.ReadJSON(key, &v)
	if fault.NotFound == err {
		return Value{Identities: []string{}}, nil
	}
	if nil != err {
		return Value{}, err
	}

	v = v.clone()
	ind.cache.Set(key, v, cache.NoExpiration)
	return v.clone(), nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wotledger/wotd/blockuid"
	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/storage"
)

func TestNotInitialised(t *testing.T) {
	_, _, err := StoreIdentity(identityRaw(key(1), "cat"))
	assert.Equal(t, fault.NotInitialised, err)
}

func TestInitialiseTwice(t *testing.T) {
	handles := setup(t)
	assert.Equal(t, fault.AlreadyInitialised, Initialise(handles, nil))
}

func TestStoreIdentity(t *testing.T) {
	setup(t)

	accepted := counter(document.IdentityDocument, resultAccepted)
	duplicates := counter(document.IdentityDocument, resultDuplicate)

	raw := identityRaw(key(1), "cat")
	r, dup, err := StoreIdentity(raw)
	require.Nil(t, err)
	assert.False(t, dup)
	assert.False(t, r.Written)
	assert.Equal(t, "cat", r.UID)
	assert.True(t, storage.HasDocument(document.IdentityDocument, r.Hash))

	again, dup, err := StoreIdentity(raw)
	require.Nil(t, err)
	assert.True(t, dup)
	assert.Equal(t, r.Hash, again.Hash)

	assert.Equal(t, accepted+1, counter(document.IdentityDocument, resultAccepted))
	assert.Equal(t, duplicates+1, counter(document.IdentityDocument, resultDuplicate))

	pending, err := globalData.handles.Identities.Pending()
	require.Nil(t, err)
	assert.Equal(t, 1, len(pending))
}

func TestStoreIdentityRejected(t *testing.T) {
	setup(t)

	rejected := counter(document.IdentityDocument, resultRejected)

	// signed by another key
	self := selfContent("cat")
	forged := key(1).Pubkey() + "\n" + self + key(2).Sign(self) + "\n"
	_, _, err := StoreIdentity(forged)
	assert.Equal(t, fault.SignatureDoesNotMatch, err)

	_, _, err = StoreIdentity("")
	assert.Equal(t, fault.NoDocumentGiven, err)

	assert.Equal(t, rejected+2, counter(document.IdentityDocument, resultRejected))

	pending, err := globalData.handles.Identities.Pending()
	require.Nil(t, err)
	assert.Equal(t, 0, len(pending))
}

func TestStoreMembership(t *testing.T) {
	setup(t)

	k := key(3)
	raw := membershipRaw(k, "cat", "IN")

	_, _, err := StoreMembership(raw)
	assert.Equal(t, fault.UnknownIdentity, err)

	_, _, err = StoreIdentity(identityRaw(k, "cat"))
	require.Nil(t, err)

	r, dup, err := StoreMembership(raw)
	require.Nil(t, err)
	assert.False(t, dup)
	assert.Equal(t, "IN", r.Membership)
	assert.Equal(t, int64(0), r.Number)

	_, dup, err = StoreMembership(raw)
	require.Nil(t, err)
	assert.True(t, dup)

	pending, err := globalData.handles.Memberships.PendingIN()
	require.Nil(t, err)
	assert.Equal(t, 1, len(pending))
}

func TestStoreCertification(t *testing.T) {
	setup(t)

	from := key(4)
	to := key(5)
	b := rootBlock(t, from)

	raw := certificationRaw(from, to, "dog", b.Hash())

	_, _, err := StoreCertification(raw)
	assert.Equal(t, fault.UnknownTargetIdentity, err)

	target, _, err := StoreIdentity(identityRaw(to, "dog"))
	require.Nil(t, err)

	// anchor block not yet applied
	r, dup, err := StoreCertification(raw)
	require.Nil(t, err)
	assert.False(t, dup)
	assert.Equal(t, target.Hash, r.Target)
	assert.Equal(t, from.Pubkey(), r.From)

	_, dup, err = StoreCertification(raw)
	require.Nil(t, err)
	assert.True(t, dup)

	// once applied the signature must cover the anchor block
	require.Nil(t, storage.StoreBlock(b))
	wrong := certificationRaw(from, to, "dog", blockuid.EmptyHash)
	_, _, err = StoreCertification(wrong)
	assert.Equal(t, fault.SignatureDoesNotMatch, err)

	other := key(6)
	r, dup, err = StoreCertification(certificationRaw(other, to, "dog", b.Hash()))
	require.Nil(t, err)
	assert.False(t, dup)
	assert.Equal(t, other.Pubkey(), r.From)

	pending, err := globalData.handles.Certifications.ToTarget(target.Hash)
	require.Nil(t, err)
	assert.Equal(t, 2, len(pending))
}

func TestStoreRevocation(t *testing.T) {
	setup(t)

	k := key(7)
	raw := revocationRaw(k, "cat")

	_, _, err := StoreRevocation(raw)
	assert.Equal(t, fault.UnknownIdentity, err)

	idty, _, err := StoreIdentity(identityRaw(k, "cat"))
	require.Nil(t, err)

	r, dup, err := StoreRevocation(raw)
	require.Nil(t, err)
	assert.False(t, dup)
	assert.Equal(t, idty.Hash, r.Hash)
	assert.NotEqual(t, "", r.RevocationSig)
	assert.False(t, r.Revoked, "only a block revokes")

	_, dup, err = StoreRevocation(raw)
	require.Nil(t, err)
	assert.True(t, dup)

	// identity and revocation are archived separately under the same hash
	assert.True(t, storage.HasDocument(document.IdentityDocument, idty.Hash))
	d, ok := storage.GetDocument(document.RevocationDocument, idty.Hash)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(d.Raw, r.RevocationSig+"\n"))
}

func TestRateLimit(t *testing.T) {
	setup(t)

	SetLimit(1, 0)
	defer SetLimit(rateLimitSubmission, rateBurstSubmission)

	_, _, err := StoreIdentity(identityRaw(key(1), "cat"))
	assert.Equal(t, fault.RateLimiting, err)
}

func TestThrottledSubmissionDoesNotBlock(t *testing.T) {
	setup(t)

	SetLimit(1, 1)
	defer SetLimit(rateLimitSubmission, rateBurstSubmission)

	_, _, err := StoreIdentity(identityRaw(key(1), "cat"))
	require.Nil(t, err)

	// the next token is about a second away
	done := make(chan error, 1)
	go func() {
		_, _, err := StoreIdentity(identityRaw(key(2), "dog"))
		done <- err
	}()
	time.Sleep(200 * time.Millisecond)

	start := time.Now()
	Finalise()
	assert.Less(t, int64(time.Since(start)), int64(500*time.Millisecond), "finalise waited for the limiter")

	select {
	case err := <-done:
		assert.Equal(t, fault.NotInitialised, err)
	case <-time.After(5 * time.Second):
		t.Fatal("throttled submission did not finish")
	}
}

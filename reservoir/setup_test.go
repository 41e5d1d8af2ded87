// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/wotledger/wotd/blockuid"
	"github.com/wotledger/wotd/certification"
	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/identity"
	"github.com/wotledger/wotd/keypair"
	"github.com/wotledger/wotd/membership"
	"github.com/wotledger/wotd/relational"
	"github.com/wotledger/wotd/storage"
)

const (
	databaseFileName = "test"
	databaseDir      = "test-documents.leveldb"
	loggerFile       = "reservoir.log"
)

func TestMain(m *testing.M) {
	err := logger.Initialise(logger.Configuration{
		Directory: ".",
		File:      loggerFile,
		Size:      1048576,
		Count:     10,
	})
	if nil != err {
		panic(fmt.Sprintf("logger initialization failed: %s", err))
	}
	rc := m.Run()
	logger.Finalise()
	os.Remove(loggerFile)
	os.Exit(rc)
}

func setup(t *testing.T) Handles {
	os.RemoveAll(databaseDir)
	require.Nil(t, storage.Initialise(databaseFileName, storage.ReadWrite))

	db, err := relational.Open(relational.InMemory)
	require.Nil(t, err)

	ids, err := identity.New(db)
	require.Nil(t, err)
	ms, err := membership.New(db)
	require.Nil(t, err)
	cs, err := certification.New(db)
	require.Nil(t, err)
	require.Nil(t, ids.Init())
	require.Nil(t, ms.Init())
	require.Nil(t, cs.Init())

	handles := Handles{
		Identities:     ids,
		Memberships:    ms,
		Certifications: cs,
	}
	require.Nil(t, Initialise(handles, keypair.Ed25519{}))

	t.Cleanup(func() {
		Finalise()
		db.Close()
		storage.Finalise()
		os.RemoveAll(databaseDir)
	})
	return handles
}

func key(b byte) *keypair.KeyPair {
	k, err := keypair.FromSeed(bytes.Repeat([]byte{b}, 32))
	if nil != err {
		panic(err)
	}
	return k
}

func selfContent(uid string) string {
	return "UID:" + uid + "\nMETA:TS:" + blockuid.Root.String() + "\n"
}

func identityRaw(k *keypair.KeyPair, uid string) string {
	self := selfContent(uid)
	return k.Pubkey() + "\n" + self + k.Sign(self) + "\n"
}

func revocationRaw(k *keypair.KeyPair, uid string) string {
	self := selfContent(uid)
	revoked := self + k.Sign(self) + "\nMETA:REVOKE\n"
	return k.Pubkey() + "\n" + revoked + k.Sign(revoked) + "\n"
}

func membershipRaw(k *keypair.KeyPair, uid string, membershipType string) string {
	body := "Version: 1\n" +
		"Type: Membership\n" +
		"Currency: test_net\n" +
		"Issuer: " + k.Pubkey() + "\n" +
		"Block: 0-" + blockuid.EmptyHash + "\n" +
		"Membership: " + membershipType + "\n" +
		"UserID: " + uid + "\n" +
		"CertTS: " + blockuid.Root.String() + "\n"
	return body + k.Sign(body) + "\n"
}

// certification by from of the identity of to, anchored on block 0
func certificationRaw(from *keypair.KeyPair, to *keypair.KeyPair, uid string, blockHash string) string {
	self := selfContent(uid)
	content := self + to.Sign(self) + "\nMETA:TS:0-" + blockHash + "\n"
	return from.Pubkey() + ":" + to.Pubkey() + ":0:" + from.Sign(content) + "\n"
}

func rootBlock(t *testing.T, k *keypair.KeyPair) *document.Block {
	body := "Version: 1\n" +
		"Type: Block\n" +
		"Currency: test_net\n" +
		"Nonce: 1\n" +
		"Number: 0\n" +
		"PoWMin: 0\n" +
		"Time: 10\n" +
		"MedianTime: 10\n" +
		"Issuer: " + k.Pubkey() + "\n" +
		"MembersCount: 0\n" +
		"Identities:\n" +
		"Joiners:\n" +
		"Actives:\n" +
		"Leavers:\n" +
		"Revoked:\n" +
		"Excluded:\n" +
		"Certifications:\n" +
		"Transactions:\n"
	e, err := document.Validate(document.BlockDocument, body+k.Sign(body)+"\n")
	require.Nil(t, err)
	return e.(*document.Block)
}

func counter(kind document.Kind, result string) float64 {
	return testutil.ToFloat64(submissions.WithLabelValues(kind.String(), result))
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keypair

import (
	"encoding/base64"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/scrypt"

	"github.com/wotledger/wotd/fault"
)

// key derivation parameters for salt/password identities
const (
	scryptN = 4096
	scryptR = 16
	scryptP = 1
)

// Verifier - check a detached signature
//
// content is the exact signed text, signature is base64 and publicKey
// is base58
type Verifier interface {
	Verify(content string, signature string, publicKey string) bool
}

// KeyPair - structure to hold public and private keys
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// FromSeed - deterministic keys from a 32 byte seed
func FromSeed(seed []byte) (*KeyPair, error) {
	if ed25519.SeedSize != len(seed) {
		return nil, fault.InvalidSeedLength
	}
	privateKey := ed25519.NewKeyFromSeed(seed)
	return &KeyPair{
		PublicKey:  privateKey.Public().(ed25519.PublicKey),
		PrivateKey: privateKey,
	}, nil
}

// FromPassword - derive the seed from a salt and password
func FromPassword(salt string, password string) (*KeyPair, error) {
	seed, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, ed25519.SeedSize)
	if nil != err {
		return nil, err
	}
	return FromSeed(seed)
}

// Pubkey - base58 public key as written in documents
func (k *KeyPair) Pubkey() string {
	return base58.Encode(k.PublicKey)
}

// Sign - base64 signature of content
func (k *KeyPair) Sign(content string) string {
	return base64.StdEncoding.EncodeToString(ed25519.Sign(k.PrivateKey, []byte(content)))
}

// Ed25519 - the default verifier
type Ed25519 struct{}

// Verify - implements Verifier
func (Ed25519) Verify(content string, signature string, publicKey string) bool {
	return Verify(content, signature, publicKey)
}

// Verify - check a base64 signature against a base58 public key
func Verify(content string, signature string, publicKey string) bool {
	key, err := base58.Decode(publicKey)
	if nil != err || ed25519.PublicKeySize != len(key) {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if nil != err || ed25519.SignatureSize != len(sig) {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(key), []byte(content), sig)
}

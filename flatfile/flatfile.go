// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package flatfile - whole JSON values stored as files below a root directory
package flatfile

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"
	jsoniter "github.com/json-iterator/go"

	"github.com/wotledger/wotd/fault"
)

// namespaces created by Init
const (
	IndicatorsPath = "indicators"
	IssuersPath    = "indicators/issuers"
)

const extension = ".json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store - JSON values keyed by relative slash separated names
type Store struct {
	root string
	log  *logger.L
}

// New - store below root, nothing is created until Init
func New(root string) *Store {
	return &Store{
		root: root,
		log:  logger.New("flatfile"),
	}
}

// Init - ensure the namespace directories exist
func (s *Store) Init() error {
	for _, dir := range []string{IndicatorsPath, IssuersPath} {
		err := os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(dir)), 0o700)
		if nil != err {
			s.log.Criticalf("create: %q  error: %s", dir, err)
			return err
		}
	}
	return nil
}

// WriteJSON - replace the value at key
//
// the data is written to a temporary file in the same directory and then
// renamed over the old value so readers see either the old or the new
// value
func (s *Store) WriteJSON(key string, value interface{}) error {
	file, err := s.filename(key)
	if nil != err {
		return err
	}

	data, err := json.Marshal(value)
	if nil != err {
		return err
	}

	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o700); nil != err {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(file)+".*")
	if nil != err {
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if nil == err {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); nil == err {
		err = closeErr
	}
	if nil == err {
		err = os.Rename(tmpName, file)
	}
	if nil != err {
		os.Remove(tmpName)
		s.log.Errorf("write: %q  error: %s", key, err)
		return err
	}

	s.log.Debugf("wrote: %q  bytes: %d", key, len(data))
	return nil
}

// ReadJSON - decode the value at key into value
//
// returns fault.NotFound if the key was never written
func (s *Store) ReadJSON(key string, value interface{}) error {
	file, err := s.filename(key)
	if nil != err {
		return err
	}

	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return fault.NotFound
	}
	if nil != err {
		return err
	}
	return json.Unmarshal(data, value)
}

// Exists - true if the key has a value
func (s *Store) Exists(key string) bool {
	file, err := s.filename(key)
	if nil != err {
		return false
	}
	_, err = os.Stat(file)
	return nil == err
}

// keys are relative, slash separated and cannot leave the root
func (s *Store) filename(key string) (string, error) {
	if "" == key || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fault.InvalidIndicatorKey
	}
	for _, part := range strings.Split(key, "/") {
		if "" == part || "." == part || ".." == part {
			return "", fault.InvalidIndicatorKey
		}
	}
	clean := path.Clean(key)
	if !strings.HasSuffix(clean, extension) {
		clean += extension
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/wotledger/wotd/configuration"
	"github.com/wotledger/wotd/grammar"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDatabaseDirectory   = "data"
	defaultArchiveName         = "wotd"
	defaultSQLiteFile          = "wotd.sqlite"
	defaultIndicatorsDirectory = "flat"

	defaultLogDirectory = "log"
	defaultLogFile      = "wotd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRateLimit = 200
	defaultRateBurst = 100
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - document archive and relational files
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
	SQLite    string `gluamapper:"sqlite" json:"sqlite"`
}

// ReservoirType - submission limits
type ReservoirType struct {
	RateLimit float64 `gluamapper:"rate_limit" json:"rate_limit"`
	Burst     int     `gluamapper:"burst" json:"burst"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string        `gluamapper:"data_directory" json:"data_directory"`
	Currency      string        `gluamapper:"currency" json:"currency"`
	Database      DatabaseType  `gluamapper:"database" json:"database"`
	Indicators    string        `gluamapper:"indicators_directory" json:"indicators_directory"`
	Reservoir     ReservoirType `gluamapper:"reservoir" json:"reservoir"`

	Logging logger.Configuration `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,

		Database: DatabaseType{
			Directory: defaultDatabaseDirectory,
			Name:      defaultArchiveName,
			SQLite:    defaultSQLiteFile,
		},

		Indicators: defaultIndicatorsDirectory,

		Reservoir: ReservoirType{
			RateLimit: defaultRateLimit,
			Burst:     defaultRateBurst,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// a currency is required, every block and membership names one
	if !grammar.IsCurrency(options.Currency) {
		return nil, fmt.Errorf("Currency: %q is not valid", options.Currency)
	}

	if options.Reservoir.RateLimit <= 0 || options.Reservoir.Burst <= 0 {
		return nil, fmt.Errorf("Reservoir: rate limit: %v and burst: %d must be positive", options.Reservoir.RateLimit, options.Reservoir.Burst)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Database.SQLite, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Indicators,
		&options.Logging.Directory,
	} {
		*d = ensureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	for _, f := range mustNotBePaths {
		if nil != f[1] {
			*f[0] = ensureAbsolute(*f[1], *f[0])
		}
	}

	// log levels are case insensitive
	levels := make(map[string]string, len(options.Logging.Levels))
	for k, v := range options.Logging.Levels {
		levels[k] = strings.ToLower(v)
	}
	options.Logging.Levels = levels

	// done
	return options, nil
}

// prepend the directory if the path is relative
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package relational

import (
	"context"
	"errors"
	"time"

	"github.com/bitmark-inc/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// statements slower than this are logged as warnings
const slowStatement = 200 * time.Millisecond

// route gorm messages to a logger channel
type gormLogger struct {
	log   *logger.L
	level gormlogger.LogLevel
}

func newGormLogger(log *logger.L) gormlogger.Interface {
	return &gormLogger{
		log:   log,
		level: gormlogger.Info,
	}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	n := *g
	n.level = level
	return &n
}

func (g *gormLogger) Info(ctx context.Context, format string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.Infof(format, args...)
	}
}

func (g *gormLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.Warnf(format, args...)
	}
}

func (g *gormLogger) Error(ctx context.Context, format string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.Errorf(format, args...)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case nil != err && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		g.log.Errorf("error: %s  sql: %s", err, sql)
	case elapsed > slowStatement && g.level >= gormlogger.Warn:
		g.log.Warnf("slow: %v  rows: %d  sql: %s", elapsed, rows, sql)
	case g.level >= gormlogger.Info:
		g.log.Debugf("%v  rows: %d  sql: %s", elapsed, rows, sql)
	}
}

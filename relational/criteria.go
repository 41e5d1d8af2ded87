// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package relational

import (
	"gorm.io/gorm/clause"

	"github.com/wotledger/wotd/fault"
)

// Operator - comparison in a criterion
type Operator int

// supported operators
const (
	Equal Operator = iota
	LessThan
)

// Criterion - one condition on a column, all criteria are combined with AND
type Criterion struct {
	Field    string
	Operator Operator
	Value    interface{}
}

// Order - sort on a column
type Order struct {
	Field      string
	Descending bool
}

// Eq - field = value, a nil value matches NULL
func Eq(field string, value interface{}) Criterion {
	return Criterion{Field: field, Operator: Equal, Value: value}
}

// Lt - field < value
func Lt(field string, value interface{}) Criterion {
	return Criterion{Field: field, Operator: LessThan, Value: value}
}

// Asc - ascending order on field
func Asc(field string) Order {
	return Order{Field: field}
}

// Desc - descending order on field
func Desc(field string) Order {
	return Order{Field: field, Descending: true}
}

// convert to a gorm expression
func (c Criterion) expression(columns map[string]struct{}) (clause.Expression, error) {
	if _, ok := columns[c.Field]; !ok {
		return nil, fault.InvalidCriteriaField
	}

	column := clause.Column{Name: c.Field}
	switch c.Operator {
	case Equal:
		return clause.Eq{Column: column, Value: c.Value}, nil
	case LessThan:
		return clause.Lt{Column: column, Value: c.Value}, nil
	default:
		return nil, fault.InvalidCriteriaOp
	}
}

func (o Order) expression(columns map[string]struct{}) (clause.OrderByColumn, error) {
	if _, ok := columns[o.Field]; !ok {
		return clause.OrderByColumn{}, fault.InvalidCriteriaField
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: o.Field},
		Desc:   o.Descending,
	}, nil
}

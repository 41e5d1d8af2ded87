// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wotledger/wotd/document"
)

// submission results
const (
	resultAccepted  = "accepted"
	resultRejected  = "rejected"
	resultDuplicate = "duplicate"
)

var submissions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "wotd",
		Subsystem: "reservoir",
		Name:      "submissions_total",
		Help:      "Documents submitted, by kind and result.",
	},
	[]string{
		"kind",
		"result",
	},
)

func count(kind document.Kind, result string) {
	submissions.WithLabelValues(kind.String(), result).Inc()
}

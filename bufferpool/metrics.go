// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package bufferpool

import "github.com/prometheus/client_golang/prometheus"

const (
	MetricPageHits   = "page_hits_total"
	MetricPageMisses = "page_misses_total"
	MetricEvictions  = "evictions_total"
	MetricPageReads  = "page_reads_total"
	MetricPageWrites = "page_writes_total"
)

var CounterPageHits = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "bufmgr",
		Name:      MetricPageHits,
		Help:      "Pins served from a resident frame.",
	},
)

var CounterPageMisses = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "bufmgr",
		Name:      MetricPageMisses,
		Help:      "Pins of pages that were not resident.",
	},
)

var CounterEvictions = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "bufmgr",
		Name:      MetricEvictions,
		Help:      "Resident pages replaced to make room for another page.",
	},
)

var CounterPageReads = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "bufmgr",
		Name:      MetricPageReads,
		Help:      "Pages read from page files.",
	},
)

var CounterPageWrites = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "bufmgr",
		Name:      MetricPageWrites,
		Help:      "Pages written to page files.",
	},
)

func init() {
	prometheus.MustRegister(CounterPageHits)
	prometheus.MustRegister(CounterPageMisses)
	prometheus.MustRegister(CounterEvictions)
	prometheus.MustRegister(CounterPageReads)
	prometheus.MustRegister(CounterPageWrites)
}

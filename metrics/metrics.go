// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a thin telemetry facade over prometheus. Meters are
// created on first use so packages can declare them as package vars
// without caring about registration order.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cheddar"

var (
	registry = prometheus.NewRegistry()

	mu          sync.Mutex
	counters    = make(map[string]prometheus.Counter)
	counterVecs = make(map[string]*prometheus.CounterVec)
	gauges      = make(map[string]prometheus.Gauge)
)

// Counter returns the counter registered under name, creating it if needed.
func Counter(name string) prometheus.Counter {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := counters[name]; ok {
		return c
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
	registry.MustRegister(c)
	counters[name] = c
	return c
}

// CounterVec returns the labelled counter registered under name, creating it if needed.
func CounterVec(name string, labels []string) *prometheus.CounterVec {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := counterVecs[name]; ok {
		return c
	}
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
	registry.MustRegister(c)
	counterVecs[name] = c
	return c
}

// Gauge returns the gauge registered under name, creating it if needed.
func Gauge(name string) prometheus.Gauge {
	mu.Lock()
	defer mu.Unlock()
	if g, ok := gauges[name]; ok {
		return g
	}
	g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
	registry.MustRegister(g)
	gauges[name] = g
	return g
}

// LazyLoadCounterVec defers meter creation to first use.
func LazyLoadCounterVec(name string, labels []string) func() *prometheus.CounterVec {
	var once sync.Once
	var vec *prometheus.CounterVec
	return func() *prometheus.CounterVec {
		once.Do(func() { vec = CounterVec(name, labels) })
		return vec
	}
}

// HTTPHandler returns the handler exposing all registered meters.
func HTTPHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

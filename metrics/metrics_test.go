// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetersExposed(t *testing.T) {
	Counter("settlements_count").Add(3)
	CounterVec("ops_count", []string{"op"}).WithLabelValues("stake").Inc()
	Gauge("farms").Set(2)

	// same name yields the same meter
	Counter("settlements_count").Inc()

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	assert.True(t, strings.Contains(body, "cheddar_settlements_count 4"), body)
	assert.True(t, strings.Contains(body, `cheddar_ops_count{op="stake"} 1`), body)
	assert.True(t, strings.Contains(body, "cheddar_farms 2"), body)
}

func TestLazyLoad(t *testing.T) {
	lazy := LazyLoadCounterVec("lazy_count", []string{"kind"})
	lazy().WithLabelValues("a").Inc()
	assert.Same(t, lazy(), lazy())
}

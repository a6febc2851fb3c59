// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundNumber(t *testing.T) {
	// 600 second window, an exact 10 rounds
	const start, end = 1000, 1600

	tests := []struct {
		name string
		now  uint64
		want uint64
	}{
		{"before start", 999, 0},
		{"at start", start, 0},
		{"just inside first round", start + 59, 0},
		{"first round boundary", start + 60, 1},
		{"mid window", start + 150, 2},
		{"last second", end - 1, 9},
		{"at end", end, 10},
		{"past end", end + 5000, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundNumber(start, end, tt.now))
		})
	}
}

func TestRoundNumberPartialTrailingRound(t *testing.T) {
	// 330 second window: 5 whole rounds plus a 30 second tail that counts
	// as one more once the window closed
	const start, end = 1000, 1330

	assert.Equal(t, uint64(5), RoundNumber(start, end, end-1))
	assert.Equal(t, uint64(6), RoundNumber(start, end, end))
	assert.Equal(t, uint64(6), RoundNumber(start, end, end+1))
}

func TestRoundNumberDegenerateWindow(t *testing.T) {
	assert.Equal(t, uint64(0), RoundNumber(1000, 1000, 2000))
	assert.Equal(t, uint64(0), RoundNumber(1000, 900, 2000))
}

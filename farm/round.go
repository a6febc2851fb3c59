// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import "github.com/alpha-fi/cheddar-farm/cheddar"

// RoundNumber computes the round index of now within the farming window.
// Rounds are half open intervals [start+k*Round, start+(k+1)*Round), so
// querying exactly at start returns 0: the first full round must elapse
// before round 1 begins. Round 0 means farming has not started.
// Past the end the value saturates; when the window is not a whole number
// of rounds the trailing partial round counts as one extra.
func RoundNumber(start, end, now uint64) uint64 {
	if now < start || end <= start {
		return 0
	}
	var adjust uint64
	if now >= end {
		now = end
		if (end-start)%cheddar.Round != 0 {
			adjust = 1
		}
	}
	return (now-start)/cheddar.Round + adjust
}

func (f *Farm) currentRound(t *Terms) uint64 {
	return RoundNumber(t.Start, t.End, f.clock.Now())
}

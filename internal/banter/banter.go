// Package banter picks throwaway lines for the /comeback command.
package banter

import (
	"math/rand/v2"
	"sync"
)

// Comebacks is the default pool for /comeback.
var Comebacks = []string{
	"you den lah",
	"your meeple has more strategy than you",
	"you roll dice like they owe you money",
	"even the rulebook is embarrassed for you",
	"your best move was showing up",
	"you trade sheep like you trade insults: badly",
	"last place called, it wants its regular back",
}

// Picker returns random lines from a fixed pool. It is safe for concurrent use.
type Picker struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	lines []string
}

// New returns a Picker over lines seeded from src. A nil src uses a random seed.
func New(lines []string, src rand.Source) *Picker {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Picker{rnd: rand.New(src), lines: lines}
}

// Pick returns one line, or "" if the pool is empty.
func (p *Picker) Pick() string {
	if len(p.lines) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lines[p.rnd.IntN(len(p.lines))]
}

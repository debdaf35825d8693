package banter_test

import (
	"math/rand/v2"
	"testing"

	"github.com/mauv0809/boardgame-tracker/internal/banter"
	"github.com/stretchr/testify/assert"
)

func TestPick(t *testing.T) {
	p := banter.New(banter.Comebacks, rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		assert.Contains(t, banter.Comebacks, p.Pick())
	}
}

func TestPick_Deterministic(t *testing.T) {
	a := banter.New(banter.Comebacks, rand.NewPCG(7, 7))
	b := banter.New(banter.Comebacks, rand.NewPCG(7, 7))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Pick(), b.Pick())
	}
}

func TestPick_Empty(t *testing.T) {
	assert.Empty(t, banter.New(nil, nil).Pick())
}

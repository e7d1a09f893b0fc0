package engine

import (
	"context"
	"errors"
	"math/rand/v2"
)

// RandomOpponent answers with a uniformly chosen legal move.
type RandomOpponent struct {
	rnd *rand.Rand
}

func NewRandomOpponent(seed uint64) *RandomOpponent {
	return &RandomOpponent{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *RandomOpponent) Reply(ctx context.Context, _ string, legal []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(legal) == 0 {
		return "", errors.New("no legal moves")
	}
	return legal[r.rnd.IntN(len(legal))], nil
}

package workers

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/smscr/smscrd/httpctx"
)

// NumberGuess is a tiny stateful game: it picks a secret number on a
// session's first visit and reports higher/lower/correct against the
// "guess" request parameter on each subsequent visit.
type NumberGuess struct {
	max int
}

// NewNumberGuess constructs a NumberGuess worker guessing numbers in [1, max].
func NewNumberGuess(max int) *NumberGuess {
	return &NumberGuess{max: max}
}

// Process implements worker.Worker.
func (g *NumberGuess) Process(ctx *httpctx.Context) error {
	ctx.SetMimeType("text/plain")

	target, ok := ctx.GetPersistentParameter("target")
	if !ok {
		max := g.max
		if max <= 0 {
			max = 100
		}
		target = strconv.Itoa(rand.Intn(max) + 1)
		if err := ctx.SetPersistentParameter("target", target); err != nil {
			return err
		}
	}

	guessStr, hasGuess := ctx.GetParameter("guess")
	if !hasGuess {
		_, err := ctx.WriteString("guess a number")
		return err
	}

	guess, err := strconv.Atoi(guessStr)
	if err != nil {
		_, err := ctx.WriteString("not a number")
		return err
	}
	want, _ := strconv.Atoi(target)

	switch {
	case guess < want:
		_, err = ctx.WriteString("higher")
	case guess > want:
		_, err = ctx.WriteString("lower")
	default:
		if delErr := ctx.RemovePersistentParameter("target"); delErr != nil {
			return delErr
		}
		_, err = ctx.WriteString(fmt.Sprintf("correct: %d", guess))
	}
	return err
}

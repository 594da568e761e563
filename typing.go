package prompter

import (
	"math/rand"
	"time"
)

// Human typing gaps in whole milliseconds, uniform.
const (
	typeGapMin = 25
	typeGapMax = 75
)

// typist drips runes into the host one input event at a time, simulating a
// human at the keyboard. It runs entirely on the loop: each injection
// schedules the next, so a payload of n runes costs exactly n scheduled
// turns. done fires exactly once, when the payload is exhausted or an
// injection fails.
type typist struct {
	later  func(time.Duration, func())
	inject func(string) error
	fail   func(error)
	done   func()
	rng    *rand.Rand
}

func newTypist(later func(time.Duration, func()), inject func(string) error, fail func(error), done func()) *typist {
	return &typist{
		later:  later,
		inject: inject,
		fail:   fail,
		done:   done,
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
}

// run injects the first rune now and schedules the rest.
func (t *typist) run(keys []rune) {
	if len(keys) == 0 {
		t.done()
		return
	}
	if err := t.inject(string(keys[0])); err != nil {
		t.fail(err)
		t.done()
		return
	}
	rest := keys[1:]
	t.later(t.gap(), func() { t.run(rest) })
}

func (t *typist) gap() time.Duration {
	ms := typeGapMin + t.rng.Intn(typeGapMax-typeGapMin+1)
	return time.Duration(ms) * time.Millisecond
}

package model

import (
	"math/rand"
	"time"
)

const DiceSides = 6

// Dice yields uniform values in 1..DiceSides. The engine rejects any
// other value.
type Dice interface {
	Roll() int
}

type RandomDice struct {
	r *rand.Rand
}

func NewRandomDice(seed int64) *RandomDice {
	return &RandomDice{r: rand.New(rand.NewSource(seed))}
}

// NewTimeDice seeds from the clock.
func NewTimeDice() *RandomDice {
	return NewRandomDice(time.Now().UnixNano())
}

func (d *RandomDice) Roll() int {
	return d.r.Intn(DiceSides) + 1
}

// ScriptedDice replays Rolls in order and starts again when exhausted.
type ScriptedDice struct {
	Rolls []int
	next  int
}

func NewScriptedDice(rolls ...int) *ScriptedDice {
	return &ScriptedDice{Rolls: rolls}
}

func (d *ScriptedDice) Roll() int {
	if len(d.Rolls) == 0 {
		return 1
	}
	r := d.Rolls[d.next%len(d.Rolls)]
	d.next++
	return r
}

func validRoll(r int) bool {
	return r >= 1 && r <= DiceSides
}

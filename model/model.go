package model

import (
	"errors"
	"fmt"
)

const Goal = 29
const TileCount = Goal + 1

const MinPlayers = 2
const MaxPlayers = 4

var ErrPlayerCount = errors.New("player count must be between 2 and 4")
var ErrBoard = errors.New("invalid board")

type TileKind int

const (
	TILE_SAFE TileKind = iota
	TILE_TREASURE
	TILE_TRAP
	TILE_SWAP
	TILE_MYSTERY
	TILE_GOAL
)

func (k TileKind) Name() string {
	switch k {
	case TILE_SAFE:
		return "safe"
	case TILE_TREASURE:
		return "treasure"
	case TILE_TRAP:
		return "trap"
	case TILE_SWAP:
		return "swap"
	case TILE_MYSTERY:
		return "mystery"
	case TILE_GOAL:
		return "goal"
	default:
		return fmt.Sprintf("n/a:%d", k)
	}
}

// Icon is what the board shows on a tile of this kind.
func (k TileKind) Icon() string {
	switch k {
	case TILE_TREASURE:
		return "💰"
	case TILE_TRAP:
		return "🪤"
	case TILE_SWAP:
		return "🐒"
	case TILE_MYSTERY:
		return "❓"
	case TILE_GOAL:
		return "🏴‍☠️"
	default:
		return "🌿"
	}
}

type Player struct {
	Id    int32
	Name  string
	Icon  string
	Color string
	Pos   int
	Skip  bool
}

// Board is the fixed track. Tiles[Goal] is always TILE_GOAL.
type Board struct {
	Tiles [TileCount]TileKind
}

type Phase int

const (
	PHASE_ROLL Phase = iota
	PHASE_RESOLVE
	PHASE_OVER
)

func (p Phase) Name() string {
	switch p {
	case PHASE_ROLL:
		return "roll"
	case PHASE_RESOLVE:
		return "resolve"
	case PHASE_OVER:
		return "over"
	default:
		return fmt.Sprintf("n/a:%d", p)
	}
}

// Model is the state of one game: turn order is the order of Players.
type Model struct {
	Board    *Board
	Players  []*Player
	Current  int
	Phase    Phase
	Winner   int32
	LastRoll int
	Dice     Dice
}

type OutcomeKind int

const (
	OUTCOME_REJECTED OutcomeKind = iota
	OUTCOME_SKIPPED
	OUTCOME_MOVED
	OUTCOME_TURN_COMPLETE
	OUTCOME_WIN
	OUTCOME_RESTARTED
)

func (o OutcomeKind) Name() string {
	switch o {
	case OUTCOME_REJECTED:
		return "rejected"
	case OUTCOME_SKIPPED:
		return "skipped"
	case OUTCOME_MOVED:
		return "moved"
	case OUTCOME_TURN_COMPLETE:
		return "turn_complete"
	case OUTCOME_WIN:
		return "win"
	case OUTCOME_RESTARTED:
		return "restarted"
	default:
		return fmt.Sprintf("n/a:%d", o)
	}
}

// Outcome describes what a single engine call did.
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	PlayerId   int32       `json:"player"`
	Roll       int         `json:"roll,omitempty"`
	Bounced    bool        `json:"bounced,omitempty"`
	Tile       TileKind    `json:"tile"`
	EffectRoll int         `json:"effectRoll,omitempty"`
	Message    string      `json:"message"`
}

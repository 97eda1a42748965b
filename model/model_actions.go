package model

import (
	"fmt"
	"strconv"
)

var TreasureTiles = []int{3, 7, 12, 15, 19, 22, 25, 27}
var TrapTiles = []int{5, 11, 18, 24}
var SwapTiles = []int{9, 21}
var MysteryTiles = []int{13, 26}

var ICONS = []string{"🐒", "🦜", "🦁", "🧭"}
var PALETTE = []string{"#F59E0B", "#10B981", "#3B82F6", "#EF4444"}

const (
	MSG_READY    = "Ready to roll."
	MSG_SKIPPING = "Skipping this turn..."
	MSG_OVER     = "The game is over. Restart to play again."
	MSG_PENDING  = "Waiting for the tile to resolve."
	MSG_NO_MOVE  = "Roll the dice first."
	MSG_BAD_ROLL = "Roll must be between 1 and 6."
	MSG_RESTART  = "Game restarted."
	MSG_COUNT    = "Player count changed."
)

// NewBoard builds a track from the four special tile sets. Every other
// index below Goal is safe.
func NewBoard(treasure, traps, swaps, mystery []int) (*Board, error) {
	b := &Board{}
	b.Tiles[Goal] = TILE_GOAL
	sets := []struct {
		kind    TileKind
		indices []int
	}{
		{TILE_TREASURE, treasure},
		{TILE_TRAP, traps},
		{TILE_SWAP, swaps},
		{TILE_MYSTERY, mystery},
	}
	for _, s := range sets {
		for _, i := range s.indices {
			if i == Goal {
				return nil, fmt.Errorf("%w: goal tile cannot be %s", ErrBoard, s.kind.Name())
			}
			if i < 0 || i > Goal {
				return nil, fmt.Errorf("%w: %s tile %d outside track", ErrBoard, s.kind.Name(), i)
			}
			if b.Tiles[i] != TILE_SAFE {
				return nil, fmt.Errorf("%w: tile %d is both %s and %s", ErrBoard, i, b.Tiles[i].Name(), s.kind.Name())
			}
			b.Tiles[i] = s.kind
		}
	}
	return b, nil
}

func DefaultBoard() *Board {
	b, err := NewBoard(TreasureTiles, TrapTiles, SwapTiles, MysteryTiles)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Board) Kind(pos int) TileKind {
	if pos < 0 || pos >= TileCount {
		return TILE_SAFE
	}
	return b.Tiles[pos]
}

// Indices lists the tiles of one kind in track order.
func (b *Board) Indices(kind TileKind) []int {
	out := make([]int, 0)
	for i, k := range b.Tiles {
		if k == kind {
			out = append(out, i)
		}
	}
	return out
}

func ValidPlayerCount(n int) bool {
	return n >= MinPlayers && n <= MaxPlayers
}

// NewModel starts a game for count players. A nil board means the default
// track, a nil dice means a clock seeded one.
func NewModel(board *Board, count int, dice Dice) (*Model, error) {
	if board == nil {
		board = DefaultBoard()
	}
	if dice == nil {
		dice = NewTimeDice()
	}
	m := &Model{Board: board, Dice: dice}
	if err := m.Restart(count); err != nil {
		return nil, err
	}
	return m, nil
}

// Restart drops every player and seats count new ones at the start.
func (m *Model) Restart(count int) error {
	if !ValidPlayerCount(count) {
		return fmt.Errorf("%w: got %d", ErrPlayerCount, count)
	}
	players := make([]*Player, 0, count)
	for i := 0; i < count; i++ {
		players = append(players, &Player{
			Id:    int32(i + 1),
			Name:  "Player " + strconv.Itoa(i+1),
			Icon:  ICONS[i],
			Color: PALETTE[i],
		})
	}
	m.Players = players
	m.Current = 0
	m.Phase = PHASE_ROLL
	m.Winner = 0
	m.LastRoll = 0
	return nil
}

func (m *Model) Active() *Player {
	return m.Players[m.Current]
}

func (m *Model) Over() bool {
	return m.Phase == PHASE_OVER
}

// Status is the idle line shown between calls.
func (m *Model) Status() string {
	switch m.Phase {
	case PHASE_OVER:
		return m.winMessage(m.player(m.Winner))
	case PHASE_RESOLVE:
		return MSG_PENDING
	}
	if m.Active().Skip {
		return MSG_SKIPPING
	}
	return MSG_READY
}

// NeedsRoll reports whether the next ApplyMove will use its roll. A
// skipping player consumes the turn without one.
func (m *Model) NeedsRoll() bool {
	return m.Phase == PHASE_ROLL && !m.Active().Skip
}

// TakeTurn plays one whole turn with the given roll.
func (m *Model) TakeTurn(roll int) Outcome {
	moved := m.ApplyMove(roll)
	if moved.Kind != OUTCOME_MOVED {
		return moved
	}
	out := m.ResolveEffectAndAdvance()
	out.Roll = moved.Roll
	out.Bounced = moved.Bounced
	return out
}

// ApplyMove is the first half of a turn: skip handling and movement.
// The roll is ignored when the active player is skipping.
// Landing on Goal ends the game here, otherwise the model waits for
// ResolveEffectAndAdvance.
func (m *Model) ApplyMove(roll int) Outcome {
	switch m.Phase {
	case PHASE_OVER:
		return m.reject(MSG_OVER)
	case PHASE_RESOLVE:
		return m.reject(MSG_PENDING)
	}
	pl := m.Active()
	if pl.Skip {
		pl.Skip = false
		m.advance()
		return Outcome{
			Kind:     OUTCOME_SKIPPED,
			PlayerId: pl.Id,
			Tile:     m.Board.Kind(pl.Pos),
			Message:  pl.Name + " was skipping.",
		}
	}

	if !validRoll(roll) {
		return m.reject(MSG_BAD_ROLL)
	}
	m.LastRoll = roll
	pos, bounced := bounce(pl.Pos + roll)
	pl.Pos = pos
	out := Outcome{
		Kind:     OUTCOME_MOVED,
		PlayerId: pl.Id,
		Roll:     roll,
		Bounced:  bounced,
		Tile:     m.Board.Kind(pos),
	}
	if bounced {
		out.Message = pl.Name + " bounced back."
	} else {
		out.Message = fmt.Sprintf("%s rolled %d", pl.Name, roll)
	}
	if pl.Pos >= Goal {
		return m.win(pl, out)
	}
	m.Phase = PHASE_RESOLVE
	return out
}

// ResolveEffectAndAdvance is the second half of a turn: the tile effect,
// the win check and the hand over to the next player.
func (m *Model) ResolveEffectAndAdvance() Outcome {
	switch m.Phase {
	case PHASE_OVER:
		return m.reject(MSG_OVER)
	case PHASE_ROLL:
		return m.reject(MSG_NO_MOVE)
	}
	pl := m.Active()
	out := m.applyTileEffect(m.Current)
	if out.Kind == OUTCOME_REJECTED {
		return out
	}
	if pl.Pos >= Goal {
		return m.win(pl, out)
	}
	m.Phase = PHASE_ROLL
	m.advance()
	out.Kind = OUTCOME_TURN_COMPLETE
	return out
}

func (m *Model) applyTileEffect(idx int) Outcome {
	pl := m.Players[idx]
	out := Outcome{PlayerId: pl.Id, Tile: m.Board.Kind(pl.Pos)}
	if pl.Pos >= Goal {
		return out
	}
	switch out.Tile {
	case TILE_TREASURE:
		pl.Pos = min(Goal, pl.Pos+1)
		out.Message = pl.Name + " found a treasure! +1"
	case TILE_TRAP:
		pl.Skip = true
		out.Message = pl.Name + " hit a trap! skip next"
	case TILE_SWAP:
		other := m.Players[(idx+1)%len(m.Players)]
		pl.Pos, other.Pos = other.Pos, pl.Pos
		out.Message = pl.Name + " triggered a swap!"
	case TILE_MYSTERY:
		r := m.Dice.Roll()
		if !validRoll(r) {
			out.Kind = OUTCOME_REJECTED
			out.Message = MSG_BAD_ROLL
			return out
		}
		out.EffectRoll = r
		if r >= 4 {
			pl.Pos = min(Goal, pl.Pos+r)
			out.Message = fmt.Sprintf("%s mystery jump +%d", pl.Name, r)
		} else {
			pl.Pos = max(0, pl.Pos-r)
			out.Message = fmt.Sprintf("%s mystery slip -%d", pl.Name, r)
		}
	default:
		out.Message = pl.Name + " is on a safe tile."
	}
	return out
}

func (m *Model) win(pl *Player, out Outcome) Outcome {
	pl.Pos = Goal
	m.Phase = PHASE_OVER
	m.Winner = pl.Id
	out.Kind = OUTCOME_WIN
	out.Message = m.winMessage(pl)
	return out
}

func (m *Model) winMessage(pl *Player) string {
	if pl == nil {
		return MSG_OVER
	}
	return pl.Name + " reached the final treasure and wins! 🎉"
}

func (m *Model) reject(msg string) Outcome {
	return Outcome{Kind: OUTCOME_REJECTED, PlayerId: m.Active().Id, Message: msg}
}

func (m *Model) advance() {
	m.Current = (m.Current + 1) % len(m.Players)
}

func (m *Model) player(id int32) *Player {
	for _, p := range m.Players {
		if p.Id == id {
			return p
		}
	}
	return nil
}

// bounce reflects an overshoot of Goal back down the track. The result
// never goes below the start tile.
func bounce(pos int) (int, bool) {
	if pos <= Goal {
		return pos, false
	}
	pos = Goal - (pos - Goal)
	if pos < 0 {
		pos = 0
	}
	return pos, true
}

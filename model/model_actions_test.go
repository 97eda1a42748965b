package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func safeBoard(t *testing.T) *Board {
	b, err := NewBoard(nil, nil, nil, nil)
	require.NoError(t, err)
	return b
}

func newGame(t *testing.T, b *Board, count int, rolls ...int) *Model {
	m, err := NewModel(b, count, NewScriptedDice(rolls...))
	require.NoError(t, err)
	return m
}

func TestDefaultBoard(t *testing.T) {
	b := DefaultBoard()
	assert.Equal(t, TreasureTiles, b.Indices(TILE_TREASURE))
	assert.Equal(t, TrapTiles, b.Indices(TILE_TRAP))
	assert.Equal(t, SwapTiles, b.Indices(TILE_SWAP))
	assert.Equal(t, MysteryTiles, b.Indices(TILE_MYSTERY))
	assert.Equal(t, []int{Goal}, b.Indices(TILE_GOAL))
	assert.Equal(t, TILE_SAFE, b.Kind(0))
	assert.Equal(t, TILE_SAFE, b.Kind(28))
	assert.Equal(t, TILE_SAFE, b.Kind(-1))
}

func TestNewBoardRejectsBadSets(t *testing.T) {
	cases := map[string][4][]int{
		"overlap":      {{3}, {3}, nil, nil},
		"duplicate":    {{7, 7}, nil, nil, nil},
		"goal":         {nil, nil, {Goal}, nil},
		"out of range": {nil, nil, nil, {-2}},
		"past goal":    {{Goal + 1}, nil, nil, nil},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewBoard(c[0], c[1], c[2], c[3])
			assert.ErrorIs(t, err, ErrBoard)
		})
	}
}

func TestNewModelPlayerCount(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		_, err := NewModel(nil, n, nil)
		assert.ErrorIs(t, err, ErrPlayerCount, "count %d", n)
	}
	for n := MinPlayers; n <= MaxPlayers; n++ {
		m := newGame(t, nil, n)
		require.Len(t, m.Players, n)
		assert.Equal(t, 0, m.Current)
		assert.False(t, m.Over())
		for i, p := range m.Players {
			assert.Equal(t, int32(i+1), p.Id)
			assert.Equal(t, ICONS[i], p.Icon)
			assert.Equal(t, PALETTE[i], p.Color)
			assert.Zero(t, p.Pos)
			assert.False(t, p.Skip)
		}
	}
	assert.Equal(t, "Player 3", newGame(t, nil, 3).Players[2].Name)
}

func TestPlainMove(t *testing.T) {
	b := safeBoard(t)
	for p := 0; p < Goal; p++ {
		for r := 1; r <= DiceSides && p+r <= Goal; r++ {
			m := newGame(t, b, 2)
			m.Players[0].Pos = p
			out := m.ApplyMove(r)
			assert.Equal(t, p+r, m.Players[0].Pos, "p=%d r=%d", p, r)
			assert.False(t, out.Bounced)
		}
	}
}

func TestBounceBack(t *testing.T) {
	b := safeBoard(t)
	cases := []struct{ from, roll, want int }{
		{28, 6, 24},
		{28, 2, 28},
		{25, 6, 27},
		{24, 6, 28},
	}
	for _, c := range cases {
		m := newGame(t, b, 2)
		m.Players[0].Pos = c.from
		out := m.ApplyMove(c.roll)
		assert.Equal(t, c.want, m.Players[0].Pos, "from %d roll %d", c.from, c.roll)
		assert.Equal(t, OUTCOME_MOVED, out.Kind)
		assert.True(t, out.Bounced)
		assert.Equal(t, "Player 1 bounced back.", out.Message)
	}

	pos, bounced := bounce(Goal * 3)
	assert.True(t, bounced)
	assert.Zero(t, pos)
}

func TestSkipLaw(t *testing.T) {
	b, err := NewBoard(nil, []int{5}, nil, nil)
	require.NoError(t, err)
	m := newGame(t, b, 2)

	out := m.TakeTurn(5)
	assert.Equal(t, OUTCOME_TURN_COMPLETE, out.Kind)
	assert.Equal(t, "Player 1 hit a trap! skip next", out.Message)
	assert.True(t, m.Players[0].Skip)
	assert.Equal(t, 5, m.Players[0].Pos)

	m.TakeTurn(1)
	assert.Equal(t, 0, m.Current)
	assert.Equal(t, MSG_SKIPPING, m.Status())

	out = m.TakeTurn(3)
	assert.Equal(t, OUTCOME_SKIPPED, out.Kind)
	assert.Equal(t, "Player 1 was skipping.", out.Message)
	assert.Equal(t, 5, m.Players[0].Pos)
	assert.False(t, m.Players[0].Skip)
	assert.Equal(t, 1, m.Current)

	m.TakeTurn(1)
	out = m.TakeTurn(3)
	assert.Equal(t, OUTCOME_TURN_COMPLETE, out.Kind)
	assert.Equal(t, 8, m.Players[0].Pos)
}

func TestTreasureNeverPassesGoal(t *testing.T) {
	all := make([]int, 0, Goal)
	for i := 0; i < Goal; i++ {
		all = append(all, i)
	}
	b, err := NewBoard(all, nil, nil, nil)
	require.NoError(t, err)
	m := newGame(t, b, 2)
	for p := 0; p < Goal; p++ {
		m.Players[0].Pos = p
		out := m.applyTileEffect(0)
		assert.Equal(t, p+1, m.Players[0].Pos)
		assert.LessOrEqual(t, m.Players[0].Pos, Goal)
		assert.Equal(t, "Player 1 found a treasure! +1", out.Message)
	}
}

func TestTreasureOnlyTile(t *testing.T) {
	m := newGame(t, nil, 2)
	m.Players[0].Pos = 1
	out := m.TakeTurn(2)
	assert.Equal(t, OUTCOME_TURN_COMPLETE, out.Kind)
	assert.Equal(t, TILE_TREASURE, out.Tile)
	assert.Equal(t, 4, m.Players[0].Pos)
	assert.Equal(t, 2, out.Roll)
}

func TestSwapLaw(t *testing.T) {
	b, err := NewBoard(nil, nil, []int{9, 21}, nil)
	require.NoError(t, err)
	m := newGame(t, b, 3)
	m.Players[0].Pos = 9
	m.Players[1].Pos = 21
	m.Players[2].Pos = 4

	out := m.applyTileEffect(0)
	assert.Equal(t, "Player 1 triggered a swap!", out.Message)
	assert.Equal(t, 21, m.Players[0].Pos)
	assert.Equal(t, 9, m.Players[1].Pos)
	assert.Equal(t, 4, m.Players[2].Pos)

	m.applyTileEffect(0)
	assert.Equal(t, 9, m.Players[0].Pos)
	assert.Equal(t, 21, m.Players[1].Pos)
}

func TestSwapWrapsToFirstPlayer(t *testing.T) {
	b, err := NewBoard(nil, nil, []int{9}, nil)
	require.NoError(t, err)
	m := newGame(t, b, 3)
	m.Current = 2
	m.Players[0].Pos = 2
	m.Players[2].Pos = 6

	out := m.TakeTurn(3)
	assert.Equal(t, OUTCOME_TURN_COMPLETE, out.Kind)
	assert.Equal(t, 2, m.Players[2].Pos)
	assert.Equal(t, 9, m.Players[0].Pos)
	assert.Equal(t, 0, m.Current)
}

func TestMysteryBoundary(t *testing.T) {
	b, err := NewBoard(nil, nil, nil, []int{2, 13, 26})
	require.NoError(t, err)

	m := newGame(t, b, 2, 4)
	m.Players[0].Pos = 10
	out := m.TakeTurn(3)
	assert.Equal(t, 4, out.EffectRoll)
	assert.Equal(t, 17, m.Players[0].Pos)
	assert.Equal(t, "Player 1 mystery jump +4", out.Message)

	m = newGame(t, b, 2, 3)
	m.Players[0].Pos = 10
	out = m.TakeTurn(3)
	assert.Equal(t, 10, m.Players[0].Pos)
	assert.Equal(t, "Player 1 mystery slip -3", out.Message)

	m = newGame(t, b, 2, 3)
	out = m.TakeTurn(2)
	assert.Equal(t, 0, m.Players[0].Pos)
	assert.Equal(t, OUTCOME_TURN_COMPLETE, out.Kind)
}

func TestMysteryJumpCanWin(t *testing.T) {
	b, err := NewBoard(nil, nil, nil, []int{26})
	require.NoError(t, err)
	m := newGame(t, b, 2, 6)
	m.Players[0].Pos = 23

	out := m.TakeTurn(3)
	assert.Equal(t, OUTCOME_WIN, out.Kind)
	assert.Equal(t, Goal, m.Players[0].Pos)
	assert.True(t, m.Over())
	assert.Equal(t, int32(1), m.Winner)
}

func TestWinScenario(t *testing.T) {
	m := newGame(t, nil, 2)
	m.Players[0].Pos = 27

	out := m.TakeTurn(2)
	assert.Equal(t, OUTCOME_WIN, out.Kind)
	assert.Equal(t, "Player 1 reached the final treasure and wins! 🎉", out.Message)
	assert.Equal(t, Goal, m.Players[0].Pos)
	assert.True(t, m.Over())
	assert.Equal(t, 0, m.Current)

	out = m.TakeTurn(3)
	assert.Equal(t, OUTCOME_REJECTED, out.Kind)
	assert.Equal(t, MSG_OVER, out.Message)
	assert.Zero(t, m.Players[1].Pos)
	assert.Equal(t, 0, m.Current)

	assert.Equal(t, OUTCOME_REJECTED, m.ResolveEffectAndAdvance().Kind)
	assert.Equal(t, "Player 1 reached the final treasure and wins! 🎉", m.Status())
}

func TestTurnOrderCycles(t *testing.T) {
	m := newGame(t, safeBoard(t), 3)
	want := []int{1, 2, 0, 1, 2, 0}
	for _, w := range want {
		m.TakeTurn(1)
		assert.Equal(t, w, m.Current)
	}
}

func TestTwoPhaseTurn(t *testing.T) {
	m := newGame(t, DefaultBoard(), 2)

	out := m.ResolveEffectAndAdvance()
	assert.Equal(t, OUTCOME_REJECTED, out.Kind)
	assert.Equal(t, MSG_NO_MOVE, out.Message)

	out = m.ApplyMove(7)
	assert.Equal(t, OUTCOME_REJECTED, out.Kind)
	assert.Equal(t, MSG_BAD_ROLL, out.Message)

	out = m.ApplyMove(3)
	assert.Equal(t, OUTCOME_MOVED, out.Kind)
	assert.Equal(t, "Player 1 rolled 3", out.Message)
	assert.Equal(t, 3, m.Players[0].Pos)
	assert.Equal(t, PHASE_RESOLVE, m.Phase)
	assert.Equal(t, 0, m.Current)

	out = m.ApplyMove(2)
	assert.Equal(t, OUTCOME_REJECTED, out.Kind)
	assert.Equal(t, MSG_PENDING, out.Message)
	assert.Equal(t, 3, m.Players[0].Pos)

	out = m.ResolveEffectAndAdvance()
	assert.Equal(t, OUTCOME_TURN_COMPLETE, out.Kind)
	assert.Equal(t, 4, m.Players[0].Pos)
	assert.Equal(t, 1, m.Current)
	assert.Equal(t, PHASE_ROLL, m.Phase)
}

func TestRestart(t *testing.T) {
	m := newGame(t, nil, 2)
	m.Players[0].Pos = 27
	m.TakeTurn(2)
	require.True(t, m.Over())

	require.NoError(t, m.Restart(4))
	assert.Len(t, m.Players, 4)
	assert.False(t, m.Over())
	assert.Zero(t, m.Winner)
	assert.Equal(t, MSG_READY, m.Status())

	assert.ErrorIs(t, m.Restart(9), ErrPlayerCount)
	assert.Len(t, m.Players, 4)
}

func TestReport(t *testing.T) {
	m := newGame(t, nil, 2)
	r := m.Report()
	assert.Equal(t, MSG_READY, r.Status)
	assert.Empty(t, r.Outcomes)
	assert.Equal(t, int32(1), r.Current)

	out := m.TakeTurn(1)
	r = m.Report(out)
	assert.Equal(t, out.Message, r.Status)
	assert.Equal(t, int32(2), r.Current)
	assert.Equal(t, []Position{{PlayerId: 1, Pos: 1}, {PlayerId: 2, Pos: 0}}, r.Positions)

	setup := m.MakeSetup("abc")
	assert.Len(t, setup.Tiles, TileCount)
	assert.Equal(t, "🏴‍☠️", setup.Tiles[Goal].Icon)
	assert.Equal(t, 30, setup.Tiles[Goal].Number)
}

func TestSkipIgnoresRoll(t *testing.T) {
	m := newGame(t, safeBoard(t), 2)
	m.Players[0].Skip = true
	assert.False(t, m.NeedsRoll())

	out := m.ApplyMove(0)
	assert.Equal(t, OUTCOME_SKIPPED, out.Kind)
	assert.Equal(t, 1, m.Current)
	assert.True(t, m.NeedsRoll())

	assert.Equal(t, OUTCOME_REJECTED, m.ApplyMove(0).Kind)
}

func TestMysteryRejectsOutOfRangeDice(t *testing.T) {
	b, err := NewBoard(nil, nil, nil, []int{13})
	require.NoError(t, err)
	for _, bad := range []int{0, 7} {
		m := newGame(t, b, 2, bad, 5)
		m.Players[0].Pos = 10
		require.Equal(t, OUTCOME_MOVED, m.ApplyMove(3).Kind)

		out := m.ResolveEffectAndAdvance()
		assert.Equal(t, OUTCOME_REJECTED, out.Kind, "dice %d", bad)
		assert.Equal(t, MSG_BAD_ROLL, out.Message)
		assert.Equal(t, 13, m.Players[0].Pos)
		assert.Equal(t, PHASE_RESOLVE, m.Phase)
		assert.Equal(t, 0, m.Current)

		out = m.ResolveEffectAndAdvance()
		assert.Equal(t, OUTCOME_TURN_COMPLETE, out.Kind)
		assert.Equal(t, 18, m.Players[0].Pos)
		assert.Equal(t, 1, m.Current)
	}
}

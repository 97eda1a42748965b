package model

import "fmt"

const (
	ACTION_ROLL    = "roll"
	ACTION_RESOLVE = "resolve"
	ACTION_RESTART = "restart"
)

type ClientMessage struct {
	Action  string `json:"action"`
	Players int    `json:"players,omitempty"`
}

type ServerMessage struct {
	Setup     []Setup    `json:"setup,omitempty"`
	Outcomes  []Outcome  `json:"outcomes"`
	Positions []Position `json:"positions"`
	Current   int32      `json:"current"`
	Phase     Phase      `json:"phase"`
	Over      bool       `json:"over"`
	Winner    int32      `json:"winner,omitempty"`
	Status    string     `json:"status"`
}

type Setup struct {
	GameId  string       `json:"game"`
	Tiles   []TileInfo   `json:"tiles"`
	Players []PlayerInfo `json:"players"`
}

type TileInfo struct {
	Index  int      `json:"index"`
	Number int      `json:"number"`
	Kind   TileKind `json:"kind"`
	Icon   string   `json:"icon"`
}

type PlayerInfo struct {
	Id    int32  `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type Position struct {
	PlayerId int32 `json:"player"`
	Pos      int   `json:"pos"`
	Skip     bool  `json:"skip,omitempty"`
}

func (k TileKind) MarshalText() ([]byte, error) {
	return []byte(k.Name()), nil
}

func (k *TileKind) UnmarshalText(b []byte) error {
	for c := TILE_SAFE; c <= TILE_GOAL; c++ {
		if c.Name() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown tile kind %q", b)
}

func (o OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(o.Name()), nil
}

func (o *OutcomeKind) UnmarshalText(b []byte) error {
	for c := OUTCOME_REJECTED; c <= OUTCOME_RESTARTED; c++ {
		if c.Name() == string(b) {
			*o = c
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.Name()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for c := PHASE_ROLL; c <= PHASE_OVER; c++ {
		if c.Name() == string(b) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

func (b *Board) Info() []TileInfo {
	tiles := make([]TileInfo, 0, TileCount)
	for i, k := range b.Tiles {
		tiles = append(tiles, TileInfo{Index: i, Number: i + 1, Kind: k, Icon: k.Icon()})
	}
	return tiles
}

func (m *Model) Positions() []Position {
	out := make([]Position, 0, len(m.Players))
	for _, p := range m.Players {
		out = append(out, Position{PlayerId: p.Id, Pos: p.Pos, Skip: p.Skip})
	}
	return out
}

func (m *Model) MakeSetup(gameId string) Setup {
	players := make([]PlayerInfo, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, PlayerInfo{Id: p.Id, Name: p.Name, Icon: p.Icon, Color: p.Color})
	}
	return Setup{GameId: gameId, Tiles: m.Board.Info(), Players: players}
}

// Report is what a presenter needs after an engine call. With no
// outcomes the status falls back to the idle line.
func (m *Model) Report(outcomes ...Outcome) ServerMessage {
	status := m.Status()
	if len(outcomes) > 0 {
		status = outcomes[len(outcomes)-1].Message
	}
	if outcomes == nil {
		outcomes = []Outcome{}
	}
	return ServerMessage{
		Outcomes:  outcomes,
		Positions: m.Positions(),
		Current:   m.Active().Id,
		Phase:     m.Phase,
		Over:      m.Over(),
		Winner:    m.Winner,
		Status:    status,
	}
}

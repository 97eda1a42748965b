package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zucenko/treasurerun/model"
)

type GameServer struct {
	GameSessions   map[string]*GameSession
	GameRequests   chan GameRequest
	ListRequests   chan chan []GameInfo
	SessionsClosed chan string
	Upgrader       *websocket.Upgrader
	Board          *model.Board
	DefaultPlayers int
	ResolveDelay   time.Duration
	EmptyTimeout   time.Duration

	// NewDice is called once per game session.
	NewDice func() model.Dice
	quit    chan struct{}
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_OVER
	GS_CLOSED
)

// GameSession owns one Model. Apart from info, its fields are only
// touched from Loop.
type GameSession struct {
	Id                    string
	State                 GameSessionState
	Model                 *model.Model
	ResolveDelay          time.Duration
	EmptyTimeout          time.Duration
	ClientSessions        []*ClientSession
	Errors                chan int32
	Events                chan ClientEvent
	PlayerConnectRequests chan PlayerConnectRequest
	OnEmpty               func(id string)
	nextClientId          int32
	resolveTimer          <-chan time.Time
	quit                  chan struct{}
	stopOnce              sync.Once

	infoMu sync.RWMutex
	info   GameInfo
}

type ClientSessionState int

const (
	CS_NEW ClientSessionState = iota + 1
	CS_PLAY
	CS_ERR
	CS_CLOSED
)

// ClientSession is one websocket connection watching, and driving, a game.
// The Debug counters belong to the read and write goroutines.
type ClientSession struct {
	State       ClientSessionState
	Id          int32
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}

type GameInfo struct {
	Id      string `json:"id"`
	Players int    `json:"players"`
	Clients int    `json:"clients"`
	Over    bool   `json:"over"`
}

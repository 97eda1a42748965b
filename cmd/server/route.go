package main

import (
	"github.com/matryer/way"
)

const URI_WS = "/play"
const URI_GAMES = "/games"
const URI_BOARD = "/board"

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_WS, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_GAMES, s.GameServer.HandleListGames())
	s.router.HandleFunc("GET", URI_BOARD, s.GameServer.HandleBoard())
}

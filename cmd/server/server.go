package main

import (
	"net/http"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/treasurerun/config"
	"github.com/zucenko/treasurerun/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	config.InitConfig()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	board, err := server.Load(cfg.BoardFile)
	if err != nil {
		log.Fatalf("board: %v", err)
	}

	Server := Server{
		GameServer: server.NewGameServer(board, cfg.DefaultPlayers, cfg.ResolveDelay),
	}
	go Server.GameServer.Loop()
	Server.routes()
	log.Printf("Listening on :%s", cfg.Port)
	log.Fatalln(http.ListenAndServe(":"+cfg.Port, Server.router))
}

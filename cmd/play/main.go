package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/treasurerun/config"
	"github.com/zucenko/treasurerun/model"
	"github.com/zucenko/treasurerun/server"
)

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
	m, err := model.NewModel(board, cfg.DefaultPlayers, model.NewTimeDice())
	if err != nil {
		log.Fatalf("game: %v", err)
	}
	if err := play(m, os.Stdin, os.Stdout, cfg.ResolveDelay); err != nil {
		log.Fatal(err)
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/treasurerun/model"
)

type Config struct {
	Port           string
	DefaultPlayers int
	ResolveDelay   time.Duration
	BoardFile      string
	LogLevel       log.Level
}

func Default() Config {
	return Config{
		Port:           "8080",
		DefaultPlayers: model.MinPlayers,
		ResolveDelay:   350 * time.Millisecond,
		LogLevel:       log.InfoLevel,
	}
}

// InitConfig loads .env files into the environment. A missing file is fine.
func InitConfig(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Info("No .env file loaded, using the environment as is")
		return
	}
	log.Println("Successfully loaded environment variables")
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}

// Load reads the environment over Default.
func Load() (Config, error) {
	c := Default()
	if v, err := GetEnvVariable("PORT"); err == nil {
		c.Port = v
	} else {
		log.Printf("Defaulting to port %s", c.Port)
	}
	if v, err := GetEnvVariable("DEFAULT_PLAYERS"); err == nil {
		n, err := strconv.Atoi(v)
		if err != nil || !model.ValidPlayerCount(n) {
			return c, fmt.Errorf("DEFAULT_PLAYERS %q: %w", v, model.ErrPlayerCount)
		}
		c.DefaultPlayers = n
	}
	if v, err := GetEnvVariable("AUTO_RESOLVE_MS"); err == nil {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return c, fmt.Errorf("AUTO_RESOLVE_MS %q: want a non negative integer", v)
		}
		c.ResolveDelay = time.Duration(ms) * time.Millisecond
	}
	if v, err := GetEnvVariable("BOARD_FILE"); err == nil {
		c.BoardFile = v
	}
	if v, err := GetEnvVariable("LOG_LEVEL"); err == nil {
		level, err := log.ParseLevel(v)
		if err != nil {
			return c, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		c.LogLevel = level
	}
	return c, nil
}

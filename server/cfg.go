package server

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/treasurerun/model"
)

//go:embed data/board.txt
var defaultBoard string

// Load reads a track layout file. An empty path uses the built-in track.
func Load(path string) (*model.Board, error) {
	if path == "" {
		return read(strings.NewReader(defaultBoard))
	}
	file, err := os.Open(path)
	if err != nil {
		log.Printf("failed opening file: %s", err)
		return nil, err
	}
	defer file.Close()
	return read(file)
}

func read(reader io.Reader) (*model.Board, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	var treasure, traps, swaps, mystery []int
	tile := 0
	goal := false
	line := 0

	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		for _, char := range s {
			if unicode.IsSpace(char) {
				continue
			}
			if goal {
				return nil, fmt.Errorf("%w: line %d: tiles after goal", model.ErrBoard, line)
			}
			switch char {
			case '.':
			case '$':
				treasure = append(treasure, tile)
			case 'T':
				traps = append(traps, tile)
			case 'S':
				swaps = append(swaps, tile)
			case '?':
				mystery = append(mystery, tile)
			case 'G':
				goal = true
			default:
				return nil, fmt.Errorf("%w: line %d: unknown tile %q", model.ErrBoard, line, char)
			}
			tile++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !goal || tile != model.TileCount {
		return nil, fmt.Errorf("%w: need %d tiles ending with G, got %d", model.ErrBoard, model.TileCount, tile)
	}
	return model.NewBoard(treasure, traps, swaps, mystery)
}

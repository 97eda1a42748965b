package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zucenko/treasurerun/model"
)

const help = "enter: roll   r [2-4]: restart   q: quit"

// play runs a hot seat game reading one command per line from in.
func play(m *model.Model, in io.Reader, out io.Writer, pause time.Duration) error {
	present(out, m, m.Report())
	fmt.Fprintln(out, help)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		switch {
		case len(fields) == 0:
			roll := 0
			if m.NeedsRoll() {
				roll = m.Dice.Roll()
			}
			moved := m.ApplyMove(roll)
			present(out, m, m.Report(moved))
			if moved.Kind == model.OUTCOME_MOVED {
				time.Sleep(pause)
				present(out, m, m.Report(m.ResolveEffectAndAdvance()))
			}
		case fields[0] == "q":
			return nil
		case fields[0] == "r":
			count, text := len(m.Players), model.MSG_RESTART
			if len(fields) > 1 {
				n, err := strconv.Atoi(fields[1])
				if err != nil {
					fmt.Fprintln(out, help)
					continue
				}
				if n != count {
					count, text = n, model.MSG_COUNT
				}
			}
			if err := m.Restart(count); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			present(out, m, m.Report(model.Outcome{Kind: model.OUTCOME_RESTARTED, Message: text}))
		default:
			fmt.Fprintln(out, help)
		}
	}
	return scanner.Err()
}

func present(out io.Writer, m *model.Model, mes model.ServerMessage) {
	fmt.Fprintln(out, mes.Status)
	for _, p := range m.Players {
		marker := " "
		if p.Id == mes.Current && !mes.Over {
			marker = ">"
		}
		skip := ""
		if p.Skip {
			skip = " (skips next)"
		}
		fmt.Fprintf(out, "%s %s %s tile %d %s%s\n", marker, p.Icon, p.Name, p.Pos+1, m.Board.Kind(p.Pos).Icon(), skip)
	}
}

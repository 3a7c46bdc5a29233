// Offline terminal demo: runs one room end to end against the in-memory
// store, reading reveals from stdin. Useful for poking at the turn logic
// without a frontend.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"codewords/internal/config"
	"codewords/internal/grid"
	"codewords/internal/room"
	"codewords/internal/shared"
	"codewords/internal/store"
	"codewords/internal/words"
)

func main() {
	content, err := words.NewSource("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Config{RoomCodeLength: 5, MaxPlayers: 10}
	rm := room.NewManager(store.NewMemoryStore(), cfg, content)

	rx, err := rm.CreateRoom("DEMO1", shared.Player{Username: "red-spy", Role: shared.RoleSpymaster, Team: shared.TeamRed})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, p := range []shared.Player{
		{Username: "red-agent", Role: shared.RoleAgent, Team: shared.TeamRed},
		{Username: "blue-spy", Role: shared.RoleSpymaster, Team: shared.TeamBlue},
		{Username: "blue-agent", Role: shared.RoleAgent, Team: shared.TeamBlue},
	} {
		if _, err := rm.Join(rx.Code, p); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if _, err := rm.StartGame(rx.Code, "red-agent"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		rx, err = rm.Get(rx.Code)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		printGrid(rx.Grid)
		if rx.GameState == shared.StateEnded {
			fmt.Printf("\n%s\n", rx.EndReason)
			return
		}
		fmt.Printf("\nTurn: %s (red %d, blue %d)\n", rx.CurrentTurnTeam, rx.RedScore, rx.BlueScore)
		fmt.Println("Enter: row col (1-5 each), or 'end' to pass the turn")

		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		if strings.TrimSpace(line) == "end" {
			if _, err := rm.EndTurn(rx.Code); err != nil {
				fmt.Println("cannot end turn:", err)
			}
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			fmt.Println("Bad input, try again.")
			continue
		}
		row, _ := strconv.Atoi(parts[0])
		col, _ := strconv.Atoi(parts[1])
		index, err := grid.Index(row-1, col-1)
		if err != nil {
			fmt.Println("Bad input:", err)
			continue
		}
		actor := "red-agent"
		if rx.CurrentTurnTeam == shared.TeamBlue {
			actor = "blue-agent"
		}
		_, already, err := rm.Reveal(rx.Code, index, actor, rx.CurrentTurnTeam)
		if err != nil {
			fmt.Println("Reveal failed:", err)
			continue
		}
		if already {
			fmt.Println("Tile already revealed.")
		}
	}
}

func printGrid(g grid.Grid) {
	fmt.Println()
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Columns; c++ {
			t := g[r*grid.Columns+c]
			if t.Revealed {
				fmt.Printf("%-14s", "["+string(t.Color)+"]")
			} else {
				fmt.Printf("%-14s", t.Word)
			}
		}
		fmt.Println()
	}
}

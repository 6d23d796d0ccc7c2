// Command oracle-play loads a trained oracle table and exposes a
// line-oriented command loop for driving a game against it: the terminal
// stand-in for the GUI (board rendering, widgets, animations) this system
// treats as an external collaborator, not something to build here.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hailam/fadingrow/internal/kernel"
	"github.com/hailam/fadingrow/internal/oracle"
)

var (
	n         = flag.Int("n", 3, "board side length")
	m         = flag.Int("m", 3, "per-player stone cap / win length")
	tablePath = flag.String("table", "", "oracle table path (default oracle_NxN_mM.bin)")
	cacheSize = flag.Int64("cache", 1<<16, "oracle query cache size (0 disables caching)")
)

func main() {
	flag.Parse()

	path := *tablePath
	if path == "" {
		path = "oracle_" + strconv.Itoa(*n) + "x" + strconv.Itoa(*n) + "_m" + strconv.Itoa(*m) + ".bin"
	}

	o, err := oracle.Open(path)
	if err != nil {
		log.Fatalf("[oracle-play] open %s: %v", path, err)
	}
	defer o.Close()

	if *cacheSize > 0 {
		cached, err := oracle.NewCachedOracle(o, *cacheSize)
		if err != nil {
			log.Fatalf("[oracle-play] cache: %v", err)
		}
		o = cached
	}

	g := kernel.New(*n, *m)
	run(g, o, bufio.NewScanner(os.Stdin))
}

// run drives the line-oriented command loop: play <cell>, best, show, reset,
// quit. It is the same bufio.Scanner stdin loop shape as the teacher's
// uci.UCI.Run, reduced to this domain's much smaller command set.
func run(g *kernel.Game, o oracle.Oracle, scanner *bufio.Scanner) {
	printBoard(g)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "play":
			handlePlay(g, args)
		case "best":
			handleBest(g, o)
		case "show":
			printBoard(g)
		case "reset":
			g.Reset()
			fmt.Println("board reset")
		case "quit":
			return
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
}

func handlePlay(g *kernel.Game, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: play <cell>")
		return
	}
	cell, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("invalid cell %q\n", args[0])
		return
	}
	if err := g.Play(cell); err != nil {
		fmt.Printf("illegal move: %v\n", err)
		return
	}
	printBoard(g)
	reportIfTerminal(g)
}

func handleBest(g *kernel.Game, o oracle.Oracle) {
	if err := o.MakeMove(g); err != nil {
		fmt.Printf("oracle: %v\n", err)
		return
	}
	printBoard(g)
	reportIfTerminal(g)
}

func reportIfTerminal(g *kernel.Game) {
	switch g.Result() {
	case int(kernel.X):
		fmt.Println("X wins")
	case int(kernel.O):
		fmt.Println("O wins")
	}
}

func printBoard(g *kernel.Game) {
	n := g.N()
	for row := 0; row < n; row++ {
		var line strings.Builder
		for col := 0; col < n; col++ {
			switch g.At(kernel.Cell(n, row, col)) {
			case int(kernel.X):
				line.WriteByte('X')
			case int(kernel.O):
				line.WriteByte('O')
			default:
				line.WriteByte('.')
			}
			line.WriteByte(' ')
		}
		fmt.Println(strings.TrimRight(line.String(), " "))
	}
}

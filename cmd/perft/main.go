package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/exp/slices"

	"github.com/dkoval/pinline/common"
)

func main() {
	var (
		fen      = flag.String("fen", common.InitialPositionFen, "position to count from")
		depth    = flag.Int("depth", 5, "leaf depth")
		parallel = flag.Bool("parallel", false, "split the root moves over all cores")
		divide   = flag.Bool("divide", false, "print per-root-move subtotals")
	)
	flag.Parse()

	var b, err = common.NewBoardFromFEN(*fen)
	if err != nil {
		log.Fatal(err)
	}

	var started = time.Now()
	var nodes int

	switch {
	case *divide:
		var entries = common.Divide(b, *depth)
		slices.SortFunc(entries, func(x, y common.DivideEntry) bool {
			return x.Move.String() < y.Move.String()
		})
		for _, e := range entries {
			fmt.Printf("%v: %v\n", e.Move, e.Nodes)
			nodes += e.Nodes
		}
	case *parallel:
		nodes, err = common.PerftParallel(context.Background(), b, *depth)
		if err != nil {
			log.Fatal(err)
		}
	default:
		nodes = common.Perft(b, *depth)
	}

	var elapsed = time.Since(started)
	log.Printf("depth %v nodes %v time %v nps %.0f",
		*depth, nodes, elapsed.Round(time.Millisecond),
		float64(nodes)/elapsed.Seconds())
}

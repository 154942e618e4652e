package common

import (
	"context"
	"testing"
)

// https://www.chessprogramming.org/Perft_Results
var perftTests = []struct {
	fen   string
	nodes []int
}{
	{
		fen:   InitialPositionFen,
		nodes: []int{20, 400, 8902, 197281, 4865609},
	},
	{
		fen:   "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		nodes: []int{48, 2039, 97862, 4085603, 193690690},
	},
	{
		fen:   "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		nodes: []int{14, 191, 2812, 43238, 674624},
	},
	{
		fen:   "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		nodes: []int{6, 264, 9467, 422333, 15833292},
	},
	{
		fen:   "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		nodes: []int{44, 1486, 62379, 2103487, 89941194},
	},
	{
		fen:   "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		nodes: []int{46, 2079, 89890, 3894594, 164075551},
	},
}

func TestPerft(t *testing.T) {
	for _, test := range perftTests {
		var b = mustBoard(t, test.fen)
		for depth, want := range test.nodes {
			if testing.Short() && want > 500000 {
				continue
			}
			var nodes = Perft(b, depth+1)
			if nodes != want {
				t.Errorf("%v depth %v: %v nodes, want %v", test.fen, depth+1, nodes, want)
			}
		}
	}
}

func TestPerftParallel(t *testing.T) {
	var b = mustBoard(t, InitialPositionFen)
	var nodes, err = PerftParallel(context.Background(), b, 4)
	if err != nil {
		t.Fatal(err)
	}
	if nodes != 197281 {
		t.Errorf("parallel perft 4 = %v, want 197281", nodes)
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	var b = mustBoard(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	var total = 0
	var entries = Divide(b, 3)
	if len(entries) != 48 {
		t.Fatalf("%v root moves, want 48", len(entries))
	}
	for _, e := range entries {
		total += e.Nodes
	}
	if total != 97862 {
		t.Errorf("divide sums to %v, want 97862", total)
	}
}

func BenchmarkPerft(b *testing.B) {
	var board, err = NewBoardFromFEN(InitialPositionFen)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Perft(board, 4)
	}
}

package engine

import (
	"context"
	"testing"

	"github.com/dkoval/pinline/common"
)

func search(t *testing.T, fen string, depth int) common.SearchInfo {
	t.Helper()
	var b, err = common.NewBoardFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return NewEngine().Search(context.Background(), common.SearchParams{
		Board:  b,
		Limits: common.LimitsType{Depth: depth},
	})
}

func TestFindsMateInOne(t *testing.T) {
	var si = search(t, "k7/6R1/8/8/8/8/8/K6R w - - 0 1", 3)
	if len(si.MainLine) == 0 || si.MainLine[0].String() != "h1h8" {
		t.Fatalf("main line %v, want h1h8", si.MainLine)
	}
	if si.Score.Mate != 1 {
		t.Errorf("score %+v, want mate 1", si.Score)
	}
}

func TestFindsLadderMateInTwo(t *testing.T) {
	var si = search(t, "7k/8/8/8/8/8/R7/1R5K w - - 0 1", 4)
	if si.Score.Mate != 2 {
		t.Errorf("score %+v, want mate 2", si.Score)
	}
}

func TestPrefersWinningCapture(t *testing.T) {
	var si = search(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", 3)
	if len(si.MainLine) == 0 || si.MainLine[0].String() != "e4d5" {
		t.Errorf("main line %v, want e4d5", si.MainLine)
	}
}

func TestSearchOnTerminalPosition(t *testing.T) {
	// Stalemate: no legal moves, search reports an empty line.
	var si = search(t, "k7/8/1Q6/8/8/8/8/K7 b - - 0 1", 3)
	if len(si.MainLine) != 0 {
		t.Errorf("main line %v on a stalemate", si.MainLine)
	}
}

func TestSearchRespectsCancel(t *testing.T) {
	var b, err = common.NewBoardFromFEN(common.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	var si = NewEngine().Search(ctx, common.SearchParams{
		Board:  b,
		Limits: common.LimitsType{Depth: 30},
	})
	if len(si.MainLine) == 0 {
		t.Error("a cancelled search still reports some legal move")
	}
}

func TestEvaluationSymmetry(t *testing.T) {
	var white, err = common.NewBoardFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var black, err2 = common.NewBoardFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if err2 != nil {
		t.Fatal(err2)
	}
	if evaluate(white) != evaluate(black) {
		t.Error("a mirror-symmetric position must evaluate equally for both sides")
	}
	if v := evaluate(white); v < -valueInfinite || v > valueInfinite {
		t.Error("evaluation out of range")
	}
}

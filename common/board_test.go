package common

import (
	"math/rand"
	"reflect"
	"testing"
)

func mustBoard(t *testing.T, fen string) *Board {
	t.Helper()
	var b, err = NewBoardFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// assertConsistent checks the structural invariants: the incrementally
// maintained snapshot equals a from-scratch one, the square lookup and
// the arenas agree, and each side has exactly one king.
func assertConsistent(t *testing.T, b *Board) {
	t.Helper()
	var fresh = GenerateFullSet(b)
	if !reflect.DeepEqual(fresh, b.bitboards) {
		t.Fatalf("snapshot out of sync after %v in %v", b.LastMove(), b)
	}
	for color := White; color <= Black; color++ {
		var set = &b.pieces[color]
		if set.CountType(King) != 1 {
			t.Fatalf("king count for color %v in %v", color, b)
		}
		for i := 0; i < set.Count(); i++ {
			var p = set.At(i)
			var ref = b.pieceBoard[p.Square]
			if ref == nullRef || ref.color() != color || ref.index() != i {
				t.Fatalf("piece board does not point back at %v in %v", p, b)
			}
		}
	}
	var occupied = 0
	for sq := 0; sq < 64; sq++ {
		if b.pieceBoard[sq] != nullRef {
			occupied++
		}
	}
	if occupied != b.pieces[White].Count()+b.pieces[Black].Count() {
		t.Fatalf("stale piece board entries in %v", b)
	}
}

func assertSameBoard(t *testing.T, want, got *Board, context string) {
	t.Helper()
	if want.String() != got.String() {
		t.Fatalf("%v: fen %v, want %v", context, got, want)
	}
	if !reflect.DeepEqual(want.bitboards, got.bitboards) {
		t.Fatalf("%v: bitboards differ", context)
	}
	if want.halfmove != got.halfmove || want.inCheck != got.inCheck {
		t.Fatalf("%v: halfmove/check differ", context)
	}
	if len(want.history) != len(got.history) || len(want.moves) != len(got.moves) {
		t.Fatalf("%v: stack depth differs", context)
	}
}

func TestFENRoundTrip(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"rnbqkbnr/pppp1ppp/8/4p3/8/5N2/PPPPPPPP/RNBQKB1R w KQkq e6 0 2",
		"4k3/8/8/8/8/8/8/4K3 b - - 13 37",
	}
	for _, fen := range fens {
		var b = mustBoard(t, fen)
		if b.String() != fen {
			t.Errorf("round trip: got %v, want %v", b, fen)
		}
		assertConsistent(t, b)
	}
}

func TestFENRejectsMalformed(t *testing.T) {
	var fens = []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KXkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",
		"rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"nbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	}
	for _, fen := range fens {
		if _, err := NewBoardFromFEN(fen); err == nil {
			t.Errorf("fen %q must not parse", fen)
		}
	}
}

func TestTurnToMove(t *testing.T) {
	var b = mustBoard(t, InitialPositionFen)
	if b.TurnToMove() != White {
		t.Error("white to move in the initial position")
	}
	b.MakeMove(makeMove(SquareE2, SquareE4, FlagDoublePawnPush))
	if b.TurnToMove() != Black {
		t.Error("black to move after 1.e4")
	}
	if b.Halfmoves() != 1 {
		t.Error("halfmove counter")
	}
}

func TestEnPassantTargetLifecycle(t *testing.T) {
	var b = mustBoard(t, InitialPositionFen)
	b.MakeMove(makeMove(SquareE2, SquareE4, FlagDoublePawnPush))
	if b.EpTarget() != SquareE3 {
		t.Errorf("ep target = %v, want e3", SquareName(b.EpTarget()))
	}
	b.MakeMove(makeMove(SquareG8, SquareF6, FlagQuiet))
	if b.EpTarget() != SquareNone {
		t.Error("ep target must clear after the reply")
	}
	b.UnmakeMove()
	if b.EpTarget() != SquareE3 {
		t.Error("unmake must restore the ep target")
	}
	b.UnmakeMove()
	if b.EpTarget() != SquareNone {
		t.Error("unmake must restore the empty ep target")
	}
}

func TestFiftyMoveClock(t *testing.T) {
	var b = mustBoard(t, InitialPositionFen)
	b.MakeMove(makeMove(SquareG1, SquareF3, FlagQuiet))
	if b.Rule50() != 1 {
		t.Error("knight move must increment the clock")
	}
	b.MakeMove(makeMove(SquareG8, SquareF6, FlagQuiet))
	if b.Rule50() != 2 {
		t.Error("clock counts plies of both sides")
	}
	b.MakeMove(makeMove(SquareE2, SquareE4, FlagDoublePawnPush))
	if b.Rule50() != 0 {
		t.Error("pawn move must reset the clock")
	}
	b.UnmakeMove()
	if b.Rule50() != 2 {
		t.Error("unmake must restore the clock")
	}
}

func TestCastlingBoundarySquares(t *testing.T) {
	var tests = []struct {
		fen      string
		move     Move
		kingTo   int
		rookFrom int
		rookTo   int
	}{
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", whiteKingsideCastle, SquareG1, SquareH1, SquareF1},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", whiteQueensideCastle, SquareC1, SquareA1, SquareD1},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", blackKingsideCastle, SquareG8, SquareH8, SquareF8},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", blackQueensideCastle, SquareC8, SquareA8, SquareD8},
	}
	for _, tt := range tests {
		var b = mustBoard(t, tt.fen)
		var us = b.TurnToMove()
		b.MakeMove(tt.move)
		if b.PieceAt(tt.kingTo).Type != King {
			t.Errorf("%v: king not on %v", tt.move, SquareName(tt.kingTo))
		}
		if b.PieceAt(tt.rookTo).Type != Rook {
			t.Errorf("%v: rook not on %v", tt.move, SquareName(tt.rookTo))
		}
		if !b.PieceAt(tt.rookFrom).IsNone() {
			t.Errorf("%v: rook still on %v", tt.move, SquareName(tt.rookFrom))
		}
		if b.Rights(us) != (CastlingRights{}) {
			t.Errorf("%v: rights must be gone", tt.move)
		}
		assertConsistent(t, b)
		b.UnmakeMove()
		if b.String() != tt.fen {
			t.Errorf("%v: unmake got %v", tt.move, b)
		}
		assertConsistent(t, b)
	}
}

func TestCastlingRightsByRookCapture(t *testing.T) {
	var b = mustBoard(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	b.MakeMove(makeMove(SquareA1, SquareA8, FlagCapture))
	if b.Rights(Black).Queenside {
		t.Error("capturing a8 rook must clear black queenside")
	}
	if !b.Rights(Black).Kingside {
		t.Error("black kingside right must survive")
	}
	if b.Rights(White).Queenside {
		t.Error("moving the a1 rook must clear white queenside")
	}
	if !b.Rights(White).Kingside {
		t.Error("white kingside right must survive")
	}
	b.UnmakeMove()
	if b.String() != "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1" {
		t.Errorf("unmake got %v", b)
	}
}

func TestPromotionMigratesPiece(t *testing.T) {
	var b = mustBoard(t, "8/P3k3/8/8/8/8/4K3/8 w - - 0 1")
	b.MakeMove(makeMove(SquareA7, SquareA8, FlagPromotion|3))
	if b.PieceAt(SquareA8).Type != Queen {
		t.Error("promoted piece must be a queen")
	}
	if b.pieces[White].CountType(Pawn) != 0 || b.pieces[White].CountType(Queen) != 1 {
		t.Error("promotion must migrate the pawn between collections")
	}
	assertConsistent(t, b)
	b.UnmakeMove()
	if b.PieceAt(SquareA7).Type != Pawn {
		t.Error("unpromotion must restore the pawn")
	}
	if b.pieces[White].CountType(Queen) != 0 {
		t.Error("unpromotion must remove the queen")
	}
	assertConsistent(t, b)
}

func TestEnPassantUndoRestoresPawn(t *testing.T) {
	var b = mustBoard(t, "8/8/8/2k5/3pP3/8/8/4K3 b - e3 0 1")
	var before = b.String()
	b.MakeMove(makeMove(SquareD4, SquareE3, FlagEnPassant))
	if !b.PieceAt(SquareE4).IsNone() {
		t.Error("en passant must remove the pawn from e4, not e3")
	}
	if b.PieceAt(SquareE3).Type != Pawn || b.PieceAt(SquareE3).Color != Black {
		t.Error("capturing pawn must land on e3")
	}
	assertConsistent(t, b)
	b.UnmakeMove()
	if b.String() != before {
		t.Errorf("unmake got %v, want %v", b, before)
	}
	if b.PieceAt(SquareE4).Type != Pawn || b.PieceAt(SquareE4).Color != White {
		t.Error("captured pawn must return to e4")
	}
	if b.pieces[Black].CountType(Pawn) != 1 {
		t.Error("pawn list must not grow after undoing an en passant")
	}
	assertConsistent(t, b)
}

func TestCloneIsIndependent(t *testing.T) {
	var b = mustBoard(t, InitialPositionFen)
	var c = b.Clone()
	c.MakeMove(makeMove(SquareE2, SquareE4, FlagDoublePawnPush))
	if b.String() != InitialPositionFen {
		t.Error("mutating a clone must not touch the source")
	}
	var d = b.SimulateMove(makeMove(SquareD2, SquareD4, FlagDoublePawnPush))
	if d.TurnToMove() != Black || b.TurnToMove() != White {
		t.Error("SimulateMove must clone before making")
	}
	assertConsistent(t, c)
	assertConsistent(t, d)
}

func TestMakeMoveLAN(t *testing.T) {
	var b = mustBoard(t, InitialPositionFen)
	if !b.MakeMoveLAN("e2e4") {
		t.Fatal("e2e4 must be playable")
	}
	if b.MakeMoveLAN("e2e4") {
		t.Fatal("e2e4 must not be playable twice")
	}
	if !b.MakeMoveLAN("c7c5") {
		t.Fatal("c7c5 must be playable")
	}
	assertConsistent(t, b)
}

// TestMakeUnmakeRandomWalk drives random game lines and asserts, at every
// ply, that each legal move makes and unmakes back to a bit-exact board
// with a consistent snapshot.
func TestMakeUnmakeRandomWalk(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	var rnd = rand.New(rand.NewSource(42))
	for _, fen := range fens {
		var b = mustBoard(t, fen)
		for ply := 0; ply < 60; ply++ {
			assertConsistent(t, b)
			var moves = GenerateLegalMoves(b)
			if len(moves) == 0 {
				break
			}
			var reference = b.Clone()
			for _, move := range moves {
				b.MakeMove(move)
				assertConsistent(t, b)
				b.UnmakeMove()
				assertSameBoard(t, reference, b, fen+" after "+move.String())
			}
			b.MakeMove(moves[rnd.Intn(len(moves))])
		}
	}
}

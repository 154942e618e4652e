package common

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Board owns the piece arenas, the square lookup, the bitboard snapshot
// and the undo stack. Move generation reads it; MakeMove/UnmakeMove
// mutate it in place and keep the snapshot consistent.
type Board struct {
	pieces     [2]PieceSet
	pieceBoard [64]pieceRef
	bitboards  FullSet
	halfmove   int
	rule50     int
	epTarget   int
	rights     [2]CastlingRights
	history    []irreversibleState
	moves      []Move
	inCheck    bool
}

// irreversibleState is the part of the board a move does not undo by
// itself: rights, clocks, the en-passant target and the captured piece.
// For en passant the captured pawn's square is the square it stood on,
// not the move's to-square.
type irreversibleState struct {
	rights   [2]CastlingRights
	rule50   int
	epTarget int
	captured Piece
}

func (b *Board) TurnToMove() int {
	return b.halfmove & 1
}

func (b *Board) IsInCheck() bool {
	return b.inCheck
}

func (b *Board) Bitboards() *FullSet {
	return &b.bitboards
}

func (b *Board) Pieces(color int) *PieceSet {
	return &b.pieces[color]
}

func (b *Board) Halfmoves() int {
	return b.halfmove
}

func (b *Board) Rule50() int {
	return b.rule50
}

func (b *Board) EpTarget() int {
	return b.epTarget
}

func (b *Board) Rights(color int) CastlingRights {
	return b.rights[color]
}

func (b *Board) LastMove() Move {
	if len(b.moves) == 0 {
		return MoveEmpty
	}
	return b.moves[len(b.moves)-1]
}

func (b *Board) PieceAt(sq int) Piece {
	var ref = b.pieceBoard[sq]
	if ref == nullRef {
		return Piece{}
	}
	return *b.pieces[ref.color()].At(ref.index())
}

// addPiece appends a piece to its arena and registers it on the square
// lookup and the occupancy bitboards. Visible and threats are not
// touched; callers refresh them once all pieces are in place.
func (b *Board) addPiece(p Piece) {
	var index = b.pieces[p.Color].add(p)
	b.pieceBoard[p.Square] = makeRef(p.Color, index)
	var bb = &b.bitboards[p.Color].Pieces
	*bb.byType(p.Type) |= SquareMask[p.Square]
	bb.AllPieces |= SquareMask[p.Square]
}

func (b *Board) removePiece(color, sq int) {
	var ref = b.pieceBoard[sq]
	var set = &b.pieces[color]
	var p = set.At(ref.index())
	if p.Type == King {
		panic(fmt.Errorf("king cannot be captured on %v", SquareName(sq)))
	}
	var bb = &b.bitboards[color].Pieces
	*bb.byType(p.Type) &^= SquareMask[sq]
	bb.AllPieces &^= SquareMask[sq]
	b.pieceBoard[sq] = nullRef
	if set.removeAt(ref.index()) {
		var moved = set.At(ref.index())
		b.pieceBoard[moved.Square] = makeRef(color, ref.index())
	}
}

func (b *Board) movePiece(color, from, to int) {
	var ref = b.pieceBoard[from]
	var p = b.pieces[color].At(ref.index())
	var bb = &b.bitboards[color].Pieces
	var mask = SquareMask[from] ^ SquareMask[to]
	*bb.byType(p.Type) ^= mask
	bb.AllPieces ^= mask
	p.Square = to
	b.pieceBoard[to] = ref
	b.pieceBoard[from] = nullRef
}

func rookStartSquare(color int, kingside bool) int {
	if color == White {
		return let(kingside, SquareH1, SquareA1)
	}
	return let(kingside, SquareH8, SquareA8)
}

// castleRookSquares gives the rook relocation for a castle: the rook
// jumps to the square the king crossed.
func castleRookSquares(color int, kingside bool) (from, to int) {
	if kingside {
		return rookStartSquare(color, true), let(color == White, SquareF1, SquareF8)
	}
	return rookStartSquare(color, false), let(color == White, SquareD1, SquareD8)
}

func (b *Board) updateCastlingRights(us, them, movingType, from int, captured Piece) {
	if movingType == King {
		b.rights[us] = CastlingRights{}
	} else if movingType == Rook {
		if from == rookStartSquare(us, false) {
			b.rights[us].Queenside = false
		} else if from == rookStartSquare(us, true) {
			b.rights[us].Kingside = false
		}
	}
	if captured.Type == Rook {
		if captured.Square == rookStartSquare(them, false) {
			b.rights[them].Queenside = false
		} else if captured.Square == rookStartSquare(them, true) {
			b.rights[them].Kingside = false
		}
	}
}

// refreshDerived recomputes both sides' visibility and threat lines from
// the current occupancy and re-derives the check flag for the side to
// move.
func (b *Board) refreshDerived() {
	b.bitboards[White].Pieces.Visible = generateVisibility(&b.bitboards, White)
	b.bitboards[Black].Pieces.Visible = generateVisibility(&b.bitboards, Black)
	b.bitboards[White].Threats = generateThreats(&b.bitboards, White)
	b.bitboards[Black].Threats = generateThreats(&b.bitboards, Black)
	var us = b.TurnToMove()
	b.inCheck = b.bitboards[us].Pieces.Kings&b.bitboards[OtherColor(us)].Pieces.Visible != 0
}

// MakeMove applies a move obtained from GenerateMoves for this exact
// board state. Passing any other move is outside the contract and is not
// defensively checked.
func (b *Board) MakeMove(m Move) {
	var us = b.TurnToMove()
	var them = OtherColor(us)
	var from, to, flags = m.From(), m.To(), m.Flags()

	var movingRef = b.pieceBoard[from]
	if movingRef == nullRef {
		panic(fmt.Errorf("no piece to move on %v", SquareName(from)))
	}
	var moving = b.pieces[us].At(movingRef.index())
	var movingType = moving.Type

	var capSq = to
	if flags == FlagEnPassant {
		capSq = to - pawnForward(us)
	}

	var st = irreversibleState{rights: b.rights, rule50: b.rule50, epTarget: b.epTarget}
	if m.IsCapture() {
		var capRef = b.pieceBoard[capSq]
		st.captured = *b.pieces[them].At(capRef.index())
	}

	b.updateCastlingRights(us, them, movingType, from, st.captured)

	b.epTarget = SquareNone
	switch {
	case flags == FlagDoublePawnPush:
		b.epTarget = (from + to) / 2
	case m.IsCastle():
		var rookFrom, rookTo = castleRookSquares(us, flags == FlagKingsideCastle)
		b.movePiece(us, rookFrom, rookTo)
	case m.IsPromotion():
		var bb = &b.bitboards[us].Pieces
		bb.Pawns &^= SquareMask[from]
		*bb.byType(m.Promotion()) |= SquareMask[from]
		moving.Type = m.Promotion()
	}

	if m.IsCapture() {
		b.removePiece(them, capSq)
	}
	b.movePiece(us, from, to)

	b.moves = append(b.moves, m)
	b.history = append(b.history, st)
	b.halfmove++
	if m.IsCapture() || m.IsPromotion() || movingType == Pawn {
		b.rule50 = 0
	} else {
		b.rule50++
	}

	b.refreshDerived()
}

// UnmakeMove reverses the last MakeMove and restores the board bit-exact,
// including the snapshot and the irreversible fields.
func (b *Board) UnmakeMove() {
	var n = len(b.history) - 1
	var st = b.history[n]
	b.history = b.history[:n]
	var m = b.moves[len(b.moves)-1]
	b.moves = b.moves[:len(b.moves)-1]

	b.halfmove--
	var us = b.TurnToMove()
	b.rights = st.rights
	b.rule50 = st.rule50
	b.epTarget = st.epTarget

	b.movePiece(us, m.To(), m.From())

	if m.IsPromotion() {
		var ref = b.pieceBoard[m.From()]
		var p = b.pieces[us].At(ref.index())
		var bb = &b.bitboards[us].Pieces
		*bb.byType(p.Type) &^= SquareMask[m.From()]
		bb.Pawns |= SquareMask[m.From()]
		p.Type = Pawn
	}
	if !st.captured.IsNone() {
		b.addPiece(st.captured)
	}
	if m.IsCastle() {
		var rookFrom, rookTo = castleRookSquares(us, m.Flags() == FlagKingsideCastle)
		b.movePiece(us, rookTo, rookFrom)
	}

	b.refreshDerived()
}

// Clone deep-copies the board. The arenas and the square lookup are plain
// values, so a clone is independent and safe to mutate from another
// goroutine.
func (b *Board) Clone() *Board {
	var c = *b
	c.history = append([]irreversibleState(nil), b.history...)
	c.moves = append([]Move(nil), b.moves...)
	for color := White; color <= Black; color++ {
		c.bitboards[color].Threats.Checks.Boards =
			append(make([]uint64, 0, 16), b.bitboards[color].Threats.Checks.Boards...)
		c.bitboards[color].Threats.Pins.Boards =
			append(make([]uint64, 0, 8), b.bitboards[color].Threats.Pins.Boards...)
	}
	return &c
}

func (b *Board) SimulateMove(m Move) *Board {
	var c = b.Clone()
	c.MakeMove(m)
	return c
}

// MakeMoveLAN plays a move given in long algebraic notation ("e2e4",
// "e7e8q") if it is legal in the current position.
func (b *Board) MakeMoveLAN(lan string) bool {
	var buffer [MaxMoves]Move
	for _, mv := range GenerateMoves(buffer[:0], b) {
		if strings.EqualFold(mv.String(), lan) {
			b.MakeMove(mv)
			return true
		}
	}
	return false
}

func parsePieceChar(ch rune) (pieceType, color int, ok bool) {
	var i = strings.Index("pnbrqk", string(unicode.ToLower(ch)))
	if i < 0 {
		return Empty, White, false
	}
	return i + Pawn, let(unicode.IsUpper(ch), White, Black), true
}

// NewBoardFromFEN parses the six standard FEN fields. Any malformed or
// missing field is an error.
func NewBoardFromFEN(fen string) (*Board, error) {
	var tokens = strings.Split(fen, " ")
	if len(tokens) != 6 {
		return nil, fmt.Errorf("parse fen failed %v", fen)
	}

	var b = &Board{
		epTarget: SquareNone,
		history:  make([]irreversibleState, 0, 64),
		moves:    make([]Move, 0, 64),
	}
	for sq := range b.pieceBoard {
		b.pieceBoard[sq] = nullRef
	}

	var i = 0
	for _, ch := range tokens[0] {
		if unicode.IsDigit(ch) {
			i += int(ch - '0')
		} else if unicode.IsLetter(ch) {
			var pieceType, color, ok = parsePieceChar(ch)
			if !ok || i >= 64 || b.pieces[color].Count() == 16 {
				return nil, fmt.Errorf("parse fen failed %v", fen)
			}
			b.addPiece(Piece{Type: pieceType, Color: color, Square: FlipSquare(i)})
			i++
		} else if ch != '/' {
			return nil, fmt.Errorf("parse fen failed %v", fen)
		}
	}
	if i != 64 ||
		PopCount(b.bitboards[White].Pieces.Kings) != 1 ||
		PopCount(b.bitboards[Black].Pieces.Kings) != 1 {
		return nil, fmt.Errorf("parse fen failed %v", fen)
	}

	var sideOffset int
	switch tokens[1] {
	case "w":
		sideOffset = 0
	case "b":
		sideOffset = 1
	default:
		return nil, fmt.Errorf("parse fen failed %v", fen)
	}

	if tokens[2] != "-" {
		for _, ch := range tokens[2] {
			switch ch {
			case 'K':
				b.rights[White].Kingside = true
			case 'Q':
				b.rights[White].Queenside = true
			case 'k':
				b.rights[Black].Kingside = true
			case 'q':
				b.rights[Black].Queenside = true
			default:
				return nil, fmt.Errorf("parse fen failed %v", fen)
			}
		}
	}

	if tokens[3] != "-" {
		b.epTarget = ParseSquare(tokens[3])
		if b.epTarget == SquareNone {
			return nil, fmt.Errorf("parse fen failed %v", fen)
		}
	}

	var rule50, err = strconv.Atoi(tokens[4])
	if err != nil || rule50 < 0 {
		return nil, fmt.Errorf("parse fen failed %v", fen)
	}
	b.rule50 = rule50

	fullmove, err := strconv.Atoi(tokens[5])
	if err != nil || fullmove < 1 {
		return nil, fmt.Errorf("parse fen failed %v", fen)
	}
	b.halfmove = (fullmove-1)*2 + sideOffset

	b.bitboards = GenerateFullSet(b)
	var us = b.TurnToMove()
	b.inCheck = b.bitboards[us].Pieces.Kings&b.bitboards[OtherColor(us)].Pieces.Visible != 0
	return b, nil
}

// String emits the position as a FEN string that reparses to the same
// board.
func (b *Board) String() string {
	var sb bytes.Buffer

	var emptyCount = 0
	for i := 0; i < 64; i++ {
		var sq = FlipSquare(i)
		var piece = b.PieceAt(sq)
		if piece.IsNone() {
			emptyCount++
		} else {
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			sb.WriteString(piece.String())
		}
		if File(sq) == FileH {
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			if Rank(sq) != Rank1 {
				sb.WriteString("/")
			}
		}
	}
	sb.WriteString(" ")

	if b.TurnToMove() == White {
		sb.WriteString("w")
	} else {
		sb.WriteString("b")
	}
	sb.WriteString(" ")

	if b.rights[White] == (CastlingRights{}) && b.rights[Black] == (CastlingRights{}) {
		sb.WriteString("-")
	} else {
		if b.rights[White].Kingside {
			sb.WriteString("K")
		}
		if b.rights[White].Queenside {
			sb.WriteString("Q")
		}
		if b.rights[Black].Kingside {
			sb.WriteString("k")
		}
		if b.rights[Black].Queenside {
			sb.WriteString("q")
		}
	}
	sb.WriteString(" ")

	if b.epTarget == SquareNone {
		sb.WriteString("-")
	} else {
		sb.WriteString(SquareName(b.epTarget))
	}
	sb.WriteString(" ")

	sb.WriteString(strconv.Itoa(b.rule50))
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(b.halfmove/2 + 1))

	return sb.String()
}

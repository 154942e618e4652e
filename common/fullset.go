package common

import "fmt"

// PieceBoards is one side's occupancy snapshot. Visible is the union of
// squares the side attacks, computed with the enemy king removed from the
// blocker set so that king retreats along a checking ray stay forbidden.
type PieceBoards struct {
	Pawns     uint64
	Knights   uint64
	Bishops   uint64
	Rooks     uint64
	Queens    uint64
	Kings     uint64
	AllPieces uint64
	Visible   uint64
}

func (pb *PieceBoards) byType(pieceType int) *uint64 {
	switch pieceType {
	case Pawn:
		return &pb.Pawns
	case Knight:
		return &pb.Knights
	case Bishop:
		return &pb.Bishops
	case Rook:
		return &pb.Rooks
	case Queen:
		return &pb.Queens
	case King:
		return &pb.Kings
	}
	panic(fmt.Errorf("no bitboard for piece type %v", pieceType))
}

func (pb *PieceBoards) calculateCombined() {
	pb.AllPieces = pb.Pawns | pb.Knights | pb.Bishops | pb.Rooks | pb.Queens | pb.Kings
}

// ThreatList is a list of threat lines with their precomputed union.
type ThreatList struct {
	Boards   []uint64
	Combined uint64
}

func (l *ThreatList) calculateCombined() {
	l.Combined = 0
	for _, b := range l.Boards {
		l.Combined |= b
	}
}

// ThreatBoards describes the attacks against one side's own king: one
// entry per checker in Checks (a slider entry holds the checker plus the
// squares a block may land on, a knight or pawn entry is the checker's
// square alone), one entry per absolute pin in Pins (the full line from
// the pinning slider through the pinned piece up to the king).
type ThreatBoards struct {
	Checks ThreatList
	Pins   ThreatList
}

// A king can be attacked from at most 16 sides at once: the 8 ray
// directions and the 8 knight jumps. Only the 8 rays can pin.
func newThreatBoards() ThreatBoards {
	return ThreatBoards{
		Checks: ThreatList{Boards: make([]uint64, 0, 16)},
		Pins:   ThreatList{Boards: make([]uint64, 0, 8)},
	}
}

type SingleSet struct {
	Pieces  PieceBoards
	Threats ThreatBoards
}

// FullSet is the complete bitboard snapshot, indexed by color.
type FullSet [2]SingleSet

// GenerateFullSet rebuilds the snapshot from the piece arenas. MakeMove
// and UnmakeMove maintain the same state incrementally; tests assert both
// paths agree.
func GenerateFullSet(b *Board) FullSet {
	var set FullSet
	set[White].Pieces = generatePieceBoards(&b.pieces[White])
	set[Black].Pieces = generatePieceBoards(&b.pieces[Black])

	set[White].Pieces.Visible = generateVisibility(&set, White)
	set[Black].Pieces.Visible = generateVisibility(&set, Black)

	set[White].Threats = generateThreats(&set, White)
	set[Black].Threats = generateThreats(&set, Black)

	return set
}

func generatePieceBoards(pieces *PieceSet) PieceBoards {
	var result PieceBoards
	for i := 0; i < pieces.Count(); i++ {
		var p = pieces.At(i)
		*result.byType(p.Type) |= SquareMask[p.Square]
	}
	result.calculateCombined()
	return result
}

// slideVisibility walks the rays dirFrom..dirTo from a square, stopping
// each ray on the first blocker (the blocker's square stays visible).
func slideVisibility(from, dirFrom, dirTo int, breakBoard uint64) uint64 {
	var result uint64
	for dir := dirFrom; dir <= dirTo; dir++ {
		var to = from
		for steps := edgeDistance[from][dir]; steps > 0; steps-- {
			to += directionOffsets[dir]
			result |= SquareMask[to]
			if breakBoard&SquareMask[to] != 0 {
				break
			}
		}
	}
	return result
}

// generateVisibility computes the squares a side attacks. The enemy king
// is excluded from the blocker set, so sliders see through it.
func generateVisibility(set *FullSet, color int) uint64 {
	var own = &set[color].Pieces
	var enemy = &set[OtherColor(color)].Pieces
	var breakBoard = (own.AllPieces | enemy.AllPieces) &^ enemy.Kings

	var visible = KingAttacks[FirstOne(own.Kings)]
	if color == White {
		visible |= AllWhitePawnAttacks(own.Pawns)
	} else {
		visible |= AllBlackPawnAttacks(own.Pawns)
	}
	for x := own.Knights; x != 0; x &= x - 1 {
		visible |= KnightAttacks[FirstOne(x)]
	}
	for x := own.Rooks | own.Queens; x != 0; x &= x - 1 {
		visible |= slideVisibility(FirstOne(x), DirUp, DirRight, breakBoard)
	}
	for x := own.Bishops | own.Queens; x != 0; x &= x - 1 {
		visible |= slideVisibility(FirstOne(x), DirUpLeft, DirDownRight, breakBoard)
	}
	return visible
}

// threatLine walks one ray from an attacker towards the defending king.
// ok reports that the ray reached the king; isCheck distinguishes a check
// line (no piece in the way) from a pin line (exactly one defending piece
// in the way, included in the line). A second intervening piece, or any
// piece of the attacker's own side, kills the threat.
func threatLine(from, kingSq, dir, maxSteps int, allPieces, attackerPieces uint64) (line uint64, isCheck, ok bool) {
	line = SquareMask[from]
	isCheck = true
	var to = from
	for i := 0; i < maxSteps; i++ {
		to += directionOffsets[dir]
		if to == kingSq {
			return line, isCheck, true
		}
		if attackerPieces&SquareMask[to] != 0 {
			return 0, false, false
		}
		if allPieces&SquareMask[to] != 0 {
			if !isCheck {
				return 0, false, false
			}
			isCheck = false
		}
		line |= SquareMask[to]
	}
	return 0, false, false
}

func appendThreatLines(threats *ThreatBoards, from, kingSq, dirFrom, dirTo int, allPieces, attackerPieces uint64) {
	for dir := dirFrom; dir <= dirTo; dir++ {
		var steps = edgeDistance[from][dir]
		if steps == 0 {
			continue
		}
		var line, isCheck, ok = threatLine(from, kingSq, dir, steps, allPieces, attackerPieces)
		if !ok {
			continue
		}
		if isCheck {
			threats.Checks.Boards = append(threats.Checks.Boards, line)
		} else {
			threats.Pins.Boards = append(threats.Pins.Boards, line)
		}
	}
}

// generateThreats computes the checks and pins against color's own king.
func generateThreats(set *FullSet, color int) ThreatBoards {
	var threats = newThreatBoards()
	var them = OtherColor(color)
	var attackers = &set[them].Pieces
	var defenders = &set[color].Pieces
	var allPieces = attackers.AllPieces | defenders.AllPieces
	var kingSq = FirstOne(defenders.Kings)

	for x := attackers.Rooks | attackers.Queens; x != 0; x &= x - 1 {
		appendThreatLines(&threats, FirstOne(x), kingSq, DirUp, DirRight, allPieces, attackers.AllPieces)
	}
	for x := attackers.Bishops | attackers.Queens; x != 0; x &= x - 1 {
		appendThreatLines(&threats, FirstOne(x), kingSq, DirUpLeft, DirDownRight, allPieces, attackers.AllPieces)
	}
	for x := attackers.Knights; x != 0; x &= x - 1 {
		var from = FirstOne(x)
		if KnightAttacks[from]&defenders.Kings != 0 {
			threats.Checks.Boards = append(threats.Checks.Boards, SquareMask[from])
		}
	}
	for x := attackers.Pawns; x != 0; x &= x - 1 {
		var from = FirstOne(x)
		if pawnAttacks[them][from]&defenders.Kings != 0 {
			threats.Checks.Boards = append(threats.Checks.Boards, SquareMask[from])
		}
	}

	threats.Checks.calculateCombined()
	threats.Pins.calculateCombined()
	return threats
}

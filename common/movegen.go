package common

const (
	f1g1Mask = (uint64(1) << SquareF1) | (uint64(1) << SquareG1)
	c1d1Mask = (uint64(1) << SquareC1) | (uint64(1) << SquareD1)
	b1d1Mask = (uint64(1) << SquareB1) | c1d1Mask
	f8g8Mask = (uint64(1) << SquareF8) | (uint64(1) << SquareG8)
	c8d8Mask = (uint64(1) << SquareC8) | (uint64(1) << SquareD8)
	b8d8Mask = (uint64(1) << SquareB8) | c8d8Mask
)

// pinLineFor returns the pin line a square lies on, if any. A square
// appears in at most one pin entry.
func pinLineFor(sq int, pins *ThreatList) (uint64, bool) {
	if pins.Combined&SquareMask[sq] == 0 {
		return 0, false
	}
	for _, line := range pins.Boards {
		if line&SquareMask[sq] != 0 {
			return line, true
		}
	}
	return 0, false
}

// destinationMask is the legality mask for a non-king piece: its pin line
// when pinned, the combined check line when in check, everything
// otherwise. A piece that is pinned while its side is in check cannot
// move at all.
func destinationMask(sq int, threats *ThreatBoards) (uint64, bool) {
	if line, pinned := pinLineFor(sq, &threats.Pins); pinned {
		if threats.Checks.Combined != 0 {
			return 0, false
		}
		return line, true
	}
	if threats.Checks.Combined != 0 {
		return threats.Checks.Combined, true
	}
	return ^uint64(0), true
}

func appendPromotions(ml []Move, from, to int, capture bool) []Move {
	var base = FlagPromotion | let(capture, FlagCapture, 0)
	for pieceType := Knight; pieceType <= Queen; pieceType++ {
		ml = append(ml, makeMove(from, to, base|(pieceType-Knight)))
	}
	return ml
}

// isEnPassantDiscovered reports whether capturing en passant would expose
// a horizontal check: both pawns leave the rank at once, so a rook or
// queen behind them can land a discovered check that no pin line
// describes. Any third piece left on the stretch between king and slider
// defuses it.
func isEnPassantDiscovered(b *Board, pawnSq, epSq, us int) bool {
	var them = OtherColor(us)
	var own = &b.bitboards[us].Pieces
	var enemy = &b.bitboards[them].Pieces

	var rankMask = RankMask[Rank(pawnSq)]
	var kingOnRank = own.Kings & rankMask
	if kingOnRank == 0 {
		return false
	}
	var kingSq = FirstOne(kingOnRank)
	var capturedSq = MakeSquare(File(epSq), Rank(pawnSq))

	var sliders = (enemy.Rooks | enemy.Queens) & rankMask
	var sliderSq int
	if File(kingSq) < File(pawnSq) {
		sliders &= ^uint64(0) << uint(pawnSq+1)
		if sliders == 0 {
			return false
		}
		sliderSq = FirstOne(sliders)
	} else {
		sliders &= SquareMask[pawnSq] - 1
		if sliders == 0 {
			return false
		}
		sliderSq = LastOne(sliders)
	}

	var occ = (own.AllPieces | enemy.AllPieces) &^ SquareMask[pawnSq] &^ SquareMask[capturedSq]
	return betweenOnRank(kingSq, sliderSq)&occ == 0
}

func generatePawnMoves(ml []Move, b *Board, from, us int) []Move {
	var them = OtherColor(us)
	var own = &b.bitboards[us]
	var enemyAll = b.bitboards[them].Pieces.AllPieces
	var allPieces = own.Pieces.AllPieces | enemyAll
	var checksCombined = own.Threats.Checks.Combined
	var promotionRank = let(us == White, Rank8, Rank1)

	var pinLine, pinned = pinLineFor(from, &own.Threats.Pins)
	if pinned && checksCombined != 0 {
		return ml
	}

	var caps = pawnAttacks[us][from]
	var targets = caps & enemyAll
	var epOK = b.epTarget != SquareNone &&
		caps&SquareMask[b.epTarget] != 0 &&
		!isEnPassantDiscovered(b, from, b.epTarget, us)
	if pinned {
		targets &= pinLine
		epOK = epOK && pinLine&SquareMask[b.epTarget] != 0
	} else if checksCombined != 0 {
		targets &= checksCombined
		// The en-passant landing square is never the checker's square, so
		// allow the capture when it takes the checking double-pushed pawn
		// or blocks the check line.
		epOK = epOK &&
			(checksCombined&SquareMask[b.epTarget-pawnForward(us)] != 0 ||
				checksCombined&SquareMask[b.epTarget] != 0)
	}

	for x := targets; x != 0; x &= x - 1 {
		var to = FirstOne(x)
		if Rank(to) == promotionRank {
			ml = appendPromotions(ml, from, to, true)
		} else {
			ml = append(ml, makeMove(from, to, FlagCapture))
		}
	}
	if epOK {
		ml = append(ml, makeMove(from, b.epTarget, FlagEnPassant))
	}

	var single, double = PawnPushTargets(from, us)
	single &^= allPieces
	if single == 0 {
		double = 0
	} else {
		double &^= allPieces
	}
	if pinned {
		single &= pinLine
		double &= pinLine
	} else if checksCombined != 0 {
		single &= checksCombined
		double &= checksCombined
	}
	if single != 0 {
		var to = FirstOne(single)
		if Rank(to) == promotionRank {
			ml = appendPromotions(ml, from, to, false)
		} else {
			ml = append(ml, makeMove(from, to, FlagQuiet))
		}
	}
	if double != 0 {
		ml = append(ml, makeMove(from, FirstOne(double), FlagDoublePawnPush))
	}
	return ml
}

func generateSlidingMoves(ml []Move, from, dirFrom, dirTo int, allowed, ownAll, enemyAll uint64) []Move {
	for dir := dirFrom; dir <= dirTo; dir++ {
		var to = from
		for steps := edgeDistance[from][dir]; steps > 0; steps-- {
			to += directionOffsets[dir]
			var toMask = SquareMask[to]
			if ownAll&toMask != 0 {
				break
			}
			if enemyAll&toMask != 0 {
				if allowed&toMask != 0 {
					ml = append(ml, makeMove(from, to, FlagCapture))
				}
				break
			}
			// An empty square outside the mask is still travelled
			// through: a blocking square can lie further down the ray.
			if allowed&toMask != 0 {
				ml = append(ml, makeMove(from, to, FlagQuiet))
			}
		}
	}
	return ml
}

func generateKingMoves(ml []Move, b *Board, us int) []Move {
	var them = OtherColor(us)
	var own = &b.bitboards[us]
	var enemy = &b.bitboards[them]
	var ownAll = own.Pieces.AllPieces
	var enemyAll = enemy.Pieces.AllPieces
	var allPieces = ownAll | enemyAll

	var from = FirstOne(own.Pieces.Kings)
	for x := KingAttacks[from] &^ ownAll &^ enemy.Pieces.Visible; x != 0; x &= x - 1 {
		var to = FirstOne(x)
		ml = append(ml, makeMove(from, to, let(enemyAll&SquareMask[to] != 0, FlagCapture, FlagQuiet)))
	}

	if b.inCheck {
		return ml
	}
	if us == White {
		if b.rights[White].Kingside &&
			allPieces&f1g1Mask == 0 && enemy.Pieces.Visible&f1g1Mask == 0 {
			ml = append(ml, whiteKingsideCastle)
		}
		if b.rights[White].Queenside &&
			allPieces&b1d1Mask == 0 && enemy.Pieces.Visible&c1d1Mask == 0 {
			ml = append(ml, whiteQueensideCastle)
		}
	} else {
		if b.rights[Black].Kingside &&
			allPieces&f8g8Mask == 0 && enemy.Pieces.Visible&f8g8Mask == 0 {
			ml = append(ml, blackKingsideCastle)
		}
		if b.rights[Black].Queenside &&
			allPieces&b8d8Mask == 0 && enemy.Pieces.Visible&c8d8Mask == 0 {
			ml = append(ml, blackQueensideCastle)
		}
	}
	return ml
}

// GenerateMoves appends exactly the legal moves for the side to move to
// ml and returns the extended slice. The board is read, never mutated; no
// post-filtering is needed by the caller.
func GenerateMoves(ml []Move, b *Board) []Move {
	var us = b.TurnToMove()
	var them = OtherColor(us)
	var own = &b.bitboards[us]
	var ownAll = own.Pieces.AllPieces
	var enemyAll = b.bitboards[them].Pieces.AllPieces

	ml = generateKingMoves(ml, b, us)
	if len(own.Threats.Checks.Boards) > 1 {
		// Double check: only the king moves.
		return ml
	}

	for x := own.Pieces.Queens; x != 0; x &= x - 1 {
		var from = FirstOne(x)
		if allowed, ok := destinationMask(from, &own.Threats); ok {
			ml = generateSlidingMoves(ml, from, DirUp, DirDownRight, allowed, ownAll, enemyAll)
		}
	}
	for x := own.Pieces.Rooks; x != 0; x &= x - 1 {
		var from = FirstOne(x)
		if allowed, ok := destinationMask(from, &own.Threats); ok {
			ml = generateSlidingMoves(ml, from, DirUp, DirRight, allowed, ownAll, enemyAll)
		}
	}
	for x := own.Pieces.Bishops; x != 0; x &= x - 1 {
		var from = FirstOne(x)
		if allowed, ok := destinationMask(from, &own.Threats); ok {
			ml = generateSlidingMoves(ml, from, DirUpLeft, DirDownRight, allowed, ownAll, enemyAll)
		}
	}
	for x := own.Pieces.Knights; x != 0; x &= x - 1 {
		var from = FirstOne(x)
		var allowed, ok = destinationMask(from, &own.Threats)
		if !ok {
			continue
		}
		for t := KnightAttacks[from] &^ ownAll & allowed; t != 0; t &= t - 1 {
			var to = FirstOne(t)
			ml = append(ml, makeMove(from, to, let(enemyAll&SquareMask[to] != 0, FlagCapture, FlagQuiet)))
		}
	}
	for x := own.Pieces.Pawns; x != 0; x &= x - 1 {
		ml = generatePawnMoves(ml, b, FirstOne(x), us)
	}
	return ml
}

// GenerateLegalMoves is the allocating convenience form of GenerateMoves.
func GenerateLegalMoves(b *Board) []Move {
	return GenerateMoves(make([]Move, 0, MaxMoves), b)
}

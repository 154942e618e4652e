package engine

import (
	"github.com/dkoval/pinline/common"
)

// Material values in centipawns, interpolated between a midgame and an
// endgame phase weighted by the remaining non-pawn material
// (knight=1, bishop=1, rook=2, queen=4, capped at 16; a full board sums
// to 24).
var materialMidgame = [common.King + 1]int{0, 100, 320, 330, 500, 900, 0}
var materialEndgame = [common.King + 1]int{0, 120, 300, 320, 520, 920, 0}

const maxPhase = 16

func phase(pieces *common.FullSet) int {
	var white = &pieces[common.White].Pieces
	var black = &pieces[common.Black].Pieces
	var result = common.PopCount(white.Knights|black.Knights) +
		common.PopCount(white.Bishops|black.Bishops) +
		2*common.PopCount(white.Rooks|black.Rooks) +
		4*common.PopCount(white.Queens|black.Queens)
	return common.Min(result, maxPhase)
}

func materialOf(pb *common.PieceBoards, values *[common.King + 1]int) int {
	return common.PopCount(pb.Pawns)*values[common.Pawn] +
		common.PopCount(pb.Knights)*values[common.Knight] +
		common.PopCount(pb.Bishops)*values[common.Bishop] +
		common.PopCount(pb.Rooks)*values[common.Rook] +
		common.PopCount(pb.Queens)*values[common.Queen]
}

// evaluate scores the position from the side to move's perspective, the
// sign convention negamax expects. The result always stays well inside
// (-valueInfinite, valueInfinite).
func evaluate(b *common.Board) int {
	var set = b.Bitboards()
	var white = &set[common.White].Pieces
	var black = &set[common.Black].Pieces

	var mg = materialOf(white, &materialMidgame) - materialOf(black, &materialMidgame)
	var eg = materialOf(white, &materialEndgame) - materialOf(black, &materialEndgame)

	// Small mobility term keeps the play out of shuffling lines.
	mg += 2 * (common.PopCount(white.Visible) - common.PopCount(black.Visible))
	eg += 2 * (common.PopCount(white.Visible) - common.PopCount(black.Visible))

	var p = phase(set)
	var score = (mg*p + eg*(maxPhase-p)) / maxPhase

	if b.TurnToMove() == common.Black {
		score = -score
	}
	return score
}

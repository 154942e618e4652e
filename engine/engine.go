package engine

import (
	"context"
	"time"

	"github.com/dkoval/pinline/common"
)

const (
	valueInfinite = 30000
	valueMate     = 29000
	maxHeight     = 64
)

var searchTimeout = new(struct{})

// Engine is the iterative-deepening negamax driver on top of the rules
// core. It owns no shared state between searches beyond counters, and it
// searches a clone of the caller's board.
type Engine struct {
	nodes    int64
	started  time.Time
	deadline time.Time
	ctx      context.Context
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Prepare() {}

func (e *Engine) Clear() {}

func (e *Engine) Search(ctx context.Context, params common.SearchParams) (result common.SearchInfo) {
	var b = params.Board.Clone()
	e.ctx = ctx
	e.nodes = 0
	e.started = time.Now()
	e.deadline = computeDeadline(e.started, params.Limits, b.TurnToMove())

	var maxDepth = params.Limits.Depth
	if maxDepth <= 0 || maxDepth > maxHeight {
		maxDepth = maxHeight
	}

	var rootMoves = common.GenerateLegalMoves(b)
	if len(rootMoves) == 0 {
		return result
	}
	result.MainLine = []common.Move{rootMoves[0]}

	defer func() {
		var r = recover()
		if r != nil && r != searchTimeout {
			panic(r)
		}
	}()

	for depth := 1; depth <= maxDepth; depth++ {
		var score, move = e.searchRoot(b, rootMoves, depth)
		result = common.SearchInfo{
			Score:    scoreToUci(score),
			Depth:    depth,
			Nodes:    e.nodes,
			Time:     time.Since(e.started).Milliseconds(),
			MainLine: []common.Move{move},
		}
		if params.Progress != nil {
			params.Progress(result)
		}
		if score >= valueMate-maxHeight || score <= -(valueMate-maxHeight) {
			break
		}
		if e.timeIsUp() {
			break
		}
	}
	return result
}

func (e *Engine) searchRoot(b *common.Board, rootMoves []common.Move, depth int) (int, common.Move) {
	// The initial best is a finite sentinel: negating a child score can
	// never overflow it.
	var alpha = -valueInfinite
	var bestMove = rootMoves[0]
	for _, move := range rootMoves {
		b.MakeMove(move)
		var score = -e.negamax(b, depth-1, -valueInfinite, -alpha, 1)
		b.UnmakeMove()
		if score > alpha {
			alpha = score
			bestMove = move
		}
	}
	return alpha, bestMove
}

func (e *Engine) negamax(b *common.Board, depth, alpha, beta, height int) int {
	e.nodes++
	if e.nodes&2047 == 0 && e.timeIsUp() {
		panic(searchTimeout)
	}
	if depth <= 0 {
		return evaluate(b)
	}
	if b.Rule50() >= 100 {
		return 0
	}

	var buffer [common.MaxMoves]common.Move
	var moves = common.GenerateMoves(buffer[:0], b)
	if len(moves) == 0 {
		if b.IsInCheck() {
			return -valueMate + height
		}
		return 0
	}

	var best = -valueInfinite
	for _, move := range moves {
		b.MakeMove(move)
		var score = -e.negamax(b, depth-1, -beta, -alpha, height+1)
		b.UnmakeMove()
		if score > best {
			best = score
			if score > alpha {
				alpha = score
				if alpha >= beta {
					break
				}
			}
		}
	}
	return best
}

func (e *Engine) timeIsUp() bool {
	if e.ctx != nil {
		select {
		case <-e.ctx.Done():
			return true
		default:
		}
	}
	return !e.deadline.IsZero() && time.Now().After(e.deadline)
}

// computeDeadline derives a soft stop time from the limits: an explicit
// movetime wins, otherwise a fraction of the remaining clock. Depth-only
// and infinite searches run without a deadline.
func computeDeadline(started time.Time, limits common.LimitsType, side int) time.Time {
	if limits.Infinite {
		return time.Time{}
	}
	if limits.MoveTime > 0 {
		return started.Add(time.Duration(limits.MoveTime) * time.Millisecond)
	}
	var remaining = limits.WhiteTime
	if side == common.Black {
		remaining = limits.BlackTime
	}
	if remaining > 0 {
		return started.Add(time.Duration(remaining/30) * time.Millisecond)
	}
	return time.Time{}
}

func scoreToUci(score int) common.UciScore {
	if score >= valueMate-maxHeight {
		return common.UciScore{Mate: (valueMate - score + 1) / 2}
	}
	if score <= -(valueMate - maxHeight) {
		return common.UciScore{Mate: -(valueMate + score + 1) / 2}
	}
	return common.UciScore{Centipawns: score}
}

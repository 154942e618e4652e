package common

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(b *Board, depth int) int {
	if depth <= 0 {
		return 1
	}
	var result = 0
	var buffer [MaxMoves]Move
	for _, move := range GenerateMoves(buffer[:0], b) {
		if depth > 1 {
			b.MakeMove(move)
			result += Perft(b, depth-1)
			b.UnmakeMove()
		} else {
			result++
		}
	}
	return result
}

// DivideEntry is one root move with its subtree node count.
type DivideEntry struct {
	Move  Move
	Nodes int
}

// Divide splits a perft count by root move.
func Divide(b *Board, depth int) []DivideEntry {
	var result []DivideEntry
	var buffer [MaxMoves]Move
	for _, move := range GenerateMoves(buffer[:0], b) {
		b.MakeMove(move)
		result = append(result, DivideEntry{Move: move, Nodes: Perft(b, depth-1)})
		b.UnmakeMove()
	}
	return result
}

// PerftParallel runs Perft with the root moves split over worker
// goroutines, each on its own clone of the board.
func PerftParallel(ctx context.Context, b *Board, depth int) (int, error) {
	if depth <= 1 {
		return Perft(b, depth), nil
	}

	var rootMoves = GenerateLegalMoves(b)
	var moves = make(chan Move)

	var g, _ = errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(moves)
		for _, move := range rootMoves {
			select {
			case moves <- move:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var workers = Min(runtime.NumCPU(), len(rootMoves))
	var workerResults = make(chan int, workers)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			var child = b.Clone()
			var total = 0
			for move := range moves {
				child.MakeMove(move)
				total += Perft(child, depth-1)
				child.UnmakeMove()
			}
			workerResults <- total
			return nil
		})
	}
	go func() {
		g.Wait()
		close(workerResults)
	}()

	var total = 0
	for n := range workerResults {
		total += n
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total, nil
}

package captions

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dmelnik/verticut/internal/types"
)

// TrackStates evaluates StateAt for every word at every frame in [0, frames)
// with bounded parallelism. Because a word's state depends only on fixed
// timestamps, frames are distributed across workers with no ordering
// requirement; each worker writes a disjoint row of the result.
func TrackStates(ctx context.Context, words []types.Word, frames, fps, workers int) ([][]WordVisualState, error) {
	if frames <= 0 || len(words) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = 1
	}

	states := make([][]WordVisualState, frames)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for frame := 0; frame < frames; frame++ {
		frame := frame
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := make([]WordVisualState, len(words))
			for i, w := range words {
				row[i] = StateAt(frame, fps, w)
			}
			states[frame] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}

package playback

import (
	"context"

	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

// LoadResult is the outcome of the single dataset fetch.
type LoadResult struct {
	Source  string
	Dataset *replay.Dataset
	Raw     []byte
	Err     error
}

// StartLoad runs src.Load on its own goroutine. The returned channel yields
// exactly one result.
func StartLoad(ctx context.Context, src replay.Source) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		ds, raw, err := src.Load(ctx)
		ch <- LoadResult{Source: src.String(), Dataset: ds, Raw: raw, Err: err}
	}()
	return ch
}

package codegen

import (
	"golang.org/x/sync/errgroup"

	"silica/internal/ir"
)

// GenerateParallel renders the modules reachable from top concurrently, one
// goroutine per distinct module. Output is identical to Generate: each
// module renders independently, so sharding at module granularity is safe
// as long as the IR is not mutated concurrently.
func GenerateParallel(top *ir.Generator, opts Options) (map[string]string, error) {
	if top == nil {
		return Generate(top, opts)
	}
	mods := reachable(top)
	srcs := make([]string, len(mods))

	var eg errgroup.Group
	for i, g := range mods {
		eg.Go(func() error {
			src, err := renderModule(g, opts)
			if err != nil {
				return err
			}
			srcs[i] = src
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(mods))
	for i, g := range mods {
		out[g.Name()] = srcs[i]
	}
	return out, nil
}

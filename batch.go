package metaclean

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Result reports where the cleaned content of one input file ended
// up.
type Result struct {
	// Path is the input file.
	Path string

	// OutputPath is the file holding the cleaned content: the input
	// itself for in-place cleaning, the derived .cleaned sibling
	// otherwise.
	OutputPath string
}

// CleanMany cleans multiple files concurrently.
//
// Files are cleaned in parallel using up to runtime.NumCPU()
// goroutines. Results are returned in the same order as the input
// paths. The first failure cancels the remaining work and is
// returned; outputs already written by other files are left in place
// (each output is an independent file).
//
// Each file gets its own parser, so the same options apply to all of
// them:
//
//	results, err := metaclean.CleanMany(ctx, paths,
//	    metaclean.WithInPlace(),
//	)
func CleanMany(ctx context.Context, paths []string, opts ...Option) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]Result, len(paths))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			out, err := cleanOne(path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = Result{Path: path, OutputPath: out}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// cleanOne runs the full lifecycle for a single file.
func cleanOne(path string, opts ...Option) (string, error) {
	p, err := New(path, opts...)
	if err != nil {
		return "", err
	}

	if err := p.RemoveAll(); err != nil {
		// Finalize drops the in-place temp file; the source is
		// untouched either way.
		_ = p.Finalize()
		return "", err
	}

	if err := p.Finalize(); err != nil {
		return "", err
	}
	if p.InPlace() {
		return p.Filename(), nil
	}
	return p.OutputFilename(), nil
}

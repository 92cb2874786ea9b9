package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"jinjade/internal/diag"
)

// DirOptions controls a directory-wide transpile.
type DirOptions struct {
	Options

	// Jobs limits concurrent workers; 0 means GOMAXPROCS.
	Jobs int
	// Ext selects input files by extension; defaults to ".jade".
	Ext string
	// OutExt names output files when writing; defaults to ".html".
	OutExt string
	// Write stores successful outputs next to their sources.
	Write bool
	// Cache, when non-nil, skips rendering files whose content hash is
	// already cached and fills the output from the cache instead.
	Cache *DiskCache
}

func (o DirOptions) ext() string {
	if o.Ext == "" {
		return ".jade"
	}
	return o.Ext
}

func (o DirOptions) outExt() string {
	if o.OutExt == "" {
		return ".html"
	}
	return o.OutExt
}

func (o DirOptions) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

// DirResult pairs a source path with its transpile result.
type DirResult struct {
	Path   string
	Result *Result
	// Cached is set when the output came from the disk cache.
	Cached bool
}

// TranspileDir transpiles every matching file under dir concurrently. Each
// file is an independent invocation; nothing is shared between workers, so
// the only coordination is the result slice. Per-file diagnostics live in
// each Result; the returned error covers I/O and cancellation only.
func TranspileDir(ctx context.Context, dir string, opts DirOptions) ([]DirResult, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, opts.ext()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	results := make([]DirResult, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dr, err := transpileOne(path, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = dr
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// transpileOne loads the file, then consults the cache on its content hash
// before any parsing happens: a hit serves the stored output and the whole
// pipeline is skipped. A cache-hit Result carries no Builder or Root.
func transpileOne(path string, opts DirOptions) (DirResult, error) {
	fs := opts.newFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return DirResult{}, err
	}
	file := fs.Get(fileID)

	if opts.Cache != nil {
		var payload CachePayload
		if hit, err := opts.Cache.Get(file.Hash, &payload); err == nil && hit {
			res := &Result{
				FileSet: fs,
				File:    file,
				Bag:     diag.NewBag(opts.maxDiagnostics()),
				Lines:   outputLines(payload.Output),
				Output:  payload.Output,
			}
			return DirResult{Path: path, Result: res, Cached: true}, writeOutput(path, res, opts)
		}
	}

	res := TranspileFile(fs, fileID, opts.Options)
	if opts.Cache != nil && res.Ok() {
		_ = opts.Cache.Put(file.Hash, &CachePayload{
			Schema:     cacheSchemaVersion,
			SourcePath: path,
			Output:     res.Output,
		})
	}
	return DirResult{Path: path, Result: res}, writeOutput(path, res, opts)
}

func writeOutput(path string, res *Result, opts DirOptions) error {
	if !opts.Write || !res.Ok() {
		return nil
	}
	out := strings.TrimSuffix(path, opts.ext()) + opts.outExt()
	return os.WriteFile(out, []byte(res.Output), 0o644)
}

func outputLines(output string) []string {
	if output == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(output, "\n"), "\n")
}

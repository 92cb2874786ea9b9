// Package driver wires the transpile pipeline together: load, line scan,
// block parse, classify, resolve mixins, render. Commands and the public
// API go through here instead of assembling the stages by hand.
package driver

import (
	"io"

	"jinjade/internal/ast"
	"jinjade/internal/diag"
	"jinjade/internal/gen"
	"jinjade/internal/mixin"
	"jinjade/internal/parser"
	"jinjade/internal/source"
)

const DefaultMaxDiagnostics = 64

type Options struct {
	MaxDiagnostics int
	// BaseDir anchors relative-path display of diagnostics; empty falls
	// back to the working directory.
	BaseDir string
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

func (o Options) newFileSet() *source.FileSet {
	if o.BaseDir != "" {
		return source.NewFileSetWithBase(o.BaseDir)
	}
	return source.NewFileSet()
}

// Result carries everything one transpile produced. Output and Lines are
// empty when Bag has errors; the operation is all-or-nothing.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	Root    ast.NodeID
	Bag     *diag.Bag

	// Lines holds one rendered output line per source line.
	Lines  []string
	Output string
}

// Ok reports whether the transpile produced output.
func (r *Result) Ok() bool {
	return !r.Bag.HasErrors()
}

// Transpile loads a file from disk and runs the full pipeline.
func Transpile(path string, opts Options) (*Result, error) {
	fs := opts.newFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return TranspileFile(fs, fileID, opts), nil
}

// TranspileReader consumes a stream (stdin, pipe) under the given name.
func TranspileReader(name string, r io.Reader, opts Options) (*Result, error) {
	fs := opts.newFileSet()
	fileID, err := fs.LoadReader(name, r)
	if err != nil {
		return nil, err
	}
	return TranspileFile(fs, fileID, opts), nil
}

// TranspileFile runs the pipeline over an already-loaded file.
func TranspileFile(fs *source.FileSet, fileID source.FileID, opts Options) *Result {
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.maxDiagnostics())
	reporter := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(uint(file.NumLines()))

	res := &Result{
		FileSet: fs,
		File:    file,
		Builder: builder,
		Bag:     bag,
	}

	root, ok := parser.ParseFile(file, builder, parser.Options{Reporter: reporter})
	res.Root = root
	if !ok {
		return res
	}

	if !mixin.Resolve(builder, root, file, reporter) {
		return res
	}

	res.Lines = gen.Render(builder, root, file.NumLines())
	res.Output = gen.Join(res.Lines)
	return res
}

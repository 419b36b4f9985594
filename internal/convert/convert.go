// Package convert turns docstring type information into PEP 484 type
// comments and rewrites Python source files with them.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/typecomment-gen/internal/docstring"
	"github.com/example/typecomment-gen/internal/pyscan"
)

// Options controls how docstrings are interpreted and how output is written.
type Options struct {
	// Format forces a docstring convention; "" means detect per docstring.
	Format string
	// DefaultReturnType is used when no return type is documented.
	DefaultReturnType string
	// DefaultArgTypes maps parameter names to fallback types used when the
	// docstring does not document them.
	DefaultArgTypes   map[string]string
	AllowYields       bool
	AllowNamedResults bool
	// Standardize rewrites loose prose types ("string or None, optional")
	// into PEP 484 syntax.
	Standardize bool

	// Write rewrites files in place (or under OutputDir). When false,
	// results carry unified diffs instead.
	Write          bool
	WriteUnchanged bool
	OutputDir      string
	AddSuffix      string
	Jobs           int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		DefaultReturnType: "None",
		AllowYields:       true,
		AllowNamedResults: true,
		Jobs:              1,
	}
}

// Result describes the outcome for one file.
type Result struct {
	Path    string
	Changed bool
	Diff    string // unified diff, only populated when not writing
}

// Summary aggregates a conversion run.
type Summary struct {
	Files   int
	Changed int
}

// Converter applies type comments to files on an afero filesystem.
type Converter struct {
	fs     afero.Fs
	opts   Options
	logger *zap.Logger
}

func New(fs afero.Fs, opts Options, logger *zap.Logger) *Converter {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{fs: fs, opts: opts, logger: logger}
}

// ConvertSource rewrites Python source text, returning the new contents and
// whether anything changed. file is only used to label diagnostics.
func (c *Converter) ConvertSource(src, file string) (string, bool, error) {
	mod := pyscan.Scan(src)
	lines := strings.Split(src, "\n")
	changed := false

	// walk bottom-up so insertions do not shift pending line numbers
	for i := len(mod.Functions) - 1; i >= 0; i-- {
		fn := mod.Functions[i]
		if fn.NoType || fn.InsertLine == 0 {
			continue
		}
		comment, ok, err := c.typeComment(fn, mod.ClassDocs, file)
		if err != nil {
			return "", false, err
		}
		if !ok {
			continue
		}
		if fn.TypeComment > 0 {
			idx := fn.TypeComment - 1
			repl := fn.Indent + comment
			if lines[idx] != repl {
				lines[idx] = repl
				changed = true
			}
		} else {
			idx := fn.InsertLine - 1
			lines = append(lines[:idx:idx], append([]string{fn.Indent + comment}, lines[idx:]...)...)
			changed = true
		}
	}
	return strings.Join(lines, "\n"), changed, nil
}

// typeComment builds the "# type:" comment for fn. ok is false when the
// function has no usable docstring or nothing worth annotating was found.
func (c *Converter) typeComment(fn pyscan.Function, classDocs map[string]pyscan.ClassDoc, file string) (string, bool, error) {
	doc := fn.Docstring
	line := fn.DocLine
	if doc == "" && fn.Name == "__init__" && fn.IsMethod {
		if cd, found := classDocs[fn.Class]; found {
			doc, line = cd.Text, cd.Line
		}
	}
	if doc == "" {
		return "", false, nil
	}

	parsed, err := docstring.Parse(doc, line, c.opts.Format, docstring.Options{
		AllowYields:       c.opts.AllowYields,
		AllowNamedResults: c.opts.AllowNamedResults,
	}, docstring.NewZapSink(c.logger, file))
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", file, err)
	}

	var types []string
	allAny := true
	for i, param := range fn.Params {
		bare := strings.TrimLeft(param, "*")
		stars := param[:len(param)-len(bare)]

		arg, documented := parsed.Params.Get(docstring.EscapeArgName(param))
		if !documented {
			arg, documented = parsed.Params.Get(bare)
		}
		// self and cls may be omitted from pep484 comments; drop them
		// unless the docstring documents them explicitly.
		if fn.IsMethod && i == 0 && !documented && (bare == "self" || bare == "cls") {
			continue
		}

		var typ string
		switch {
		case documented:
			typ = strings.Trim(arg.Type, "*")
		case c.opts.DefaultArgTypes[bare] != "":
			typ = c.opts.DefaultArgTypes[bare]
		default:
			typ = "Any"
		}
		if c.opts.Standardize {
			typ = docstring.StandardizeType(typ, false)
		}
		if typ != "Any" {
			allAny = false
		}
		types = append(types, stars+typ)
	}

	ret := c.opts.DefaultReturnType
	if parsed.Result != nil {
		ret = parsed.Result.Type
		if c.opts.Standardize {
			ret = docstring.StandardizeType(ret, true)
		}
	} else if allAny {
		// annotating everything as Any says nothing; leave the source alone
		return "", false, nil
	}
	return fmt.Sprintf("# type: (%s) -> %s", strings.Join(types, ", "), ret), true, nil
}

// ConvertPaths converts every Python file reachable from paths. Directories
// are walked recursively for *.py files. Conversion runs on up to Jobs files
// concurrently.
func (c *Converter) ConvertPaths(ctx context.Context, paths []string) (Summary, []Result, error) {
	files, err := c.collectFiles(paths)
	if err != nil {
		return Summary{}, nil, err
	}
	baseDir := c.inputBaseDir(paths)

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			res, err := c.convertFile(path, baseDir)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, nil, err
	}

	sum := Summary{Files: len(results)}
	for _, r := range results {
		if r.Changed {
			sum.Changed++
		}
	}
	return sum, results, nil
}

func (c *Converter) convertFile(path, baseDir string) (Result, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		return Result{}, err
	}
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return Result{}, err
	}

	out, changed, err := c.ConvertSource(string(data), path)
	if err != nil {
		return Result{}, err
	}
	c.logger.Debug("converted", zap.String("file", path), zap.Bool("changed", changed))

	res := Result{Path: path, Changed: changed}
	if changed && !c.opts.Write {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(data)),
			B:        difflib.SplitLines(out),
			FromFile: path,
			ToFile:   path + " (refactored)",
			Context:  3,
		})
		if err != nil {
			return Result{}, err
		}
		res.Diff = diff
	}
	if c.opts.Write && (changed || c.opts.WriteUnchanged) {
		dst := c.outputPath(path, baseDir)
		if dir := filepath.Dir(dst); dir != "." {
			if err := c.fs.MkdirAll(dir, 0o755); err != nil {
				return Result{}, err
			}
		}
		if err := afero.WriteFile(c.fs, dst, []byte(out), info.Mode().Perm()); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

func (c *Converter) collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := c.fs.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = afero.Walk(c.fs, p, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && strings.HasSuffix(path, ".py") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// inputBaseDir finds the directory the output tree should mirror: the
// longest common path prefix of the inputs, resolved to a directory.
func (c *Converter) inputBaseDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	sep := string(filepath.Separator)
	base := filepath.Clean(paths[0])
	for _, p := range paths[1:] {
		p = filepath.Clean(p)
		for base != "." && base != sep && !strings.HasPrefix(p+sep, base+sep) {
			base = filepath.Dir(base)
		}
	}
	if info, err := c.fs.Stat(base); err != nil || !info.IsDir() {
		base = filepath.Dir(base)
	}
	return base
}

func (c *Converter) outputPath(path, baseDir string) string {
	out := path
	if c.opts.OutputDir != "" {
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		out = filepath.Join(c.opts.OutputDir, rel)
	}
	return out + c.opts.AddSuffix
}

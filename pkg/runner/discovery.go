package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"
)

// Discover finds the input files selected by opts. Paths may name files or
// directories; directories are walked recursively, skipping dot entries and
// (unless IncludeVendored is set) vendored trees. Files named directly are
// only filtered by extension and globs.
//
// The result holds absolute paths, sorted and without duplicates.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		ctx:      ctx,
		opts:     opts,
		workDir:  workDir,
		exts:     make(map[string]bool),
		seen:     make(map[string]struct{}),
		followed: make(map[string]struct{}),
	}
	for _, ext := range opts.effectiveExtensions() {
		d.exts[strings.ToLower(ext)] = true
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			d.add(abs)
			continue
		}
		if err := d.walk(abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// discoverer collects the files of one Discover call.
type discoverer struct {
	ctx     context.Context
	opts    Options
	workDir string
	exts    map[string]bool
	seen    map[string]struct{}
	files   []string

	// followed holds the resolved directory symlink targets already walked,
	// so link cycles terminate.
	followed map[string]struct{}
}

func (d *discoverer) walk(root string) error {
	err := filepath.WalkDir(root, func(name string, entry fs.DirEntry, err error) error {
		if ctxErr := d.ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return err
		}

		switch {
		case name == root:
			return nil
		case entry.IsDir():
			if d.skipDir(name, entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		case enry.IsDotFile(entry.Name()):
			return nil
		case entry.Type()&fs.ModeSymlink != 0:
			return d.symlink(name)
		default:
			d.add(name)
			return nil
		}
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink adds a file link, and walks the target of a directory link when
// FollowSymlinks is set. Broken links are skipped.
func (d *discoverer) symlink(name string) error {
	target, err := filepath.EvalSymlinks(name)
	if err != nil {
		return nil //nolint:nilerr // broken links are skipped
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable link targets are skipped
	}
	if !info.IsDir() {
		d.add(name)
		return nil
	}
	if !d.opts.FollowSymlinks {
		return nil
	}
	if _, done := d.followed[target]; done {
		return nil
	}
	d.followed[target] = struct{}{}
	return d.walk(target)
}

func (d *discoverer) skipDir(name, base string) bool {
	if enry.IsDotFile(base) {
		return true
	}
	rel := d.rel(name)
	if !d.opts.IncludeVendored && enry.IsVendor(rel+"/") {
		return true
	}
	return matchAny(rel, d.opts.ExcludeGlobs)
}

func (d *discoverer) add(name string) {
	if _, dup := d.seen[name]; dup || !d.accepts(name) {
		return
	}
	d.seen[name] = struct{}{}
	d.files = append(d.files, name)
}

func (d *discoverer) accepts(name string) bool {
	if !d.exts["*"] && !d.exts[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	rel := d.rel(name)
	if matchAny(rel, d.opts.ExcludeGlobs) {
		return false
	}
	return len(d.opts.IncludeGlobs) == 0 || matchAny(rel, d.opts.IncludeGlobs)
}

// rel returns name relative to the working directory, slash separated.
func (d *discoverer) rel(name string) string {
	rel, err := filepath.Rel(d.workDir, name)
	if err != nil {
		rel = name
	}
	return filepath.ToSlash(rel)
}

func matchAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated relative path against a doublestar
// glob. A pattern without a slash is also tried against the base name, so
// "*.txt" matches "notes/one.txt". Malformed patterns match nothing.
func matchGlob(rel, pattern string) bool {
	pattern = filepath.ToSlash(pattern)
	if !strings.Contains(pattern, "/") {
		if ok, err := doublestar.Match(pattern, path.Base(rel)); err == nil && ok {
			return true
		}
	}
	ok, err := doublestar.Match(pattern, rel)
	return err == nil && ok
}

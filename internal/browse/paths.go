package browse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Root is the directory the browser is confined to. It is established once at
// startup and passed into every resolve, build and stats call.
type Root struct {
	abs       string
	canonical string
}

// NewRoot makes dir absolute and checks that it is an existing directory.
func NewRoot(dir string) (Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Root{}, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Root{}, fmt.Errorf("root %q: %w", dir, err)
	}

	if !info.IsDir() {
		return Root{}, fmt.Errorf("root %q is not a directory", dir)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Root{}, fmt.Errorf("root %q: %w", dir, err)
	}

	return Root{abs: abs, canonical: canonical}, nil
}

// Path returns the absolute root directory.
func (r Root) Path() string {
	return r.abs
}

// ResolvedPath is an existing directory that is Root or lies below it.
// Only Resolve produces one.
type ResolvedPath struct {
	abs string
}

func (p ResolvedPath) String() string {
	return p.abs
}

// Resolve validates a caller supplied relative path against root.
//
// Any '.' in relative is rejected, even in names that would be safe such as
// "sub.dir". The candidate is root + "/" + relative and must be an existing
// directory whose symlink-free location is still under root. Every failure
// yields ErrInvalidDirectory.
func Resolve(root Root, relative string) (ResolvedPath, error) {
	if root.abs == "" || strings.Contains(relative, ".") {
		return ResolvedPath{}, ErrInvalidDirectory
	}

	candidate := root.abs
	if relative != "" {
		candidate = root.abs + "/" + relative
	}

	info, err := os.Stat(candidate)
	if err != nil || !info.IsDir() {
		return ResolvedPath{}, ErrInvalidDirectory
	}

	if !root.isWithinRoot(candidate) {
		return ResolvedPath{}, ErrInvalidDirectory
	}

	return ResolvedPath{abs: candidate}, nil
}

// ResolveFile maps a slash separated request path onto a regular file under
// root. Dots are allowed here; containment is checked on the symlink-free path.
func ResolveFile(root Root, requested string) (string, error) {
	if root.abs == "" {
		return "", ErrInvalidDirectory
	}

	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(requested, "/")))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", os.ErrNotExist
	}

	candidate := filepath.Join(root.abs, cleaned)
	if !root.isWithinRoot(candidate) {
		return "", os.ErrNotExist
	}

	info, err := os.Stat(candidate)
	if err != nil {
		return "", err
	}

	if !info.Mode().IsRegular() {
		return "", os.ErrNotExist
	}

	return candidate, nil
}

func (r Root) isWithinRoot(target string) bool {
	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(r.canonical, resolved)
	if err != nil {
		return false
	}

	if rel == "." {
		return true
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

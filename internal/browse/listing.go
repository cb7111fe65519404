package browse

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BreadcrumbSegment is one component of the requested path. Path is the
// relative prefix ending at Name and is only set for linked ancestors.
type BreadcrumbSegment struct {
	Name   string
	Path   string
	Linked bool
}

// Listing holds the children of one directory read at one point in time.
// Hidden directories are left out of Directories; Files keeps everything.
type Listing struct {
	Directories []string
	Files       []string
}

func (l Listing) DirectoryCount() int {
	return len(l.Directories)
}

func (l Listing) FileCount() int {
	return len(l.Files)
}

// View is everything the page needs to render one directory.
type View struct {
	Relative    string
	Breadcrumbs []BreadcrumbSegment
	Listing     Listing
}

// Build resolves relative under root and lists it. A rejected path aborts the
// whole build and returns ErrInvalidDirectory; an empty directory is a
// successful build with empty sequences.
func Build(root Root, relative string) (View, error) {
	resolved, err := Resolve(root, relative)
	if err != nil {
		return View{}, err
	}

	crumbs, err := buildBreadcrumbs(root, relative)
	if err != nil {
		return View{}, err
	}

	listing, err := readListing(resolved)
	if err != nil {
		return View{}, err
	}

	return View{
		Relative:    relative,
		Breadcrumbs: crumbs,
		Listing:     listing,
	}, nil
}

// buildBreadcrumbs splits relative on '/'. An empty relative gives a single
// empty, unlinked segment for the root itself. The last segment is the
// current location and is never linked.
func buildBreadcrumbs(root Root, relative string) ([]BreadcrumbSegment, error) {
	parts := strings.Split(relative, "/")
	crumbs := make([]BreadcrumbSegment, 0, len(parts))
	for i, part := range parts {
		if i == len(parts)-1 {
			crumbs = append(crumbs, BreadcrumbSegment{Name: part})
			break
		}

		prefix := strings.Join(parts[:i+1], "/")
		if _, err := Resolve(root, prefix); err != nil {
			return nil, err
		}

		crumbs = append(crumbs, BreadcrumbSegment{
			Name:   part,
			Path:   prefix,
			Linked: true,
		})
	}

	return crumbs, nil
}

func readListing(dir ResolvedPath) (Listing, error) {
	entries, err := os.ReadDir(dir.abs)
	if err != nil {
		return Listing{}, fmt.Errorf("read %s: %w", dir.abs, err)
	}

	listing := Listing{
		Directories: make([]string, 0, len(entries)),
		Files:       make([]string, 0, len(entries)),
	}
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}

		if !isDirectory(dir.abs, entry) {
			listing.Files = append(listing.Files, name)
			continue
		}

		if strings.HasPrefix(name, ".") {
			continue
		}

		listing.Directories = append(listing.Directories, name)
	}

	sort.Strings(listing.Directories)
	sort.Strings(listing.Files)

	return listing, nil
}

// isDirectory follows symlinks, so a link to a directory lists as one and a
// dangling link lists as a file.
func isDirectory(parent string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}

	info, err := os.Stat(filepath.Join(parent, entry.Name()))
	if err != nil {
		return false
	}

	return info.IsDir()
}

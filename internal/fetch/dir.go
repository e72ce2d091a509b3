package fetch

import (
	"context"
	"os"
	"path/filepath"
)

// DirFetcher retrieves content from a directory tree laid out as
// <root>/<ref>/<path>, one subdirectory per revision. Used by
// driftlens-fixtures' synthetic change sets and any test fixture that
// doesn't need a real git checkout.
type DirFetcher struct {
	Root string
}

// NewDirFetcher returns a ContentFetcher backed by a <root>/<ref>/<path>
// directory layout.
func NewDirFetcher(root string) *DirFetcher {
	return &DirFetcher{Root: root}
}

func (d *DirFetcher) Fetch(_ context.Context, ref, path string) (Result, error) {
	full := filepath.Join(d.Root, ref, filepath.FromSlash(path))
	content, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Path: path, Missing: true}, nil
		}
		return Result{}, err
	}
	return Result{Path: path, Content: content}, nil
}

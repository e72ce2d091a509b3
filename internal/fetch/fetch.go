// Package fetch defines the boundary between the orchestrator and whatever
// storage backs a change-set's file contents (a git worktree, a remote API,
// an in-memory fixture). Analyzers never read files directly; they only ever
// see a ContentFetcher (spec §6).
package fetch

import (
	"context"
	"errors"

	"github.com/brennhill/driftlens/internal/model"
)

// ErrCanceled is returned by a ContentFetcher when the caller's context was
// canceled or its deadline expired before content could be retrieved. The
// orchestrator treats this the same as content-absent rather than as a fatal
// error: a canceled fetch skips that file's finding instead of aborting the
// run (spec §6, §7).
var ErrCanceled = errors.New("fetch: canceled")

// Result is the outcome of fetching one revision of one file. Missing is
// true when the file did not exist at that revision (e.g. a file added in
// the head revision has no base content) — this is not an error.
type Result struct {
	Path    string
	Content []byte
	Missing bool
}

// ContentFetcher retrieves file content at a specific revision of a
// change-set. This package provides GitFetcher (git show) and DirFetcher
// (a <root>/<ref>/<path> tree); tests supply in-memory fakes. Analyzers
// only ever consume the interface.
type ContentFetcher interface {
	Fetch(ctx context.Context, ref, path string) (Result, error)
}

// FetchBoth retrieves a file's content at both the base and head revisions
// of a change-set, translating a canceled fetch into content-absent rather
// than propagating it as a file-level error.
func FetchBoth(ctx context.Context, f ContentFetcher, cs model.ChangeSet, path string) (base, head Result, err error) {
	base, err = fetchOne(ctx, f, cs.BaseRef, path)
	if err != nil {
		return Result{}, Result{}, err
	}
	head, err = fetchOne(ctx, f, cs.HeadRef, path)
	if err != nil {
		return Result{}, Result{}, err
	}
	return base, head, nil
}

func fetchOne(ctx context.Context, f ContentFetcher, ref, path string) (Result, error) {
	res, err := f.Fetch(ctx, ref, path)
	if err != nil {
		if errors.Is(err, ErrCanceled) || errors.Is(ctx.Err(), context.Canceled) {
			return Result{Path: path, Missing: true}, nil
		}
		return Result{}, err
	}
	return res, nil
}

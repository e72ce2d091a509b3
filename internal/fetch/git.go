package fetch

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/brennhill/driftlens/internal/model"
)

// GitFetcher retrieves file content via `git show <ref>:<path>` against a
// local repository checkout. Grounded on Gizzahub-gzh-cli's
// internal/git/helpers.go os/exec invocation style.
type GitFetcher struct {
	RepoDir string
}

// NewGitFetcher returns a ContentFetcher backed by the git repository
// checked out at dir.
func NewGitFetcher(dir string) *GitFetcher {
	return &GitFetcher{RepoDir: dir}
}

func (g *GitFetcher) Fetch(ctx context.Context, ref, path string) (Result, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", g.RepoDir, "show", ref+":"+path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return Result{Path: path, Content: stdout.Bytes()}, nil
	}

	if ctx.Err() != nil {
		return Result{}, ErrCanceled
	}

	msg := strings.ToLower(stderr.String())
	if strings.Contains(msg, "does not exist") || strings.Contains(msg, "exists on disk, but not in") ||
		strings.Contains(msg, "bad object") || strings.Contains(msg, "invalid object name") {
		return Result{Path: path, Missing: true}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{Path: path, Missing: true}, nil
	}
	return Result{}, err
}

// DiffChangeSet builds a ChangeSet from `git diff --name-status base..head`
// against the repository at dir.
func DiffChangeSet(ctx context.Context, dir, baseRef, headRef string) (model.ChangeSet, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "diff", "--name-status", baseRef, headRef)
	out, err := cmd.Output()
	if err != nil {
		return model.ChangeSet{}, err
	}

	cs := model.ChangeSet{BaseRef: baseRef, HeadRef: headRef}
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			continue
		}
		status := statusFromGitCode(fields[0])
		path := fields[1]
		// Renames carry "old\tnew"; keep the new path only.
		if idx := strings.LastIndex(path, "\t"); idx >= 0 {
			path = path[idx+1:]
		}
		cs.Files = append(cs.Files, model.ChangedFile{Path: path, Status: status})
	}
	return cs, nil
}

func statusFromGitCode(code string) model.FileStatus {
	switch {
	case strings.HasPrefix(code, "A"):
		return model.StatusAdded
	case strings.HasPrefix(code, "D"):
		return model.StatusRemoved
	default:
		return model.StatusModified
	}
}

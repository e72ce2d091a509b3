package server

import (
	"fmt"
	"strings"

	"github.com/brennhill/driftlens/internal/model"
	"github.com/google/uuid"
)

// ScanRequest is the POST /scan request envelope: a git repository checkout
// reachable by the server, and the two revisions to diff.
type ScanRequest struct {
	RepoDir string `json:"repo_dir"`
	BaseRef string `json:"base_ref"`
	HeadRef string `json:"head_ref"`
}

// ScanResponse wraps the pipeline's Report with the run ID it was stored
// under, so a caller can retrieve it later via GET /runs/{id}.
type ScanResponse struct {
	RunID  string      `json:"run_id"`
	Report model.Report `json:"report"`
}

func validateScanRequest(req ScanRequest) (ScanRequest, error) {
	req.RepoDir = strings.TrimSpace(req.RepoDir)
	req.BaseRef = strings.TrimSpace(req.BaseRef)
	req.HeadRef = strings.TrimSpace(req.HeadRef)

	if req.RepoDir == "" {
		return req, fmt.Errorf("repo_dir is required")
	}
	if req.BaseRef == "" {
		return req, fmt.Errorf("base_ref is required")
	}
	if req.HeadRef == "" {
		return req, fmt.Errorf("head_ref is required")
	}
	return req, nil
}

// newRunID mints a run identifier, threaded through the logger and the
// stored report filename so a run can be correlated across logs, the
// response body, and GET /runs/{id}.
func newRunID() string {
	return uuid.NewString()
}

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestHealthz(t *testing.T) {
	handler, err := NewHandler(Config{DataDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("json decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %q", body["status"])
	}
}

func TestScanRequiresBearerTokenWhenConfigured(t *testing.T) {
	handler, err := NewHandler(Config{
		DataDir:   t.TempDir(),
		ScanToken: "secret-token",
		AuthMode:  "token",
	}, nil)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	body := `{"repo_dir":"/nonexistent","base_ref":"a","head_ref":"b"}`

	reqNoAuth := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewBufferString(body))
	recNoAuth := httptest.NewRecorder()
	handler.ServeHTTP(recNoAuth, reqNoAuth)
	if recNoAuth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", recNoAuth.Code)
	}
}

func TestScanValidatesRequestBody(t *testing.T) {
	handler, err := NewHandler(Config{DataDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty scan request, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestScanAgainstRealRepoStoresAndRetrievesRun(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repoDir := t.TempDir()
	runGit(t, repoDir, "init")
	runGit(t, repoDir, "config", "user.email", "test@example.com")
	runGit(t, repoDir, "config", "user.name", "test")

	migrationPath := filepath.Join(repoDir, "migrations")
	if err := os.MkdirAll(migrationPath, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	sqlFile := filepath.Join(migrationPath, "001.sql")
	if err := os.WriteFile(sqlFile, []byte("CREATE TABLE users (id int);\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	runGit(t, repoDir, "add", ".")
	runGit(t, repoDir, "commit", "-m", "initial")

	if err := os.WriteFile(sqlFile, []byte("DROP TABLE users;\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	runGit(t, repoDir, "commit", "-am", "drop users")

	handler, err := NewHandler(Config{DataDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	reqBody, _ := json.Marshal(ScanRequest{RepoDir: repoDir, BaseRef: "HEAD~1", HeadRef: "HEAD"})
	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var scanResp ScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &scanResp); err != nil {
		t.Fatalf("decode scan response: %v", err)
	}
	if scanResp.RunID == "" {
		t.Fatal("expected a run_id")
	}
	if len(scanResp.Report.Findings) == 0 {
		t.Fatal("expected at least one finding for a dropped table")
	}
	if !scanResp.Report.Summary.Blocked {
		t.Fatal("expected DROP TABLE to block the run")
	}

	getReq := httptest.NewRequest(http.MethodGet, "/runs/"+scanResp.RunID, nil)
	getRec := httptest.NewRecorder()
	handler.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 retrieving stored run, got %d", getRec.Code)
	}
}

func TestNewHandlerRejectsTokenModeWithoutToken(t *testing.T) {
	_, err := NewHandler(Config{
		DataDir:  t.TempDir(),
		AuthMode: "token",
	}, nil)
	if err == nil {
		t.Fatal("expected error for token auth without token")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

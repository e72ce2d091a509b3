// Command driftlens-fixtures emits a synthetic two-revision change set
// (OpenAPI spec, SQL migration, Terraform plan, package manifest, feature
// flags) exercising every built-in analyzer, for integration tests and
// manual exploration of the CLI/server without a real repository.
//
// Generalized from stricture's cmd/demo-pack, which emits synthetic lint
// fixtures for docs/tests from a lineage artifact; driftlens-fixtures emits
// a base/head directory pair instead, consumable directly by
// internal/fetch.DirFetcher.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

type fixtureFile struct {
	path string
	base string // empty means added in head
	head string // empty means removed in head
}

func main() {
	outDir := flag.String("out", "testdata/fixture", "output directory for the base/ and head/ revision trees plus changeset.json")
	flag.Parse()

	files := buildFixtureFiles()

	if err := writeRevision(filepath.Join(*outDir, "base"), files, true); err != nil {
		fatal("writing base revision: %v", err)
	}
	if err := writeRevision(filepath.Join(*outDir, "head"), files, false); err != nil {
		fatal("writing head revision: %v", err)
	}
	if err := writeChangeSet(filepath.Join(*outDir, "changeset.json"), files); err != nil {
		fatal("writing changeset.json: %v", err)
	}

	fmt.Printf("wrote fixture change set to %s (base/, head/, changeset.json)\n", *outDir)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func writeRevision(dir string, files []fixtureFile, useBase bool) error {
	for _, f := range files {
		content := f.head
		if useBase {
			content = f.base
		}
		if content == "" {
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

type changeSetFile struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

type changeSetDoc struct {
	BaseRef string          `json:"base_ref"`
	HeadRef string          `json:"head_ref"`
	Files   []changeSetFile `json:"files"`
}

func writeChangeSet(path string, files []fixtureFile) error {
	doc := changeSetDoc{BaseRef: "base", HeadRef: "head"}
	for _, f := range files {
		status := "modified"
		switch {
		case f.base == "":
			status = "added"
		case f.head == "":
			status = "removed"
		}
		doc.Files = append(doc.Files, changeSetFile{Path: f.path, Status: status})
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(body, '\n'), 0o644)
}

func buildFixtureFiles() []fixtureFile {
	return []fixtureFile{
		{
			path: "openapi.yaml",
			base: openAPIBase,
			head: openAPIHead,
		},
		{
			path: "migrations/0002_drop_legacy_flag.sql",
			head: "ALTER TABLE users DROP COLUMN legacy_flag;\n",
		},
		{
			path: "plan.json",
			head: terraformPlan,
		},
		{
			path: "package.json",
			base: packageJSONBase,
			head: packageJSONHead,
		},
		{
			path: "flags.yaml",
			base: "new_checkout: false\n",
			head: "new_checkout: true\n",
		},
	}
}

const openAPIBase = `openapi: "3.0.0"
info:
  title: payments
  version: "1.0.0"
paths:
  /users/{id}:
    get:
      operationId: getUser
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
`

const openAPIHead = `openapi: "3.0.0"
info:
  title: payments
  version: "1.1.0"
paths:
  /users/{id}:
    get:
      operationId: getUser
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
        - name: includeDeleted
          in: query
          required: true
          schema:
            type: boolean
      responses:
        "200":
          description: ok
`

const terraformPlan = `{
  "resource_changes": [
    {
      "address": "aws_security_group.public_ingress",
      "type": "aws_security_group",
      "change": {
        "actions": ["create"],
        "before": null,
        "after": {"cidr_blocks": ["0.0.0.0/0"]}
      }
    }
  ]
}
`

const packageJSONBase = `{
  "dependencies": {
    "express": "4.18.2"
  },
  "license": "MIT"
}
`

const packageJSONHead = `{
  "dependencies": {
    "express": "4.19.0",
    "event-stream": "3.3.6"
  },
  "license": "MIT"
}
`

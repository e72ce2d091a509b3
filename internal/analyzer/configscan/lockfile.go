package configscan

import (
	"encoding/json"
	"fmt"
)

// lockEntry is the common shape of one locked package across the two
// lockfile schemas this analyzer recognizes (npm's "dependencies" map and
// the newer "packages" map).
type lockEntry struct {
	Version   string `json:"version"`
	Integrity string `json:"integrity"`
	Resolved  string `json:"resolved"`
}

type lockfile struct {
	Dependencies map[string]lockEntry `json:"dependencies"`
	Packages     map[string]lockEntry `json:"packages"`
}

func parseLockfile(data []byte) (*lockfile, error) {
	var lf lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, err
	}
	return &lf, nil
}

func (lf *lockfile) entries() map[string]lockEntry {
	if len(lf.Packages) > 0 {
		return lf.Packages
	}
	return lf.Dependencies
}

// diffLockfiles implements spec §4.5's lockfile diff: transitive
// dependency-count changes, transitive major bumps, integrity mismatches,
// and a "new lock file" indicator when the file didn't exist at base.
func diffLockfiles(path string, base, head *lockfile, baseMissing bool) (changes []string) {
	if baseMissing || base == nil {
		changes = append(changes, fmt.Sprintf("NEW_LOCK_FILE: %s created", path))
		return changes
	}
	if head == nil {
		return nil
	}

	baseEntries := base.entries()
	headEntries := head.entries()

	names := unionLockKeys(baseEntries, headEntries)
	var changedCount int
	var integrityMismatches int
	for _, name := range names {
		b, inBase := baseEntries[name]
		h, inHead := headEntries[name]
		switch {
		case inHead && !inBase, inBase && !inHead:
			changedCount++
		case b.Version != h.Version:
			changedCount++
			if versionChangeKind(b.Version, h.Version) == "major" {
				changes = append(changes, "TRANSITIVE_MAJOR_BUMP: "+name)
			}
			if _, ok := matchVulnerable(name, h.Version); ok {
				changes = append(changes, "SECURITY_VULNERABILITY: "+name+" (transitive)")
			}
		case b.Integrity != "" && h.Integrity != "" && b.Integrity != h.Integrity:
			integrityMismatches++
		}
	}

	if changedCount > 0 {
		changes = append(changes, fmt.Sprintf("TRANSITIVE_DEPENDENCIES_CHANGED: %d packages", changedCount))
	}
	if integrityMismatches > 0 {
		changes = append(changes, fmt.Sprintf("INTEGRITY_MISMATCH: %d packages have different checksums", integrityMismatches))
	}
	return changes
}

func unionLockKeys(a, b map[string]lockEntry) []string {
	seen := map[string]bool{}
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

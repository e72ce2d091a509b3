// Package driftplugin defines the public plugin API for driftlens Go
// plugins (supplemented feature: plugin-loadable analyzers, grounded on
// stricture's pkg/rule.Definition Go-plugin contract).
package driftplugin

// FileRevision is the plugin-facing view of one file at one revision.
type FileRevision struct {
	Path    string
	Content []byte
	Missing bool
}

// Finding is the plugin-facing drift finding a plugin analyzer reports.
// Layer must be one of "api", "database", "infrastructure", "configuration"
// — driftlens scores it with the same risk engine every built-in analyzer
// uses, so plugins only need to name what changed, not how severe it is.
type Finding struct {
	Layer     string
	Changes   []string
	Reasoning []string
	Entities  []string
	Endpoints []string
}

// Definition is the required exported symbol type for Go plugin analyzers.
//
// Plugins must export:
//
//	var Analyzer = driftplugin.Definition{ ... }
type Definition struct {
	ID          string
	Name        string
	Description string
	// Extensions restricts which changed files this plugin is offered;
	// empty means every changed file is offered.
	Extensions []string
	Check      func(base, head *FileRevision) []Finding
}

// id.go — canonical artifact identity (spec §3).
package artifact

import (
	"fmt"
	"strings"

	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/pathutil"
)

// ID derives the canonical artifact identity string for an already-expanded
// finding (one endpoint / one entity). Expansion must run first — see
// Expand.
func ID(f model.DriftFinding) string {
	switch f.Type {
	case model.TypeAPI:
		if len(f.Endpoints) == 1 {
			return apiID(f.Endpoints[0])
		}
	case model.TypeDatabase:
		if len(f.Entities) == 1 {
			return "db:table:" + strings.ToLower(f.Entities[0])
		}
	case model.TypeInfrastructure:
		if len(f.Entities) == 1 {
			return infraID(f.Entities[0])
		}
	case model.TypeConfiguration:
		return "config:" + pathutil.Normalize(f.File)
	}

	if f.File != "" {
		return "file:" + pathutil.Normalize(f.File)
	}
	name := ""
	if len(f.Entities) > 0 {
		name = f.Entities[0]
	} else if len(f.Endpoints) > 0 {
		name = f.Endpoints[0]
	}
	return fmt.Sprintf("%s:%s", f.Type, strings.ToLower(name))
}

// apiID builds "api:<METHOD>:<lowercased normalized path>" from a
// "METHOD:path" endpoint token. Parameter placeholders ({id}) are preserved
// but lowercased along with the rest of the path.
func apiID(endpoint string) string {
	method, path, ok := strings.Cut(endpoint, ":")
	if !ok {
		return "api:GET:" + strings.ToLower(pathutil.Normalize(endpoint))
	}
	return "api:" + strings.ToUpper(strings.TrimSpace(method)) + ":" + strings.ToLower(pathutil.Normalize(path))
}

// infraID builds "iac:<lowercased resource type>:<lowercased address>" from
// a "type.address"-shaped resource entity, falling back to treating the
// whole string as the address when no type separator is present.
func infraID(resource string) string {
	resource = strings.TrimSpace(resource)
	if idx := strings.Index(resource, "."); idx > 0 {
		resType := resource[:idx]
		address := resource
		return "iac:" + strings.ToLower(resType) + ":" + strings.ToLower(address)
	}
	return "iac:resource:" + strings.ToLower(resource)
}

// PairKey returns the canonical undirected key for two artifact IDs:
// min(a,b) :: max(a,b). Symmetric by construction.
func PairKey(a, b string) string {
	if a <= b {
		return a + "::" + b
	}
	return b + "::" + a
}

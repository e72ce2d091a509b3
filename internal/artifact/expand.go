// expand.go — split multi-endpoint/multi-entity findings into atomic
// findings before artifact IDs are assigned (spec §3: "Expansion").
//
// Expansion conservation invariant: every endpoint/entity named on a
// compound finding appears in exactly one expanded finding.
package artifact

import "github.com/brennhill/driftlens/internal/model"

// Expand splits a finding into one atomic finding per endpoint (api
// findings) or per entity (database/infrastructure findings), assigning
// each its artifact ID. Configuration findings and findings with at most
// one endpoint/entity pass through unchanged (still get an ID assigned).
func Expand(findings []model.DriftFinding) []model.DriftFinding {
	out := make([]model.DriftFinding, 0, len(findings))
	for _, f := range findings {
		switch {
		case f.Type == model.TypeAPI && len(f.Endpoints) > 1:
			for _, ep := range f.Endpoints {
				atom := f
				atom.Endpoints = []string{ep}
				atom.ArtifactID = ID(atom)
				out = append(out, atom)
			}
		case (f.Type == model.TypeDatabase || f.Type == model.TypeInfrastructure) && len(f.Entities) > 1:
			for _, ent := range f.Entities {
				atom := f
				atom.Entities = []string{ent}
				atom.ArtifactID = ID(atom)
				out = append(out, atom)
			}
		default:
			atom := f
			atom.ArtifactID = ID(atom)
			out = append(out, atom)
		}
	}
	return out
}

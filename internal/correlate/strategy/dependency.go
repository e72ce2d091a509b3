package strategy

import (
	"strings"

	"github.com/brennhill/driftlens/internal/model"
)

// Dependency correlates package changes with api/db layers when the
// added/removed dependency name matches a layer keyword set (spec §4.7.4).
type Dependency struct {
	weight float64
}

func NewDependency(weight float64) *Dependency { return &Dependency{weight: weight} }

func (d *Dependency) Name() string    { return "dependency" }
func (d *Dependency) Budget() Budget  { return BudgetLow }
func (d *Dependency) Weight() float64 { return d.weight }

var webFrameworkKeywords = []string{"express", "fastify", "koa", "flask", "django", "gin", "echo", "spring"}
var dbDriverKeywords = []string{"prisma", "sequelize", "typeorm", "knex", "sqlalchemy", "gorm", "pg", "mysql", "mongoose", "hibernate"}

func (d *Dependency) Run(snap Snapshot) []Signal {
	var signals []Signal
	for i, cfg := range snap.Findings {
		if cfg.Type != model.TypeConfiguration {
			continue
		}
		var touchesWeb, touchesDB bool
		for _, c := range cfg.Changes {
			lower := strings.ToLower(c)
			if !strings.Contains(lower, "dependency_added") && !strings.Contains(lower, "dependency_removed") {
				continue
			}
			if containsAny(lower, webFrameworkKeywords) {
				touchesWeb = true
			}
			if containsAny(lower, dbDriverKeywords) {
				touchesDB = true
			}
		}
		if !touchesWeb && !touchesDB {
			continue
		}
		for j, other := range snap.Findings {
			if i == j {
				continue
			}
			if touchesWeb && other.Type == model.TypeAPI {
				signals = append(signals, Signal{
					Source: cfg.ArtifactID, Target: other.ArtifactID,
					Relationship: "dependency_affects_api",
					Confidence:   clamp01(0.5 * d.weight),
					Evidence:     []model.EvidenceItem{{Reason: "web framework dependency changed"}},
				})
			}
			if touchesDB && other.Type == model.TypeDatabase {
				signals = append(signals, Signal{
					Source: cfg.ArtifactID, Target: other.ArtifactID,
					Relationship: "dependency_affects_db",
					Confidence:   clamp01(0.5 * d.weight),
					Evidence:     []model.EvidenceItem{{Reason: "database driver/ORM dependency changed"}},
				})
			}
		}
	}
	return signals
}

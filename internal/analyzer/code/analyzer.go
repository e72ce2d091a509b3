package code

import (
	"context"
	"path/filepath"

	"github.com/brennhill/driftlens/internal/analyzer"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/pathutil"
)

// Result is the aggregate of every changed file's handlers, DB refs, and
// call edges, plus the graph built from them. The correlation engine's
// code strategy reads this directly rather than through DriftFinding,
// since handler/DB-ref detail (symbol, line, reachability) doesn't fit the
// uniform finding shape.
type Result struct {
	Handlers []Handler
	DBRefs   []DBRef
	Graph    *Graph
}

// Analyzer implements analyzer.Analyzer for source code. It emits no
// findings of its own; it populates a Result the correlation engine
// consults for handler/table matching.
type Analyzer struct {
	cache  *Cache
	Result *Result
}

func New() *Analyzer {
	return &Analyzer{cache: NewCache(), Result: &Result{}}
}

func (a *Analyzer) Name() string { return "code" }

func (a *Analyzer) CanHandle(f model.ChangedFile) bool {
	if f.Status == model.StatusRemoved {
		return false
	}
	return SupportedExt(filepath.Ext(f.Path))
}

func (a *Analyzer) Analyze(ctx context.Context, ac analyzer.Context) ([]model.DriftFinding, error) {
	var allHandlers []Handler
	var allDBRefs []DBRef
	var allCalls []Call
	knownSymbolsByModule := map[string][]string{}

	for _, f := range ac.ChangeSet.Files {
		if !a.CanHandle(f) {
			continue
		}
		path := pathutil.Normalize(f.Path)
		res, err := ac.Fetcher.Fetch(ctx, ac.ChangeSet.HeadRef, f.Path)
		if err != nil || res.Missing {
			continue
		}

		if handlers, dbRefs, calls, ok := a.cache.Get(path, res.Content); ok {
			allHandlers = append(allHandlers, handlers...)
			allDBRefs = append(allDBRefs, dbRefs...)
			allCalls = append(allCalls, calls...)
			continue
		}

		ext := filepath.Ext(path)
		pf, ok := Parse(ext, res.Content)
		if !ok {
			continue
		}
		symbols := BuildSymbolIndex(ext, res.Content)
		symbolOf := symbols.SymbolAt

		handlers := DetectHandlers(pf, path, symbolOf)
		dbRefs := DetectDBRefs(pf, path, symbolOf)
		calls := DetectCalls(pf, path, symbolOf)

		a.cache.Put(path, res.Content, handlers, dbRefs, calls)
		allHandlers = append(allHandlers, handlers...)
		allDBRefs = append(allDBRefs, dbRefs...)
		allCalls = append(allCalls, calls...)

		moduleKey := moduleNameFromPath(path)
		for _, h := range handlers {
			knownSymbolsByModule[moduleKey] = append(knownSymbolsByModule[moduleKey], SymbolKey(path, h.Symbol))
		}
		for _, d := range dbRefs {
			knownSymbolsByModule[moduleKey] = append(knownSymbolsByModule[moduleKey], SymbolKey(path, d.Symbol))
		}
	}

	a.Result.Handlers = allHandlers
	a.Result.DBRefs = allDBRefs
	a.Result.Graph = BuildGraph(allCalls, knownSymbolsByModule)

	// The code analyzer does not itself gate a merge (spec §4.6 is purely
	// feed-forward into correlation); it emits no DriftFinding of its own.
	return nil, nil
}

func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

package code

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/brennhill/driftlens/internal/analyzer/sqlmig"
)

// Handler is a detected API route/controller entry point.
type Handler struct {
	Method string
	Path   string
	File   string
	Symbol string
	Line   int
}

// DBRef is a detected ORM/query call site.
type DBRef struct {
	ORM    string
	Table  string
	Op     string
	File   string
	Symbol string
	Line   int
}

// Call is a caller -> callee edge inferred from a call site whose callee
// name resolves (by local identifier) to an imported module. Calls to
// symbols defined in the same file produce no edge.
type Call struct {
	Caller string
	Callee string
	Line   int
}

var routeCallPattern = regexp.MustCompile(`(?i)^(?:router|app|routes?)\.(get|post|put|patch|delete)\s*\(\s*['"` + "`" + `]([^'"` + "`" + `]+)['"` + "`" + `]`)

var decoratorRoutePattern = regexp.MustCompile(`(?i)@(?:app|router|api)\.(get|post|put|patch|delete|route)\s*\(\s*['"]([^'"]+)['"]`)

var springAnnotationPattern = regexp.MustCompile(`(?i)@(GetMapping|PostMapping|PutMapping|PatchMapping|DeleteMapping|RequestMapping)\s*\(\s*(?:value\s*=\s*)?['"]([^'"]+)['"]`)

var ormCallPattern = regexp.MustCompile(`(?i)^(prisma|knex|sequelize|db|models?)\.([a-zA-Z_][a-zA-Z0-9_]*)\.(findUnique|findMany|findFirst|create|update|delete|upsert|select|insert|where)\s*\(`)

var rawSQLPattern = regexp.MustCompile("(?s)['\"`](SELECT|INSERT|UPDATE|DELETE)[^'\"`]*['\"`]")

// springMappingVerb maps a Spring annotation name to its HTTP verb.
func springMappingVerb(annotation string) string {
	switch strings.ToLower(annotation) {
	case "getmapping":
		return "GET"
	case "postmapping":
		return "POST"
	case "putmapping":
		return "PUT"
	case "patchmapping":
		return "PATCH"
	case "deletemapping":
		return "DELETE"
	default:
		return "GET"
	}
}

// DetectHandlers scans a parsed file's call sites for route-registration
// idioms across the languages this analyzer supports.
func DetectHandlers(pf ParsedFile, file string, symbolOf func(line int) string) []Handler {
	var handlers []Handler
	for _, c := range pf.Calls {
		if m := routeCallPattern.FindStringSubmatch(c.Text); m != nil {
			handlers = append(handlers, Handler{Method: strings.ToUpper(m[1]), Path: m[2], File: file, Symbol: symbolOf(c.Line), Line: c.Line})
			continue
		}
		if m := decoratorRoutePattern.FindStringSubmatch(c.Text); m != nil {
			method := strings.ToUpper(m[1])
			if method == "ROUTE" {
				method = "GET"
			}
			handlers = append(handlers, Handler{Method: method, Path: m[2], File: file, Symbol: symbolOf(c.Line), Line: c.Line})
			continue
		}
		if m := springAnnotationPattern.FindStringSubmatch(c.Text); m != nil {
			handlers = append(handlers, Handler{Method: springMappingVerb(m[1]), Path: m[2], File: file, Symbol: symbolOf(c.Line), Line: c.Line})
		}
	}
	return handlers
}

// DetectDBRefs scans a parsed file's call sites for ORM idioms and raw SQL
// string literals, recovering tables from the latter via the same regex
// set the SQL analyzer uses (spec §4.6: "raw SQL strings are analyzed with
// the same SQL regex set").
func DetectDBRefs(pf ParsedFile, file string, symbolOf func(line int) string) []DBRef {
	var refs []DBRef
	for _, c := range pf.Calls {
		if m := ormCallPattern.FindStringSubmatch(c.Text); m != nil {
			refs = append(refs, DBRef{ORM: m[1], Table: m[2], Op: normalizeOp(m[3]), File: file, Symbol: symbolOf(c.Line), Line: c.Line})
			continue
		}
		if m := rawSQLPattern.FindStringSubmatch(c.Text); m != nil {
			if table, ok := sqlmig.FirstTableReference(c.Text); ok {
				refs = append(refs, DBRef{ORM: "raw", Table: table, Op: normalizeOp(m[1]), File: file, Symbol: symbolOf(c.Line), Line: c.Line})
			}
		}
	}
	return refs
}

func normalizeOp(op string) string {
	switch strings.ToLower(op) {
	case "findunique", "findmany", "findfirst", "select", "where":
		return "SELECT"
	case "create", "insert":
		return "INSERT"
	case "update", "upsert":
		return "UPDATE"
	case "delete":
		return "DELETE"
	default:
		return strings.ToUpper(op)
	}
}

// DetectCalls resolves each call site's callee identifier against the
// file's local import names, producing cross-file edges (spec §4.6).
func DetectCalls(pf ParsedFile, file string, symbolOf func(line int) string) []Call {
	localNames := importedLocalNames(pf.Imports)
	var calls []Call
	for _, c := range pf.Calls {
		callee := calleeRoot(c.Text)
		if callee == "" {
			continue
		}
		if root, ok := localNames[callee]; ok {
			calls = append(calls, Call{Caller: fmt.Sprintf("%s:%s", file, symbolOf(c.Line)), Callee: root, Line: c.Line})
		}
	}
	return calls
}

var calleeRootPattern = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_.]*)\(`)

func calleeRoot(callText string) string {
	m := calleeRootPattern.FindStringSubmatch(strings.TrimSpace(callText))
	if m == nil {
		return ""
	}
	parts := strings.SplitN(m[1], ".", 2)
	return parts[0]
}

// importedLocalNames is a best-effort extraction of "import X from 'Y'" /
// "from Y import X" local bindings, mapping the local name to the
// module/package root it came from.
func importedLocalNames(imports []string) map[string]string {
	out := map[string]string{}
	nameFrom := regexp.MustCompile(`(?:import\s+(?:\*\s+as\s+)?([a-zA-Z_][a-zA-Z0-9_]*)|{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*})\s*from\s*['"]([^'"]+)['"]`)
	pyFrom := regexp.MustCompile(`from\s+([a-zA-Z0-9_.]+)\s+import\s+([a-zA-Z_][a-zA-Z0-9_]*)`)
	for _, imp := range imports {
		if m := nameFrom.FindStringSubmatch(imp); m != nil {
			local := m[1]
			if local == "" {
				local = m[2]
			}
			out[local] = m[3]
			continue
		}
		if m := pyFrom.FindStringSubmatch(imp); m != nil {
			out[m[2]] = m[1]
		}
	}
	return out
}

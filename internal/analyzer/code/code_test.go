package code

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const routesJS = `
function getUserById(req, res) {
  const user = prisma.users.findUnique({ where: { id: req.params.id } });
  res.json(user);
}

router.get('/v1/users/:id', getUserById);
`

func TestParseAndDetectHandlersAndDBRefs(t *testing.T) {
	pf, ok := Parse(".js", []byte(routesJS))
	require.True(t, ok)
	require.NotEmpty(t, pf.Calls)

	symbols := BuildSymbolIndex(".js", []byte(routesJS))
	handlers := DetectHandlers(pf, "src/routes/users.js", symbols.SymbolAt)
	require.Len(t, handlers, 1)
	require.Equal(t, "GET", handlers[0].Method)
	require.Equal(t, "/v1/users/:id", handlers[0].Path)

	dbRefs := DetectDBRefs(pf, "src/routes/users.js", symbols.SymbolAt)
	require.Len(t, dbRefs, 1)
	require.Equal(t, "users", dbRefs[0].Table)
	require.Equal(t, "getUserById", dbRefs[0].Symbol)
}

func TestSymbolIndexResolvesEnclosingFunction(t *testing.T) {
	symbols := BuildSymbolIndex(".js", []byte(routesJS))
	require.Equal(t, "getUserById", symbols.SymbolAt(3))
}

func TestGraphReachableFromRespectsDepth(t *testing.T) {
	g := &Graph{edges: map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"d"},
	}}
	reached := g.ReachableFrom("a", 2)
	require.Contains(t, reached, "b")
	require.Contains(t, reached, "c")
	require.NotContains(t, reached, "d")
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache()
	content := []byte(routesJS)
	_, _, _, ok := c.Get("f.js", content)
	require.False(t, ok)

	c.Put("f.js", content, []Handler{{Method: "GET"}}, nil, nil)
	handlers, _, _, ok := c.Get("f.js", content)
	require.True(t, ok)
	require.Len(t, handlers, 1)

	_, _, _, ok = c.Get("f.js", []byte("different content"))
	require.False(t, ok)
}

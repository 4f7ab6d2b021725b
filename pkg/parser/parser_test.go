package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/bigbang"
	"github.com/pthm/bigbang/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("db.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("db.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("db.YML"))
	assert.Equal(t, FormatTOML, FormatFromPath("conf/db.toml"))
	assert.Equal(t, FormatJSON, FormatFromPath("db"))
}

func TestLoadFile_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sprocs/bulkDelete.js", "function bulkDelete() {}")
	writeFile(t, dir, "udfs/tax.js", "function tax(x) { return x * 0.2; }")
	path := writeFile(t, dir, "database.json", `{
  "id": "db1",
  "throughput": 400,
  "updateThroughput": true,
  "containers": [
    {
      "id": "orders",
      "partitionKey": "/customerId",
      "defaultTimeToLive": -1,
      "throughput": 1000,
      "indexingPolicy": {
        "automatic": true,
        "indexingMode": "consistent",
        "includedPaths": [{"path": "/*"}],
        "excludedPaths": [{"path": "/\"_etag\"/?"}],
        "compositeIndexes": [[{"path": "/name", "order": "ascending"}, {"path": "/age", "order": "descending"}]]
      },
      "uniqueKeyPolicy": {"uniqueKeys": [{"paths": ["/email"]}]},
      "storedProcedures": ["sprocs/bulkDelete.js"],
      "userDefinedFunctions": ["udfs/tax.js"]
    }
  ]
}`)

	db, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "db1", db.ID)
	require.NotNil(t, db.Throughput)
	assert.Equal(t, 400, *db.Throughput)
	assert.True(t, db.UpdateThroughput)
	assert.Equal(t, filepath.Dir(path), db.BaseDir)

	require.Len(t, db.Containers, 1)
	c := db.Containers[0]
	assert.Equal(t, "orders", c.ID)
	assert.Equal(t, "/customerId", c.PartitionKey)
	require.NotNil(t, c.DefaultTimeToLive)
	assert.Equal(t, model.NoExpiry, *c.DefaultTimeToLive)
	require.NotNil(t, c.IndexingPolicy)
	assert.Equal(t, "consistent", c.IndexingPolicy.IndexingMode)
	require.Len(t, c.IndexingPolicy.CompositeIndexes, 1)
	assert.Equal(t, "descending", c.IndexingPolicy.CompositeIndexes[0][1].Order)
	require.NotNil(t, c.UniqueKeyPolicy)
	assert.Equal(t, []string{"/email"}, c.UniqueKeyPolicy.UniqueKeys[0].Paths)

	require.Len(t, c.Scripts, 2)
	assert.Equal(t, model.Script{
		Kind: model.StoredProcedure,
		Path: "sprocs/bulkDelete.js",
		ID:   "bulkDelete",
		Body: "function bulkDelete() {}",
	}, c.Scripts[0])
	assert.Equal(t, model.UserDefinedFunction, c.Scripts[1].Kind)
	assert.Equal(t, "tax", c.Scripts[1].ID)
}

func TestLoadFile_OriginalFieldCasing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sp1.js", "function sp1() {}")
	path := writeFile(t, dir, "db.json", `{
  "Id": "db1",
  "UpdateThroughput": false,
  "Containers": [{"Id": "c1", "PartitionKey": "/pk", "DefaultTimeToLive": 60, "StoredProcedures": ["sp1.js"]}]
}`)

	db, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "db1", db.ID)
	require.Len(t, db.Containers, 1)
	assert.Equal(t, "/pk", db.Containers[0].PartitionKey)
	assert.Equal(t, 60, *db.Containers[0].DefaultTimeToLive)
	assert.Equal(t, "sp1", db.Containers[0].Scripts[0].ID)
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scripts/sp1.js", "function sp1() {}")
	path := writeFile(t, dir, "db.yaml", `
id: db1
containers:
  - id: c1
    partitionKey: /pk
    storedProcedures:
      - scripts/sp1.js
  - id: c2
    partitionKey: /tenant
    uniqueKeyPolicy:
      uniqueKeys:
        - paths: [/a, /b]
`)

	db, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, db.ContainerIDs())
	assert.Nil(t, db.Containers[0].IndexingPolicy)
	assert.Equal(t, []string{"/a", "/b"}, db.Containers[1].UniqueKeyPolicy.UniqueKeys[0].Paths)
	assert.Equal(t, "sp1", db.Containers[0].Scripts[0].ID)
}

func TestLoadFile_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "udf/tax.js", "function tax() {}")
	path := writeFile(t, dir, "db.toml", `
id = "db1"
throughput = 800

[[containers]]
id = "c1"
partitionKey = "/pk"
defaultTimeToLive = 3600
userDefinedFunctions = ["udf/tax.js"]

[containers.indexingPolicy]
automatic = false
indexingMode = "none"
`)

	db, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 800, *db.Throughput)
	c := db.Containers[0]
	assert.Equal(t, 3600, *c.DefaultTimeToLive)
	require.NotNil(t, c.IndexingPolicy)
	assert.False(t, *c.IndexingPolicy.Automatic)
	assert.Equal(t, model.IndexingModeNone, c.IndexingPolicy.IndexingMode)
	require.Len(t, c.Scripts, 1)
	assert.Equal(t, model.UserDefinedFunction, c.Scripts[0].Kind)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, bigbang.IsMissingDocumentErr(err))
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "db.json", `{"id": "db1", "containers": [`)
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, bigbang.IsInvalidDocumentErr(err))
}

func TestLoadFile_MissingScript(t *testing.T) {
	path := writeFile(t, t.TempDir(), "db.json",
		`{"id": "db1", "containers": [{"id": "c1", "partitionKey": "/pk", "storedProcedures": ["missing.js"]}]}`)
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, bigbang.IsInvalidDocumentErr(err))
	assert.Contains(t, err.Error(), "missing.js")
}

func TestLoadFile_ScriptCollisionBeforeRead(t *testing.T) {
	// Neither file exists: the collision must be reported, not the read error.
	path := writeFile(t, t.TempDir(), "db.json",
		`{"id": "db1", "containers": [{"id": "c1", "partitionKey": "/pk", "storedProcedures": ["a/foo.js", "b/foo.js"]}]}`)
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, bigbang.IsScriptIDCollisionErr(err))
}

func TestLoadFile_BackslashScriptPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("scripts", "foo.js"), "function foo() {}")
	path := writeFile(t, dir, "db.json",
		`{"id": "db1", "containers": [{"id": "c1", "partitionKey": "/pk", "storedProcedures": ["scripts\\foo.js"]}]}`)

	db, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, db.Containers[0].Scripts, 1)
	assert.Equal(t, "foo", db.Containers[0].Scripts[0].ID)
	assert.Equal(t, "function foo() {}", db.Containers[0].Scripts[0].Body)
}

func TestResolvePath(t *testing.T) {
	base := filepath.Join("root", "docs")
	assert.Equal(t, filepath.Join(base, "scripts", "a.js"), ResolvePath(base, "scripts/a.js"))
	assert.Equal(t, filepath.Join(base, "scripts", "a.js"), ResolvePath(base, `scripts\a.js`))

	abs, err := filepath.Abs(filepath.Join("elsewhere", "b.js"))
	require.NoError(t, err)
	assert.Equal(t, abs, ResolvePath(base, abs))
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	_, err := Decode([]byte("id: x"), Format("xml"))
	require.Error(t, err)
	assert.True(t, bigbang.IsInvalidDocumentErr(err))
}

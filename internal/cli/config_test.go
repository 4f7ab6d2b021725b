package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoRoot creates a temp directory marked as a repo root and changes into it.
func repoRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	t.Chdir(root)
	return root
}

func samePath(t *testing.T, expected, actual string) {
	t.Helper()
	// Resolve symlinks for comparison (macOS /var -> /private/var)
	expectedPath, _ := filepath.EvalSymlinks(expected)
	actualPath, _ := filepath.EvalSymlinks(actual)
	assert.Equal(t, expectedPath, actualPath)
}

func TestFindConfigFile_ExplicitPath(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("file: database.json"), 0o644))

	path, err := findConfigFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, tmpFile, path)
}

func TestFindConfigFile_ExplicitPathNotFound(t *testing.T) {
	_, err := findConfigFile("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestFindConfigFile_AutoDiscovery(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	configPath := filepath.Join(root, "bigbang.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("file: database.json"), 0o644))

	nested := filepath.Join(root, "deep", "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	path, err := findConfigFile("")
	require.NoError(t, err)
	samePath(t, configPath, path)
}

func TestFindConfigFile_PrefersYamlOverYml(t *testing.T) {
	root := repoRoot(t)
	yamlPath := filepath.Join(root, "bigbang.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("file: yaml.json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bigbang.yml"), []byte("file: yml.json"), 0o644))

	path, err := findConfigFile("")
	require.NoError(t, err)
	samePath(t, yamlPath, path)
}

func TestFindConfigFile_StopsAtGitRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bigbang.yaml"), []byte("file: above.json"), 0o644))

	project := filepath.Join(root, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".git"), 0o755))
	t.Chdir(project)

	path, err := findConfigFile("")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestFindConfigFile_NoConfigReturnsEmpty(t *testing.T) {
	repoRoot(t)

	path, err := findConfigFile("")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	repoRoot(t)

	cfg, configPath, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, configPath)

	assert.Empty(t, cfg.ConnectionString)
	assert.Empty(t, cfg.File)
	assert.False(t, cfg.Migrate.DryRun)
	assert.False(t, cfg.Migrate.ContinueOnError)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_FromFile(t *testing.T) {
	root := repoRoot(t)
	configPath := filepath.Join(root, "bigbang.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
file: topology/database.json
account:
  endpoint: https://localhost:8081/
  key: c2VjcmV0
migrate:
  continue_on_error: true
log:
  format: json
`), 0o644))

	cfg, foundPath, err := LoadConfig("")
	require.NoError(t, err)
	samePath(t, configPath, foundPath)

	assert.Equal(t, "topology/database.json", cfg.File)
	assert.Equal(t, "https://localhost:8081/", cfg.Account.Endpoint)
	assert.Equal(t, "c2VjcmV0", cfg.Account.Key)
	assert.True(t, cfg.Migrate.ContinueOnError)
	assert.Equal(t, "json", cfg.Log.Format)

	// Defaults still apply for unset values
	assert.False(t, cfg.Migrate.DryRun)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	root := repoRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "bigbang.yaml"), []byte("file: file.json"), 0o644))

	t.Setenv("BIGBANG_FILE", "env.json")

	cfg, _, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env.json", cfg.File)
}

func TestLoadConfig_NestedEnvVars(t *testing.T) {
	repoRoot(t)

	t.Setenv("BIGBANG_ACCOUNT_ENDPOINT", "https://envhost:8081/")
	t.Setenv("BIGBANG_MIGRATE_DRY_RUN", "true")
	t.Setenv("BIGBANG_LOG_LEVEL", "debug")

	cfg, _, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://envhost:8081/", cfg.Account.Endpoint)
	assert.True(t, cfg.Migrate.DryRun)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("file: [unclosed"), 0o644))

	_, foundPath, err := LoadConfig(path)
	require.Error(t, err)
	assert.Equal(t, path, foundPath)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestResolvedConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr string
	}{
		{
			name: "explicit connection string",
			cfg:  Config{ConnectionString: "AccountEndpoint=https://a/;AccountKey=k;"},
			want: "AccountEndpoint=https://a/;AccountKey=k;",
		},
		{
			name: "built from account",
			cfg:  Config{Account: AccountConfig{Endpoint: "https://b/", Key: "k2"}},
			want: "AccountEndpoint=https://b/;AccountKey=k2;",
		},
		{
			name: "connection string takes precedence",
			cfg: Config{
				ConnectionString: "AccountEndpoint=https://a/;AccountKey=k;",
				Account:          AccountConfig{Endpoint: "https://b/", Key: "k2"},
			},
			want: "AccountEndpoint=https://a/;AccountKey=k;",
		},
		{
			name:    "nothing configured",
			wantErr: "connection_string or account.endpoint and account.key are required",
		},
		{
			name:    "missing endpoint",
			cfg:     Config{Account: AccountConfig{Key: "k"}},
			wantErr: "account.endpoint is required",
		},
		{
			name:    "missing key",
			cfg:     Config{Account: AccountConfig{Endpoint: "https://b/"}},
			wantErr: "account.key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ResolvedConnectionString()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := &Config{
		ConnectionString: "AccountEndpoint=https://a/;AccountKey=c2VjcmV0;",
		Account:          AccountConfig{Endpoint: "https://b/", Key: "c2VjcmV0"},
		File:             "database.json",
	}

	out := cfg.Redacted()
	assert.Equal(t, "AccountEndpoint=https://a/;AccountKey=<redacted>;", out.ConnectionString)
	assert.Equal(t, "<redacted>", out.Account.Key)
	assert.Equal(t, "https://b/", out.Account.Endpoint)
	assert.Equal(t, "database.json", out.File)

	// The original is untouched
	assert.Equal(t, "c2VjcmV0", cfg.Account.Key)
}

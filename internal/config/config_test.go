package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir so Load sees no config.yaml or .env from the package.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4209, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/invoice.db", cfg.Database.Path)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
	assert.Equal(t, 10, cfg.App.PageSize)
	// generated for development
	assert.Len(t, cfg.JWT.Secret, 64)
	assert.NotEmpty(t, cfg.Security.EncryptionKey)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	yaml := `
server:
  port: 8080
database:
  driver: postgres
  dsn: host=db user=inv dbname=inv sslmode=disable
jwt:
  secret: from-file
app:
  page_size: 25
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("INV_SERVER_PORT", "9000")
	t.Setenv("INV_JWT_ISSUER", "acme")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "acme", cfg.JWT.Issuer)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 25, cfg.App.PageSize)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INV_BACKUP_DIR=/srv/backups\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("INV_BACKUP_DIR") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/backups", cfg.Backup.Dir)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [port"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Mode: "debug"},
			Database: DatabaseConfig{Driver: "sqlite", Path: "x.db"},
			JWT:      JWTConfig{ExpireHours: 1},
		}
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"unknown driver":       func(c *Config) { c.Database.Driver = "mysql" },
		"sqlite without path":  func(c *Config) { c.Database.Path = "" },
		"postgres without dsn": func(c *Config) { c.Database.Driver = "postgres" },
		"release without jwt":  func(c *Config) { c.Server.Mode = "release" },
		"non-positive expiry":  func(c *Config) { c.JWT.ExpireHours = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	c := valid()
	c.Server.Mode = "release"
	c.JWT.Secret = "s"
	assert.Error(t, c.Validate(), "encryption key is required too")
	c.Security.EncryptionKey = "k"
	assert.NoError(t, c.Validate())
	assert.Equal(t, 10, c.App.PageSize)
}

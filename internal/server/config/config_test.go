package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the loaders at an empty environment and argument list.
func isolate(t *testing.T, args ...string) {
	t.Helper()
	origArgs := os.Args
	origDotenv := dotenvFile
	t.Cleanup(func() {
		os.Args = origArgs
		dotenvFile = origDotenv
	})
	os.Args = append([]string{"testbin"}, args...)
	dotenvFile = filepath.Join(t.TempDir(), "missing.env")

	for _, k := range []string{EnvSecret, EnvAddress, EnvDatabaseDSN, EnvTokenValidity, EnvBcryptCost, EnvEnforceLinkOwnership} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	want := Config{
		EndpointAddrHTTP: ":8080",
		BcryptCost:       10,
		ShutdownTimeout:  10 * time.Second,
	}
	assert.Empty(t, cmp.Diff(want, c))
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_SECRET")

	c.SecretKey = "s"
	require.NoError(t, c.Validate())

	c.BcryptCost = 2
	assert.ErrorContains(t, c.Validate(), "bcrypt cost")

	c.BcryptCost = 10
	c.TokenValidityDuration = -time.Second
	assert.ErrorContains(t, c.Validate(), "negative")
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	isolate(t)

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_addr_http": ":9000", "bcrypt_cost": 12}`), 0o600))

	isolate(t, "-c", path, "-a", ":9100")
	t.Setenv(EnvSecret, "from-env")
	t.Setenv(EnvAddress, ":9200")
	t.Setenv(EnvBcryptCost, "11")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-env", c.SecretKey)
	// flags > json > env
	assert.Equal(t, ":9100", c.EndpointAddrHTTP)
	assert.Equal(t, 12, c.BcryptCost)
}

package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vaultServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != "root" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Equal(t, "/v1/secret/data/facility-reservation", r.URL.Path)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestApplyVaultSecrets(t *testing.T) {
	srv := vaultServer(t, `{"data":{"data":{"JWT_SECRET":"from-vault","DB_PASSWORD":"pw","UNRELATED":"x"}}}`)

	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "already-set")
	t.Setenv("UNRELATED", "")

	result, err := ApplyVaultSecrets(context.Background(), VaultConfig{
		Enabled:   true,
		Addr:      srv.URL,
		Token:     "root",
		Mount:     "secret",
		Path:      "facility-reservation",
		KVVersion: 2,
		Timeout:   time.Second,
		Keys:      DefaultKeys,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"JWT_SECRET"}, result.Loaded)
	assert.Equal(t, []string{"DB_PASSWORD"}, result.Skipped)
	assert.Equal(t, "from-vault", os.Getenv("JWT_SECRET"))
	assert.Equal(t, "already-set", os.Getenv("DB_PASSWORD"))
	assert.Empty(t, os.Getenv("UNRELATED"))
}

func TestApplyVaultSecrets_Disabled(t *testing.T) {
	result, err := ApplyVaultSecrets(context.Background(), VaultConfig{})
	require.NoError(t, err)
	assert.False(t, result.Enabled)
}

func TestApplyVaultSecrets_Incomplete(t *testing.T) {
	_, err := ApplyVaultSecrets(context.Background(), VaultConfig{Enabled: true, Addr: "http://vault"})
	assert.Error(t, err)
}

func TestLoadVaultConfigFromEnv(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "true")
	t.Setenv("VAULT_KV_VERSION", "1")
	t.Setenv("VAULT_KEYS", "JWT_SECRET, SMTP_PASSWORD")
	t.Setenv("VAULT_MOUNT", "")

	cfg := LoadVaultConfigFromEnv()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1, cfg.KVVersion)
	assert.Equal(t, "secret", cfg.Mount)
	assert.Equal(t, []string{"JWT_SECRET", "SMTP_PASSWORD"}, cfg.Keys)
}

func TestBuildVaultURL(t *testing.T) {
	url, err := buildVaultURL("http://vault:8200/", "/secret/", "/app", 1)
	require.NoError(t, err)
	assert.Equal(t, "http://vault:8200/v1/secret/app", url)

	_, err = buildVaultURL("", "secret", "app", 2)
	assert.Error(t, err)
}

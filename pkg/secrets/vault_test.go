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

func newVaultServer(t *testing.T, wantPath, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != "root" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		if r.URL.Path != wantPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestApply_Disabled(t *testing.T) {
	result, err := Apply(context.Background(), VaultConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, result.Enabled)
	assert.Empty(t, result.Loaded)
}

func TestApply_IncompleteConfig(t *testing.T) {
	_, err := Apply(context.Background(), VaultConfig{Enabled: true, Addr: "http://vault:8200"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestApply_KVv2ExportsMissingKeys(t *testing.T) {
	server := newVaultServer(t, "/v1/secret/data/santekene/ai",
		`{"data":{"data":{"GROQ_API_KEY":"gsk-from-vault","OPENAI_API_KEY":"sk-from-vault","GROQ_RATE_LIMIT_RPM":30}}}`)

	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-local")
	t.Setenv("GROQ_RATE_LIMIT_RPM", "")

	result, err := Apply(context.Background(), VaultConfig{
		Enabled:   true,
		Addr:      server.URL + "/",
		Token:     "root",
		Mount:     "secret",
		Path:      "/santekene/ai",
		KVVersion: 2,
		Timeout:   time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"GROQ_API_KEY", "GROQ_RATE_LIMIT_RPM"}, result.Loaded)
	assert.Equal(t, []string{"OPENAI_API_KEY"}, result.Skipped)
	assert.Equal(t, "gsk-from-vault", os.Getenv("GROQ_API_KEY"))
	assert.Equal(t, "30", os.Getenv("GROQ_RATE_LIMIT_RPM"))
	assert.Equal(t, "sk-local", os.Getenv("OPENAI_API_KEY"))
}

func TestApply_KVv1Overwrite(t *testing.T) {
	server := newVaultServer(t, "/v1/kv/santekene", `{"data":{"OPENAI_API_KEY":"sk-from-vault"}}`)
	t.Setenv("OPENAI_API_KEY", "sk-local")

	result, err := Apply(context.Background(), VaultConfig{
		Enabled:   true,
		Addr:      server.URL,
		Token:     "root",
		Mount:     "kv",
		Path:      "santekene",
		KVVersion: 1,
		Timeout:   time.Second,
		Overwrite: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"OPENAI_API_KEY"}, result.Loaded)
	assert.Equal(t, "sk-from-vault", os.Getenv("OPENAI_API_KEY"))
}

func TestApply_UpstreamError(t *testing.T) {
	server := newVaultServer(t, "/v1/secret/data/santekene", `{}`)

	_, err := Apply(context.Background(), VaultConfig{
		Enabled:   true,
		Addr:      server.URL,
		Token:     "wrong",
		Mount:     "secret",
		Path:      "santekene",
		KVVersion: 2,
		Timeout:   time.Second,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestLoadVaultConfig_Defaults(t *testing.T) {
	for _, key := range []string{"VAULT_ENABLED", "VAULT_MOUNT", "VAULT_KV_VERSION", "VAULT_TIMEOUT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadVaultConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "secret", cfg.Mount)
	assert.Equal(t, 2, cfg.KVVersion)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("UPLOADS_DIR", "/tmp/blog-uploads")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "3100", cfg.Port)
	assert.Equal(t, "http://localhost:3100", cfg.BaseURL)
	assert.Equal(t, time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, time.Hour, cfg.VerificationTTL)
	assert.Equal(t, 15, cfg.SupportedPostCount)
	assert.Equal(t, PolicyAnyCaller, cfg.PostDeletePolicy)
	assert.Equal(t, "/tmp/blog-uploads", cfg.UploadsDir)
	assert.Len(t, cfg.CORSOrigins, 4)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/blog")
	t.Setenv("BASE_URL", "https://api.example.com/")
	t.Setenv("JWT_EXPIRES_IN", "30m")
	t.Setenv("SUPPORTED_POST_COUNT", "5")
	t.Setenv("POST_DELETE_POLICY", "owner")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REDIS_DB", "2")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/blog", cfg.DatabaseURL)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiresIn)
	assert.Equal(t, 5, cfg.SupportedPostCount)
	assert.Equal(t, PolicyOwnerOnly, cfg.PostDeletePolicy)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"bad policy", map[string]string{"POST_DELETE_POLICY": "admins"}},
		{"bad driver", map[string]string{"DB_DRIVER": "mongo"}},
		{"bad duration", map[string]string{"JWT_EXPIRES_IN": "soon"}},
		{"bad post count", map[string]string{"SUPPORTED_POST_COUNT": "-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv("DB_DRIVER", "sqlite")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("JWT_SECRET=from-file\nDB_DRIVER=sqlite\nPORT=4000\n"), 0o600))

	// registered so cleanup restores whatever the file sets
	for _, k := range []string{"JWT_SECRET", "DB_DRIVER", "PORT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("UPLOADS_DIR", dir)

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "4000", cfg.Port)
}

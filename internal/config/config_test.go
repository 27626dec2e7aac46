package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mathnotes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		configData  string
		envVars     map[string]string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "Valid config file",
			configData: `
apiPort: 8080
log:
  level: debug
auth:
  jwtSecret: s3cret
  loginDelay: 0s
  sessionTTL: 2h
content:
  source: s3
  s3:
    bucket: notes
    endpoint: https://nyc3.digitaloceanspaces.com
cors:
  allowedOrigins: [https://mathnotes.io]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.APIPort)
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
				assert.Zero(t, cfg.Auth.LoginDelay)
				assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
				assert.Equal(t, SourceS3, cfg.Content.Source)
				assert.Equal(t, "notes", cfg.Content.S3.Bucket)
				assert.Equal(t, "catalog", cfg.Content.S3.Prefix)
				assert.Equal(t, []string{"https://mathnotes.io"}, cfg.CORS.AllowedOrigins)
			},
		},
		{
			name:        "Invalid config file",
			configData:  "apiPort: [not, a, port]\n",
			expectError: true,
		},
		{
			name:       "Environment variables override",
			configData: "apiPort: 8080\n",
			envVars: map[string]string{
				"APIPORT":        "9090",
				"CONTENT_SOURCE": "s3",
				"AUTH_JWTSECRET": "from-env",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.APIPort)
				assert.Equal(t, SourceS3, cfg.Content.Source)
				assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
			},
		},
		{
			name:       "Defaults",
			configData: "{}\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8081, cfg.APIPort)
				assert.Equal(t, "info", cfg.Log.Level)
				assert.Equal(t, 500*time.Millisecond, cfg.Auth.LoginDelay)
				assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
				assert.NotEmpty(t, cfg.Auth.JWTSecret)
				assert.Equal(t, SourceEmbedded, cfg.Content.Source)
				assert.Equal(t, uint(3), cfg.Content.FetchAttempts)
				assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.configData)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig(path)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.APIPort)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "apiPort: [\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())

	cfg.Content.Source = SourceS3
	assert.Error(t, cfg.Validate())

	cfg.Content.S3.Bucket = "notes"
	assert.NoError(t, cfg.Validate())

	cfg.Content.Source = "ftp"
	assert.Error(t, cfg.Validate())

	cfg.Content.Source = SourceEmbedded
	cfg.APIPort = 70000
	assert.Error(t, cfg.Validate())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APIPORT=9100\nCONTENT_SOURCE=embedded\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("APIPORT")
		os.Unsetenv("CONTENT_SOURCE")
	})

	require.NoError(t, LoadEnvFile(path))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.APIPort)
	assert.Equal(t, SourceEmbedded, cfg.Content.Source)
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, LoadEnvFile(""))
}

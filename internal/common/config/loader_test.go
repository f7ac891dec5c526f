package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: portal\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "portal", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "km-blr", cfg.Enrollment.StudentCollection)
	assert.Equal(t, "blr-college", cfg.Enrollment.CollegeCollection)
	assert.Equal(t, "student", cfg.Enrollment.CreatedBy)
	assert.Equal(t, "enquiry", cfg.Enrollment.InitialStatus)
	assert.Equal(t, 10*time.Second, GetDuration(cfg.Enrollment.StoreTimeout))
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")
	path := writeConfig(t, `
store:
  driver: postgres
database:
  postgres:
    host: localhost
    database: enroll
    user: portal
    password: ${TEST_PG_PASSWORD}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "dbname=enroll")
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("DATABASE_REDIS_ADDRESS", "localhost:6379")
	path := writeConfig(t, "store:\n  driver: memory\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "localhost:6379", cfg.Database.Redis.Address)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown driver",
			body:    "store:\n  driver: mongo\n",
			wantErr: "not supported",
		},
		{
			name:    "postgres without host",
			body:    "store:\n  driver: postgres\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "elasticsearch without url",
			body:    "store:\n  driver: elasticsearch\n",
			wantErr: "database.elasticsearch.addresses or url is required",
		},
		{
			name:    "same collections",
			body:    "enrollment:\n  student_collection: x\n  college_collection: x\n",
			wantErr: "must differ",
		},
		{
			name:    "camunda enabled without broker",
			body:    "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestElasticsearchConfig_GetURL(t *testing.T) {
	assert.Equal(t, "http://a:9200", ElasticsearchConfig{Addresses: []string{"http://a:9200"}}.GetURL())
	assert.Equal(t, "http://u:9200", ElasticsearchConfig{URL: "http://u:9200", Addresses: []string{"http://a:9200"}}.GetURL())
	assert.Equal(t, "", ElasticsearchConfig{}.GetURL())
}

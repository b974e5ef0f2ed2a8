package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfig_YamlAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte("DB_HOST: db.internal\nDB_NAME: foodgram\nAPP_URL: https://foodgram.example\n"), 0o600)
	assert.NoError(t, err)

	LoadConfigFrom(path)
	t.Cleanup(func() { config = Config{} })

	assert.Equal(t, "db.internal", GetConfig("DB_HOST"))
	assert.Equal(t, "https://foodgram.example", GetConfig("APP_URL"))

	t.Setenv("DB_NAME", "override")
	assert.Equal(t, "override", GetConfig("DB_NAME"))
}

func TestGetConfig_Defaults(t *testing.T) {
	config = Config{}
	t.Setenv("APP_PORT", "")
	t.Setenv("LOG_LEVEL", "")

	assert.Equal(t, "8080", GetConfig("APP_PORT"))
	assert.Equal(t, "info", GetConfig("LOG_LEVEL"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}

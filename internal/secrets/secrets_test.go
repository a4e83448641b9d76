package secrets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/config"
)

func TestBundle_DecodesSecretKeys(t *testing.T) {
	payload := `{
		"PROJ-DB-NAME": "chats",
		"PROJ-DB-USER": "svc",
		"PROJ-DB-PASSWORD": "pw",
		"PROJ-DB-HOST": "db.internal",
		"PROJ-DB-PORT": "5433",
		"PROJ-OPENAI-API-KEY": "sk-secret",
		"PROJ-AWS-STORAGE-BUCKET-NAME": "chat-blobs",
		"PROJ-AWS-REGION": "eu-west-1"
	}`

	var bundle Bundle
	require.NoError(t, json.Unmarshal([]byte(payload), &bundle))
	assert.Equal(t, "chats", bundle.DBName)
	assert.Equal(t, "5433", bundle.DBPort)
	assert.Equal(t, "sk-secret", bundle.OpenAIAPIKey)
	assert.Equal(t, "chat-blobs", bundle.S3Bucket)
}

func TestOverlay_NonEmptyFieldsWin(t *testing.T) {
	cfg := &config.Config{}
	cfg.Postgres.Host = "toml-host"
	cfg.Postgres.Port = 5432
	cfg.LLM.APIKey = "toml-key"
	cfg.S3.Bucket = "toml-bucket"

	bundle := Bundle{
		DBHost:       "secret-host",
		DBPort:       "5433",
		OpenAIAPIKey: "secret-key",
	}
	bundle.Overlay(cfg)

	assert.Equal(t, "secret-host", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, "secret-key", cfg.LLM.APIKey)
	// empty bundle fields leave config values alone
	assert.Equal(t, "toml-bucket", cfg.S3.Bucket)
}

func TestOverlay_BadPortIgnored(t *testing.T) {
	cfg := &config.Config{}
	cfg.Postgres.Port = 5432

	bundle := Bundle{DBPort: "fifty"}
	bundle.Overlay(cfg)

	assert.Equal(t, 5432, cfg.Postgres.Port)
}

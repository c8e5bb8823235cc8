package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{name: "valid config", modify: func(*Config) {}},
		{name: "no feeds", modify: func(c *Config) { c.Feeds.Sources = nil }, wantErr: true, errMsg: "feeds.sources is required"},
		{name: "missing endpoint", modify: func(c *Config) { c.LLM.Endpoint = "" }, wantErr: true, errMsg: "llm.endpoint is required"},
		{name: "missing model", modify: func(c *Config) { c.LLM.Model = "" }, wantErr: true, errMsg: "llm.model is required"},
		{name: "file backend without dir", modify: func(c *Config) { c.Snapshot.Dir = "" }, wantErr: true, errMsg: "snapshot.dir is required"},
		{name: "sqlite backend without dsn", modify: func(c *Config) {
			c.Snapshot.Backend = "sqlite"
			c.Snapshot.DSN = ""
		}, wantErr: true, errMsg: "snapshot.dsn is required"},
		{name: "missing smtp host", modify: func(c *Config) { c.SMTP.Host = "" }, wantErr: true, errMsg: "smtp.host is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.setDefaults()
			tt.modify(cfg)

			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEmbeddedSchema(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(embeddedSchema), &schema))

	props := schemaProperties(schema)
	for _, key := range []string{"feeds", "llm", "pipeline", "snapshot", "smtp", "extraction", "server"} {
		assert.Contains(t, props, key)
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), "LLMConfig")
	assert.Contains(t, string(data), "SnapshotConfig")
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shopConfig struct {
	Port      int      `env:"CFG_TEST_PORT" envDefault:"8080"`
	Domain    string   `env:"CFG_TEST_DOMAIN" envDefault:"example.myshopify.com"`
	PageSize  int      `env:"CFG_TEST_PAGE_SIZE" envDefault:"100"`
	Brokers   []string `env:"CFG_TEST_BROKERS" envSeparator:","`
	Streaming bool     `env:"CFG_TEST_STREAMING" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg shopConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "example.myshopify.com", cfg.Domain)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Empty(t, cfg.Brokers)
	assert.False(t, cfg.Streaming)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("CFG_TEST_PORT", "9090")
	t.Setenv("CFG_TEST_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CFG_TEST_STREAMING", "true")

	var cfg shopConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers)
	assert.True(t, cfg.Streaming)
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("SHOP_CFG_TEST_PORT", "7070")
	t.Setenv("CFG_TEST_PORT", "9090")

	var cfg shopConfig
	require.NoError(t, LoadWithPrefix(&cfg, "SHOP_"))

	assert.Equal(t, 7070, cfg.Port)
}

type tokenConfig struct {
	Token string `env:"CFG_TEST_TOKEN,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg tokenConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("CFG_TEST_PAGE_SIZE", "lots")

	var cfg shopConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

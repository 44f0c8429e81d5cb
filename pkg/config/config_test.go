package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Port    int      `env:"CFGTEST_PORT" envDefault:"8013" validate:"min=1,max=65535"`
	Source  string   `env:"CFGTEST_SOURCE" envDefault:"postgres" validate:"oneof=postgres redis"`
	Brokers []string `env:"CFGTEST_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	Enabled bool     `env:"CFGTEST_ENABLED" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg sampleConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8013, cfg.Port)
	assert.Equal(t, "postgres", cfg.Source)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.False(t, cfg.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CFGTEST_PORT", "9000")
	t.Setenv("CFGTEST_SOURCE", "redis")
	t.Setenv("CFGTEST_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CFGTEST_ENABLED", "true")

	var cfg sampleConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "redis", cfg.Source)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers)
	assert.True(t, cfg.Enabled)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("CFGTEST_PORT", "eighty")

	var cfg sampleConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_ValidationError(t *testing.T) {
	t.Setenv("CFGTEST_SOURCE", "mysql")

	var cfg sampleConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
	assert.Contains(t, err.Error(), "Source")
}

func TestLoad_PortOutOfRange(t *testing.T) {
	t.Setenv("CFGTEST_PORT", "70000")

	var cfg sampleConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Port")
}

type requiredConfig struct {
	Secret string `env:"CFGTEST_SECRET,required"`
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

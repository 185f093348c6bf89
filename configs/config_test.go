package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: shopcore-api
  http_addr: ":8080"
mysql:
  dsn: "root:root@tcp(localhost:3306)/shop"
broker:
  driver: disabled
  topics:
    order.completed: prod.orders.completed
outbox:
  tick: 2s
  batch_size: 50
  max_attempts: 3
  retry_backoff: 5s
`

func writeConfigs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadLayersBaseEnvAndVars(t *testing.T) {
	dir := writeConfigs(t, map[string]string{
		"base.yaml": baseYAML,
		"dev.yaml":  "app:\n  http_addr: \":9090\"\n",
	})
	t.Setenv("SHOPCORE_BROKER__DRIVER", "disabled")
	t.Setenv("SHOPCORE_CHECKOUT__TAX_RATE", "0.08")

	cfg, err := Load(dir, "dev")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.App.HTTPAddr, "env yaml overrides base")
	assert.Equal(t, "0.08", cfg.Checkout.TaxRate, "env vars override files")
	assert.Equal(t, 2*time.Second, cfg.Outbox.Tick)
	assert.Equal(t, 3, cfg.Outbox.MaxAttempts)
	assert.Equal(t, "prod.orders.completed", cfg.Broker.Topics["order.completed"])
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	dir := writeConfigs(t, map[string]string{"base.yaml": baseYAML})

	cfg, err := Load(dir, "staging")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
}

func TestValidate(t *testing.T) {
	dir := writeConfigs(t, map[string]string{"base.yaml": baseYAML})
	cfg, err := Load(dir, "dev")
	require.NoError(t, err)

	bad := cfg
	bad.MySQL.DSN = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Broker.Driver = "nats"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Broker.Driver = "kafka"
	bad.Broker.Kafka.Brokers = nil
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Outbox.MaxAttempts = 0
	assert.Error(t, bad.Validate())
}

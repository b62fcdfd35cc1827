package config

import (
	// Go Internal Packages
	"testing"
	"time"

	// External Packages
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefault(t *testing.T) Config {
	t.Helper()
	k := koanf.New(".")
	require.NoError(t, k.Load(rawbytes.Provider(DefaultConfig), yaml.Parser()))

	conf := Config{}
	require.NoError(t, k.Unmarshal("", &conf))
	return conf
}

func TestDefaultConfigIsValid(t *testing.T) {
	conf := loadDefault(t)
	require.NoError(t, conf.Validate())

	assert.Equal(t, "disburser", conf.Application)
	assert.Equal(t, "payment-events", conf.Kafka.Topic)
	assert.Equal(t, 3, conf.Disbursement.MaxRetries)
	assert.Equal(t, 5*time.Minute, conf.Disbursement.StuckAfter)
	assert.Equal(t, 24*time.Hour, conf.Disbursement.SuccessRateWindow)
	assert.Equal(t, 20, conf.Disbursement.RecentJobsLimit)
	assert.Equal(t, 10, conf.Disbursement.RetryableJobsLimit)
}

func TestValidateReportsEveryBadField(t *testing.T) {
	conf := loadDefault(t)
	conf.Mongo.URI = ""
	conf.Disbursement.MaxRetries = 0
	conf.Disbursement.StuckAfter = 0

	err := conf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo.uri")
	assert.Contains(t, err.Error(), "disbursement.max_retries")
	assert.Contains(t, err.Error(), "disbursement.stuck_after")
}

func TestKafkaBrokersOnlyRequiredWhenConsuming(t *testing.T) {
	conf := loadDefault(t)
	conf.Kafka.Brokers = nil

	conf.Kafka.Consume = true
	require.Error(t, conf.Validate())

	conf.Kafka.Consume = false
	require.NoError(t, conf.Validate())
}

func TestFileOverridesDefaults(t *testing.T) {
	override := []byte(`
disbursement:
  stuck_after: "10m"
  max_retries: 5
`)
	k := koanf.New(".")
	require.NoError(t, k.Load(rawbytes.Provider(DefaultConfig), yaml.Parser()))
	require.NoError(t, k.Load(rawbytes.Provider(override), yaml.Parser()))

	conf := Config{}
	require.NoError(t, k.Unmarshal("", &conf))
	assert.Equal(t, 10*time.Minute, conf.Disbursement.StuckAfter)
	assert.Equal(t, 5, conf.Disbursement.MaxRetries)
	assert.Equal(t, 20, conf.Disbursement.RecentJobsLimit)
}

package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConf(t *testing.T) {
	path := writeConf(t, "oracle.json", `{
		"Listen": ":4000",
		"FactorURL": "https://factor.example.com",
		"FactorAuth": "token",
		"VerifyServiceID": "VA00",
		"VerifyCredential": "dXNlcjpwYXNz",
		"Timeout": "3s",
		"RateLimit": 5,
		"RateBurst": 10
	}`)

	conf, err := LoadConf(path)
	require.NoError(t, err)

	assert.Equal(t, ":4000", conf.Listen)
	assert.Equal(t, "https://factor.example.com", conf.FactorURL)
	assert.Equal(t, "token", conf.FactorAuth)
	assert.Equal(t, "https://verify.twilio.com", conf.VerifyURL)
	assert.Equal(t, "VA00", conf.VerifyServiceID)
	assert.Equal(t, "dXNlcjpwYXNz", conf.VerifyCredential)
	assert.Equal(t, 3*time.Second, conf.Timeout)
	assert.Equal(t, 5.0, conf.RateLimit)
	assert.Equal(t, 10, conf.RateBurst)
	assert.Equal(t, "info", conf.LogLevel)
}

func TestLoadConfDefaults(t *testing.T) {
	path := writeConf(t, "oracle.yaml", "VerifyServiceID: VA00\nVerifyCredential: abc\n")

	conf, err := LoadConf(path)
	require.NoError(t, err)

	assert.Equal(t, ":3000", conf.Listen)
	assert.Equal(t, 10*time.Second, conf.Timeout)
	assert.Equal(t, 0.0, conf.RateLimit)
	assert.False(t, conf.LogJSON)
}

func TestLoadConfEnvOverride(t *testing.T) {
	path := writeConf(t, "oracle.json", `{"VerifyServiceID": "VA00", "VerifyCredential": "abc"}`)
	t.Setenv("ORACLE_VERIFYSERVICEID", "VA99")
	t.Setenv("ORACLE_TIMEOUT", "250ms")

	conf, err := LoadConf(path)
	require.NoError(t, err)

	assert.Equal(t, "VA99", conf.VerifyServiceID)
	assert.Equal(t, 250*time.Millisecond, conf.Timeout)
}

func TestLoadConfInvalid(t *testing.T) {
	_, err := LoadConf(writeConf(t, "missing.json", `{"VerifyServiceID": "VA00"}`))
	assert.Error(t, err)

	_, err = LoadConf(writeConf(t, "badurl.json", `{"VerifyServiceID": "VA00", "VerifyCredential": "abc", "FactorURL": "nope"}`))
	assert.Error(t, err)

	_, err = LoadConf(writeConf(t, "level.json", `{"VerifyServiceID": "VA00", "VerifyCredential": "abc", "LogLevel": "loud"}`))
	assert.Error(t, err)

	_, err = LoadConf(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestConfigureLogger(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)
	defer log.SetFormatter(&log.TextFormatter{})

	conf := &Conf{LogLevel: "debug", LogJSON: true}
	require.NoError(t, conf.ConfigureLogger())
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	conf.LogLevel = "loud"
	assert.Error(t, conf.ConfigureLogger())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	os.Setenv("NIRMAN_MODE", "development")
	os.Setenv("NIRMAN_PORT", "5299")
	os.Setenv("NIRMAN_WEATHER_KEY", "unit-test-key")
	os.Setenv("NIRMAN_WEATHER_CITY", "Pokhara")
	defer func() {
		os.Unsetenv("NIRMAN_MODE")
		os.Unsetenv("NIRMAN_PORT")
		os.Unsetenv("NIRMAN_WEATHER_KEY")
		os.Unsetenv("NIRMAN_WEATHER_CITY")
	}()

	cfg := Load()
	assert.Equal(t, "development", cfg.Mode)
	assert.Equal(t, 5299, cfg.Port)
	assert.Equal(t, "unit-test-key", cfg.Weather.Key)
	assert.Equal(t, "Pokhara", cfg.Weather.City)
	assert.Equal(t, "https://api.openweathermap.org", cfg.Weather.Endpoint)
	assert.Equal(t, "/dashboard", cfg.OAuth.SuccessURL)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	root, _ := filepath.Abs(".")
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, []string{"./db/nirman.db"}, cfg.DB.Primary)
	assert.Equal(t, "Kathmandu", cfg.Weather.City)
	assert.Equal(t, "/oauth/callback", cfg.OAuth.RedirectURI)
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	envfile := filepath.Join(dir, ".env")
	content := "NIRMAN_HOST=127.0.0.1\nNIRMAN_PORT=5399\nNIRMAN_JWT_SECRET=test-secret\n"
	if err := os.WriteFile(envfile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadFrom(envfile)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 5399, cfg.Port)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
}

package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nirman-app/nirman/config"
)

func TestCurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Kathmandu", r.URL.Query().Get("q"))
		assert.Equal(t, "unit-test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"main":{"temp":21.5},"weather":[{"description":"clear sky"}],"name":"Kathmandu"}`))
	}))
	defer server.Close()

	client := New(config.Weather{Key: "unit-test-key", City: "Kathmandu", Endpoint: server.URL})
	snapshot, err := client.Current(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 21.5, snapshot.Temperature)
	assert.Equal(t, "clear sky", snapshot.Description)
	assert.Equal(t, "Kathmandu", snapshot.City)
	assert.Equal(t, "clear sky in Kathmandu", snapshot.Summary())
}

func TestCurrentProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer server.Close()

	client := New(config.Weather{Key: "bad-key", City: "Kathmandu", Endpoint: server.URL})
	_, err := client.Current(context.Background())
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestCurrentWithoutKey(t *testing.T) {
	client := New(config.Weather{City: "Kathmandu", Endpoint: "https://api.openweathermap.org"})
	_, err := client.Current(context.Background())
	assert.NotNil(t, err)
}

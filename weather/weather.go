package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/nirman-app/nirman/config"
)

// Snapshot the current weather of one city, fetched fresh on each
// dashboard load and never persisted
type Snapshot struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"` // celsius
	Description string    `json:"description"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Summary render the snapshot the way the dashboard panel shows it
func (snapshot Snapshot) Summary() string {
	return fmt.Sprintf("%s in %s", snapshot.Description, snapshot.City)
}

// Client an OpenWeatherMap current-weather client
type Client struct {
	endpoint string
	key      string
	city     string
	http     *http.Client
}

// response the provider fields the dashboard consumes
type response struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Name string `json:"name"`
}

// New create a client from the weather config
func New(cfg config.Weather) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		key:      cfg.Key,
		city:     cfg.City,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Current fetch the current weather for the configured city
func (client *Client) Current(ctx context.Context) (Snapshot, error) {
	return client.CurrentFor(ctx, client.city)
}

// CurrentFor fetch the current weather for one city
func (client *Client) CurrentFor(ctx context.Context, city string) (Snapshot, error) {

	if client.key == "" {
		return Snapshot{}, fmt.Errorf("weather API key was not set")
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", client.key)
	params.Set("units", "metric")
	endpoint := fmt.Sprintf("%s/data/2.5/weather?%s", client.endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Snapshot{}, err
	}

	res, err := client.http.Do(req)
	if err != nil {
		return Snapshot{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Snapshot{}, err
	}

	if res.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("weather provider returned %d: %s", res.StatusCode, string(body))
	}

	data := response{}
	if err := jsoniter.Unmarshal(body, &data); err != nil {
		return Snapshot{}, err
	}

	description := ""
	if len(data.Weather) > 0 {
		description = data.Weather[0].Description
	}

	return Snapshot{
		City:        data.Name,
		Temperature: data.Main.Temp,
		Description: description,
		FetchedAt:   time.Now(),
	}, nil
}

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tableflip.dev/pawlog/pkg/store"
)

// Reading is one observation of current conditions, metric units.
type Reading struct {
	Temp        float64
	Humidity    int
	WindSpeed   float64
	Description string
	Icon        string
	FetchedAt   time.Time
}

// Client fetches current conditions from an OpenWeather-compatible
// endpoint. Place takes precedence over coordinates when set.
type Client struct {
	Config     store.WeatherConfig
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Current fetches the current conditions.
func (c *Client) Current(ctx context.Context) (*Reading, error) {
	if c.Config.Endpoint == "" {
		return nil, errors.New("weather: no endpoint configured")
	}

	q := url.Values{}
	q.Set("units", "metric")
	if c.Config.APIKey != "" {
		q.Set("appid", c.Config.APIKey)
	}
	if c.Config.Place != "" {
		q.Set("q", c.Config.Place)
	} else {
		q.Set("lat", strconv.FormatFloat(c.Config.Latitude, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(c.Config.Longitude, 'f', -1, 64))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Config.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: build request: %w", err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: provider returned %s", resp.Status)
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("weather: decode response: %w", err)
	}

	r := &Reading{
		Temp:      body.Main.Temp,
		Humidity:  body.Main.Humidity,
		WindSpeed: body.Wind.Speed,
		FetchedAt: time.Now(),
	}
	if len(body.Weather) > 0 {
		r.Description = body.Weather[0].Description
		r.Icon = body.Weather[0].Icon
	}
	return r, nil
}

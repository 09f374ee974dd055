package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tableflip.dev/pawlog/pkg/store"
)

const sampleBody = `{
	"main": {"temp": 21.4, "humidity": 63},
	"wind": {"speed": 3.2},
	"weather": [{"description": "scattered clouds", "icon": "03d"}]
}`

func TestCurrentDecodesProviderResponse(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	c := &Client{Config: store.WeatherConfig{
		Endpoint:  srv.URL,
		APIKey:    "k",
		Latitude:  52.52,
		Longitude: 13.405,
	}}

	r, err := c.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if r.Temp != 21.4 || r.Humidity != 63 || r.WindSpeed != 3.2 {
		t.Fatalf("unexpected reading: %+v", r)
	}
	if r.Description != "scattered clouds" || r.Icon != "03d" {
		t.Fatalf("unexpected condition fields: %+v", r)
	}
	for _, want := range []string{"units=metric", "appid=k", "lat=52.52", "lon=13.405"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestCurrentPlaceOverridesCoordinates(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	c := &Client{Config: store.WeatherConfig{Endpoint: srv.URL, Place: "Berlin"}}
	if _, err := c.Current(context.Background()); err != nil {
		t.Fatalf("current: %v", err)
	}
	if !strings.Contains(gotQuery, "q=Berlin") {
		t.Fatalf("query %q missing place", gotQuery)
	}
	if strings.Contains(gotQuery, "lat=") {
		t.Fatalf("query %q should not carry coordinates", gotQuery)
	}
}

func TestCurrentNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := &Client{Config: store.WeatherConfig{Endpoint: srv.URL}}
	if _, err := c.Current(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestPollerKeepsLastGoodReading(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	p := &Poller{Client: &Client{Config: store.WeatherConfig{Endpoint: srv.URL}}}
	ctx := context.Background()

	p.Fetch(ctx)
	r, err := p.Reading()
	if err != nil || r == nil {
		t.Fatalf("expected reading, got %v, %v", r, err)
	}

	fail = true
	p.Fetch(ctx)
	r2, err := p.Reading()
	if err != nil || r2 == nil {
		t.Fatalf("failure must preserve last good reading, got %v, %v", r2, err)
	}
	if r2.Temp != r.Temp {
		t.Fatalf("reading changed on failed fetch")
	}
}

func TestPollerErrorStateWhenNeverFetched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := &Poller{Client: &Client{Config: store.WeatherConfig{Endpoint: srv.URL}}}
	p.Fetch(context.Background())
	if r, err := p.Reading(); r != nil || err == nil {
		t.Fatalf("expected error state, got %v, %v", r, err)
	}
}

func TestPollerRunFetchesAndStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	p := &Poller{
		Client:   &Client{Config: store.WeatherConfig{Endpoint: srv.URL}},
		Interval: 5 * time.Millisecond,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if r, _ := p.Reading(); r != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run never produced a reading")
		}
		time.Sleep(2 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on cancel")
	}
}

func TestGlyphTable(t *testing.T) {
	cases := map[string]string{
		"01d": "☀️",
		"01n": "🌙",
		"02d": "⛅",
		"02n": "⛅",
		"10d": "🌦️",
		"13n": "❄️",
		"50d": "🌫️",
		"99x": DefaultGlyph,
		"":    DefaultGlyph,
	}
	for icon, want := range cases {
		if got := Glyph(icon); got != want {
			t.Fatalf("Glyph(%q) = %q, want %q", icon, got, want)
		}
	}
}

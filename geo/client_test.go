package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yllada/vpn-panel/common"
)

func serve(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != common.BinaryName {
			t.Errorf("User-Agent = %q, want %q", ua, common.BinaryName)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second)
}

func TestFetchIdentity_Success(t *testing.T) {
	c := serve(t, http.StatusOK, `{
		"status": "success",
		"query": "1.2.3.4",
		"country": "Germany",
		"countryCode": "de",
		"regionName": "Berlin",
		"city": "Berlin",
		"isp": "ExampleISP"
	}`)

	got, err := c.FetchIdentity(context.Background())
	if err != nil {
		t.Fatalf("FetchIdentity() error = %v", err)
	}

	want := common.Identity{
		IP:          "1.2.3.4",
		Country:     "Germany",
		Region:      "Berlin",
		ISP:         "ExampleISP",
		CountryCode: "DE",
		City:        "Berlin",
	}
	if got != want {
		t.Errorf("FetchIdentity() = %+v, want %+v", got, want)
	}
}

func TestFetchIdentity_OptionalFieldsMayBeAbsent(t *testing.T) {
	c := serve(t, http.StatusOK, `{"query":"1.2.3.4","country":"Germany","regionName":"Berlin","isp":"ExampleISP"}`)

	got, err := c.FetchIdentity(context.Background())
	if err != nil {
		t.Fatalf("FetchIdentity() error = %v", err)
	}
	if got.CountryCode != "" || got.City != "" {
		t.Errorf("optional fields = %q, %q, want empty", got.CountryCode, got.City)
	}
}

func TestFetchIdentity_BadResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"query":"1.2.3.4"}`},
		{"rate limited", http.StatusTooManyRequests, ``},
		{"not json", http.StatusOK, `<html>blocked</html>`},
		{"empty body", http.StatusOK, `   `},
		{"service refused", http.StatusOK, `{"status":"fail","message":"reserved range","query":"10.0.0.1"}`},
		{"missing isp", http.StatusOK, `{"query":"1.2.3.4","country":"Germany","regionName":"Berlin"}`},
		{"missing query", http.StatusOK, `{"country":"Germany","regionName":"Berlin","isp":"ExampleISP"}`},
		{"blank country", http.StatusOK, `{"query":"1.2.3.4","country":" ","regionName":"Berlin","isp":"ExampleISP"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := serve(t, tt.status, tt.body)

			_, err := c.FetchIdentity(context.Background())

			var lerr *common.LookupError
			if !errors.As(err, &lerr) {
				t.Fatalf("FetchIdentity() error = %v, want *common.LookupError", err)
			}
			if lerr.Kind != common.LookupBadResponse {
				t.Errorf("Kind = %v, want %v", lerr.Kind, common.LookupBadResponse)
			}
		})
	}
}

func TestFetchIdentity_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchIdentity(context.Background())

	var lerr *common.LookupError
	if !errors.As(err, &lerr) || lerr.Kind != common.LookupNetwork {
		t.Errorf("FetchIdentity() error = %v, want LookupError{network}", err)
	}
}

func TestFetchIdentity_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewClient(srv.URL, 100*time.Millisecond).FetchIdentity(context.Background())

	var lerr *common.LookupError
	if !errors.As(err, &lerr) || lerr.Kind != common.LookupNetwork {
		t.Errorf("FetchIdentity() error = %v, want LookupError{network}", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("FetchIdentity() took %v, want it bounded by the client timeout", elapsed)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", 0)

	if c.Endpoint != common.DefaultGeoEndpoint {
		t.Errorf("Endpoint = %q, want %q", c.Endpoint, common.DefaultGeoEndpoint)
	}
	if c.HTTPClient.Timeout != common.LookupTimeout {
		t.Errorf("Timeout = %v, want %v", c.HTTPClient.Timeout, common.LookupTimeout)
	}
}

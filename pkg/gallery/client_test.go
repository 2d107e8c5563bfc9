package gallery

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pagefetch/pkg/config"
	"pagefetch/pkg/errors"
)

func testClient(baseURL string) *Client {
	return NewClient(
		config.SourceConfig{BaseURL: baseURL, PagePrefix: "set", ImageExt: ".jpg"},
		config.HTTPConfig{Timeout: 2 * time.Second, UserAgent: "pagefetch-test"},
		nil,
	)
}

func TestPageSegment(t *testing.T) {
	if got := PageSegment("set", 12); got != "set_12" {
		t.Errorf("PageSegment = %q, want %q", got, "set_12")
	}
}

func TestImageFilename(t *testing.T) {
	if got := ImageFilename(3, ".png"); got != "3.png" {
		t.Errorf("ImageFilename = %q, want %q", got, "3.png")
	}
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		page    int
		index   int
		want    string
	}{
		{
			name:    "plain base",
			baseURL: "http://x.test/g",
			page:    1,
			index:   1,
			want:    "http://x.test/g/set_1/1.jpg",
		},
		{
			name:    "trailing slash trimmed",
			baseURL: "http://x.test/g/",
			page:    2,
			index:   14,
			want:    "http://x.test/g/set_2/14.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(tt.baseURL)
			if got := c.ImageURL(tt.page, tt.index); got != tt.want {
				t.Errorf("ImageURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchImageSuccess(t *testing.T) {
	body := []byte("jpeg bytes")
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write(body)
	}))
	defer server.Close()

	c := testClient(server.URL)
	data, err := c.FetchImage(server.URL + "/set_1/1.jpg")
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}
	if !bytes.Equal(data, body) {
		t.Error("Fetched bytes do not match response body")
	}
	if gotUserAgent != "pagefetch-test" {
		t.Errorf("Expected configured User-Agent to be sent, got %q", gotUserAgent)
	}
}

func TestFetchImageStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantType errors.ErrorType
	}{
		{"not found", http.StatusNotFound, errors.ErrorTypeNotFound},
		{"forbidden", http.StatusForbidden, errors.ErrorTypeUnknown},
		{"server error", http.StatusInternalServerError, errors.ErrorTypeServerError},
		{"bad gateway", http.StatusBadGateway, errors.ErrorTypeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := testClient(server.URL)
			_, err := c.FetchImage(server.URL + "/set_1/1.jpg")
			if err == nil {
				t.Fatal("Expected an error for non-success status")
			}
			if got := errors.TypeOf(err); got != tt.wantType {
				t.Errorf("Error type = %q, want %q", got, tt.wantType)
			}
			if got := errors.StatusCode(err); got != tt.status {
				t.Errorf("Status code = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestFetchImageAcceptsAny2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte("partial"))
	}))
	defer server.Close()

	c := testClient(server.URL)
	data, err := c.FetchImage(server.URL + "/set_1/1.jpg")
	if err != nil {
		t.Fatalf("Expected 2xx response to succeed: %v", err)
	}
	if string(data) != "partial" {
		t.Errorf("Unexpected body: %q", data)
	}
}

func TestFetchImageTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewClient(
		config.SourceConfig{BaseURL: server.URL, PagePrefix: "set", ImageExt: ".jpg"},
		config.HTTPConfig{Timeout: 20 * time.Millisecond, UserAgent: "pagefetch-test"},
		nil,
	)

	_, err := c.FetchImage(server.URL + "/set_1/1.jpg")
	if err == nil {
		t.Fatal("Expected a timeout error")
	}
	if got := errors.TypeOf(err); got != errors.ErrorTypeNetwork {
		t.Errorf("Error type = %q, want %q", got, errors.ErrorTypeNetwork)
	}
}

func TestFetchImageConnectionRefused(t *testing.T) {
	// Grab a port that is closed by the time the request is made.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := testClient(url)
	_, err := c.FetchImage(url + "/set_1/1.jpg")
	if err == nil {
		t.Fatal("Expected a connection error")
	}
	if got := errors.TypeOf(err); got != errors.ErrorTypeNetwork {
		t.Errorf("Error type = %q, want %q", got, errors.ErrorTypeNetwork)
	}
}

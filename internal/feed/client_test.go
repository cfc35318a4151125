package feed

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"quakewatch/internal/model"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error

	gotURL string
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	m.gotURL = req.URL.String()
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func loadFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return string(data)
}

func TestFetch(t *testing.T) {
	sample := loadFixture(t, "../../testdata/feed_sample.json")

	tests := []struct {
		name        string
		transport   *mockTransport
		wantEvents  int
		wantSkipped int
		wantErr     error
	}{
		{
			name:      "successful fetch skips malformed feature",
			transport: &mockTransport{body: sample, statusCode: 200},
			// 5 features in the fixture, one with null properties.
			wantEvents:  4,
			wantSkipped: 1,
		},
		{
			name:      "http error status",
			transport: &mockTransport{body: "service unavailable", statusCode: 503},
			wantErr:   ErrNetwork,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   ErrNetwork,
		},
		{
			name:      "invalid json",
			transport: &mockTransport{body: "<html>not json</html>", statusCode: 200},
			wantErr:   ErrParse,
		},
		{
			name:      "missing feature list",
			transport: &mockTransport{body: `{"metadata":{"count":0}}`, statusCode: 200},
			wantErr:   ErrParse,
		},
		{
			name:       "empty feature list is not an error",
			transport:  &mockTransport{body: `{"features":[]}`, statusCode: 200},
			wantEvents: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.transport, "https://earthquake.example.com", 4.0)
			skipped := 0
			c.SkippedFeature = func() { skipped++ }

			events, err := c.Fetch(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantEvents, len(events)); diff != "" {
				t.Errorf("event count mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantSkipped, skipped); diff != "" {
				t.Errorf("skipped count mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetchFirstEvent(t *testing.T) {
	sample := loadFixture(t, "../../testdata/feed_sample.json")
	transport := &mockTransport{body: sample, statusCode: 200}
	c := New(transport, "https://earthquake.example.com", 4.0)

	events, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected events")
	}

	want := model.SeismicEvent{
		ID:             "us7000abcd",
		Magnitude:      6.1,
		Place:          "Test Zone",
		Time:           1699999000000,
		Tsunami:        true,
		Longitude:      142.3,
		Latitude:       38.1,
		HasCoordinates: true,
	}
	if diff := cmp.Diff(want, events[0]); diff != "" {
		t.Errorf("first event mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchAbsentIDAndBadGeometry(t *testing.T) {
	sample := loadFixture(t, "../../testdata/feed_sample.json")
	transport := &mockTransport{body: sample, statusCode: 200}
	c := New(transport, "https://earthquake.example.com", 4.0)

	events, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}

	// Third fixture feature has no id; it stays in the snapshot and
	// normalizes to the sentinel.
	if diff := cmp.Diff(model.NoID, events[2].AlertID()); diff != "" {
		t.Errorf("alert id mismatch (-want +got):\n%s", diff)
	}

	// Last fixture feature has a one-element coordinate array:
	// kept for alerting, disqualified for display.
	last := events[3]
	if last.HasCoordinates {
		t.Error("expected HasCoordinates=false for incomplete coordinates")
	}
	if diff := cmp.Diff(4.5, last.Magnitude); diff != "" {
		t.Errorf("magnitude mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryURL(t *testing.T) {
	transport := &mockTransport{body: `{"features":[]}`, statusCode: 200}
	c := New(transport, "https://earthquake.example.com", 4.0)

	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "https://earthquake.example.com/fdsnws/event/1/query?format=geojson&minmagnitude=4"
	if diff := cmp.Diff(want, transport.gotURL); diff != "" {
		t.Errorf("query url mismatch (-want +got):\n%s", diff)
	}
}

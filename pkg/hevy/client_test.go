package hevy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	internalhttp "github.com/cecil-the-coder/fitness-provider-kit/internal/http"
	"github.com/cecil-the-coder/fitness-provider-kit/internal/testutil"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/storage"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/types"
)

func workoutJSON(id, startTime string) string {
	return fmt.Sprintf(`{"id":%q,"title":"workout %s","start_time":%q,"end_time":%q,"exercises":[]}`,
		id, id, startTime, startTime)
}

func pageJSON(page, pageCount int, workouts ...string) string {
	body := fmt.Sprintf(`{"page":%d,"page_count":%d,"workouts":[`, page, pageCount)
	for i, w := range workouts {
		if i > 0 {
			body += ","
		}
		body += w
	}
	return body + "]}"
}

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) (*Client, *testutil.CountingHandler) {
	t.Helper()

	counting := testutil.NewCountingHandler(handler)
	server := httptest.NewServer(counting)
	t.Cleanup(server.Close)

	client := NewClient(storage.NewMemoryKV(), internalhttp.NewClient(internalhttp.Config{}), Config{
		APIKey:            apiKey,
		BaseURL:           server.URL,
		RequestsPerSecond: 1000,
	})
	return client, counting
}

func TestIsConfigured(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"real key", "hevy-key-1", true},
		{"empty", "", false},
		{"placeholder", "YOUR_HEVY_API_KEY", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(storage.NewMemoryKV(), internalhttp.NewClient(internalhttp.Config{}), Config{APIKey: tt.key})
			if got := client.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWorkouts(t *testing.T) {
	t.Run("SendsKeyAndPaging", func(t *testing.T) {
		client, _ := newTestClient(t, "key-1", func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("api-key"); got != "key-1" {
				t.Errorf("api-key header = %s, want key-1", got)
			}
			if got := r.URL.Query().Get("pageSize"); got != "10" {
				t.Errorf("pageSize = %s, want 10", got)
			}
			if got := r.URL.Path; got != "/v1/workouts" {
				t.Errorf("path = %s, want /v1/workouts", got)
			}
			fmt.Fprint(w, pageJSON(2, 3, workoutJSON("w1", "2024-04-03T18:00:00Z")))
		})

		page, err := client.Workouts(context.Background(), 2)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if page.Page != 2 || page.PageCount != 3 || len(page.Workouts) != 1 {
			t.Errorf("Unexpected page: %+v", page)
		}
	})

	t.Run("NotConfigured", func(t *testing.T) {
		client := NewClient(storage.NewMemoryKV(), internalhttp.NewClient(internalhttp.Config{}), Config{})
		_, err := client.Workouts(context.Background(), 1)
		if !types.IsNoCredential(err) {
			t.Fatalf("Expected NoCredentialError, got: %v", err)
		}
	})

	t.Run("UnauthorizedPropagates", func(t *testing.T) {
		client, calls := newTestClient(t, "bad-key", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.Workouts(context.Background(), 1)
		var transport *types.TransportError
		if !errors.As(err, &transport) {
			t.Fatalf("Expected TransportError, got: %v", err)
		}
		if transport.StatusCode != http.StatusUnauthorized {
			t.Errorf("StatusCode = %d, want 401", transport.StatusCode)
		}
		// Static key auth has nothing to refresh.
		if calls.Count() != 1 {
			t.Errorf("Expected exactly 1 call, got %d", calls.Count())
		}
	})
}

func TestGetAllWorkouts(t *testing.T) {
	t.Run("PagesUntilPageCount", func(t *testing.T) {
		client, calls := newTestClient(t, "key-1", func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("page") {
			case "1":
				fmt.Fprint(w, pageJSON(1, 3, workoutJSON("w1", "2024-04-01T18:00:00Z")))
			case "2":
				fmt.Fprint(w, pageJSON(2, 3, workoutJSON("w2", "2024-04-02T18:00:00Z")))
			case "3":
				fmt.Fprint(w, pageJSON(3, 3, workoutJSON("w3", "2024-04-03T18:00:00Z")))
			default:
				t.Errorf("Unexpected page request: %s", r.URL.RawQuery)
				w.WriteHeader(http.StatusBadRequest)
			}
		})

		workouts, err := client.GetAllWorkouts(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(workouts) != 3 {
			t.Fatalf("Expected 3 workouts, got %d", len(workouts))
		}
		if calls.Count() != 3 {
			t.Errorf("Expected 3 calls, got %d", calls.Count())
		}
	})

	t.Run("ServedFromCache", func(t *testing.T) {
		client, calls := newTestClient(t, "key-1", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, pageJSON(1, 1, workoutJSON("w1", "2024-04-01T18:00:00Z")))
		})

		if _, err := client.GetAllWorkouts(context.Background()); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if _, err := client.GetAllWorkouts(context.Background()); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if calls.Count() != 1 {
			t.Errorf("Expected second read from cache, got %d calls", calls.Count())
		}
		if !client.IsCacheValid() {
			t.Error("Expected valid cache after fetch")
		}
	})

	t.Run("ExpiredCacheRefetches", func(t *testing.T) {
		client, calls := newTestClient(t, "key-1", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, pageJSON(1, 1, workoutJSON("w1", "2024-04-01T18:00:00Z")))
		})

		if _, err := client.GetAllWorkouts(context.Background()); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		client.now = func() time.Time { return time.Now().Add(cacheTTL + time.Minute) }
		if _, err := client.GetAllWorkouts(context.Background()); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if calls.Count() != 2 {
			t.Errorf("Expected refetch after expiry, got %d calls", calls.Count())
		}
	})
}

func TestGetWorkoutDates(t *testing.T) {
	client, _ := newTestClient(t, "key-1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pageJSON(1, 1,
			workoutJSON("w1", "2024-04-03T18:00:00Z"),
			workoutJSON("w2", "2024-04-03T06:00:00Z"),
			workoutJSON("w3", "2024-04-20T18:00:00Z"),
			workoutJSON("w4", "2024-05-02T18:00:00Z"),
		))
	})

	dates, err := client.GetWorkoutDates(context.Background(), "2024-04-01", "2024-04-30")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	want := []string{"2024-04-03", "2024-04-20"}
	if len(dates) != len(want) || dates[0] != want[0] || dates[1] != want[1] {
		t.Errorf("GetWorkoutDates = %v, want %v", dates, want)
	}
}

func TestForceRefresh(t *testing.T) {
	client, calls := newTestClient(t, "key-1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pageJSON(1, 1, workoutJSON("w1", "2024-04-01T18:00:00Z")))
	})

	if _, err := client.GetAllWorkouts(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := client.ForceRefresh(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if calls.Count() != 2 {
		t.Errorf("Expected refetch on ForceRefresh, got %d calls", calls.Count())
	}
	if !client.IsCacheValid() {
		t.Error("Expected fresh cache after ForceRefresh")
	}
}

package jira

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeJira is an in-memory issue tracker speaking the subset of the REST
// API the client uses.
type fakeJira struct {
	mu       sync.Mutex
	mux      *http.ServeMux
	due      map[string]string
	comments map[string][]string
	auth     []string
}

func newFakeJira() *fakeJira {
	f := &fakeJira{due: map[string]string{}, comments: map[string][]string{}}
	f.routes()
	return f
}

func (f *fakeJira) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mux.ServeHTTP(w, r)
}

func (f *fakeJira) routes() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/api/latest/issue/{key}", func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		if key == "MISSING-1" {
			http.Error(w, `{"errorMessages":["Issue does not exist"]}`, http.StatusNotFound)
			return
		}
		var due any
		if d, ok := f.due[key]; ok {
			due = d
		}
		json.NewEncoder(w).Encode(map[string]any{"key": key, "fields": map[string]any{"duedate": due}})
	})
	mux.HandleFunc("PUT /rest/api/latest/issue/{key}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Fields struct {
				DueDate string `json:"duedate"`
			} `json:"fields"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.due[r.PathValue("key")] = body.Fields.DueDate
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /rest/api/latest/issue/{key}/comment", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body struct {
			Body string `json:"body"`
		}
		json.Unmarshal(data, &body)
		f.comments[r.PathValue("key")] = append(f.comments[r.PathValue("key")], body.Body)
		w.WriteHeader(http.StatusCreated)
	})
	f.mux = mux
}

func newTestClient(t *testing.T, fake *fakeJira, config ClientConfig) *Client {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	config.BaseURL = server.URL + "/"
	config.HTTPClient = server.Client()
	client, err := NewClient(config)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestClient_DueDateRoundTrip(t *testing.T) {
	fake := newFakeJira()
	client := newTestClient(t, fake, ClientConfig{User: "bot", Password: "secret"})
	ctx := context.Background()

	due, err := client.GetDueDate(ctx, "DM-100")
	if err != nil {
		t.Fatalf("GetDueDate failed: %v", err)
	}
	if due != nil {
		t.Errorf("expected no due date, got %v", due)
	}

	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if err := client.SetDueDate(ctx, "DM-100", want); err != nil {
		t.Fatalf("SetDueDate failed: %v", err)
	}
	if fake.due["DM-100"] != "2024-03-01" {
		t.Errorf("server duedate = %q, want 2024-03-01", fake.due["DM-100"])
	}

	due, err = client.GetDueDate(ctx, "DM-100")
	if err != nil {
		t.Fatalf("GetDueDate failed: %v", err)
	}
	if due == nil || !due.Equal(want) {
		t.Errorf("GetDueDate = %v, want %v", due, want)
	}
}

func TestClient_AddComment(t *testing.T) {
	fake := newFakeJira()
	client := newTestClient(t, fake, ClientConfig{User: "bot", Password: "secret"})

	if err := client.AddComment(context.Background(), "DM-100", "hello"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if got := fake.comments["DM-100"]; len(got) != 1 || got[0] != "hello" {
		t.Errorf("comments = %v, want [hello]", got)
	}
}

func TestClient_Authentication(t *testing.T) {
	tests := []struct {
		name   string
		config ClientConfig
		want   string
	}{
		{name: "basic", config: ClientConfig{User: "bot", Password: "secret"}, want: "Basic Ym90OnNlY3JldA=="},
		{name: "bearer token", config: ClientConfig{Token: "pat-123"}, want: "Bearer pat-123"},
		{name: "token wins over user", config: ClientConfig{User: "bot", Password: "secret", Token: "pat-123"}, want: "Bearer pat-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeJira()
			client := newTestClient(t, fake, tt.config)
			if _, err := client.GetDueDate(context.Background(), "DM-1"); err != nil {
				t.Fatalf("GetDueDate failed: %v", err)
			}
			if len(fake.auth) != 1 || fake.auth[0] != tt.want {
				t.Errorf("Authorization = %v, want %q", fake.auth, tt.want)
			}
		})
	}
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, newFakeJira(), ClientConfig{User: "bot"})

	_, err := client.GetDueDate(context.Background(), "MISSING-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config ClientConfig
	}{
		{name: "no url", config: ClientConfig{User: "bot"}},
		{name: "no credentials", config: ClientConfig{BaseURL: "https://jira.example.org"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.config); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

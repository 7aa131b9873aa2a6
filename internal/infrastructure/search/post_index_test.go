package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
	handler  func(w http.ResponseWriter, r *http.Request)
}

func newIndex(t *testing.T, fake *fakeES) *PostIndex {
	t.Helper()
	fake.bodies = map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path
		fake.mu.Lock()
		fake.requests = append(fake.requests, key)
		fake.bodies[key] = string(b)
		fake.mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		fake.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return NewPostIndex(es, "posts")
}

func TestSearchReturnsIDsInScoreOrder(t *testing.T) {
	fake := &fakeES{handler: func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"b","_score":2.1},{"_id":"a","_score":1.3}]}}`)
	}}
	idx := newIndex(t, fake)

	ids, err := idx.Search(context.Background(), "react hooks", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !slices.Equal(ids, []string{"b", "a"}) {
		t.Fatalf("ids %v", ids)
	}

	var body struct {
		Query struct {
			MultiMatch struct {
				Query  string   `json:"query"`
				Fields []string `json:"fields"`
			} `json:"multi_match"`
		} `json:"query"`
		Size int `json:"size"`
	}
	raw := fake.bodies["POST /posts/_search"]
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("request body %q: %v", raw, err)
	}
	if body.Query.MultiMatch.Query != "react hooks" || body.Size != 5 || !slices.Contains(body.Query.MultiMatch.Fields, "title^3") {
		t.Fatalf("unexpected query %+v", body)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	fake := &fakeES{handler: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"unavailable"}`)
	}}
	idx := newIndex(t, fake)
	if _, err := idx.Search(context.Background(), "x", 0); err == nil {
		t.Fatalf("expected error")
	}
}

func TestIndexAndRemove(t *testing.T) {
	fake := &fakeES{handler: func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}}
	idx := newIndex(t, fake)
	p := &entity.Post{ID: "p-1", Title: "Hello", Content: "World", Tags: []string{"go"}, CreatedAt: time.Unix(0, 0)}

	if err := idx.Index(context.Background(), p); err != nil {
		t.Fatalf("index: %v", err)
	}
	doc := fake.bodies["PUT /posts/_doc/p-1"]
	if !strings.Contains(doc, `"title":"Hello"`) || !strings.Contains(doc, `"tags":["go"]`) {
		t.Fatalf("document %q", doc)
	}
	if err := idx.Remove(context.Background(), "p-1"); err != nil {
		t.Fatalf("remove of an unindexed post must succeed: %v", err)
	}
}

func TestEnsureIndexCreatesMissingIndex(t *testing.T) {
	fake := &fakeES{handler: func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	}}
	idx := newIndex(t, fake)
	if err := idx.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !slices.Equal(fake.requests, []string{"HEAD /posts", "PUT /posts"}) {
		t.Fatalf("requests %v", fake.requests)
	}
	if !strings.Contains(fake.bodies["PUT /posts"], `"mappings"`) {
		t.Fatalf("mapping not sent")
	}
}

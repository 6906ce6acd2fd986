// Package testutil provides in-process fakes of the external services this
// application talks to.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
)

// FakeElasticsearch is a minimal Elasticsearch REST endpoint holding
// documents for a single index in memory. It understands the document
// get/update/delete APIs, match_all searches sorted by start_time, and ping.
type FakeElasticsearch struct {
	Server *httptest.Server
	Index  string

	mu           sync.Mutex
	docs         map[string]map[string]any
	failStatus   int
	indexMissing bool
	requests     []string
}

// NewFakeElasticsearch starts a fake cluster and registers its shutdown with t.
func NewFakeElasticsearch(t testing.TB, index string) *FakeElasticsearch {
	t.Helper()
	f := &FakeElasticsearch{Index: index, docs: make(map[string]map[string]any)}

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", f.ping)
	mux.HandleFunc("/{index}/_search", f.search)
	mux.HandleFunc("GET /{index}/_doc/{id}", f.get)
	mux.HandleFunc("DELETE /{index}/_doc/{id}", f.delete)
	mux.HandleFunc("POST /{index}/_update/{id}", f.update)

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the cluster address.
func (f *FakeElasticsearch) URL() string { return f.Server.URL }

// Put stores doc under id, replacing any previous document.
func (f *FakeElasticsearch) Put(id string, doc any) {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[id] = m
	f.indexMissing = false
}

// Doc returns the stored document for id.
func (f *FakeElasticsearch) Doc(id string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	return d, ok
}

// FailWith makes every data request answer with status. Zero restores normal behaviour.
func (f *FakeElasticsearch) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus = status
}

// DropIndex makes the index disappear along with all its documents.
func (f *FakeElasticsearch) DropIndex() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = make(map[string]map[string]any)
	f.indexMissing = true
}

// Requests returns "METHOD path" for every request received so far.
func (f *FakeElasticsearch) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *FakeElasticsearch) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"cluster_name": "fake", "tagline": "You Know, for Search"})
}

func (f *FakeElasticsearch) failing(w http.ResponseWriter) bool {
	if f.failStatus == 0 {
		return false
	}
	writeJSON(w, f.failStatus, map[string]any{
		"error":  map[string]any{"type": "cluster_block_exception", "reason": "simulated failure"},
		"status": f.failStatus,
	})
	return true
}

func (f *FakeElasticsearch) missingIndex(w http.ResponseWriter) bool {
	if !f.indexMissing {
		return false
	}
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":  map[string]any{"type": "index_not_found_exception", "reason": "no such index [" + f.Index + "]"},
		"status": http.StatusNotFound,
	})
	return true
}

func (f *FakeElasticsearch) search(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing(w) || f.missingIndex(w) {
		return
	}

	ids := make([]string, 0, len(f.docs))
	for id := range f.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, _ := f.docs[ids[i]]["start_time"].(string)
		sj, _ := f.docs[ids[j]]["start_time"].(string)
		if si == sj {
			return ids[i] < ids[j]
		}
		return si < sj
	})
	if size, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && size < len(ids) {
		ids = ids[:size]
	}

	hits := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		hits = append(hits, map[string]any{"_index": f.Index, "_id": id, "_source": f.docs[id]})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"took":      1,
		"timed_out": false,
		"hits": map[string]any{
			"total": map[string]any{"value": len(hits), "relation": "eq"},
			"hits":  hits,
		},
	})
}

func (f *FakeElasticsearch) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing(w) || f.missingIndex(w) {
		return
	}
	id := r.PathValue("id")
	doc, ok := f.docs[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"_index": f.Index, "_id": id, "found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"_index": f.Index, "_id": id, "_version": 1, "found": true, "_source": doc,
	})
}

func (f *FakeElasticsearch) update(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing(w) || f.missingIndex(w) {
		return
	}
	id := r.PathValue("id")
	doc, ok := f.docs[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":  map[string]any{"type": "document_missing_exception", "reason": fmt.Sprintf("[%s]: document missing", id)},
			"status": http.StatusNotFound,
		})
		return
	}

	var body struct {
		Doc map[string]any `json:"doc"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  map[string]any{"type": "parse_exception", "reason": err.Error()},
			"status": http.StatusBadRequest,
		})
		return
	}
	merge(doc, body.Doc)
	writeJSON(w, http.StatusOK, map[string]any{"_index": f.Index, "_id": id, "_version": 2, "result": "updated"})
}

func (f *FakeElasticsearch) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing(w) || f.missingIndex(w) {
		return
	}
	id := r.PathValue("id")
	if _, ok := f.docs[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"_index": f.Index, "_id": id, "result": "not_found"})
		return
	}
	delete(f.docs, id)
	writeJSON(w, http.StatusOK, map[string]any{"_index": f.Index, "_id": id, "_version": 2, "result": "deleted"})
}

// merge applies a partial document the way Elasticsearch does: objects merge
// recursively, everything else is replaced.
func merge(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

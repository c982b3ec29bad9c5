package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/typeset/pkg/lifecycle"
	"github.com/JaimeStill/typeset/pkg/routes"
	"github.com/JaimeStill/typeset/pkg/storage"
)

type fakeStore struct {
	existsFn func(key string) (bool, error)
}

func (f *fakeStore) Start(*lifecycle.Coordinator) error { return nil }

func (f *fakeStore) Upload(context.Context, string, io.Reader, string) error { return nil }

func (f *fakeStore) Download(context.Context, string) (*storage.DownloadResult, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStore) Delete(context.Context, string) error { return nil }

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	return f.existsFn(key)
}

func (f *fakeStore) Find(context.Context, string) (*storage.BlobMeta, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStore) List(context.Context, string, string, int32) (*storage.ListResult, error) {
	return &storage.ListResult{Items: []storage.BlobMeta{}}, nil
}

func newStorageMux(store storage.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	routes.Register(mux, newStorageHandler(store, logger, 50).routes())
	return mux
}

func TestStorageExists(t *testing.T) {
	store := &fakeStore{
		existsFn: func(key string) (bool, error) {
			if key != "renders/abc/report.pdf" {
				t.Errorf("key = %q, want %q", key, "renders/abc/report.pdf")
			}
			return true, nil
		},
	}
	mux := newStorageMux(store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/storage/exists/renders/abc/report.pdf", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Key    string `json:"key"`
		Exists bool   `json:"exists"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Exists {
		t.Error("exists = false, want true")
	}
	if body.Key != "renders/abc/report.pdf" {
		t.Errorf("key = %q, want %q", body.Key, "renders/abc/report.pdf")
	}
}

func TestStorageExistsMissing(t *testing.T) {
	store := &fakeStore{
		existsFn: func(string) (bool, error) { return false, nil },
	}
	mux := newStorageMux(store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/storage/exists/renders/gone.pdf", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Exists bool `json:"exists"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Exists {
		t.Error("exists = true, want false")
	}
}

func TestStorageExistsError(t *testing.T) {
	store := &fakeStore{
		existsFn: func(string) (bool, error) {
			return false, errors.New("container unavailable")
		},
	}
	mux := newStorageMux(store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/storage/exists/renders/x.pdf", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

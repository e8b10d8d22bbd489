package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iosugomez/kotxea/internal/storage"
)

// fakeRepo emulates the subset of the GitHub API the store talks to.
type fakeRepo struct {
	mu       sync.Mutex
	head     string
	files    map[string]string
	trees    map[string]map[string]string
	commits  map[string]string // commit sha -> tree sha
	messages []string
	rejectFF bool
	seq      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		head:    "c0",
		files:   map[string]string{},
		trees:   map[string]map[string]string{"t0": {}},
		commits: map[string]string{"c0": "t0"},
	}
}

func (f *fakeRepo) nextSHA(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeRepo) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /repos/iosu/kotxea/contents/{path...}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		content, ok := f.trees[f.commits[f.head]][r.PathValue("path")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"path":     r.PathValue("path"),
			"content":  base64.StdEncoding.EncodeToString([]byte(content)),
		})
	})

	mux.HandleFunc("GET /repos/iosu/kotxea/git/ref/heads/main", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"ref":    "refs/heads/main",
			"object": map[string]string{"type": "commit", "sha": f.head},
		})
	})

	mux.HandleFunc("GET /repos/iosu/kotxea/git/commits/{sha}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		tree, ok := f.commits[r.PathValue("sha")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"sha":  r.PathValue("sha"),
			"tree": map[string]string{"sha": tree},
		})
	})

	mux.HandleFunc("POST /repos/iosu/kotxea/git/trees", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var body struct {
			BaseTree string `json:"base_tree"`
			Tree     []struct {
				Path    string `json:"path"`
				Mode    string `json:"mode"`
				Type    string `json:"type"`
				Content string `json:"content"`
			} `json:"tree"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		files := map[string]string{}
		for k, v := range f.trees[body.BaseTree] {
			files[k] = v
		}
		for _, e := range body.Tree {
			assert.Equal(t, "100644", e.Mode)
			assert.Equal(t, "blob", e.Type)
			files[e.Path] = e.Content
		}
		sha := f.nextSHA("t")
		f.trees[sha] = files
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"sha": sha})
	})

	mux.HandleFunc("POST /repos/iosu/kotxea/git/commits", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var body struct {
			Message string   `json:"message"`
			Tree    string   `json:"tree"`
			Parents []string `json:"parents"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, []string{f.head}, body.Parents)

		sha := f.nextSHA("c")
		f.commits[sha] = body.Tree
		f.messages = append(f.messages, body.Message)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"sha": sha, "tree": map[string]string{"sha": body.Tree}})
	})

	mux.HandleFunc("PATCH /repos/iosu/kotxea/git/refs/heads/main", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var body struct {
			SHA   string `json:"sha"`
			Force bool   `json:"force"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.False(t, body.Force)

		if f.rejectFF {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"message": "Update is not a fast forward"})
			return
		}
		f.head = body.SHA
		json.NewEncoder(w).Encode(map[string]any{
			"ref":    "refs/heads/main",
			"object": map[string]string{"type": "commit", "sha": f.head},
		})
	})

	return mux
}

func newTestStore(t *testing.T) (*Store, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	server := httptest.NewServer(repo.handler(t))
	t.Cleanup(server.Close)

	store, err := New(Config{
		Token:      "secret",
		Repository: "iosu/kotxea",
		Branch:     "main",
		BaseURL:    server.URL,
	})
	require.NoError(t, err)
	return store, repo
}

func TestNew_InvalidRepository(t *testing.T) {
	for _, repo := range []string{"", "kotxea", "/kotxea", "iosu/", "a/b/c"} {
		_, err := New(Config{Repository: repo})
		assert.Error(t, err, "repository %q", repo)
	}
}

func TestReadFile_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.ReadFile(context.Background(), "datos/datos.json")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWriteFiles_SingleCommit(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	revision, err := store.WriteFiles(ctx, "Update datos", []storage.File{
		{Path: "datos/datos.json", Content: []byte("[]")},
		{Path: "datos/viajes.csv", Content: []byte("Persona,Balance\nIosu,0.000\n")},
		{Path: "datos/dinero.csv", Content: []byte("Persona,Saldo (€)\n")},
	})
	require.NoError(t, err)
	assert.Equal(t, repo.head, revision)
	assert.Equal(t, []string{"Update datos"}, repo.messages)

	got, err := store.ReadFile(ctx, "datos/dinero.csv")
	require.NoError(t, err)
	assert.Equal(t, "Persona,Saldo (€)\n", string(got))

	got, err = store.ReadFile(ctx, "datos/viajes.csv")
	require.NoError(t, err)
	assert.Equal(t, "Persona,Balance\nIosu,0.000\n", string(got))
}

func TestWriteFiles_KeepsOtherFiles(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.WriteFiles(ctx, "first", []storage.File{{Path: "README.md", Content: []byte("hola")}})
	require.NoError(t, err)
	_, err = store.WriteFiles(ctx, "second", []storage.File{{Path: "datos/datos.json", Content: []byte("[]")}})
	require.NoError(t, err)

	got, err := store.ReadFile(ctx, "README.md")
	require.NoError(t, err)
	assert.Equal(t, "hola", string(got))
}

func TestWriteFiles_RejectedFastForward(t *testing.T) {
	store, repo := newTestStore(t)
	repo.rejectFF = true

	_, err := store.WriteFiles(context.Background(), "racy", []storage.File{
		{Path: "datos/datos.json", Content: []byte("[]")},
	})
	require.Error(t, err)
	assert.Equal(t, "c0", repo.head, "branch must not move")

	_, err = store.ReadFile(context.Background(), "datos/datos.json")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWriteFiles_NoFiles(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.WriteFiles(context.Background(), "empty", nil)
	assert.Error(t, err)
}

// Package github provides a storage.Store backed by a GitHub repository.
//
// Files are read through the contents API and written through the git data
// API: every WriteFiles call creates one tree and one commit on top of the
// branch head and fast-forwards the branch, so a save either lands completely
// or not at all. A concurrent writer makes the fast-forward fail; the error is
// returned as is and no retry is attempted.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/iosugomez/kotxea/internal/metrics"
	"github.com/iosugomez/kotxea/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

const (
	backend  = "github"
	fileMode = "100644"
)

// Config holds what the store needs to reach the repository.
type Config struct {
	Token      string
	Repository string // owner/name
	Branch     string
	BaseURL    string // optional, for GitHub Enterprise or tests
	Timeout    time.Duration
}

// Store implements storage.Store on top of a GitHub repository.
type Store struct {
	client *gh.Client
	owner  string
	repo   string
	branch string
}

// New creates a Store for the configured repository.
func New(cfg Config) (*Store, error) {
	owner, repo, ok := strings.Cut(cfg.Repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("invalid repository %q: want owner/name", cfg.Repository)
	}
	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}

	client := gh.NewClient(&http.Client{Timeout: cfg.Timeout})
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
		}
		client.BaseURL = base
	}

	return &Store{client: client, owner: owner, repo: repo, branch: branch}, nil
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (s *Store) Close() error {
	return nil
}

// ReadFile fetches a file from the configured branch.
func (s *Store) ReadFile(ctx context.Context, path string) (content []byte, err error) {
	defer metrics.ObserveStoreOperation(backend, "read", time.Now(), &err)

	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path,
		&gh.RepositoryContentGetOptions{Ref: s.branch})
	if isNotFound(resp, err) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contents of %s: %w", path, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	decoded, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode contents of %s: %w", path, err)
	}
	return []byte(decoded), nil
}

// WriteFiles commits all files to the branch in a single commit.
func (s *Store) WriteFiles(ctx context.Context, message string, files []storage.File) (revision string, err error) {
	defer metrics.ObserveStoreOperation(backend, "write", time.Now(), &err)

	if len(files) == 0 {
		return "", errors.New("no files to write")
	}

	ref, _, err := s.client.Git.GetRef(ctx, s.owner, s.repo, "heads/"+s.branch)
	if err != nil {
		return "", fmt.Errorf("failed to get branch %s: %w", s.branch, err)
	}
	headSHA := ref.GetObject().GetSHA()
	if headSHA == "" {
		return "", fmt.Errorf("branch %s has no head commit", s.branch)
	}

	head, _, err := s.client.Git.GetCommit(ctx, s.owner, s.repo, headSHA)
	if err != nil {
		return "", fmt.Errorf("failed to get head commit %s: %w", headSHA, err)
	}

	entries := make([]*gh.TreeEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, &gh.TreeEntry{
			Path:    gh.String(f.Path),
			Mode:    gh.String(fileMode),
			Type:    gh.String("blob"),
			Content: gh.String(string(f.Content)),
		})
	}

	tree, _, err := s.client.Git.CreateTree(ctx, s.owner, s.repo, head.GetTree().GetSHA(), entries)
	if err != nil {
		return "", fmt.Errorf("failed to create tree: %w", err)
	}

	commit, _, err := s.client.Git.CreateCommit(ctx, s.owner, s.repo, &gh.Commit{
		Message: gh.String(message),
		Tree:    &gh.Tree{SHA: tree.SHA},
		Parents: []*gh.Commit{{SHA: gh.String(headSHA)}},
	}, &gh.CreateCommitOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to create commit: %w", err)
	}

	ref.Object.SHA = commit.SHA
	if _, _, err := s.client.Git.UpdateRef(ctx, s.owner, s.repo, ref, false); err != nil {
		return "", fmt.Errorf("failed to update branch %s: %w", s.branch, err)
	}

	return commit.GetSHA(), nil
}

func isNotFound(resp *gh.Response, err error) bool {
	if err == nil {
		return false
	}
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var errResp *gh.ErrorResponse
	return errors.As(err, &errResp) && errResp.Response != nil &&
		errResp.Response.StatusCode == http.StatusNotFound
}

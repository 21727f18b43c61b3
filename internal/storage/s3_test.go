package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cfg "github.com/templui/goaltracker/internal/config"
)

type s3Request struct {
	method      string
	path        string
	contentType string
	body        string
}

// fakeS3 answers the handful of S3 calls the archive makes. Buckets in
// missing answer HeadBucket with 404.
type fakeS3 struct {
	mu       sync.Mutex
	requests []s3Request
	missing  map[string]bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, s3Request{
		method:      r.Method,
		path:        r.URL.Path,
		contentType: r.Header.Get("Content-Type"),
		body:        string(body),
	})
	missing := f.missing[strings.Trim(r.URL.Path, "/")]
	f.mu.Unlock()

	if r.Method == http.MethodHead && missing {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (f *fakeS3) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.method+" "+r.path)
	}
	return out
}

func newTestArchive(t *testing.T, fake *fakeS3) (*S3Archive, *httptest.Server) {
	t.Helper()

	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	archive, err := NewS3Archive(context.Background(), S3Config{
		Region:    "us-east-1",
		Bucket:    "goal-exports",
		AccessKey: "test-access",
		SecretKey: "test-secret",
		Endpoint:  srv.URL,
	})
	require.NoError(t, err)

	return archive, srv
}

func TestEnabled(t *testing.T) {
	assert.False(t, Enabled(&cfg.Config{}))
	assert.True(t, Enabled(&cfg.Config{S3Bucket: "goal-exports"}))
}

func TestNewS3ArchiveCreatesMissingBucket(t *testing.T) {
	fake := &fakeS3{missing: map[string]bool{"goal-exports": true}}
	newTestArchive(t, fake)

	assert.Equal(t, []string{"HEAD /goal-exports", "PUT /goal-exports"}, fake.calls())
}

func TestS3ArchiveSave(t *testing.T) {
	fake := &fakeS3{}
	archive, _ := newTestArchive(t, fake)

	err := archive.Save(context.Background(), "exports/u1/20261014T120000Z.json", strings.NewReader(`{"goals":[]}`))
	require.NoError(t, err)

	calls := fake.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "HEAD /goal-exports", calls[0])
	assert.Equal(t, "PUT /goal-exports/exports/u1/20261014T120000Z.json", calls[1])

	put := fake.requests[1]
	assert.Equal(t, "application/json", put.contentType)
	assert.Contains(t, put.body, `{"goals":[]}`)
}

func TestS3ArchivePresignedURL(t *testing.T) {
	fake := &fakeS3{}
	archive, srv := newTestArchive(t, fake)

	url, err := archive.PresignedURL(context.Background(), "exports/u1/20261014T120000Z.json", 15*time.Minute)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, srv.URL+"/goal-exports/exports/u1/20261014T120000Z.json?"), url)
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")

	// Presigning is local; only the bucket check reached the server
	assert.Equal(t, []string{"HEAD /goal-exports"}, fake.calls())
}

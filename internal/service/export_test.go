package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goaltracker/internal/service"
)

type memArchive struct {
	objects map[string][]byte
	saveErr error
}

func (m *memArchive) Save(_ context.Context, key string, body io.Reader) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memArchive) PresignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	return "https://archive.test/" + key + "?expires=" + expiry.String(), nil
}

func TestExport(t *testing.T) {
	f := newFixture(t, 10, false)
	_, _, err := f.svc.Create("u1", input("exported"))
	require.NoError(t, err)
	_, _, err = f.svc.Create("u2", input("not mine"))
	require.NoError(t, err)

	export, err := service.NewExportService(f.svc, nil, 0, clock).Export("u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", export.UserID)
	assert.True(t, now.Equal(export.ExportedAt))
	require.Len(t, export.Goals, 1)
	assert.Equal(t, "exported", export.Goals[0].Goal.Name)
	assert.Equal(t, 0, export.Goals[0].Progress.Percentage)
}

func TestArchive(t *testing.T) {
	f := newFixture(t, 10, false)
	_, _, err := f.svc.Create("u1", input("archived"))
	require.NoError(t, err)

	archive := &memArchive{objects: map[string][]byte{}}
	exports := service.NewExportService(f.svc, archive, 15*time.Minute, clock)

	archived, err := exports.Archive(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "exports/u1/20261014T120000Z.json", archived.Key)
	assert.Contains(t, archived.URL, archived.Key)
	assert.True(t, now.Add(15*time.Minute).Equal(archived.ExpiresAt))

	var saved service.GoalExport
	require.NoError(t, json.Unmarshal(archive.objects[archived.Key], &saved))
	require.Len(t, saved.Goals, 1)
	assert.Equal(t, "archived", saved.Goals[0].Goal.Name)
}

func TestArchiveErrors(t *testing.T) {
	f := newFixture(t, 10, false)

	_, err := service.NewExportService(f.svc, nil, 0, clock).Archive(context.Background(), "u1")
	assert.ErrorIs(t, err, service.ErrArchiveDisabled)

	failing := &memArchive{objects: map[string][]byte{}, saveErr: errors.New("bucket gone")}
	_, err = service.NewExportService(f.svc, failing, 0, clock).Archive(context.Background(), "u1")
	assert.ErrorIs(t, err, failing.saveErr)
}

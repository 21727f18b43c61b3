package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/goaltracker/internal/repository"
	"github.com/templui/goaltracker/internal/storage"
)

var (
	ErrArchiveDisabled = errors.New("export archive is not configured")
)

// GoalExport is the document users download: every goal with its current progress.
type GoalExport struct {
	UserID     string         `json:"user_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Goals      []GoalProgress `json:"goals"`
}

// ArchivedExport points at an export saved to object storage.
type ArchivedExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ExportService struct {
	goals   *GoalService
	archive storage.Archive // nil disables Archive
	expiry  time.Duration
	now     func() time.Time
}

func NewExportService(goals *GoalService, archive storage.Archive, expiry time.Duration, now func() time.Time) *ExportService {
	if now == nil {
		now = time.Now
	}
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &ExportService{
		goals:   goals,
		archive: archive,
		expiry:  expiry,
		now:     now,
	}
}

func (s *ExportService) Export(userID string) (*GoalExport, error) {
	goals, err := s.goals.GoalsWithProgress(userID, repository.GoalSortRecent)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	return &GoalExport{
		UserID:     userID,
		ExportedAt: s.now().UTC(),
		Goals:      goals,
	}, nil
}

// Archive saves the user's export to object storage and returns a presigned link to it.
func (s *ExportService) Archive(ctx context.Context, userID string) (*ArchivedExport, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	export, err := s.Export(userID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(export)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID, export.ExportedAt.Format("20060102T150405Z"))

	err = s.archive.Save(ctx, key, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to save export: %w", err)
	}

	url, err := s.archive.PresignedURL(ctx, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export link: %w", err)
	}

	slog.Info("goal export archived", "user_id", userID, "key", key, "goals", len(export.Goals))

	return &ArchivedExport{
		Key:       key,
		URL:       url,
		ExpiresAt: export.ExportedAt.Add(s.expiry),
	}, nil
}

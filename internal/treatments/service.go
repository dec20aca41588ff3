package treatments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	repo Repo
	log  *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(repo Repo, logger *zap.Logger) Service {
	return &service{
		repo:  repo,
		log:   logger.Named("treatments"),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (s *service) Admit(ctx context.Context, cmd AdmitCommand) (*Treatment, error) {
	var missing []string
	if strings.TrimSpace(cmd.ReportID) == "" {
		missing = append(missing, "reportId")
	}
	if strings.TrimSpace(cmd.Condition) == "" {
		missing = append(missing, "condition")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	animal := strings.TrimSpace(cmd.AnimalType)
	if animal == "" {
		animal = "Unknown"
	}

	t := &Treatment{
		ID:            s.newID(),
		ReportID:      strings.TrimSpace(cmd.ReportID),
		AnimalType:    animal,
		Condition:     strings.TrimSpace(cmd.Condition),
		Status:        StatusAdmitted,
		AdmissionDate: s.now(),
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save treatment: %w", err)
	}

	s.log.Info("animal admitted", zap.String("treatment_id", t.ID), zap.String("report_id", t.ReportID))
	return t, nil
}

func (s *service) List(ctx context.Context) ([]Treatment, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Treatment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.log.Info("treatment status updated", zap.String("treatment_id", id), zap.String("status", string(status)))
	return s.repo.Get(ctx, id)
}

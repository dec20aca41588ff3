package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/animalrescue/rescue-connect/internal/identity"
	"github.com/animalrescue/rescue-connect/internal/notify"
	"github.com/animalrescue/rescue-connect/internal/triage"
)

type service struct {
	repo       Repo
	classifier triage.Classifier
	notifier   notify.Notifier
	log        *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(repo Repo, classifier triage.Classifier, notifier notify.Notifier, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		classifier: classifier,
		notifier:   notifier,
		log:        logger.Named("reports"),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// triageRequest fills the contact from the caller's account when the form
// left it blank.
func triageRequest(sub Submission, caller identity.Identity) triage.Request {
	contact := strings.TrimSpace(sub.ReporterContact)
	if contact == "" {
		contact = caller.Email
	}
	return triage.Request{
		ConditionReport: strings.TrimSpace(sub.ConditionReport),
		LocationDetails: strings.TrimSpace(sub.LocationDetails),
		ReporterContact: contact,
	}
}

func (s *service) Preview(ctx context.Context, sub Submission, caller identity.Identity) (triage.Verdict, error) {
	return s.classifier.Classify(ctx, triageRequest(sub, caller))
}

func (s *service) Submit(ctx context.Context, sub Submission, caller identity.Identity) (*Report, error) {
	req := triageRequest(sub, caller)

	verdict, err := s.classifier.Classify(ctx, req)
	if err != nil {
		s.log.Warn("triage failed",
			zap.String("user_id", caller.UserID),
			zap.String("kind", triage.Kind(err)),
			zap.Error(err))
		return nil, err
	}

	animal := strings.TrimSpace(sub.AnimalType)
	if animal == "" {
		animal = defaultAnimalType
	}

	r := &Report{
		ID:                  s.newID(),
		UserID:              caller.UserID,
		UserContact:         req.ReporterContact,
		AnimalType:          animal,
		ConditionReport:     req.ConditionReport,
		LocationDetails:     req.LocationDetails,
		ImageURL:            strings.TrimSpace(sub.ImageURL),
		ImageHint:           strings.TrimSpace(sub.ImageHint),
		ReportDate:          s.now(),
		Status:              StatusReported,
		NeedsHumanAttention: verdict.NeedsHumanAttention,
		Reason:              verdict.Reason,
	}

	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	s.log.Info("report submitted",
		zap.String("report_id", r.ID),
		zap.String("user_id", r.UserID),
		zap.Bool("urgent", r.NeedsHumanAttention))

	if r.NeedsHumanAttention {
		if err := s.notifier.NotifyUrgent(ctx, urgentEvent(r)); err != nil {
			s.log.Error("urgent notification failed", zap.String("report_id", r.ID), zap.Error(err))
		}
	}

	return r, nil
}

func urgentEvent(r *Report) notify.UrgentReport {
	return notify.UrgentReport{
		ReportID:        r.ID,
		AnimalType:      r.AnimalType,
		ConditionReport: r.ConditionReport,
		LocationDetails: r.LocationDetails,
		UserContact:     r.UserContact,
		Reason:          r.Reason,
		ReportDate:      r.ReportDate,
	}
}

func (s *service) List(ctx context.Context) ([]Report, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]Report, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Board(ctx context.Context) (*Board, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewBoard(all), nil
}

// NewBoard partitions reports (already newest first) for the NGO dashboard.
func NewBoard(all []Report) *Board {
	b := &Board{Urgent: []Report{}, New: []Report{}, Closed: []Report{}}
	for _, r := range all {
		switch {
		case r.Status != StatusReported:
			b.Closed = append(b.Closed, r)
		case r.NeedsHumanAttention:
			b.Urgent = append(b.Urgent, r)
		default:
			b.New = append(b.New, r)
		}
	}
	return b
}

func (s *service) Get(ctx context.Context, id string) (*Report, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Report, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.log.Info("report status updated", zap.String("report_id", id), zap.String("status", string(status)))
	return s.repo.Get(ctx, id)
}

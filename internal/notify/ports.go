package notify

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
)

// UrgentReport is the event sent to NGOs when triage flags a report.
type UrgentReport struct {
	ReportID        string    `json:"reportId"`
	AnimalType      string    `json:"animalType"`
	ConditionReport string    `json:"conditionReport"`
	LocationDetails string    `json:"locationDetails"`
	UserContact     string    `json:"userContact"`
	Reason          string    `json:"reason"`
	ReportDate      time.Time `json:"reportDate"`
}

type Notifier interface {
	NotifyUrgent(ctx context.Context, r UrgentReport) error
}

// Multi sends to every notifier concurrently and joins their errors.
// One failing channel does not cancel the others.
type Multi []Notifier

func (m Multi) NotifyUrgent(ctx context.Context, r UrgentReport) error {
	errs := make([]error, len(m))
	var g errgroup.Group
	for i, n := range m {
		g.Go(func() error {
			errs[i] = n.NotifyUrgent(ctx, r)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Nop is used when no channel is configured.
type Nop struct{}

func (Nop) NotifyUrgent(context.Context, UrgentReport) error { return nil }

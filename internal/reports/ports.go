package reports

import (
	"context"
	"errors"
	"time"

	"github.com/animalrescue/rescue-connect/internal/identity"
	"github.com/animalrescue/rescue-connect/internal/triage"
)

type Status string

const (
	StatusReported    Status = "Reported"
	StatusRescued     Status = "Rescued"
	StatusInTreatment Status = "In Treatment"
	StatusResolved    Status = "Resolved"
)

func (s Status) Valid() bool {
	switch s {
	case StatusReported, StatusRescued, StatusInTreatment, StatusResolved:
		return true
	}
	return false
}

const defaultAnimalType = "Unknown"

var (
	ErrNotFound      = errors.New("report not found")
	ErrInvalidStatus = errors.New("invalid report status")
)

// Report is an animal report together with its triage verdict.
type Report struct {
	ID                  string    `json:"id" bson:"_id"`
	UserID              string    `json:"userId" bson:"userId"`
	UserContact         string    `json:"userContact" bson:"userContact"`
	AnimalType          string    `json:"animalType" bson:"animalType"`
	ConditionReport     string    `json:"conditionReport" bson:"conditionReport"`
	LocationDetails     string    `json:"locationDetails" bson:"locationDetails"`
	ImageURL            string    `json:"imageUrl" bson:"imageUrl"`
	ImageHint           string    `json:"imageHint" bson:"imageHint"`
	ReportDate          time.Time `json:"reportDate" bson:"reportDate"`
	Status              Status    `json:"status" bson:"status"`
	NeedsHumanAttention bool      `json:"needsHumanAttention" bson:"needsHumanAttention"`
	Reason              string    `json:"reason" bson:"reason"`
}

// Submission is what the report form sends.
type Submission struct {
	ConditionReport string `json:"conditionReport"`
	LocationDetails string `json:"locationDetails"`
	ReporterContact string `json:"reporterContact"`
	AnimalType      string `json:"animalType"`
	ImageURL        string `json:"imageUrl"`
	ImageHint       string `json:"imageHint"`
}

// Board is the NGO dashboard: open reports split by urgency, plus the rest.
type Board struct {
	Urgent []Report `json:"urgent"`
	New    []Report `json:"new"`
	Closed []Report `json:"closed"`
}

// Repo is the persistence port. List methods return newest first.
type Repo interface {
	Save(ctx context.Context, r *Report) error
	List(ctx context.Context) ([]Report, error)
	ListByUser(ctx context.Context, userID string) ([]Report, error)
	Get(ctx context.Context, id string) (*Report, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type Service interface {
	Preview(ctx context.Context, sub Submission, caller identity.Identity) (triage.Verdict, error)
	Submit(ctx context.Context, sub Submission, caller identity.Identity) (*Report, error)
	List(ctx context.Context) ([]Report, error)
	ListByUser(ctx context.Context, userID string) ([]Report, error)
	Board(ctx context.Context) (*Board, error)
	Get(ctx context.Context, id string) (*Report, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Report, error)
}

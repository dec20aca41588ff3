package treatments

import (
	"context"
	"errors"
	"time"
)

type Status string

const (
	StatusAdmitted       Status = "Admitted"
	StatusUnderTreatment Status = "Under Treatment"
	StatusRecovered      Status = "Recovered"
	StatusReleased       Status = "Released"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAdmitted, StatusUnderTreatment, StatusRecovered, StatusReleased:
		return true
	}
	return false
}

var (
	ErrNotFound      = errors.New("treatment not found")
	ErrInvalidStatus = errors.New("invalid treatment status")
)

// Treatment is a hospital admission linked to a report.
type Treatment struct {
	ID            string    `json:"id" bson:"_id"`
	ReportID      string    `json:"reportId" bson:"reportId"`
	AnimalType    string    `json:"animalType" bson:"animalType"`
	Condition     string    `json:"condition" bson:"condition"`
	Status        Status    `json:"status" bson:"status"`
	AdmissionDate time.Time `json:"admissionDate" bson:"admissionDate"`
}

type AdmitCommand struct {
	ReportID   string `json:"reportId"`
	AnimalType string `json:"animalType"`
	Condition  string `json:"condition"`
}

// ValidationError lists the missing AdmitCommand fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "treatment: missing required fields"
}

// Repo is the persistence port. List returns newest admission first.
type Repo interface {
	Save(ctx context.Context, t *Treatment) error
	List(ctx context.Context) ([]Treatment, error)
	Get(ctx context.Context, id string) (*Treatment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type Service interface {
	Admit(ctx context.Context, cmd AdmitCommand) (*Treatment, error)
	List(ctx context.Context) ([]Treatment, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Treatment, error)
}

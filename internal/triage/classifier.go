package triage

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

type service struct {
	backend Backend
	log     *zap.Logger
}

// NewClassifier returns a stateless Classifier; it is safe for concurrent use.
func NewClassifier(backend Backend, logger *zap.Logger) Classifier {
	return &service{
		backend: backend,
		log:     logger.Named("triage"),
	}
}

// Classify validates req, calls the backend once and validates the reply.
// Every error matches ErrClassification.
func (s *service) Classify(ctx context.Context, req Request) (Verdict, error) {
	if err := Validate(req); err != nil {
		return Verdict{}, err
	}

	prompt, err := RenderPrompt(req)
	if err != nil {
		// template is static; only reachable on a programming error
		return Verdict{}, fmt.Errorf("%w: render prompt: %v", ErrClassification, err)
	}

	raw, err := s.backend.GetReply(ctx, prompt, VerdictSchema)
	if err != nil {
		s.log.Warn("backend call failed", zap.Error(err))
		return Verdict{}, &BackendUnavailableError{Err: err}
	}

	v, err := DecodeVerdict(raw)
	if err != nil {
		s.log.Warn("invalid model reply", zap.Error(err), zap.String("raw", short(raw)))
		return Verdict{}, err
	}

	s.log.Info("report classified",
		zap.Bool("needs_human_attention", v.NeedsHumanAttention),
		zap.String("reason", short(v.Reason)))

	return v, nil
}

// Validate checks that every request field is non-blank.
func Validate(req Request) error {
	var missing []string
	if strings.TrimSpace(req.ConditionReport) == "" {
		missing = append(missing, "conditionReport")
	}
	if strings.TrimSpace(req.LocationDetails) == "" {
		missing = append(missing, "locationDetails")
	}
	if strings.TrimSpace(req.ReporterContact) == "" {
		missing = append(missing, "reporterContact")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

const logLimit = 180

// short trims s for logging without splitting a UTF-8 sequence.
func short(s string) string {
	if len(s) <= logLimit {
		return s
	}
	cut := logLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

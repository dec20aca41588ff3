package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"
)

const webhookAttempts = 3

// Webhook posts urgent reports to an NGO endpoint.
type Webhook struct {
	url    string
	token  string
	client *http.Client
	delay  time.Duration
	log    *zap.Logger
}

func NewWebhook(url, token string, logger *zap.Logger) *Webhook {
	return &Webhook{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
		delay:  200 * time.Millisecond,
		log:    logger.Named("webhook"),
	}
}

// statusError is a non-2xx reply. Only 5xx is worth another attempt.
type statusError struct {
	code   int
	status string
	body   string
}

func (e *statusError) Error() string {
	return "ngo webhook error: " + e.status + " body=" + e.body
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	return true
}

func (w *Webhook) NotifyUrgent(ctx context.Context, r UrgentReport) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}

	err = retry.Do(
		func() error { return w.post(ctx, b) },
		retry.Context(ctx),
		retry.Attempts(webhookAttempts),
		retry.Delay(w.delay),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			w.log.Warn("webhook attempt failed",
				zap.String("report_id", r.ReportID),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("deliver %s: %w", r.ReportID, err)
	}

	w.log.Info("urgent report delivered", zap.String("report_id", r.ReportID))
	return nil
}

func (w *Webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{code: resp.StatusCode, status: resp.Status, body: string(respBody)}
	}
	return nil
}

// Package upstream talks to the external scheduling service that owns the
// timetable optimisation algorithm. Only the HTTP boundary is modelled here.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/arthavgonda/timetable-gateway/internal/models"
	appErrors "github.com/arthavgonda/timetable-gateway/pkg/errors"
)

// RequestObserver records the outcome of one upstream round trip, typically
// backed by Prometheus.
type RequestObserver func(endpoint string, status int, duration time.Duration)

// Client is a thin JSON client for the scheduling service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	observe RequestObserver
}

// ClientConfig configures the upstream client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
	Observe RequestObserver
}

// NewClient builds an upstream client with sane defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger,
		observe: cfg.Observe,
	}
}

// GenerateParams identify the timetable to produce.
type GenerateParams struct {
	Date     string
	Course   string
	Semester string
}

// GenerateResponse is the submission acknowledgement. Error is set when the
// request was rejected before a task existed.
type GenerateResponse struct {
	TaskID string `json:"task_id"`
	Error  string `json:"error"`
}

// TaskStatus is a single polling response.
type TaskStatus struct {
	Status   string            `json:"status"`
	Progress int               `json:"progress"`
	Message  string            `json:"message"`
	Result   *models.Timetable `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Upstream task status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Generate submits an asynchronous generation job.
func (c *Client) Generate(ctx context.Context, params GenerateParams) (*GenerateResponse, error) {
	q := url.Values{}
	q.Set("date", params.Date)
	q.Set("course", params.Course)
	q.Set("semester", params.Semester)
	q.Set("async_mode", "true")

	var resp GenerateResponse
	if err := c.getJSON(ctx, "/generate?"+q.Encode(), "generate", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TaskStatus fetches the current state of a generation job.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	var resp TaskStatus
	if err := c.getJSON(ctx, "/task/"+url.PathEscape(taskID), "task_status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Timetable fetches the stored timetable anchored at the given date.
func (c *Client) Timetable(ctx context.Context, date string) (*models.Timetable, error) {
	var resp models.Timetable
	if err := c.getJSON(ctx, "/timetable/"+url.PathEscape(date), "timetable", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TeacherAvailability fetches the teacher roster with availability flags.
func (c *Client) TeacherAvailability(ctx context.Context) (map[string]bool, error) {
	resp := map[string]bool{}
	if err := c.getJSON(ctx, "/teacher_availability", "teacher_availability", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Classrooms fetches room metadata.
func (c *Client) Classrooms(ctx context.Context) ([]models.Classroom, error) {
	var resp []models.Classroom
	if err := c.getJSON(ctx, "/classrooms", "classrooms", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build upstream request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.record(endpoint, 0, duration)
		c.logger.Warn("upstream request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
	}
	defer resp.Body.Close()

	c.record(endpoint, resp.StatusCode, duration)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("upstream returned non-2xx",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return appErrors.Clone(appErrors.ErrUpstreamUnavailable, fmt.Sprintf("scheduler responded with status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "failed to decode scheduler response")
	}
	return nil
}

func (c *Client) record(endpoint string, status int, duration time.Duration) {
	if c.observe != nil {
		c.observe(endpoint, status, duration)
	}
}

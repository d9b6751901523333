package simclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/carrera/internal/domain/model"
	"github.com/okian/carrera/pkg/logger"
)

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 512

// Client talks to the race API.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type createRequest struct {
	RunnerCount int     `json:"numero_de_corredores"`
	Distance    float64 `json:"distancia_recorrida"`
}

type raceResponse struct {
	Race    model.Race    `json:"carrera"`
	Results model.Results `json:"resultados"`
}

// Health checks that the service answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

// Create starts a new race.
func (c *Client) Create(ctx context.Context, runners int, distance float64) (model.Race, error) {
	var race model.Race
	err := c.do(ctx, http.MethodPost, "/carreras", createRequest{RunnerCount: runners, Distance: distance}, http.StatusCreated, &race)
	return race, err
}

// Advance moves race id forward by one tick.
func (c *Client) Advance(ctx context.Context, id int64) (model.Race, model.Results, error) {
	var resp raceResponse
	err := c.do(ctx, http.MethodPut, racePath(id), nil, http.StatusOK, &resp)
	return resp.Race, resp.Results, err
}

// Delete removes race id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, racePath(id), nil, http.StatusOK, nil)
}

func racePath(id int64) string {
	return "/carreras/" + strconv.FormatInt(id, 10)
}

// do sends one JSON request and decodes the response into out when the
// status matches want.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, want int, out interface{}) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(ctx, "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != want {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s returned %d (request %s): %s",
			ErrUnexpectedStatus, method, path, resp.StatusCode, requestID, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

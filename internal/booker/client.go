package booker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/wanabot/wanabot-go/internal/errors"
	"github.com/wanabot/wanabot-go/internal/metrics"
)

// Client is an HTTP client for the booker REST API.
// Calls are at-most-once: a failed request is reported, never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.Metrics
}

// NewClient creates a new booker client.
// The metrics recorder may be nil.
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: m,
	}
}

// Bookings returns all current bookings.
func (c *Client) Bookings(ctx context.Context) ([]Booking, error) {
	var bookings []Booking
	if err := c.do(ctx, "bookings", http.MethodGet, "/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CancelBooking cancels a booking by id.
func (c *Client) CancelBooking(ctx context.Context, id string) error {
	path := "/bookings/" + url.PathEscape(id)
	return c.do(ctx, "cancel_booking", http.MethodDelete, path, nil, nil)
}

// CreateBooking reserves the court identified by bookingID on the given
// ISO date (POST /bookings/{id}?date=D).
func (c *Client) CreateBooking(ctx context.Context, bookingID, date string) error {
	path := "/bookings/" + url.PathEscape(bookingID) + "?date=" + url.QueryEscape(date)
	return c.do(ctx, "create_booking", http.MethodPost, path, nil, nil)
}

// TimeSlots returns the available time slots ("HH:MM") for a date.
func (c *Client) TimeSlots(ctx context.Context, date string) ([]string, error) {
	var slots []string
	path := "/time_slots?date=" + url.QueryEscape(date)
	if err := c.do(ctx, "time_slots", http.MethodGet, path, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// AvailableCourts returns the courts available at a specific date-time.
func (c *Client) AvailableCourts(ctx context.Context, datetime string) ([]Court, error) {
	var courts []Court
	path := "/available_courts?datetime=" + url.QueryEscape(datetime)
	if err := c.do(ctx, "available_courts", http.MethodGet, path, nil, &courts); err != nil {
		return nil, err
	}
	return courts, nil
}

// Bots returns all scheduled booking-attempt jobs.
func (c *Client) Bots(ctx context.Context) ([]Bot, error) {
	var bots []Bot
	if err := c.do(ctx, "bots", http.MethodGet, "/bots", nil, &bots); err != nil {
		return nil, err
	}
	return bots, nil
}

// CreateBot registers a new booking-attempt job.
func (c *Client) CreateBot(ctx context.Context, bot Bot) error {
	return c.do(ctx, "create_bot", http.MethodPost, "/bots", bot, nil)
}

// DeleteBot removes a booking-attempt job by name.
func (c *Client) DeleteBot(ctx context.Context, name string) error {
	path := "/bots/" + url.PathEscape(name)
	return c.do(ctx, "delete_bot", http.MethodDelete, path, nil, nil)
}

// DeployBots starts all created bots.
func (c *Client) DeployBots(ctx context.Context) error {
	return c.do(ctx, "deploy_bots", http.MethodPost, "/bots/actions/deploy", nil, nil)
}

// Ready probes the API for the readiness endpoint. A cheap list call is
// used since the service exposes no dedicated health route.
func (c *Client) Ready(ctx context.Context) error {
	var bookings []Booking
	return c.do(ctx, "ready", http.MethodGet, "/bookings", nil, &bookings)
}

// do performs a single request against the booker API. Any 2xx status is
// success; everything else becomes an UpstreamError. When out is non-nil
// the response body is decoded into it as JSON.
func (c *Client) do(ctx context.Context, operation, method, path string, in, out any) error {
	start := time.Now()
	err := c.doOnce(ctx, method, path, in, out)
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordBookerRequest(operation, status, time.Since(start).Seconds())
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.WrapUpstreamError(method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewUpstreamError(method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.WrapUpstreamError(method, path, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

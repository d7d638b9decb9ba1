// Package apiclient is a typed client for the booking REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

type Doctor struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Specialty     string    `json:"specialty"`
	Bio           string    `json:"bio"`
	Image         string    `json:"image"`
	AvailableDays []int     `json:"availableDays"`
	Rating        string    `json:"rating"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AcceptsOn reports whether the doctor works on the given weekday
func (d *Doctor) AcceptsOn(day time.Weekday) bool {
	for _, wd := range d.AvailableDays {
		if wd == int(day) {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID          int       `json:"id"`
	DoctorID    int       `json:"doctorId"`
	UserID      *int      `json:"userId"`
	PatientName string    `json:"patientName"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewAppointment is the body of a booking request
type NewAppointment struct {
	DoctorID    int    `json:"doctorId"`
	UserID      *int   `json:"userId,omitempty"`
	PatientName string `json:"patientName"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status,omitempty"`
	Type        string `json:"type"`
}

// APIError is any non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsConflict reports whether err is a 409 answer, i.e. the slot is taken
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// IsNotFound reports whether err is a 404 answer
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client rooted at baseURL (e.g. "http://localhost:8080").
// A nil httpClient gets a default with a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	var doctors []Doctor
	err := c.do(ctx, http.MethodGet, "/api/doctors", nil, nil, &doctors)
	return doctors, err
}

func (c *Client) GetDoctor(ctx context.Context, id int) (*Doctor, error) {
	var doctor Doctor
	if err := c.do(ctx, http.MethodGet, "/api/doctors/"+strconv.Itoa(id), nil, nil, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// ListAppointments lists every appointment, or only one doctor's when doctorID is set
func (c *Client) ListAppointments(ctx context.Context, doctorID *int) ([]Appointment, error) {
	query := url.Values{}
	if doctorID != nil {
		query.Set("doctorId", strconv.Itoa(*doctorID))
	}
	var appointments []Appointment
	err := c.do(ctx, http.MethodGet, "/api/appointments", query, nil, &appointments)
	return appointments, err
}

func (c *Client) CheckAvailability(ctx context.Context, doctorID int, date, clock string) (bool, error) {
	query := url.Values{}
	query.Set("doctorId", strconv.Itoa(doctorID))
	query.Set("date", date)
	query.Set("time", clock)

	var resp struct {
		Available bool `json:"available"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/appointments/availability", query, nil, &resp); err != nil {
		return false, err
	}
	return resp.Available, nil
}

func (c *Client) BookAppointment(ctx context.Context, req NewAppointment) (*Appointment, error) {
	var appointment Appointment
	if err := c.do(ctx, http.MethodPost, "/api/appointments", nil, req, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Message string            `json:"message"`
			Errors  map[string]string `json:"errors"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Message = errBody.Message
			apiErr.Fields = errBody.Errors
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/models/dtos"
)

// ReservationAPIProvider is the HTTP client adapter for the reservation
// backend. Each method makes exactly one request; there is no retry.
type ReservationAPIProvider struct {
	BaseURL string
	Client  *http.Client
	Metrics *metrics.MetricsRegistry
	// DumpRequests logs each outgoing request with credentials redacted.
	DumpRequests bool
}

// NewReservationAPIProvider creates a provider for baseURL. A zero timeout
// keeps the http.Client default.
func NewReservationAPIProvider(baseURL string, timeout time.Duration, m *metrics.MetricsRegistry) *ReservationAPIProvider {
	return &ReservationAPIProvider{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		Metrics: m,
	}
}

// apiRequest describes one backend call. Route is the endpoint template used
// as the metrics label.
type apiRequest struct {
	Method string
	Route  string
	Path   string
	Query  url.Values
	Token  string
	Body   any
}

// ============================================================================
// Generic verbs
// ============================================================================

func (p *ReservationAPIProvider) Get(ctx context.Context, token, route, path string, query url.Values, result any) (int, error) {
	return p.doRequest(ctx, apiRequest{Method: http.MethodGet, Route: route, Path: path, Query: query, Token: token}, result)
}

func (p *ReservationAPIProvider) Post(ctx context.Context, token, route, path string, body, result any) (int, error) {
	return p.doRequest(ctx, apiRequest{Method: http.MethodPost, Route: route, Path: path, Token: token, Body: body}, result)
}

func (p *ReservationAPIProvider) Patch(ctx context.Context, token, route, path string, body, result any) (int, error) {
	return p.doRequest(ctx, apiRequest{Method: http.MethodPatch, Route: route, Path: path, Token: token, Body: body}, result)
}

func (p *ReservationAPIProvider) Delete(ctx context.Context, token, route, path string) (int, error) {
	return p.doRequest(ctx, apiRequest{Method: http.MethodDelete, Route: route, Path: path, Token: token}, nil)
}

// ============================================================================
// Auth
// ============================================================================

// ObtainToken exchanges credentials for an access/refresh pair.
func (p *ReservationAPIProvider) ObtainToken(ctx context.Context, email, password string) (*dtos.TokenResponse, error) {
	var tokens dtos.TokenResponse
	body := dtos.TokenRequest{Email: email, Password: password}
	if _, err := p.Post(ctx, "", constants.EndpointToken, constants.EndpointToken, body, &tokens); err != nil {
		return nil, err
	}
	if err := validated(constants.EndpointToken, tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (p *ReservationAPIProvider) CurrentUser(ctx context.Context, token string) (*dtos.User, error) {
	var user dtos.User
	if _, err := p.Get(ctx, token, constants.EndpointCurrentUser, constants.EndpointCurrentUser, nil, &user); err != nil {
		return nil, err
	}
	if err := validated(constants.EndpointCurrentUser, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (p *ReservationAPIProvider) Logout(ctx context.Context, token string) error {
	_, err := p.Post(ctx, token, constants.EndpointLogout, constants.EndpointLogout, map[string]any{}, nil)
	return err
}

// TestError calls the backend's deliberate failure endpoint.
func (p *ReservationAPIProvider) TestError(ctx context.Context, token string) error {
	_, err := p.Get(ctx, token, constants.EndpointTestError, constants.EndpointTestError, nil, nil)
	return err
}

// ============================================================================
// Users
// ============================================================================

func (p *ReservationAPIProvider) ListUsers(ctx context.Context, token string) ([]dtos.User, error) {
	return getList[dtos.User](ctx, p, token, constants.EndpointUsers, nil)
}

func (p *ReservationAPIProvider) AddUser(ctx context.Context, token string, req dtos.NewUserRequest) error {
	_, err := p.Post(ctx, token, constants.EndpointAddUser, constants.EndpointAddUser, req, nil)
	return err
}

func (p *ReservationAPIProvider) UpdateUser(ctx context.Context, token, id string, patch map[string]any) error {
	path := fmt.Sprintf(constants.EndpointUpdateUser, url.PathEscape(id))
	_, err := p.Patch(ctx, token, constants.EndpointUpdateUser, path, patch, nil)
	return err
}

func (p *ReservationAPIProvider) ListUserSessions(ctx context.Context, token string) ([]dtos.UserSession, error) {
	return getList[dtos.UserSession](ctx, p, token, constants.EndpointUserSessions, nil)
}

// ============================================================================
// Schedules
// ============================================================================

func (p *ReservationAPIProvider) ListSchedules(ctx context.Context, token string) ([]dtos.Schedule, error) {
	return getList[dtos.Schedule](ctx, p, token, constants.EndpointSchedules, nil)
}

func (p *ReservationAPIProvider) UpdateSchedule(ctx context.Context, token, id string, patch map[string]any) error {
	path := fmt.Sprintf(constants.EndpointUpdateSchedule, url.PathEscape(id))
	_, err := p.Patch(ctx, token, constants.EndpointUpdateSchedule, path, patch, nil)
	return err
}

func (p *ReservationAPIProvider) SearchSchedules(ctx context.Context, token string, q dtos.ScheduleSearch) ([]dtos.Schedule, error) {
	query := url.Values{}
	query.Set("departure_airport", strconv.Itoa(q.DepartureAirport))
	query.Set("arrival_airport", strconv.Itoa(q.ArrivalAirport))
	query.Set("date", q.Date)
	if q.IncludeNearbyDays {
		query.Set("include_nearby_days", "true")
	}
	return getList[dtos.Schedule](ctx, p, token, constants.EndpointScheduleSearch, query)
}

func (p *ReservationAPIProvider) GetSchedule(ctx context.Context, token string, id int) (*dtos.Schedule, error) {
	query := url.Values{"id": {strconv.Itoa(id)}}
	var schedule dtos.Schedule
	if _, err := p.Get(ctx, token, constants.EndpointScheduleByID, constants.EndpointScheduleByID, query, &schedule); err != nil {
		return nil, err
	}
	if err := validated(constants.EndpointScheduleByID, schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (p *ReservationAPIProvider) ListAirports(ctx context.Context, token string) ([]dtos.Airport, error) {
	return getList[dtos.Airport](ctx, p, token, constants.EndpointAirports, nil)
}

func (p *ReservationAPIProvider) ListAircrafts(ctx context.Context, token string) ([]dtos.Aircraft, error) {
	return getList[dtos.Aircraft](ctx, p, token, constants.EndpointAircrafts, nil)
}

// ============================================================================
// Tickets and amenities
// ============================================================================

func (p *ReservationAPIProvider) CreateTicket(ctx context.Context, token string, req dtos.CreateTicketRequest) (*dtos.CreatedTicket, error) {
	var created dtos.CreatedTicket
	if _, err := p.Post(ctx, token, constants.EndpointCreateTicket, constants.EndpointCreateTicket, req, &created); err != nil {
		return nil, err
	}
	if err := validated(constants.EndpointCreateTicket, created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (p *ReservationAPIProvider) SearchTickets(ctx context.Context, token, bookingReference string) ([]dtos.Ticket, error) {
	query := url.Values{"booking_reference": {bookingReference}}
	return getList[dtos.Ticket](ctx, p, token, constants.EndpointTicketSearch, query)
}

func (p *ReservationAPIProvider) ListAmenities(ctx context.Context, token string) ([]dtos.Amenity, error) {
	return getList[dtos.Amenity](ctx, p, token, constants.EndpointAmenities, nil)
}

func (p *ReservationAPIProvider) CreateAmenityTicket(ctx context.Context, token string, amenityID, ticketID int) (*dtos.AmenityTicket, error) {
	body := map[string]int{"amenity": amenityID, "ticket": ticketID}
	var link dtos.AmenityTicket
	if _, err := p.Post(ctx, token, constants.EndpointAmenityTickets, constants.EndpointAmenityTickets, body, &link); err != nil {
		return nil, err
	}
	if err := validated(constants.EndpointAmenityTickets, link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (p *ReservationAPIProvider) DeleteAmenityTicket(ctx context.Context, token string, linkID int) error {
	path := fmt.Sprintf(constants.EndpointAmenityTicketID, strconv.Itoa(linkID))
	_, err := p.Delete(ctx, token, constants.EndpointAmenityTicketID, path)
	return err
}

// ============================================================================
// Surveys
// ============================================================================

func (p *ReservationAPIProvider) ListSurveys(ctx context.Context, token string) ([]dtos.Survey, error) {
	return getList[dtos.Survey](ctx, p, token, constants.EndpointSurveys, nil)
}

// ============================================================================
// HTTP Helper Methods
// ============================================================================

func getList[T dtos.Validator](ctx context.Context, p *ReservationAPIProvider, token, route string, query url.Values) ([]T, error) {
	var items []T
	if _, err := p.Get(ctx, token, route, route, query, &items); err != nil {
		return nil, err
	}
	if err := dtos.ValidateAll(items); err != nil {
		return nil, invalidResponse(route, err)
	}
	return items, nil
}

func validated(route string, v dtos.Validator) error {
	if err := v.Validate(); err != nil {
		return invalidResponse(route, err)
	}
	return nil
}

func invalidResponse(route string, err error) *APIError {
	return &APIError{
		Code:     constants.ErrCodeInvalidResponse,
		Endpoint: route,
		Message:  constants.GetErrorMessage(constants.ErrCodeInvalidResponse),
		Err:      err,
	}
}

// doRequest performs one request with bearer authentication and decodes a
// 2xx JSON body into result when result is non-nil.
func (p *ReservationAPIProvider) doRequest(ctx context.Context, r apiRequest, result any) (int, error) {
	start := time.Now()
	status, err := p.send(ctx, r, result)
	p.observe(r, status, err, time.Since(start))
	if err != nil {
		logging.Debug("backend request failed", "method", r.Method, "path", r.Path, "error", err)
	}
	return status, err
}

func (p *ReservationAPIProvider) send(ctx context.Context, r apiRequest, result any) (int, error) {
	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return 0, &APIError{
				Code:     constants.ErrCodeValidation,
				Endpoint: r.Route,
				Message:  "Failed to marshal request body",
				Err:      err,
			}
		}
		body = bytes.NewReader(payload)
	}

	target := p.BaseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return 0, &APIError{
			Code:     constants.ErrCodeNetworkError,
			Endpoint: r.Route,
			Message:  "Failed to create request",
			Err:      err,
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	if p.DumpRequests {
		common.LogHTTPRequest(req)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, &APIError{
			Code:     constants.ErrCodeNetworkError,
			Endpoint: r.Route,
			Message:  constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:      err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, &APIError{
			Code:     constants.ErrCodeNetworkError,
			Status:   resp.StatusCode,
			Endpoint: r.Route,
			Message:  "Failed to read response body",
			Err:      readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, buildHTTPError(resp.StatusCode, r.Route, bodyBytes)
	}

	if result == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return resp.StatusCode, &APIError{
			Code:     constants.ErrCodeInvalidResponse,
			Status:   resp.StatusCode,
			Endpoint: r.Route,
			Message:  "Failed to decode response",
			Details:  string(bodyBytes),
			Err:      err,
		}
	}
	return resp.StatusCode, nil
}

// buildHTTPError classifies a non-2xx response and keeps the backend's own
// message when the body carries one.
func buildHTTPError(status int, route string, body []byte) *APIError {
	code := codeForStatus(status)
	msg := constants.GetErrorMessage(code)

	var parsed dtos.BackendMessage
	if err := json.Unmarshal(body, &parsed); err == nil {
		if text := parsed.Text(); text != "" {
			msg = text
		}
	}

	return &APIError{
		Code:     code,
		Status:   status,
		Endpoint: route,
		Message:  msg,
		Details:  string(body),
	}
}

func (p *ReservationAPIProvider) observe(r apiRequest, status int, err error, elapsed time.Duration) {
	if p.Metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if apiErr, ok := AsAPIError(err); ok {
			outcome = apiErr.Code
		}
	}
	p.Metrics.BackendRequestsTotal.WithLabelValues(r.Route, r.Method, outcome).Inc()
	p.Metrics.BackendRequestDuration.WithLabelValues(r.Route, r.Method).Observe(elapsed.Seconds())
}

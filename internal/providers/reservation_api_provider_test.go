package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/models/dtos"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*ReservationAPIProvider, *metrics.MetricsRegistry) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	return NewReservationAPIProvider(server.URL, 0, m), m
}

func TestObtainToken_Success(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/api/token/" {
			t.Errorf("Expected path /api/token/, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("token request must not carry a bearer token")
		}

		var body dtos.TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Email != "j.doe@amonic.com" || body.Password != "secret" {
			t.Errorf("unexpected body %+v", body)
		}

		json.NewEncoder(w).Encode(map[string]string{"access": "a.b.c", "refresh": "d.e.f"})
	})

	tokens, err := provider.ObtainToken(context.Background(), "j.doe@amonic.com", "secret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tokens.Access != "a.b.c" || tokens.Refresh != "d.e.f" {
		t.Errorf("unexpected tokens %+v", tokens)
	}
}

func TestObtainToken_BackendDetailIsKept(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail":"Too many attempts. Try later"}`))
	})

	_, err := provider.ObtainToken(context.Background(), "x@y.z", "bad")
	if err == nil {
		t.Fatal("Expected error")
	}
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.Code != constants.ErrCodeRateLimited || apiErr.Status != http.StatusTooManyRequests {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if got := UserMessage(err); got != "Too many attempts. Try later" {
		t.Errorf("UserMessage = %q", got)
	}
	if !IsRateLimited(err) {
		t.Error("IsRateLimited should be true")
	}
}

func TestObtainToken_MissingRefreshIsInvalid(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access":"only"}`))
	})

	_, err := provider.ObtainToken(context.Background(), "a@b.c", "pw")
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Code != constants.ErrCodeInvalidResponse {
		t.Fatalf("Expected INVALID_RESPONSE, got %v", err)
	}
	if !errorsIsContract(err) {
		t.Error("contract error should be wrapped")
	}
}

func TestListSchedules_DecodesStringDecimals(t *testing.T) {
	provider, m := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`[{"id":7,"date":"2017-10-04","time":"17:00:00","flight_number":"49",
			"from_airport":{"id":2,"name":"Abu Dhabi","iata_code":"AUH"},
			"to_airport":{"id":3,"name":"Cairo","iata_code":"CAI"},
			"aircraft":{"id":1,"name":"Boeing 738"},
			"economy_price":"540.00","confirmed":true}]`))
	})

	schedules, err := provider.ListSchedules(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(schedules) != 1 {
		t.Fatalf("Expected 1 schedule, got %d", len(schedules))
	}
	s := schedules[0]
	if s.EconomyPrice.String() != "540.00" || s.BusinessPrice().String() != "729.00" || s.FirstClassPrice().String() != "948.00" {
		t.Errorf("prices %s/%s/%s", s.EconomyPrice, s.BusinessPrice(), s.FirstClassPrice())
	}
	if s.FromAirport.IATACode != "AUH" {
		t.Errorf("from airport %+v", s.FromAirport)
	}

	count := testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues(constants.EndpointSchedules, http.MethodGet, "ok"))
	if count != 1 {
		t.Errorf("backend request metric = %v", count)
	}
}

func TestListSchedules_RejectsBrokenContract(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":7,"date":"not-a-date","flight_number":"49"}]`))
	})

	_, err := provider.ListSchedules(context.Background(), "tok")
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Code != constants.ErrCodeInvalidResponse {
		t.Fatalf("Expected INVALID_RESPONSE, got %v", err)
	}
}

func TestUpdateSchedule_SendsPatch(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("Expected PATCH, got %s", r.Method)
		}
		if r.URL.Path != "/api/update_schedule/7/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"confirmed":false}` {
			t.Errorf("body = %s", body)
		}
		w.Write([]byte(`{"message":"ok"}`))
	})

	if err := provider.UpdateSchedule(context.Background(), "tok", "7", map[string]any{"confirmed": false}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestSearchSchedules_QueryAndNotFound(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("departure_airport") != "2" || q.Get("arrival_airport") != "3" || q.Get("date") != "2017-10-04" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if q.Get("include_nearby_days") != "true" {
			t.Errorf("include_nearby_days missing: %s", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"No flights"}`))
	})

	_, err := provider.SearchSchedules(context.Background(), "tok", dtos.ScheduleSearch{
		DepartureAirport: 2, ArrivalAirport: 3, Date: "2017-10-04", IncludeNearbyDays: true,
	})
	if !IsNotFound(err) {
		t.Fatalf("Expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteAmenityTicket(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/amenitiestickets/55/" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := provider.DeleteAmenityTicket(context.Background(), "tok", 55); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestAuthFailureClassification(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, err := provider.CurrentUser(context.Background(), "expired")
		if !IsAuthFailure(err) {
			t.Errorf("status %d: expected auth failure, got %v", status, err)
		}
		if got := UserMessage(err); got != constants.GetErrorMessage(constants.ErrCodeAuthFailed) {
			t.Errorf("status %d: message %q", status, got)
		}
	}
}

func TestNetworkError(t *testing.T) {
	provider := NewReservationAPIProvider("http://127.0.0.1:1", 0, nil)

	_, err := provider.ListAirports(context.Background(), "tok")
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.Code != constants.ErrCodeNetworkError || apiErr.HasResponse() {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestDetailListMessage(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":["Wrong password."]}`))
	})

	_, err := provider.ObtainToken(context.Background(), "a@b.c", "pw")
	if got := UserMessage(err); got != "Wrong password." {
		t.Errorf("UserMessage = %q", got)
	}
}

func errorsIsContract(err error) bool {
	return errors.Is(err, dtos.ErrInvalidContract)
}

package bookingflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"busbooking/internal/shared/apperror"
	"busbooking/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperror.NewValidation(apperror.CodeIncomplete, "passengers[0]", "missing"), http.StatusUnprocessableEntity},
		{"auth", ErrAuthRequired, http.StatusUnauthorized},
		{"not found", ErrFlowNotFound, http.StatusNotFound},
		{"bad flow id", ErrInvalidFlowID, http.StatusBadRequest},
		{"bad seat", ErrSeatNotFound, http.StatusNotFound},
		{"out of order", fmt.Errorf("wrapped: %w", ErrOutOfOrder), http.StatusConflict},
		{"locked", ErrFlowLocked, http.StatusConflict},
		{"inconsistent", ErrInconsistent, http.StatusConflict},
		{"upstream", apperror.NewUpstream("FETCH_SEATS", errors.New("timeout")), http.StatusBadGateway},
		{"declined", apperror.NewSubmission(apperror.CodePaymentDeclined, nil), http.StatusPaymentRequired},
		{"seat taken at submit", apperror.NewSubmission(apperror.CodeBookingFailed,
			apperror.NewValidation(apperror.CodeSeatUnavailable, "", "taken")), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := statusFor(tt.err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func newTestRouter(h *harness) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	c := NewController(h.svc)
	flows := r.Group("/flows")
	flows.POST("", c.Start)
	flows.POST("/:id/schedule", c.OpenSchedule)
	flows.POST("/:id/seats/:seatId/toggle", c.ToggleSeat)
	flows.POST("/:id/passenger-info", c.ProceedToPassengers)
	flows.POST("/:id/pay", c.Pay)
	return r
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestController_AnonymousCannotLeaveSeatSelection(t *testing.T) {
	h := newHarness(t)
	r := newTestRouter(h)

	w, env := doJSON(t, r, http.MethodPost, "/flows", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var started FlowResponse
	require.NoError(t, json.Unmarshal(env.Data, &started))
	id := started.ID

	w, _ = doJSON(t, r, http.MethodPost, "/flows/"+id+"/schedule",
		fmt.Sprintf(`{"schedule_id":%q}`, h.inventory.schedule.ID.String()))
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/flows/"+id+"/seats/"+h.seat.ID.String()+"/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodPost, "/flows/"+id+"/passenger-info", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")

	var view FlowResponse
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, StateSeatSelection, view.State)
	assert.Len(t, view.Selected, 1)
}

func TestController_OpenScheduleRejectsBadBody(t *testing.T) {
	h := newHarness(t)
	r := newTestRouter(h)

	w, env := doJSON(t, r, http.MethodPost, "/flows", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var started FlowResponse
	require.NoError(t, json.Unmarshal(env.Data, &started))

	w, env = doJSON(t, r, http.MethodPost, "/flows/"+started.ID+"/schedule", `{"schedule_id":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
}

func TestController_PayRejectsIncompleteCard(t *testing.T) {
	h := newHarness(t)
	r := newTestRouter(h)
	f := h.toPayment(t)

	w, env := doJSON(t, r, http.MethodPost, "/flows/"+f.ID.String()+"/pay",
		`{"card_number":"4111111111111111","card_holder":"Jane Doe","expiry":"12/30","cvv":""}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var detail response.ErrorDetail
	require.NoError(t, json.Unmarshal(env.Errors, &detail))
	assert.Equal(t, response.ErrorDetail{Code: apperror.CodeInvalidCard, Field: "cvv"}, detail)
	assert.Zero(t, h.gateway.calls)

	var view FlowResponse
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, StatePayment, view.State)

	w, _ = doJSON(t, r, http.MethodPost, "/flows/"+f.ID.String()+"/pay",
		`{"card_number":"4111111111111111","card_holder":"Jane Doe","expiry":"12/30","cvv":"123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, h.gateway.calls)
}

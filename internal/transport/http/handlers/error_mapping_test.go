package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/arklim/selfstudy-web/internal/upstream"
	"github.com/arklim/selfstudy-web/internal/usecase"
)

type fakeExpirer struct {
	calls int
}

func (f *fakeExpirer) Expire() {
	f.calls++
}

func respond(t *testing.T, mapper *ErrorMapper, err error, cases []ErrorCase) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	mapper.Respond(c, err, cases, http.StatusBadGateway, "upstream unavailable")

	var body ErrorResponse
	if rr.Body.Len() > 0 {
		if decodeErr := json.Unmarshal(rr.Body.Bytes(), &body); decodeErr != nil {
			t.Fatalf("failed to decode error body: %v", decodeErr)
		}
	}
	return rr, body
}

func TestRespondSessionFatalClearsAndRedirects(t *testing.T) {
	fatal := []error{
		upstream.ErrUnauthorized,
		usecase.ErrNotAuthenticated,
		usecase.ErrSessionExpired,
	}

	for _, err := range fatal {
		expirer := &fakeExpirer{}
		mapper := NewErrorMapper(expirer)

		rr, body := respond(t, mapper, err, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%v: expected status 401, got %d", err, rr.Code)
		}
		if body.Redirect != "/login" {
			t.Fatalf("%v: expected login redirect, got %q", err, body.Redirect)
		}
		if expirer.calls != 1 {
			t.Fatalf("%v: expected one expire call, got %d", err, expirer.calls)
		}
	}
}

func TestRespondWrappedUnauthorizedIsStillFatal(t *testing.T) {
	expirer := &fakeExpirer{}
	mapper := NewErrorMapper(expirer)

	wrapped := &upstream.APIError{StatusCode: http.StatusUnauthorized, Message: "token expired"}
	rr, body := respond(t, mapper, wrapped, nil)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
	if body.Redirect != "/login" {
		t.Fatalf("expected login redirect, got %q", body.Redirect)
	}
	if expirer.calls != 1 {
		t.Fatalf("expected one expire call, got %d", expirer.calls)
	}
}

func TestRespondCaseTable(t *testing.T) {
	mapper := NewErrorMapper(&fakeExpirer{})

	sentinel := errors.New("boom")
	rr, body := respond(t, mapper, sentinel, []ErrorCase{
		{Err: sentinel, Status: http.StatusConflict, Message: "conflict happened"},
	})

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}
	if body.Error != "conflict happened" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestRespondPermissionAndNotFound(t *testing.T) {
	mapper := NewErrorMapper(&fakeExpirer{})

	rr, _ := respond(t, mapper, usecase.ErrPermissionDenied, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rr.Code)
	}

	rr, _ = respond(t, mapper, upstream.ErrForbidden, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for upstream forbidden, got %d", rr.Code)
	}

	rr, _ = respond(t, mapper, upstream.ErrNotFound, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestRespondPassesThroughClientStatus(t *testing.T) {
	expirer := &fakeExpirer{}
	mapper := NewErrorMapper(expirer)

	apiErr := &upstream.APIError{
		StatusCode: http.StatusBadRequest,
		Fields:     map[string][]string{"title": {"required"}},
	}
	rr, body := respond(t, mapper, apiErr, nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if body.Error != "title: required" {
		t.Fatalf("unexpected message %q", body.Error)
	}
	if expirer.calls != 0 {
		t.Fatalf("4xx validation error must not expire the session, got %d calls", expirer.calls)
	}
}

func TestRespondNilError(t *testing.T) {
	expirer := &fakeExpirer{}
	mapper := NewErrorMapper(expirer)

	rr, _ := respond(t, mapper, nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if expirer.calls != 0 {
		t.Fatalf("expected no expire calls, got %d", expirer.calls)
	}
}

func TestRespondFallback(t *testing.T) {
	mapper := NewErrorMapper(&fakeExpirer{})

	rr, body := respond(t, mapper, errors.New("connection refused"), nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rr.Code)
	}
	if body.Error != "upstream unavailable" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

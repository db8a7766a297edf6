package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError_Body(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/user/profile", nil)
	w := httptest.NewRecorder()

	WriteError(w, r, ErrTokenRevoked)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", w.Code)
	}
	var body Body
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := Body{Status: 401, Error: "Unauthorized", Message: "Invalid Token!. Please login again.", Path: "/api/auth/user/profile"}
	if body != want {
		t.Fatalf("body=%+v want %+v", body, want)
	}
}

func TestWriteError_UnknownErrorIs500WithoutCause(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()

	WriteError(w, r, stderrors.New("db password is hunter2"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var body Body
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Message != ErrInternalServerError.Message {
		t.Fatalf("cause leaked: %q", body.Message)
	}
}

func TestAppError_IsMatchesCopies(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrNotFound.WithMessage("no riders").WithCause(stderrors.New("x")))
	if !stderrors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is to match by code")
	}
	if stderrors.Is(err, ErrForbidden) {
		t.Fatalf("unexpected match")
	}
	if FromError(err).Message != "no riders" {
		t.Fatalf("FromError should unwrap to the AppError")
	}
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindTooManyRequests, http.StatusTooManyRequests},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := New(tc.kind, "x").HTTPStatus(); got != tc.want {
			t.Fatalf("kind %d: expected status %d, got %d", tc.kind, tc.want, got)
		}
	}
}

func TestErrorCodeFallsBackToKind(t *testing.T) {
	if got := NotFound("missing").ErrorCode(); got != CodeNotFound {
		t.Fatalf("expected %s, got %s", CodeNotFound, got)
	}
	if got := BadRequest("bad").WithCode(CodeInvalidFaceImage).ErrorCode(); got != CodeInvalidFaceImage {
		t.Fatalf("expected explicit code, got %s", got)
	}
}

func TestCodeOfWrappedError(t *testing.T) {
	base := Internal("persist failed").WithCode(CodePersistenceFailed)
	wrapped := fmt.Errorf("service: %w", base)

	if got := CodeOf(wrapped); got != CodePersistenceFailed {
		t.Fatalf("expected %s through wrapping, got %s", CodePersistenceFailed, got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("expected %s for untyped error, got %s", CodeInternal, got)
	}
	if !Is(wrapped, KindInternal) {
		t.Fatal("expected Is to see through wrapping")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, "insert failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the cause")
	}
	if err.Error() != "insert failed: connection reset" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

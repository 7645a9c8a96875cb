package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindsCarryStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		kind Kind
		code int
	}{
		{Unauthenticated("no token"), KindUnauthenticated, 401},
		{NotAuthorized("not yours"), KindNotAuthorized, 403},
		{InvalidInput("bad", nil), KindInvalidInput, 422},
		{NotFound("gone"), KindNotFound, 404},
		{Internal("boom", nil), KindInternal, 500},
	}
	for _, tc := range cases {
		if tc.err.Kind != tc.kind || tc.err.HTTPStatus != tc.code {
			t.Fatalf("%+v: want %s/%d", tc.err, tc.kind, tc.code)
		}
		if !IsKind(tc.err, tc.kind) {
			t.Fatalf("IsKind(%s) = false", tc.kind)
		}
	}
}

func TestFromDefaultsToInternal(t *testing.T) {
	appErr := From(errors.New("disk on fire"))
	if appErr.Kind != KindInternal || appErr.HTTPStatus != 500 {
		t.Fatalf("unexpected: %+v", appErr)
	}
}

func TestFromUnwrapsThroughWrapping(t *testing.T) {
	inner := NotFound("no post found")
	wrapped := fmt.Errorf("resolve post: %w", inner)

	appErr := From(wrapped)
	if appErr != inner {
		t.Fatalf("expected the original *Error back, got %+v", appErr)
	}
	if !IsKind(wrapped, KindNotFound) {
		t.Fatalf("IsKind must see through wrapping")
	}
}

func TestInvalidInputKeepsDetails(t *testing.T) {
	err := InvalidInput("Invalid input", []Detail{{Message: "Title is invalid"}, {Message: "Content is invalid"}})
	if len(From(err).Details) != 2 {
		t.Fatalf("details lost: %+v", From(err))
	}
}

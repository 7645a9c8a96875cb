package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/postboard-be/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	a := New("test-secret")
	user := models.User{ID: "user-1", Email: "maria@example.com"}

	token, err := a.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := a.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "maria@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := New("secret-a").GenerateToken(models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := New("secret-b").ValidateToken(token); err == nil {
		t.Fatalf("expected validation failure")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	a := New("test-secret")
	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := a.ValidateToken(token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

// The middleware never rejects; it only attaches an identity when the token
// checks out.
func TestMiddleware(t *testing.T) {
	a := New("test-secret")

	var gotClaims *Claims
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, gotOK = Identity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := a.Middleware()(next)

	t.Run("no header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request must pass through, got %d", rec.Code)
		}
		if gotOK {
			t.Fatalf("expected no identity")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request must pass through, got %d", rec.Code)
		}
		if gotOK {
			t.Fatalf("expected no identity")
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := a.GenerateToken(models.User{ID: "user-1", Email: "maria@example.com"})
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if !gotOK {
			t.Fatalf("expected identity")
		}
		if gotClaims.UserID != "user-1" {
			t.Fatalf("unexpected claims: %+v", gotClaims)
		}
	})
}

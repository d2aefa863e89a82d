package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterUserInput, ip string) (*domain.User, error) {
			if in.Username != "alice" || in.Role != "participant" || in.PasswordConfirm != "s3cret!pass" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Username: in.Username, Role: domain.RoleParticipant}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/auth/register", `{"username":"alice","email":"a@example.com",
		"first_name":"Alice","last_name":"Liddell","institution":"UFSC","role":"participant",
		"password":"s3cret!pass","password_confirm":"s3cret!pass"}`)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestAuthHandler_Register_RequestValidation(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(context.Context, ports.RegisterUserInput, string) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	c, _ := newTestContext(http.MethodPost, "/auth/register", `{"username":"bob","email":"not-an-email","role":"admin"}`)

	err := NewAuthHandler(stub).Register(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got: %v", err)
	}
	for _, field := range []string{"email", "role", "first_name", "password"} {
		if !verr.Has(field) {
			t.Errorf("expected violation on %s, got %v", field, verr.Fields)
		}
	}
}

func TestAuthHandler_Confirm(t *testing.T) {
	stub := &stubUserService{
		confirmFn: func(_ context.Context, token, _ string) (*domain.User, error) {
			if token != "expired-token" {
				return &domain.User{ID: "u1", Active: true}, nil
			}
			return nil, domain.ErrTokenExpired
		},
	}

	c, rec := newTestContext(http.MethodGet, "/auth/confirm/good", "")
	c.SetParamNames("token")
	c.SetParamValues("good-token")
	if err := NewAuthHandler(stub).Confirm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newTestContext(http.MethodGet, "/auth/confirm/expired", "")
	c.SetParamNames("token")
	c.SetParamValues("expired-token")
	if err := NewAuthHandler(stub).Confirm(c); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got: %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubUserService{
		loginFn: func(_ context.Context, identifier, password string) (string, *domain.User, error) {
			if identifier == "alice@example.com" && password == "s3cret!pass" {
				return "jwt-token", &domain.User{ID: "u1"}, nil
			}
			return "", nil, domain.ErrInvalidCredentials
		},
	}

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"identifier":"alice@example.com","password":"s3cret!pass"}`)
	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "jwt-token" {
		t.Errorf("expected token, got %+v", resp)
	}

	c, _ = newTestContext(http.MethodPost, "/auth/login", `{"identifier":"alice","password":"wrong"}`)
	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}

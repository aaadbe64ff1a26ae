package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/portal-harnasi/backend/pkg/errors"
)

type registerBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","password":"Tajne123"}`))

	var body registerBody
	if err := DecodeJSONBody(r, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Email != "a@example.com" {
		t.Fatalf("unexpected decode result %+v", body)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","password":"Tajne123","admin":true}`))

	var body registerBody
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyPasswordPolicy(t *testing.T) {
	weak := []string{
		`"tajne123"`, // no uppercase
		`"TAJNE123"`, // no lowercase
		`"Tajnehaslo"`, // no digit
		`"Ta1"`, // too short
	}
	for _, pw := range weak {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","password":`+pw+`}`))
		var body registerBody
		err := DecodeJSONBody(r, &body)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("password %s: expected validation error, got %v", pw, err)
		}
		details, ok := typed.Details().(map[string]string)
		if !ok || details["password"] == "" {
			t.Fatalf("password %s: expected a password field detail, got %v", pw, typed.Details())
		}
	}
}

func TestParseQueryIntBounds(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=500", nil)
	if _, err := ParseQueryInt(r, "limit", 10, 1, 100); err == nil {
		t.Fatal("expected out-of-range error")
	}

	r = httptest.NewRequest("GET", "/", nil)
	got, err := ParseQueryInt(r, "limit", 10, 1, 100)
	if err != nil || got != 10 {
		t.Fatalf("expected default 10, got %d err %v", got, err)
	}
}

func TestParseQueryDate(t *testing.T) {
	r := httptest.NewRequest("GET", "/?startDate=2026-03-01", nil)
	got, err := ParseQueryDate(r, "startDate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Year() != 2026 || got.Month() != 3 {
		t.Fatalf("unexpected date %v", got)
	}

	r = httptest.NewRequest("GET", "/?startDate=yesterday", nil)
	if _, err := ParseQueryDate(r, "startDate"); err == nil {
		t.Fatal("expected validation error for malformed date")
	}
}

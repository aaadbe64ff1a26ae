package mailer

import (
	"strings"
	"testing"
)

func TestVerificationMessage(t *testing.T) {
	msg := VerificationMessage("member@example.com", "https://portal.example.com", "abc123")

	if msg.To != "member@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if msg.Subject != "Portal Harnasi - Weryfikacja adresu email" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "https://portal.example.com/api/users/verify-email/abc123") {
		t.Fatalf("verification link missing from body:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "24 godziny") {
		t.Fatal("expected the 24 hour validity note")
	}
}

func TestResendVerificationMessage(t *testing.T) {
	msg := ResendVerificationMessage("member@example.com", "https://portal.example.com", "tok")

	if msg.Subject != "Portal Harnasi - Nowy link weryfikacyjny" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "/api/users/verify-email/tok") {
		t.Fatalf("verification link missing from body:\n%s", msg.HTML)
	}
}

func TestPasswordResetMessage(t *testing.T) {
	msg := PasswordResetMessage("member@example.com", "https://portal.example.com", "tok")

	if msg.Subject != "Portal Harnasi - Resetowanie hasła" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "https://portal.example.com/reset-password/tok") {
		t.Fatalf("reset link missing from body:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "10 minutach") {
		t.Fatal("expected the 10 minute validity note")
	}
}

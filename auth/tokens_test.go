// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSigner_IssueVerify(t *testing.T) {
	s := NewSigner("test-secret")

	token, issued, err := s.Issue("user-1", "alice@example.com", audienceSession, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("Issue() token %q is not a JWT", token)
	}

	claims, err := s.Verify(token, audienceSession)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want user-1", claims.Subject)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", claims.Email)
	}
	if claims.ID != issued.ID || claims.ID == "" {
		t.Errorf("ID = %q, want %q", claims.ID, issued.ID)
	}
}

func TestSigner_IssueUniqueIDs(t *testing.T) {
	s := NewSigner("test-secret")
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		_, claims, err := s.Issue("user-1", "a@example.com", audienceSession, time.Hour)
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if seen[claims.ID] {
			t.Fatalf("duplicate token id %s", claims.ID)
		}
		seen[claims.ID] = true
	}
}

func TestSigner_VerifyRejects(t *testing.T) {
	s := NewSigner("test-secret")
	valid, _, _ := s.Issue("user-1", "a@example.com", audienceSession, time.Hour)
	expired, _, _ := s.Issue("user-1", "a@example.com", audienceSession, -time.Minute)
	confirmation, _, _ := s.Issue("user-1", "a@example.com", audienceConfirmation, time.Hour)
	foreign, _, _ := NewSigner("other-secret").Issue("user-1", "a@example.com", audienceSession, time.Hour)
	noSubject, _, _ := s.Issue("", "a@example.com", audienceSession, time.Hour)

	// Flip a character in the signature
	tampered := valid[:len(valid)-2] + "xx"
	if strings.HasSuffix(valid, "xx") {
		tampered = valid[:len(valid)-2] + "yy"
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong audience", confirmation},
		{"wrong secret", foreign},
		{"tampered signature", tampered},
		{"missing subject", noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(tt.token, audienceSession)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

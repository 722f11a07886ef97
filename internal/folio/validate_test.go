package folio

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "a@b.com", "secret1", false},
		{"missing email", "", "secret1", true},
		{"blank email", "   ", "secret1", true},
		{"missing password", "a@b.com", "", true},
		{"short password still accepted", "a@b.com", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.email, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLogin() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error %v does not wrap ErrValidation", err)
			}
		})
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name              string
		email, pw, confirm string
		wantErr           string
	}{
		{name: "valid", email: "a@b.com", pw: "secret1", confirm: "secret1"},
		{name: "trimmed email", email: " a@b.com ", pw: "secret1", confirm: "secret1"},
		{name: "missing confirm", email: "a@b.com", pw: "secret1", wantErr: "required"},
		{name: "no at sign", email: "ab.com", pw: "secret1", confirm: "secret1", wantErr: "valid email"},
		{name: "no domain dot", email: "a@b", pw: "secret1", confirm: "secret1", wantErr: "valid email"},
		{name: "space in email", email: "a b@c.com", pw: "secret1", confirm: "secret1", wantErr: "valid email"},
		{name: "short password", email: "a@b.com", pw: "abc", confirm: "abc", wantErr: "at least 6"},
		{name: "long password", email: "a@b.com", pw: strings.Repeat("p", 73), confirm: strings.Repeat("p", 73), wantErr: "at most 72"},
		{name: "mismatch", email: "a@b.com", pw: "secret1", confirm: "secret2", wantErr: "do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.email, tt.pw, tt.confirm)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateSignup() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("ValidateSignup() error = %v, want containing %q", err, tt.wantErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error %v does not wrap ErrValidation", err)
			}
		})
	}
}

package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SignupRequest
		wantErr string
	}{
		{"valid", SignupRequest{"alice_01", "alice@example.com", "secret"}, ""},
		{"username at max length", SignupRequest{strings.Repeat("a", 50), "a@example.com", "secret"}, ""},
		{"username too long", SignupRequest{strings.Repeat("a", 51), "a@example.com", "secret"}, "username"},
		{"username with dash", SignupRequest{"al-ice", "a@example.com", "secret"}, "username"},
		{"missing email", SignupRequest{"alice", "", "secret"}, "email"},
		{"password too long", SignupRequest{"alice", "a@example.com", strings.Repeat("p", 101)}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRefreshTokenRequest_Validate(t *testing.T) {
	assert.NoError(t, RefreshTokenRequest{RefreshToken: "t", Username: "u"}.Validate())
	assert.Error(t, RefreshTokenRequest{Username: "u"}.Validate())
	assert.Error(t, RefreshTokenRequest{RefreshToken: "t"}.Validate())
}

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, LoginRequest{Username: "u", Password: "p"}.Validate())
	assert.Error(t, LoginRequest{Username: "u"}.Validate())
}

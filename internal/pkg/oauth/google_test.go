package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGoogleOAuth(t *testing.T) {
	oauth := NewGoogleOAuth("client-id", "client-secret", "http://localhost/callback")

	assert.NotNil(t, oauth)
	assert.NotNil(t, oauth.config)
	assert.Equal(t, "client-id", oauth.config.ClientID)
	assert.Equal(t, "client-secret", oauth.config.ClientSecret)
	assert.Equal(t, "http://localhost/callback", oauth.config.RedirectURL)
	assert.Contains(t, oauth.config.Scopes, "https://www.googleapis.com/auth/userinfo.email")
}

func TestGoogleOAuth_GetAuthURL(t *testing.T) {
	oauth := NewGoogleOAuth("test-client-id", "test-secret", "http://example.com/callback")

	url := oauth.GetAuthURL("test-state")

	assert.Contains(t, url, "accounts.google.com")
	assert.Contains(t, url, "client_id=test-client-id")
	assert.Contains(t, url, "state=test-state")
	assert.Contains(t, url, "redirect_uri=")
}

func TestGoogleOAuth_GetAuthURL_DifferentStates(t *testing.T) {
	oauth := NewGoogleOAuth("client", "secret", "http://localhost/callback")

	url1 := oauth.GetAuthURL("state1")
	url2 := oauth.GetAuthURL("state2")

	assert.Contains(t, url1, "state=state1")
	assert.Contains(t, url2, "state=state2")
	assert.NotEqual(t, url1, url2)
}

func TestGoogleUser_Structure(t *testing.T) {
	user := GoogleUser{
		ID:            "108234567890",
		Email:         "test@example.com",
		VerifiedEmail: true,
		Name:          "Test User",
		Picture:       "https://lh3.googleusercontent.com/a/photo.jpg",
	}

	assert.Equal(t, "108234567890", user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.True(t, user.VerifiedEmail)
	assert.Equal(t, "Test User", user.Name)
}

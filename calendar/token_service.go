package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	config "github.com/anmolmalik/talk_sessions/configs"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

var (
	googleToken       string
	googleTokenExpiry time.Time
	tokenMutex        sync.RWMutex
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

// GetAccessToken exchanges the long-lived refresh token for an access
// token, caching it until shortly before expiry.
func GetAccessToken() (string, error) {
	tokenMutex.RLock()
	if googleToken != "" && time.Now().Before(googleTokenExpiry) {
		token := googleToken
		tokenMutex.RUnlock()
		return token, nil
	}
	tokenMutex.RUnlock()

	tokenMutex.Lock()
	defer tokenMutex.Unlock()

	if googleToken != "" && time.Now().Before(googleTokenExpiry) {
		return googleToken, nil
	}

	clientID := config.Config("GOOGLE_CLIENT_ID")
	clientSecret := config.Config("GOOGLE_CLIENT_SECRET")
	refreshToken := config.Config("GOOGLE_REFRESH_TOKEN")
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return "", errors.New("google credentials missing")
	}

	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequest("POST", googleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}

	googleToken = tokenResp.AccessToken
	googleTokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-300) * time.Second)

	return googleToken, nil
}

// Configured reports whether the Google OAuth credentials are present.
func Configured() bool {
	return config.Config("GOOGLE_CLIENT_ID") != "" &&
		config.Config("GOOGLE_CLIENT_SECRET") != "" &&
		config.Config("GOOGLE_REFRESH_TOKEN") != ""
}

package internal

import (
	"io"
	"log"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/letteryzzm/jike-skill/internal/models"
)

// CreateSession starts a QR login session and returns its identifier.
func CreateSession(cfg Config) (string, error) {
	resp, err := authPost(cfg, "/sessions.create", nil, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close body: %v", err)
		}
	}()

	if resp.StatusCode > 299 {
		return "", &HTTPStatusError{URL: cfg.BaseURL + "/sessions.create", Status: resp.Status, StatusCode: resp.StatusCode}
	}

	var session models.SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", errors.Wrap(err, "failed to decode session response")
	}
	if session.UUID == "" {
		return "", errors.New("session response contained no uuid")
	}
	return session.UUID, nil
}

// BuildQRPayload renders the jike:// deep link that the mobile app opens
// when the QR code is scanned.
func BuildQRPayload(uuid string) string {
	scanURL := "https://www.okjike.com/account/scan?uuid=" + uuid
	return "jike://page.jk/web?url=" + neturl.QueryEscape(scanURL) + "&displayHeader=false&displayFooter=false"
}

// PollConfirmation polls the confirmation endpoint at cfg.PollInterval
// spacing until tokens appear or cfg.PollTimeout worth of attempts has
// been spent. Transport errors, 400s and unexpected statuses all count as
// "not yet scanned". The second return value is false on timeout.
func PollConfirmation(cfg Config, uuid string) (models.TokenPair, bool) {
	attempts := int(cfg.PollTimeout / cfg.PollInterval)
	path := "/sessions.wait_for_confirmation?uuid=" + neturl.QueryEscape(uuid)
	client := cfg.httpClient()

	for i := 0; i < attempts; i++ {
		req, err := http.NewRequest("GET", cfg.BaseURL+path, nil)
		if err != nil {
			log.Printf("failed to create confirmation request: %v", err)
			return models.TokenPair{}, false
		}
		cfg.applyHeaders(req)

		resp, err := client.Do(req)
		if err != nil {
			time.Sleep(cfg.PollInterval)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if pair, ok := extractTokens(body, resp.Header); ok {
				return pair, true
			}
			// The server 200s with a pending marker before the scan is
			// confirmed; keep polling until real tokens show up.
		} else {
			_ = resp.Body.Close()
		}

		time.Sleep(cfg.PollInterval)
	}

	return models.TokenPair{}, false
}

// extractTokens pulls a token pair out of a confirmation response.
// Source order per token: body under the x-jike-* keys, body under the
// snake_case keys, then response headers. Sources may be mixed, but both
// tokens must be present for the extraction to succeed.
func extractTokens(body []byte, header http.Header) (models.TokenPair, bool) {
	var fields map[string]any
	if len(body) > 0 {
		// an unparseable body is treated the same as an empty one
		_ = json.Unmarshal(body, &fields)
	}

	pair := models.TokenPair{
		AccessToken: firstNonEmpty(
			stringField(fields, headerAccessToken),
			stringField(fields, "access_token"),
			header.Get(headerAccessToken),
		),
		RefreshToken: firstNonEmpty(
			stringField(fields, headerRefreshToken),
			stringField(fields, "refresh_token"),
			header.Get(headerRefreshToken),
		),
	}
	return pair, pair.Valid()
}

// RefreshTokenPair exchanges the refresh token for a new pair. The server
// returns replacement values via response headers; a missing header means
// that token is unchanged and the prior value is carried over.
func RefreshTokenPair(cfg Config, pair models.TokenPair) (models.TokenPair, error) {
	resp, err := authPost(cfg, "/app_auth_tokens.refresh", strings.NewReader("{}"), map[string]string{
		headerRefreshToken: pair.RefreshToken,
	})
	if err != nil {
		return models.TokenPair{}, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close body: %v", err)
		}
	}()

	if resp.StatusCode > 299 {
		return models.TokenPair{}, &HTTPStatusError{URL: cfg.BaseURL + "/app_auth_tokens.refresh", Status: resp.Status, StatusCode: resp.StatusCode}
	}

	refreshed := models.TokenPair{
		AccessToken:  firstNonEmpty(resp.Header.Get(headerAccessToken), pair.AccessToken),
		RefreshToken: firstNonEmpty(resp.Header.Get(headerRefreshToken), pair.RefreshToken),
	}
	return refreshed, nil
}

// Authenticate runs the full QR login flow: create a session, print the
// scannable payload, wait for the scan, then normalize the extracted pair
// through one refresh so rotated values are picked up before first use.
func Authenticate(cfg Config) (models.TokenPair, error) {
	uuid, err := CreateSession(cfg)
	if err != nil {
		return models.TokenPair{}, errors.Wrap(err, "failed to create login session")
	}
	log.Printf("session created: %s", uuid)
	log.Printf("scan this payload with the Jike app:\n    %s", BuildQRPayload(uuid))
	log.Printf("waiting for scan...")

	pair, ok := PollConfirmation(cfg, uuid)
	if !ok {
		return models.TokenPair{}, errors.New("timed out waiting for QR scan")
	}

	log.Printf("scan confirmed, refreshing tokens...")
	refreshed, err := RefreshTokenPair(cfg, pair)
	if err != nil {
		return models.TokenPair{}, errors.Wrap(err, "failed to normalize tokens")
	}
	return refreshed, nil
}

func authPost(cfg Config, path string, body io.Reader, extraHeaders map[string]string) (*http.Response, error) {
	log.Printf("POST %s", path)
	req, err := http.NewRequest("POST", cfg.BaseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request for %s", path)
	}
	cfg.applyHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := cfg.httpClient().Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to perform request for %s", path)
	}
	return resp, nil
}

func stringField(fields map[string]any, key string) string {
	if fields == nil {
		return ""
	}
	s, _ := fields[key].(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package twitter is a minimal typed client for the v1.1 profile endpoints
// the updater writes to, with OAuth1 request signing and rate limiting.
package twitter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gomodule/oauth1/oauth"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.twitter.com/1.1"

type Client struct {
	httpClient *http.Client
	oauth      oauth.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a client signing with the application's consumer
// credentials. Per-user tokens are passed per call.
func NewClient(apiKey string, apiSecretKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		oauth: oauth.Client{
			Credentials: oauth.Credentials{
				Token:  apiKey,
				Secret: apiSecretKey,
			},
		},
		baseURL: defaultBaseURL,
		// account/update_profile family allows 15 requests per 15 minutes
		// per user token; one request per second app-wide stays well clear
		// of the burst ceiling across concurrent jobs.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// GetUser fetches the user's current profile, including the bio text
func (c *Client) GetUser(ctx context.Context, creds UserCredentials, userID string) (*User, error) {
	form := url.Values{
		"user_id":          {userID},
		"include_entities": {"false"},
	}
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/show.json", creds, form, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile writes a new bio text to the user's profile
func (c *Client) UpdateProfile(ctx context.Context, creds UserCredentials, description string) error {
	form := url.Values{
		"description": {description},
	}
	return c.do(ctx, http.MethodPost, "/account/update_profile.json", creds, form, nil)
}

// UpdateProfileBanner replaces the user's profile banner with the given image.
// The v1.1 endpoint takes the image as a base64 form field.
func (c *Client) UpdateProfileBanner(ctx context.Context, creds UserCredentials, image []byte) error {
	form := url.Values{
		"banner": {base64.StdEncoding.EncodeToString(image)},
	}
	return c.do(ctx, http.MethodPost, "/account/update_profile_banner.json", creds, form, nil)
}

func (c *Client) do(ctx context.Context, method string, path string, creds UserCredentials, form url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.baseURL + path

	var req *http.Request
	var err error
	if method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, method, endpoint+"?"+form.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(form.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return err
	}

	token := &oauth.Credentials{Token: creds.Token, Secret: creds.Secret}
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if err := c.oauth.SetAuthorizationHeader(req.Header, token, method, u, form); err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", path, err)
		}
	}
	return nil
}

// decodeError turns an error response into an error whose text carries the
// status code and Twitter's message, so the network error categorizer can
// tell rate limits and 5xx apart from permanent failures.
func decodeError(resp *http.Response, path string) error {
	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Errors) > 0 {
		first := body.Errors[0]
		return fmt.Errorf("twitter %s: %s (code %d, status %d)", path, first.Message, first.Code, resp.StatusCode)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("twitter %s: rate limit exceeded (status %d)", path, resp.StatusCode)
	}
	return fmt.Errorf("twitter %s: unexpected status %d", path, resp.StatusCode)
}

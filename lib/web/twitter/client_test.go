package twitter

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gomodule/oauth1/oauth"
	"golang.org/x/time/rate"
)

func testClient(serverURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		oauth: oauth.Client{
			Credentials: oauth.Credentials{Token: "app-key", Secret: "app-secret"},
		},
		baseURL: serverURL,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

var testCreds = UserCredentials{Token: "user-token", Secret: "user-secret"}

func TestGetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/show.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "12345" {
			t.Errorf("expected user_id=12345, got %s", got)
		}
		if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "OAuth ") {
			t.Errorf("expected OAuth authorization header, got %q", auth)
		}
		w.Write([]byte(`{"id_str":"12345","screen_name":"tester","description":"AtCoder 緑 (1000)"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	user, err := client.GetUser(context.Background(), testCreds, "12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "12345" {
		t.Errorf("expected ID 12345, got %s", user.ID)
	}
	if user.Description != "AtCoder 緑 (1000)" {
		t.Errorf("unexpected description %q", user.Description)
	}
}

func TestUpdateProfile_SendsDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/account/update_profile.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("description"); got != "new bio" {
			t.Errorf("expected description 'new bio', got %q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	if err := client.UpdateProfile(context.Background(), testCreds, "new bio"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateProfileBanner_Base64Encodes(t *testing.T) {
	image := []byte{0x89, 0x50, 0x4E, 0x47}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account/update_profile_banner.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(r.PostForm.Get("banner"))
		if err != nil {
			t.Fatalf("banner field is not base64: %v", err)
		}
		if string(decoded) != string(image) {
			t.Error("decoded banner does not match input image")
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := testClient(server.URL)
	if err := client.UpdateProfileBanner(context.Background(), testCreds, image); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDo_ErrorCarriesStatusAndMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"code":32,"message":"Could not authenticate you."}]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.GetUser(context.Background(), testCreds, "12345")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("expected status in error text, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "Could not authenticate you.") {
		t.Errorf("expected message in error text, got %q", err.Error())
	}
}

func TestDo_RateLimitResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(server.URL)
	err := client.UpdateProfile(context.Background(), testCreds, "bio")
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("expected rate limit in error text, got %q", err.Error())
	}
}

func TestDo_SignsWithUserToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.Contains(auth, `oauth_token="user-token"`) {
			t.Errorf("expected user token in authorization header, got %q", auth)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	if err := client.UpdateProfile(context.Background(), testCreds, "bio"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetUser_QuerySigningMatchesRequest(t *testing.T) {
	// the signed URL and the sent URL must agree or the real API would
	// reject the signature; verify the query form round-trips
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := url.Values{"user_id": {"777"}, "include_entities": {"false"}}
		if r.URL.Query().Encode() != want.Encode() {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"id_str":"777"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	if _, err := client.GetUser(context.Background(), testCreds, "777"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

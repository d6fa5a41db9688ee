// Package drive is the thin relay to the Google Drive OAuth and upload
// APIs. It stays linear (no token refresh, no partial-failure recovery)
// and surfaces upstream errors as-is; only transport-level failures are
// retried.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/pkg/transport"
)

const (
	authEndpoint   = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenEndpoint  = "https://oauth2.googleapis.com/token"
	uploadEndpoint = "https://www.googleapis.com/upload/drive/v3/files"
	scope          = "https://www.googleapis.com/auth/drive.file"

	defaultRetryWaitMax = time.Second * 5
)

type Client struct {
	http         *http.Client
	authURL      string
	tokenURL     string
	uploadURL    string
	clientID     string
	clientSecret string
	redirectURL  string
}

type Config struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	Timeout       time.Duration
	RetryAttempts int

	// BaseURL overrides the Google endpoints, for tests.
	BaseURL string
}

func NewClient(cfg Config) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = time.Second
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.HTTPClient.Transport = transport.NewRoundTripper(http.DefaultTransport)
	retryClient.Logger = nil

	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	c := &Client{
		http:         retryClient.StandardClient(),
		authURL:      authEndpoint,
		tokenURL:     tokenEndpoint,
		uploadURL:    uploadEndpoint,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURL:  cfg.RedirectURL,
	}

	if cfg.BaseURL != "" {
		c.authURL = cfg.BaseURL + "/auth"
		c.tokenURL = cfg.BaseURL + "/token"
		c.uploadURL = cfg.BaseURL + "/upload"
	}

	return c
}

// AuthURL returns the consent page URL carrying the signed state.
func (c *Client) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", c.redirectURL)
	q.Set("response_type", "code")
	q.Set("scope", scope)
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", state)

	return c.authURL + "?" + q.Encode()
}

type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Exchange trades the authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code string) (Token, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("redirect_uri", c.redirectURL)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("do request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Token{}, fmt.Errorf("token exchange status %d: %s", resp.StatusCode, body)
	}

	var token Token

	err = json.NewDecoder(resp.Body).Decode(&token)
	if err != nil {
		return Token{}, fmt.Errorf("decode response: %w", err)
	}

	if token.AccessToken == "" {
		return Token{}, fmt.Errorf("%w: empty access token", entity.ErrInvalidArgument)
	}

	return token, nil
}

// Upload sends the file as a multipart related upload and returns the
// stored file's id and links.
func (c *Client) Upload(ctx context.Context, accessToken, name, mimeType string, data []byte) (entity.DriveFile, error) {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	meta, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"application/json; charset=UTF-8"},
	})
	if err != nil {
		return entity.DriveFile{}, fmt.Errorf("create metadata part: %w", err)
	}

	err = json.NewEncoder(meta).Encode(map[string]any{"name": name})
	if err != nil {
		return entity.DriveFile{}, fmt.Errorf("encode metadata: %w", err)
	}

	content, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {mimeType},
	})
	if err != nil {
		return entity.DriveFile{}, fmt.Errorf("create content part: %w", err)
	}

	if _, err := content.Write(data); err != nil {
		return entity.DriveFile{}, fmt.Errorf("write content: %w", err)
	}

	if err := w.Close(); err != nil {
		return entity.DriveFile{}, fmt.Errorf("close multipart writer: %w", err)
	}

	uploadURL := c.uploadURL + "?uploadType=multipart&fields=id,webViewLink,webContentLink"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return entity.DriveFile{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "multipart/related; boundary="+w.Boundary())

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.DriveFile{}, fmt.Errorf("do request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return entity.DriveFile{}, fmt.Errorf("upload status %d: %s", resp.StatusCode, body)
	}

	var data2 struct {
		ID             string `json:"id"`
		WebViewLink    string `json:"webViewLink"`
		WebContentLink string `json:"webContentLink"`
	}

	err = json.NewDecoder(resp.Body).Decode(&data2)
	if err != nil {
		return entity.DriveFile{}, fmt.Errorf("decode response: %w", err)
	}

	return entity.DriveFile{
		ID:           data2.ID,
		WebViewLink:  data2.WebViewLink,
		DownloadLink: data2.WebContentLink,
	}, nil
}

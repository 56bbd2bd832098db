package switchboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oas-switchboard/broadcaster/pkg/common/logger"
	"github.com/oas-switchboard/broadcaster/pkg/gateway/httpclient"
	"golang.org/x/oauth2"
)

const (
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 4 << 20
)

// Response is the decoded Switchboard reply. Bodies that are not a JSON
// object are kept as {"message": <raw body>}.
type Response map[string]interface{}

// Errored reports a truthy "error" field.
func (r Response) Errored() bool {
	return truthy(r["error"])
}

// ErrorMessages returns the structured errorMessage list, if the server sent
// one. A bare string is treated as a one-element list.
func (r Response) ErrorMessages() ([]string, bool) {
	raw, ok := r["errorMessage"]
	if !ok || raw == nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []interface{}:
		messages := make([]string, 0, len(v))
		for _, item := range v {
			messages = append(messages, fmt.Sprint(item))
		}
		return messages, true
	case string:
		return []string{v}, true
	default:
		return []string{fmt.Sprint(v)}, true
	}
}

// Message returns the raw "message" field as text.
func (r Response) Message() string {
	raw, ok := r["message"]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprint(raw)
	}
	return string(encoded)
}

type Client struct {
	httpClient *http.Client
}

// NewClient wraps httpClient; nil gets a client with DefaultTimeout.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = httpclient.New(DefaultTimeout)
	}
	return &Client{httpClient: httpClient}
}

// NormalizeBaseURL makes sure endpoint names can be appended directly.
func NormalizeBaseURL(baseURL string) string {
	if !strings.HasSuffix(baseURL, "/") {
		return baseURL + "/"
	}
	return baseURL
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authorize exchanges credentials for a bearer token. ok is false when the
// server rejects the login or answers without a token; err is set only when
// the request itself could not be completed.
func (c *Client) Authorize(ctx context.Context, email, password, baseURL string) (string, bool, error) {
	authURL := NormalizeBaseURL(baseURL) + "authorize"
	log := logger.Log.WithField("url", authURL)

	body, err := json.Marshal(credentials{Email: email, Password: password})
	if err != nil {
		return "", false, fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build authorize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).WithField("timeout", httpclient.IsTimeout(err)).Error("Failed to reach OA Switchboard")
		return "", false, fmt.Errorf("authorize: %w", err)
	}
	defer resp.Body.Close()

	raw, err := readBody(resp.Body)
	if errors.Is(err, errResponseTooLarge) {
		log.WithError(err).Error("Failed to authorize with OA Switchboard")
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read authorize response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.WithField("status", resp.StatusCode).Error("Failed to authorize with OA Switchboard")
		return "", false, nil
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.WithError(err).Error("Failed to authorize with OA Switchboard: response is not JSON")
		return "", false, nil
	}

	if _, ok := decoded["error"]; ok {
		log.WithField("error_message", decoded["errorMessage"]).Error("Failed to authorize with OA Switchboard")
		return "", false, nil
	}

	token, ok := decoded["token"].(string)
	if !ok {
		log.Error("Failed to authorize with OA Switchboard: no token returned")
		return "", false, nil
	}

	log.WithField("organisation", organisation(decoded)).Info("Logged in to OA Switchboard")
	return token, true, nil
}

func organisation(decoded map[string]interface{}) interface{} {
	participant, ok := decoded["participant"].(map[string]interface{})
	if !ok {
		return nil
	}
	return participant["organisation"]
}

// SendPayload posts a p1-pio message using the bearer token from Authorize.
// On a transport failure the returned Response carries the error text.
func (c *Client) SendPayload(ctx context.Context, payload Payload, token, baseURL string) (Response, bool, error) {
	messageURL := NormalizeBaseURL(baseURL) + "message"

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, false, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, messageURL, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.bearerClient(token).Do(req)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"url":     messageURL,
			"timeout": httpclient.IsTimeout(err),
		}).Error("Failed to reach OA Switchboard")
		return Response{"message": err.Error()}, false, fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	raw, err := readBody(resp.Body)
	if errors.Is(err, errResponseTooLarge) {
		logger.Log.WithError(err).WithField("url", messageURL).Error("Failed to send p1-pio message to OA Switchboard")
		return Response{"message": err.Error()}, false, nil
	}
	if err != nil {
		return Response{"message": err.Error()}, false, fmt.Errorf("read message response: %w", err)
	}

	response := parseResponse(raw)
	if response.Errored() {
		return response, false, nil
	}
	return response, true, nil
}

// bearerClient shares the base transport and timeout and adds the
// Authorization header through oauth2.
func (c *Client) bearerClient(token string) *http.Client {
	return &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &oauth2.Transport{
			Base:   c.httpClient.Transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		},
	}
}

var errResponseTooLarge = fmt.Errorf("response exceeds %d bytes", maxResponseBytes)

// readBody reads at most maxResponseBytes; a longer body is an error rather
// than a silently truncated reply.
func readBody(body io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxResponseBytes {
		return nil, errResponseTooLarge
	}
	return raw, nil
}

func parseResponse(raw []byte) Response {
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded == nil {
		return Response{"message": string(raw)}
	}
	return Response(decoded)
}

func truthy(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case float64:
		return value != 0
	case []interface{}:
		return len(value) > 0
	case map[string]interface{}:
		return len(value) > 0
	default:
		return true
	}
}

// Package chatclient talks to the Wspace chat API and keeps an optimistic local view of it.
package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wspace-be/internal/dto"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// HTTPError is a response the server produced with a non-2xx status.
// Anything else returned by Client is a transport failure.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server responded %d: %s", e.StatusCode, e.Message)
}

// IsHTTPStatus reports whether err is an *HTTPError carrying status.
func IsHTTPStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type Client struct {
	client *resty.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(2 * time.Minute),
	}
}

func (c *Client) SetToken(token string) *Client {
	c.client.SetAuthToken(token)
	return c
}

func (c *Client) SetLanguage(acceptLanguage string) *Client {
	c.client.SetHeader("Accept-Language", acceptLanguage)
	return c
}

func call[T any](ctx context.Context, c *Client, method, path string, body any, query map[string]string) (T, error) {
	var zero T

	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}

	var out envelope[T]
	decodeErr := json.Unmarshal(res.Body(), &out)
	if !res.IsSuccess() {
		message := out.Message
		if decodeErr != nil || message == "" {
			message = http.StatusText(res.StatusCode())
		}
		return zero, &HTTPError{StatusCode: res.StatusCode(), Message: message}
	}
	if decodeErr != nil {
		return zero, fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	return out.Data, nil
}

// Login stores the issued token on the client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	res, err := call[dto.LoginResponse](ctx, c, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	res, err := call[dto.RegisterResponse](ctx, c, http.MethodPost, "/api/auth/register", req, nil)
	if err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *Client) CreateSession(ctx context.Context) (*dto.SessionResponse, error) {
	res, err := call[dto.CreateSessionResponse](ctx, c, http.MethodPost, "/api/sessions", nil, nil)
	if err != nil {
		return nil, err
	}
	return &res.Session, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]dto.SessionResponse, error) {
	res, err := call[dto.ListSessionsResponse](ctx, c, http.MethodGet, "/api/sessions", nil, nil)
	if err != nil {
		return nil, err
	}
	return res.Sessions, nil
}

func (c *Client) RenameSession(ctx context.Context, id uuid.UUID, title string) error {
	_, err := call[any](ctx, c, http.MethodPut, "/api/sessions/"+id.String(), map[string]string{"title": title}, nil)
	return err
}

func (c *Client) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := call[any](ctx, c, http.MethodDelete, "/api/sessions/"+id.String(), nil, nil)
	return err
}

func (c *Client) ListMessages(ctx context.Context, sessionId uuid.UUID) ([]dto.MessageResponse, error) {
	res, err := call[dto.ListMessagesResponse](ctx, c, http.MethodGet, "/api/messages", nil, map[string]string{"sessionId": sessionId.String()})
	if err != nil {
		return nil, err
	}
	return res.Messages, nil
}

func (c *Client) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	res, err := call[dto.SendChatResponse](ctx, c, http.MethodPost, "/api/chat", req, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

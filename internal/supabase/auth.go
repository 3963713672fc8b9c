package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"healthmate-be/internal/config"
	"healthmate-be/internal/domain"
	"healthmate-be/pkg/logger"
	"healthmate-be/pkg/redis"
)

// AuthClient wraps the Supabase GoTrue REST API. It is the auth capability:
// it owns the session lifecycle and emits one AuthEvent per state transition
// on a channel the session store consumes. Events are emitted in transition
// order and never coalesced.
type AuthClient struct {
	config     *config.Config
	httpClient *http.Client
	redis      *redis.Client
	logger     *logger.Logger
	events     chan domain.AuthEvent
}

// NewAuthClient creates a new auth capability client
func NewAuthClient(cfg *config.Config, redisClient *redis.Client, logger *logger.Logger) *AuthClient {
	return &AuthClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		redis:  redisClient,
		logger: logger,
		events: make(chan domain.AuthEvent, 16),
	}
}

// Events returns the auth-state-change stream
func (c *AuthClient) Events() <-chan domain.AuthEvent {
	return c.events
}

// tokenResponse is the GoTrue password/refresh grant payload
type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user"`
}

func (t *tokenResponse) session(now time.Time) *domain.Session {
	return &domain.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresAt:    now.Add(time.Duration(t.ExpiresIn) * time.Second),
		User:         t.User,
	}
}

// SignUp registers a new identity. It deliberately has no profile-write side
// effect; profile creation is deferred to an explicit update.
func (c *AuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*domain.User, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	if metadata != nil {
		body["data"] = metadata
	}

	var user domain.User
	if err := c.do(ctx, "POST", "/auth/v1/signup", "", body, &user); err != nil {
		return nil, err
	}

	c.logger.WithField("user_id", user.ID).Info("User signed up")
	return &user, nil
}

// SignIn exchanges credentials for a session via the password grant. On
// success the session is persisted and a SIGNED_IN event is emitted.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	var tok tokenResponse
	if err := c.do(ctx, "POST", "/auth/v1/token?grant_type=password", "", body, &tok); err != nil {
		return nil, err
	}

	session := tok.session(time.Now())
	if err := c.persistSession(ctx, session); err != nil {
		c.logger.WithError(err).Warn("Failed to persist session")
	}

	c.emit(domain.AuthEvent{Type: domain.AuthEventSignedIn, Session: session})
	c.logger.WithField("user_id", session.User.ID).Info("User signed in")
	return session, nil
}

// SignOut revokes the current session. Local state is only cleared after the
// capability confirms the revocation.
func (c *AuthClient) SignOut(ctx context.Context) error {
	session, err := c.loadSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := c.do(ctx, "POST", "/auth/v1/logout", session.AccessToken, nil, nil); err != nil {
		return err
	}

	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyAuthSession()); err != nil {
		c.logger.WithError(err).Warn("Failed to clear persisted session")
	}

	c.emit(domain.AuthEvent{Type: domain.AuthEventSignedOut, Session: nil})
	c.logger.Info("User signed out")
	return nil
}

// CurrentSession restores the persisted session, refreshing it through the
// refresh-token grant when the access token has expired. Returns (nil, nil)
// when no session exists.
func (c *AuthClient) CurrentSession(ctx context.Context) (*domain.Session, error) {
	session, err := c.loadSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}

	if !session.Expired(time.Now()) && c.accessTokenUsable(session.AccessToken) {
		return session, nil
	}

	refreshed, err := c.refreshSession(ctx, session.RefreshToken)
	if err != nil {
		c.logger.WithError(err).Warn("Session refresh failed, treating as signed out")
		_ = c.redis.Delete(ctx, c.redis.KeyBuilder.KeyAuthSession())
		return nil, nil
	}
	return refreshed, nil
}

// ResetPassword requests a password recovery email
func (c *AuthClient) ResetPassword(ctx context.Context, email string) error {
	body := map[string]interface{}{"email": email}
	return c.do(ctx, "POST", "/auth/v1/recover", "", body, nil)
}

// refreshSession exchanges a refresh token for a new session and emits a
// TOKEN_REFRESHED event
func (c *AuthClient) refreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	body := map[string]interface{}{"refresh_token": refreshToken}

	var tok tokenResponse
	if err := c.do(ctx, "POST", "/auth/v1/token?grant_type=refresh_token", "", body, &tok); err != nil {
		return nil, err
	}

	session := tok.session(time.Now())
	if err := c.persistSession(ctx, session); err != nil {
		c.logger.WithError(err).Warn("Failed to persist refreshed session")
	}

	c.emit(domain.AuthEvent{Type: domain.AuthEventTokenRefreshed, Session: session})
	return session, nil
}

// accessTokenUsable reports whether the persisted access token still passes
// signature validation. Without a configured JWT secret the persisted expiry
// is the only check; an unexpired session must not be refreshed on every load.
func (c *AuthClient) accessTokenUsable(tokenString string) bool {
	if c.config.SupabaseJWTSecret == "" {
		return true
	}
	return c.validateAccessToken(tokenString) == nil
}

// validateAccessToken verifies the HMAC signature and expiry of a Supabase
// access token
func (c *AuthClient) validateAccessToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(c.config.SupabaseJWTSecret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

func (c *AuthClient) persistSession(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return c.redis.Set(ctx, c.redis.KeyBuilder.KeyAuthSession(), raw, redis.TTLNone)
}

func (c *AuthClient) loadSession(ctx context.Context) (*domain.Session, error) {
	raw, err := c.redis.Get(ctx, c.redis.KeyBuilder.KeyAuthSession())
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (c *AuthClient) emit(event domain.AuthEvent) {
	c.events <- event
}

// gotrueError is the GoTrue error payload
type gotrueError struct {
	Message          string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *gotrueError) text() string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Message != "":
		return e.Message
	case e.Error != "":
		return e.Error
	}
	return "unknown auth error"
}

// do executes one GoTrue request. A non-2xx response is returned as an error
// carrying the capability's message.
func (c *AuthClient) do(ctx context.Context, method, path, bearer string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	url := c.config.SupabaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.config.SupabaseAnonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.config.SupabaseAnonKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call auth capability: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gerr gotrueError
		if err := json.Unmarshal(respBody, &gerr); err == nil {
			return fmt.Errorf("auth capability returned status %d: %s", resp.StatusCode, gerr.text())
		}
		return fmt.Errorf("auth capability returned status %d", resp.StatusCode)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.logger.WithFields(map[string]interface{}{
				"status_code": resp.StatusCode,
				"path":        path,
			}).Error("Failed to parse auth capability response")
			return fmt.Errorf("failed to parse auth capability response: %w", err)
		}
	}
	return nil
}

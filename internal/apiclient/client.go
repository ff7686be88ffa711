// Package apiclient talks to the trivia backend over HTTP. It owns
// CSRF token harvesting, per-endpoint rate-limit cool-downs and the
// exponential-backoff retry helper used by the flows.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hvaldez/triviabot/internal/models"
)

// Backend endpoint paths, relative to the base URL.
const (
	triviaPath      = "/api/trivias/"
	themePath       = "/api/themes/"
	difficultyPath  = "/api/trivias/difficulty/"
	filterPath      = "/api/trivias/filter/"
	questionsPath   = "/api/questions/"
	leaderboardPath = "/api/leaderboards/"
	scoresPath      = "/api/score/"
)

// scoreUpdatedMessage is the success envelope message the backend
// sends for score updates.
const scoreUpdatedMessage = "Score updated successfully"

// DifficultyChoice is one selectable difficulty level.
type DifficultyChoice struct {
	Level int
	Name  string
}

//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/hvaldez/triviabot/internal/apiclient Client

// Client defines the operations the flows need from the trivia
// backend.
type Client interface {
	// GetThemes retrieves all available themes
	GetThemes(ctx context.Context) ([]models.Theme, error)

	// CreateTheme creates a new theme
	CreateTheme(ctx context.Context, name string) (*models.Theme, error)

	// GetOrCreateTheme finds a theme by name (case-insensitive) or creates it
	GetOrCreateTheme(ctx context.Context, name string) (*models.Theme, error)

	// GetDifficulties retrieves the difficulty levels, ordered by level
	GetDifficulties(ctx context.Context) ([]DifficultyChoice, error)

	// GetTrivias retrieves all trivias
	GetTrivias(ctx context.Context) ([]models.Trivia, error)

	// GetUserTrivias retrieves the trivias owned by a user
	GetUserTrivias(ctx context.Context, username string) ([]models.Trivia, error)

	// GetFilteredTrivias retrieves trivias matching a theme and difficulty
	GetFilteredTrivias(ctx context.Context, themeID string, difficulty int) ([]models.Trivia, error)

	// GetTriviaQuestions retrieves the questions of a trivia
	GetTriviaQuestions(ctx context.Context, triviaID string) ([]models.Question, error)

	// CreateTrivia submits a fully assembled draft. A duplicate title
	// conflict is reported as ErrDuplicateTitle.
	CreateTrivia(ctx context.Context, draft *models.DraftTrivia) (*models.Trivia, error)

	// PatchTrivia partially updates a trivia; username is sent for
	// ownership checks. A theme value that is not an ID is resolved
	// through GetOrCreateTheme first.
	PatchTrivia(ctx context.Context, triviaID string, fields map[string]any, username string) error

	// UpdateTriviaQuestions replaces question/answer data for a trivia
	UpdateTriviaQuestions(ctx context.Context, triviaID string, questions []models.Question) error

	// CreateLeaderboard ensures a leaderboard exists for the channel
	CreateLeaderboard(ctx context.Context, channel, username string) error

	// GetLeaderboard retrieves the leaderboard for a channel
	GetLeaderboard(ctx context.Context, channel string) ([]models.LeaderboardEntry, error)

	// UpdateScore adds points for a player on a channel leaderboard
	UpdateScore(ctx context.Context, name string, points int, channel string) error
}

// Config holds configuration for the API client
type Config struct {
	// BaseURL of the trivia backend, e.g. http://localhost:8000
	BaseURL string

	// HTTPClient is optional; a client with a cookie jar is created
	// when nil
	HTTPClient *http.Client

	// RequestTimeout applies when HTTPClient is nil
	RequestTimeout time.Duration
}

// client implements the Client interface
type client struct {
	baseURL string
	http    *http.Client
	limits  *rateLimitState
	logger  zerolog.Logger
}

// New creates a new API client
func New(cfg *Config) (*client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}

		timeout := cfg.RequestTimeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}

		httpClient = &http.Client{
			Jar:     jar,
			Timeout: timeout,
		}
	}

	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		limits:  newRateLimitState(),
		logger:  log.With().Str("component", "apiclient").Logger(),
	}, nil
}

// get performs a GET request with query parameters and decodes the
// JSON response into out.
func (c *client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, "", out)
}

// post performs a POST request. When useCSRF is set, a token is
// harvested first and its absence is a hard failure.
func (c *client) post(ctx context.Context, path string, body any, useCSRF bool, out any) error {
	csrfToken := ""
	if useCSRF {
		token, err := c.getCSRFToken(ctx)
		if err != nil {
			return err
		}
		csrfToken = token
	}

	return c.do(ctx, http.MethodPost, path, nil, body, csrfToken, out)
}

// patch performs a PATCH request.
func (c *client) patch(ctx context.Context, path string, params url.Values, body any, out any) error {
	return c.do(ctx, http.MethodPatch, path, params, body, "", out)
}

// do runs a single request/response cycle: local rate-limit gate,
// request, rate-limit detection, error mapping, JSON decode.
func (c *client) do(ctx context.Context, method, path string, params url.Values, body any, csrfToken string, out any) error {
	if rateErr := c.limits.check(path); rateErr != nil {
		return rateErr
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if csrfToken != "" {
		req.Header.Set("X-CSRFToken", csrfToken)
	}

	c.logger.Debug().Str("method", method).Str("url", reqURL).Msg("request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	c.logger.Debug().Int("status", resp.StatusCode).Str("url", reqURL).Msg("response")

	if resp.StatusCode == http.StatusTooManyRequests {
		return c.handleRateLimit(path, resp, data)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(data),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	return nil
}

// handleRateLimit records the server-provided cool-down for the
// endpoint and returns a RateLimitError.
func (c *client) handleRateLimit(endpoint string, resp *http.Response, data []byte) error {
	retryAfter := resp.Header.Get("Retry-After")
	waitSeconds := defaultRetryAfterSeconds
	if retryAfter != "" {
		if parsed, err := strconv.Atoi(retryAfter); err == nil {
			waitSeconds = parsed
		}
	}

	message := extractErrorMessage(data)
	if message == "" {
		message = "rate limit exceeded"
	}

	c.limits.set(endpoint, time.Duration(waitSeconds)*time.Second)

	c.logger.Warn().
		Str("endpoint", endpoint).
		Int("wait_seconds", waitSeconds).
		Msg("rate limit exceeded")

	return &RateLimitError{
		WaitSeconds: waitSeconds,
		Message:     message,
		RetryAfter:  retryAfter,
	}
}

// getCSRFToken fetches the scores endpoint and reads the csrftoken
// cookie it sets. Proceeding without a token would silently produce an
// unauthenticated write, so a missing cookie is an error.
func (c *client) getCSRFToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+scoresPath, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build CSRF request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "csrftoken" {
			return cookie.Value, nil
		}
	}

	// The jar may still hold a token from an earlier response.
	if c.http.Jar != nil {
		if u, err := url.Parse(c.baseURL); err == nil {
			for _, cookie := range c.http.Jar.Cookies(u) {
				if cookie.Name == "csrftoken" {
					return cookie.Value, nil
				}
			}
		}
	}

	return "", ErrNoCSRFToken
}

// extractErrorMessage pulls the most useful message out of a backend
// error body.
func extractErrorMessage(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return strings.TrimSpace(string(data))
	}

	for _, key := range []string{"message", "error", "detail"} {
		if v, ok := parsed[key].(string); ok && v != "" {
			return v
		}
	}

	// DRF field errors come back as {"field": ["msg", ...]}.
	for _, v := range parsed {
		if list, ok := v.([]any); ok && len(list) > 0 {
			if s, ok := list[0].(string); ok {
				return s
			}
		}
	}

	return strings.TrimSpace(string(data))
}

// GetThemes retrieves all available themes
func (c *client) GetThemes(ctx context.Context) ([]models.Theme, error) {
	var themes []models.Theme
	if err := c.get(ctx, themePath, nil, &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

// CreateTheme creates a new theme
func (c *client) CreateTheme(ctx context.Context, name string) (*models.Theme, error) {
	var theme models.Theme
	if err := c.post(ctx, themePath, map[string]string{"name": name}, true, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// GetOrCreateTheme finds a theme by name or creates a new one
func (c *client) GetOrCreateTheme(ctx context.Context, name string) (*models.Theme, error) {
	themes, err := c.GetThemes(ctx)
	if err != nil {
		return nil, err
	}

	for _, theme := range themes {
		if strings.EqualFold(theme.Name, name) {
			return &theme, nil
		}
	}

	return c.CreateTheme(ctx, name)
}

// GetDifficulties retrieves the difficulty levels, ordered by level
func (c *client) GetDifficulties(ctx context.Context) ([]DifficultyChoice, error) {
	var raw map[string]string
	if err := c.get(ctx, difficultyPath, nil, &raw); err != nil {
		return nil, err
	}

	choices := make([]DifficultyChoice, 0, len(raw))
	for level, name := range raw {
		parsed, err := strconv.Atoi(level)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric difficulty level %q", ErrUnexpectedResponse, level)
		}
		choices = append(choices, DifficultyChoice{Level: parsed, Name: name})
	}

	sort.Slice(choices, func(i, j int) bool {
		return choices[i].Level < choices[j].Level
	})

	return choices, nil
}

// GetTrivias retrieves all trivias
func (c *client) GetTrivias(ctx context.Context) ([]models.Trivia, error) {
	var trivias []models.Trivia
	if err := c.get(ctx, triviaPath, nil, &trivias); err != nil {
		return nil, err
	}
	return trivias, nil
}

// GetUserTrivias retrieves the trivias owned by a user
func (c *client) GetUserTrivias(ctx context.Context, username string) ([]models.Trivia, error) {
	params := url.Values{}
	params.Set("username", username)

	var trivias []models.Trivia
	if err := c.get(ctx, triviaPath, params, &trivias); err != nil {
		return nil, err
	}
	return trivias, nil
}

// GetFilteredTrivias retrieves trivias matching a theme and difficulty
func (c *client) GetFilteredTrivias(ctx context.Context, themeID string, difficulty int) ([]models.Trivia, error) {
	params := url.Values{}
	params.Set("theme", themeID)
	params.Set("difficulty", strconv.Itoa(difficulty))

	var trivias []models.Trivia
	if err := c.get(ctx, filterPath, params, &trivias); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return trivias, nil
}

// GetTriviaQuestions retrieves the questions of a trivia
func (c *client) GetTriviaQuestions(ctx context.Context, triviaID string) ([]models.Question, error) {
	var questions []models.Question
	if err := c.get(ctx, questionsPath+triviaID+"/", nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// CreateTrivia submits a fully assembled draft
func (c *client) CreateTrivia(ctx context.Context, draft *models.DraftTrivia) (*models.Trivia, error) {
	var created models.Trivia
	if err := c.post(ctx, triviaPath, draft, true, &created); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && strings.Contains(httpErr.Message, "already exists") {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}

	if created.ID == "" {
		return nil, ErrUnexpectedResponse
	}

	return &created, nil
}

// PatchTrivia partially updates a trivia
func (c *client) PatchTrivia(ctx context.Context, triviaID string, fields map[string]any, username string) error {
	// A theme sent by name has to be resolved to its ID first.
	if themeValue, ok := fields["theme"].(string); ok {
		if _, err := uuid.Parse(themeValue); err != nil {
			theme, err := c.GetOrCreateTheme(ctx, themeValue)
			if err != nil {
				return err
			}
			fields["theme"] = theme.ID
		}
	}

	params := url.Values{}
	params.Set("username", username)

	return c.patch(ctx, triviaPath+triviaID+"/", params, fields, nil)
}

// UpdateTriviaQuestions replaces question/answer data for a trivia
func (c *client) UpdateTriviaQuestions(ctx context.Context, triviaID string, questions []models.Question) error {
	body := map[string]any{"questions": questions}
	return c.patch(ctx, triviaPath+triviaID+"/update_questions/", nil, body, nil)
}

// CreateLeaderboard ensures a leaderboard exists for the channel
func (c *client) CreateLeaderboard(ctx context.Context, channel, username string) error {
	body := map[string]string{
		"discord_channel": channel,
		"username":        username,
	}
	return c.post(ctx, leaderboardPath, body, true, nil)
}

// GetLeaderboard retrieves the leaderboard for a channel
func (c *client) GetLeaderboard(ctx context.Context, channel string) ([]models.LeaderboardEntry, error) {
	params := url.Values{}
	params.Set("channel", channel)

	var entries []models.LeaderboardEntry
	if err := c.get(ctx, leaderboardPath, params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// scoreResponse is the envelope the backend sends for score updates
type scoreResponse struct {
	Message string                  `json:"message"`
	Data    *models.LeaderboardEntry `json:"data"`
}

// UpdateScore adds points for a player on a channel leaderboard
func (c *client) UpdateScore(ctx context.Context, name string, points int, channel string) error {
	body := map[string]any{
		"name":            name,
		"points":          points,
		"discord_channel": channel,
	}

	var resp scoreResponse
	err := c.post(ctx, scoresPath, body, true, &resp)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusNotFound:
				return ErrNotFound
			case http.StatusUnauthorized, http.StatusForbidden:
				return ErrUnauthorized
			case http.StatusBadRequest:
				return ErrInvalidData
			}
		}
		return err
	}

	if resp.Message != scoreUpdatedMessage {
		c.logger.Error().Str("message", resp.Message).Msg("unexpected score update response")
		return ErrUnexpectedResponse
	}

	c.logger.Info().
		Str("name", name).
		Int("points", points).
		Str("channel", channel).
		Msg("score updated")

	return nil
}

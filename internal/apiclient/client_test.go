package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvaldez/triviabot/internal/models"
)

// withCSRF wraps a handler so CSRF harvesting GETs against the score
// endpoint receive a token cookie.
func withCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == scoresPath {
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "test-token"})
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(&Config{BaseURL: server.URL})
	require.NoError(t, err)
	return c, server
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilConfig)

	_, err = New(&Config{})
	assert.ErrorIs(t, err, ErrEmptyBaseURL)
}

func TestCreateTriviaSendsCSRFToken(t *testing.T) {
	var gotToken string
	c, _ := newTestClient(t, withCSRF(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-CSRFToken")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.Trivia{ID: "t-1", Title: "Capitals"})
	}))

	created, err := c.CreateTrivia(context.Background(), &models.DraftTrivia{Title: "Capitals"})

	require.NoError(t, err)
	assert.Equal(t, "t-1", created.ID)
	assert.Equal(t, "test-token", gotToken)
}

func TestCreateTriviaFailsWithoutCSRFToken(t *testing.T) {
	// The server never sets a csrftoken cookie.
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.CreateTrivia(context.Background(), &models.DraftTrivia{Title: "Capitals"})

	assert.ErrorIs(t, err, ErrNoCSRFToken)
}

func TestCreateTriviaMapsDuplicateTitle(t *testing.T) {
	c, _ := newTestClient(t, withCSRF(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string][]string{
			"title": {"trivia with this title already exists."},
		})
	}))

	_, err := c.CreateTrivia(context.Background(), &models.DraftTrivia{Title: "Capitals"})

	assert.ErrorIs(t, err, ErrDuplicateTitle)
}

func TestCreateTriviaRejectsEmptyID(t *testing.T) {
	c, _ := newTestClient(t, withCSRF(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))

	_, err := c.CreateTrivia(context.Background(), &models.DraftTrivia{Title: "Capitals"})

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestRateLimitResponseOpensCoolDown(t *testing.T) {
	requests := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"detail": "throttled"})
	})

	_, err := c.GetTrivias(context.Background())
	require.Error(t, err)

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 30, rateErr.WaitSeconds)
	assert.Equal(t, "30", rateErr.RetryAfter)

	// The second call fails fast locally without hitting the server.
	_, err = c.GetTrivias(context.Background())
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 1, requests)

	// Other endpoints are not gated.
	_, err = c.GetThemes(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, requests)
}

func TestRateLimitWithoutRetryAfterUsesDefault(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.GetTrivias(context.Background())

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, defaultRetryAfterSeconds, rateErr.WaitSeconds)
}

func TestConnectionErrorIsWrapped(t *testing.T) {
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := c.GetTrivias(context.Background())

	assert.ErrorIs(t, err, ErrConnection)
}

func TestGetDifficultiesSortsLevels(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, difficultyPath, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"3": "Hard",
			"1": "Easy",
			"2": "Medium",
		})
	})

	choices, err := c.GetDifficulties(context.Background())

	require.NoError(t, err)
	require.Len(t, choices, 3)
	assert.Equal(t, DifficultyChoice{Level: 1, Name: "Easy"}, choices[0])
	assert.Equal(t, DifficultyChoice{Level: 2, Name: "Medium"}, choices[1])
	assert.Equal(t, DifficultyChoice{Level: 3, Name: "Hard"}, choices[2])
}

func TestGetOrCreateThemeMatchesCaseInsensitively(t *testing.T) {
	posts := 0
	c, _ := newTestClient(t, withCSRF(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
			return
		}
		json.NewEncoder(w).Encode([]models.Theme{
			{ID: "th-1", Name: "History"},
		})
	}))

	theme, err := c.GetOrCreateTheme(context.Background(), "hIsToRy")

	require.NoError(t, err)
	assert.Equal(t, "th-1", theme.ID)
	assert.Equal(t, 0, posts)
}

func TestGetOrCreateThemeCreatesMissing(t *testing.T) {
	c, _ := newTestClient(t, withCSRF(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(models.Theme{ID: "th-2", Name: body["name"]})
			return
		}
		json.NewEncoder(w).Encode([]models.Theme{})
	}))

	theme, err := c.GetOrCreateTheme(context.Background(), "Science")

	require.NoError(t, err)
	assert.Equal(t, "th-2", theme.ID)
	assert.Equal(t, "Science", theme.Name)
}

func TestGetFilteredTriviasMapsAuthErrors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.GetFilteredTrivias(context.Background(), "th-1", 2)

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetFilteredTriviasSendsParams(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, filterPath, r.URL.Path)
		assert.Equal(t, "th-1", r.URL.Query().Get("theme"))
		assert.Equal(t, "2", r.URL.Query().Get("difficulty"))
		json.NewEncoder(w).Encode([]models.Trivia{{ID: "t-1", Title: "Capitals"}})
	})

	trivias, err := c.GetFilteredTrivias(context.Background(), "th-1", 2)

	require.NoError(t, err)
	require.Len(t, trivias, 1)
	assert.Equal(t, "Capitals", trivias[0].Title)
}

func TestPatchTriviaResolvesThemeNameAndSendsUsername(t *testing.T) {
	var patched map[string]any
	c, _ := newTestClient(t, withCSRF(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == themePath:
			json.NewEncoder(w).Encode([]models.Theme{{ID: "3f2c7e4a-9d7b-4f24-8a57-6f2cbbf0d111", Name: "History"}})
		case r.Method == http.MethodPatch:
			assert.Equal(t, "alice", r.URL.Query().Get("username"))
			json.NewDecoder(r.Body).Decode(&patched)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	err := c.PatchTrivia(context.Background(), "t-1", map[string]any{"theme": "History"}, "alice")

	require.NoError(t, err)
	assert.Equal(t, "3f2c7e4a-9d7b-4f24-8a57-6f2cbbf0d111", patched["theme"])
}

func TestUpdateTriviaQuestionsBodyShape(t *testing.T) {
	var body map[string][]models.Question
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, triviaPath+"t-1/update_questions/", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&body)
	})

	questions := []models.Question{
		{ID: "q-1", Title: "Capital of France?", Points: 10},
	}
	err := c.UpdateTriviaQuestions(context.Background(), "t-1", questions)

	require.NoError(t, err)
	require.Len(t, body["questions"], 1)
	assert.Equal(t, "q-1", body["questions"][0].ID)
}

func TestUpdateScoreChecksEnvelope(t *testing.T) {
	c, _ := newTestClient(t, withCSRF(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Score updated successfully",
			"data":    map[string]any{"name": "alice", "points": 10},
		})
	}))

	err := c.UpdateScore(context.Background(), "alice", 10, "general")

	assert.NoError(t, err)
}

func TestUpdateScoreRejectsBadEnvelope(t *testing.T) {
	c, _ := newTestClient(t, withCSRF(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "something else"})
	}))

	err := c.UpdateScore(context.Background(), "alice", 10, "general")

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestUpdateScoreMapsStatusCodes(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		expected error
	}{
		{name: "missing leaderboard", status: http.StatusNotFound, expected: ErrNotFound},
		{name: "forbidden", status: http.StatusForbidden, expected: ErrUnauthorized},
		{name: "bad payload", status: http.StatusBadRequest, expected: ErrInvalidData},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, withCSRF(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))

			err := c.UpdateScore(context.Background(), "alice", 10, "general")

			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestGetLeaderboardSendsChannel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, leaderboardPath, r.URL.Path)
		assert.Equal(t, "general", r.URL.Query().Get("channel"))
		json.NewEncoder(w).Encode([]models.LeaderboardEntry{
			{Name: "alice", Points: 30},
			{Name: "bob", Points: 10},
		})
	})

	entries, err := c.GetLeaderboard(context.Background(), "general")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Name)
}

func TestExtractErrorMessage(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "message key", body: `{"message": "boom"}`, expected: "boom"},
		{name: "detail key", body: `{"detail": "throttled"}`, expected: "throttled"},
		{name: "field errors", body: `{"title": ["already exists"]}`, expected: "already exists"},
		{name: "plain text", body: `server exploded`, expected: "server exploded"},
		{name: "empty", body: ``, expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractErrorMessage([]byte(tc.body)))
		})
	}
}

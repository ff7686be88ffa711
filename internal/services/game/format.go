package game

import (
	"fmt"
	"strings"

	"github.com/hvaldez/triviabot/internal/apiclient"
	"github.com/hvaldez/triviabot/internal/models"
)

// formatThemeList renders themes as a 1-based numbered list.
func formatThemeList(themes []models.Theme) string {
	lines := make([]string, 0, len(themes))
	for i, theme := range themes {
		lines = append(lines, fmt.Sprintf("%d- %s", i+1, theme.Name))
	}
	return strings.Join(lines, "\n")
}

// formatDifficultyList renders difficulty choices keyed by level.
func formatDifficultyList(choices []apiclient.DifficultyChoice) string {
	lines := make([]string, 0, len(choices))
	for _, choice := range choices {
		lines = append(lines, fmt.Sprintf("%d- %s", choice.Level, choice.Name))
	}
	return strings.Join(lines, "\n")
}

// formatTriviaList renders trivias as a 1-based numbered list, marking
// entries that carry a reference link.
func formatTriviaList(trivias []models.Trivia) string {
	lines := make([]string, 0, len(trivias))
	for i, trivia := range trivias {
		link := ""
		if trivia.URL != "" {
			link = " 🔗"
		}
		lines = append(lines, fmt.Sprintf("%d- %s%s", i+1, trivia.Title, link))
	}
	return strings.Join(lines, "\n")
}

// formatUserTriviaList renders a user's trivias with difficulty and
// theme, for the DM listing.
func formatUserTriviaList(trivias []models.Trivia) string {
	lines := make([]string, 0, len(trivias))
	for i, trivia := range trivias {
		lines = append(lines, fmt.Sprintf(
			"%d. %s - Difficulty: %d - Theme: %s",
			i+1, trivia.Title, trivia.Difficulty, trivia.Theme,
		))
	}
	return strings.Join(lines, "\n")
}

// formatLeaderboard renders leaderboard entries one player per line.
func formatLeaderboard(entries []models.LeaderboardEntry) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("%s: %d points", entry.Name, entry.Points))
	}
	return strings.Join(lines, "\n")
}

// formatOptions renders answer options as a 1-based numbered list.
func formatOptions(answers []models.Answer) string {
	lines := make([]string, 0, len(answers))
	for i, answer := range answers {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, answer.Title))
	}
	return strings.Join(lines, "\n")
}

func codeBlock(text string) string {
	return "```\n" + text + "\n```"
}

func banner(text string) string {
	return "```orange\n" + text + "\n```"
}

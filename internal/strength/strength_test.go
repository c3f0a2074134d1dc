package strength

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		score    int
		label    Label
		missing  []Factor
	}{
		{"empty", "", 0, TooShort, []Factor{Length, Lowercase, Uppercase, Digit, Symbol}},
		{"short lowercase", "abc", 1, TooShort, []Factor{Length, Uppercase, Digit, Symbol}},
		{"short but varied", "aB1$", 4, TooShort, []Factor{Length}},
		{"long lowercase", "abcdefgh", 2, Fair, []Factor{Uppercase, Digit, Symbol}},
		{"long digits", "12345678", 2, Fair, []Factor{Lowercase, Uppercase, Symbol}},
		{"good", "abcDEFgh", 3, Good, []Factor{Digit, Symbol}},
		{"strong", "abcDEF12", 4, Strong, []Factor{Symbol}},
		{"very strong", "abcDEF12$", 5, VeryStrong, nil},
		{"symbol outside set", "abcDEF12?", 4, Strong, []Factor{Symbol}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Estimate(tt.password)
			assert.Equal(t, tt.score, r.Score)
			assert.Equal(t, tt.label, r.Label)
			assert.Equal(t, tt.missing, r.Missing)
		})
	}
}

func TestEstimateScoreMatchesSatisfiedFactors(t *testing.T) {
	for _, p := range []string{"", "a", "A", "1", "!", "aA", "aA1", "aA1!", "aaaaaa", "aA1!aA", "ÄÖÜäöü", "pass word"} {
		r := Estimate(p)
		assert.GreaterOrEqual(t, r.Score, 0, p)
		assert.LessOrEqual(t, r.Score, 5, p)
		assert.Equal(t, 5-len(r.Missing), r.Score, p)
	}
}

func TestResultText(t *testing.T) {
	assert.Equal(t, "Password strength: Password too short", Estimate("abc").Text())
	assert.Equal(t, "Password strength: Very Strong", Estimate("abcDEF12$").Text())
	assert.Equal(t,
		"Password strength: Fair (missing: uppercase letter, number, special character)",
		Estimate("abcdefgh").Text())
}

func TestResultClass(t *testing.T) {
	assert.Equal(t, "strength-weak", Estimate("aB1$").Class())
	assert.Equal(t, "strength-weak", Estimate("abcdefgh").Class())
	assert.Equal(t, "strength-medium", Estimate("abcDEFgh").Class())
	assert.Equal(t, "strength-strong", Estimate("abcDEF12").Class())
	assert.Equal(t, "strength-very-strong", Estimate("abcDEF12$").Class())
}

func TestLoginIndicator(t *testing.T) {
	tests := []struct {
		password string
		score    int
		text     string
		color    string
	}{
		{"a", 1, "Password strength: Weak", "#f59e0b"},
		{"aB", 2, "Password strength: Medium", "#f59e0b"},
		{"aB1", 3, "Password strength: Strong", "#22c55e"},
		{"aB1&", 4, "Password strength: Very Strong", "#22c55e"},
		{"!", 1, "Password strength: Weak", "#f59e0b"},
		{"%", 0, "Password strength: Very Weak", "#ef4444"},
		{"aB1&xyz", 5, "Password strength: Very Strong", "#22c55e"},
	}
	for _, tt := range tests {
		got := LoginIndicator(tt.password)
		assert.Equal(t, tt.score, got.Score, tt.password)
		assert.Equal(t, tt.text, got.Text, tt.password)
		assert.Equal(t, tt.color, got.Color, tt.password)
	}
}

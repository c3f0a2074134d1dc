package strength

import (
	"regexp"
	"unicode/utf8"
)

// The login page keeps its own, older table: five buckets indexed directly
// by score, a narrower symbol set and no too-short override.
var (
	loginSymbolRe = regexp.MustCompile(`[$@#&!]`)

	loginTexts  = [...]string{"Very Weak", "Weak", "Medium", "Strong", "Very Strong"}
	loginColors = [...]string{"#ef4444", "#f59e0b", "#f59e0b", "#22c55e", "#22c55e"}
)

// LoginLevel is what the login page shows under the password field.
type LoginLevel struct {
	Score int    `json:"score"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// LoginIndicator scores password with the login table. Scores past the last
// bucket clamp to it.
func LoginIndicator(password string) LoginLevel {
	score := 0
	if utf8.RuneCountInString(password) >= MinLength {
		score++
	}
	for _, re := range []*regexp.Regexp{lowerRe, upperRe, digitRe, loginSymbolRe} {
		if re.MatchString(password) {
			score++
		}
	}

	idx := score
	if idx >= len(loginTexts) {
		idx = len(loginTexts) - 1
	}
	return LoginLevel{
		Score: score,
		Text:  "Password strength: " + loginTexts[idx],
		Color: loginColors[idx],
	}
}

package media

import "strings"

var baseTerms = []string{
	"nature",
	"calm landscape",
	"peaceful",
	"serene water",
	"tranquil forest",
	"soft clouds",
}

var moodTerms = map[string][]string{
	"peaceful":    {"still lake", "meadow", "quiet morning", "gentle stream"},
	"anxious":     {"slow waves", "misty forest", "soft rain", "open sky"},
	"sad":         {"sunrise", "warm light", "blooming flowers", "spring"},
	"tired":       {"hammock", "sunset beach", "moss", "evening sky"},
	"overwhelmed": {"empty beach", "mountain valley", "horizon", "desert dunes"},
	"hopeful":     {"sun rays", "new leaves", "rainbow", "dawn"},
	"angry":       {"waterfall", "snow", "glacier", "cool river"},
	"grateful":    {"golden hour", "wildflowers", "harvest", "orchard"},
}

var colorTerms = map[string][]string{
	"blue":   {"blue ocean", "blue sky", "lagoon"},
	"green":  {"green forest", "fern", "green hills"},
	"purple": {"lavender field", "purple sunset", "violet flowers"},
	"pink":   {"cherry blossom", "pink sky", "peony"},
	"orange": {"autumn leaves", "orange sunset", "amber light"},
	"yellow": {"sunflower", "golden field", "yellow meadow"},
	"white":  {"snowfall", "white sand", "cotton clouds"},
	"gray":   {"foggy coast", "stone beach", "overcast lake"},
	"brown":  {"wooden path", "autumn forest", "earth"},
	"red":    {"red maple", "poppy field", "red sunset"},
}

// Moods returns the moods that have dedicated vocabulary.
func Moods() []string {
	moods := make([]string, 0, len(moodTerms))
	for m := range moodTerms {
		moods = append(moods, m)
	}
	return moods
}

// candidateTerms combines the base vocabulary with any mood and color
// vocabulary. Unknown moods and colors contribute nothing.
func candidateTerms(mood, color string) []string {
	terms := append([]string(nil), baseTerms...)
	terms = append(terms, moodTerms[normalizeWord(mood)]...)
	terms = append(terms, colorTerms[normalizeWord(color)]...)
	return terms
}

func normalizeWord(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "grey" {
		return "gray"
	}
	return s
}

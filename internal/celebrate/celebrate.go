// Package celebrate picks the message and effects shown when a win is
// recorded. Nothing here is persisted; a fresh Config is drawn every time.
package celebrate

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Category groups wins by the kind of effort they took.
type Category string

const (
	CategorySelfCare   Category = "self-care"
	CategoryBoundaries Category = "boundaries"
	CategoryCourage    Category = "courage"
	CategoryRest       Category = "rest"
	CategoryConnection Category = "connection"
	CategoryCustom     Category = "custom"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategorySelfCare,
		CategoryBoundaries,
		CategoryCourage,
		CategoryRest,
		CategoryConnection,
		CategoryCustom,
	}
}

// ParseCategory maps s to a category. Unknown values become CategoryCustom.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := pools[c]; ok {
		return c
	}
	return CategoryCustom
}

// Effect describes a short visual flourish.
type Effect struct {
	Name      string
	Particles int
	Colors    []string
	Duration  time.Duration
}

// Config is one celebration. Effect and Haptic are optional.
type Config struct {
	MessageTemplate string
	Effect          *Effect
	Haptic          []time.Duration
}

// Render substitutes the win text into the message template.
func (c Config) Render(win string) string {
	return strings.ReplaceAll(c.MessageTemplate, "{win}", strings.TrimSpace(win))
}

var (
	confetti = &Effect{Name: "confetti", Particles: 80, Colors: []string{"#F9A8D4", "#FDE68A", "#A7F3D0"}, Duration: 1500 * time.Millisecond}
	sparkles = &Effect{Name: "sparkles", Particles: 30, Colors: []string{"#FDE68A", "#FFFFFF"}, Duration: 1200 * time.Millisecond}
	hearts   = &Effect{Name: "hearts", Particles: 20, Colors: []string{"#FB7185", "#F9A8D4"}, Duration: 1800 * time.Millisecond}
	glow     = &Effect{Name: "glow", Particles: 0, Colors: []string{"#C4B5FD"}, Duration: 2 * time.Second}

	tap    = []time.Duration{30 * time.Millisecond}
	double = []time.Duration{30 * time.Millisecond, 60 * time.Millisecond, 30 * time.Millisecond}
	swell  = []time.Duration{20 * time.Millisecond, 40 * time.Millisecond, 60 * time.Millisecond}
)

var pools = map[Category][]Config{
	CategorySelfCare: {
		{MessageTemplate: "You looked after yourself: {win}. That matters.", Effect: hearts, Haptic: tap},
		{MessageTemplate: "Caring for you is not selfish. {win} counts.", Effect: glow},
		{MessageTemplate: "{win}. Gentle with yourself, as you deserve.", Effect: sparkles, Haptic: tap},
	},
	CategoryBoundaries: {
		{MessageTemplate: "You held a line: {win}. Boundaries are love too.", Effect: glow, Haptic: double},
		{MessageTemplate: "Saying no made room for you. {win}.", Effect: sparkles},
		{MessageTemplate: "{win}. Your limits are worth protecting.", Effect: confetti, Haptic: tap},
	},
	CategoryCourage: {
		{MessageTemplate: "That took courage: {win}.", Effect: confetti, Haptic: swell},
		{MessageTemplate: "You did the scary thing. {win}!", Effect: confetti, Haptic: double},
		{MessageTemplate: "{win}. Brave looks like this.", Effect: sparkles, Haptic: swell},
	},
	CategoryRest: {
		{MessageTemplate: "Rest is productive. {win}.", Effect: glow},
		{MessageTemplate: "You let yourself pause: {win}.", Effect: glow, Haptic: tap},
		{MessageTemplate: "{win}. Your body thanks you.", Effect: hearts},
	},
	CategoryConnection: {
		{MessageTemplate: "You reached out: {win}. Connection heals.", Effect: hearts, Haptic: double},
		{MessageTemplate: "{win}. You let someone in.", Effect: sparkles},
		{MessageTemplate: "Being seen takes strength. {win}.", Effect: hearts, Haptic: tap},
	},
	CategoryCustom: {
		{MessageTemplate: "{win}. Every win counts.", Effect: confetti, Haptic: tap},
		{MessageTemplate: "Look at you: {win}.", Effect: sparkles},
		{MessageTemplate: "{win}. Small steps are still steps.", Effect: confetti},
		{MessageTemplate: "Noted and celebrated: {win}."},
	},
}

// Pool returns the celebrations available for category.
func Pool(category Category) []Config {
	return append([]Config(nil), pools[ParseCategory(string(category))]...)
}

// Select draws one celebration for category from rng. Unknown categories
// draw from the custom pool.
func Select(category Category, rng *rand.Rand) Config {
	pool := pools[ParseCategory(string(category))]
	return pool[rng.IntN(len(pool))]
}

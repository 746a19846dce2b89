// Package onboarding drives the first-run quiz: four ordered steps that
// collect a language, a support style, a theme and an anchor phrase.
//
// Every answer is written to the key-value store as soon as it is chosen so
// an interrupted flow can be resumed. Completing the flow fills unanswered
// fields with their defaults and freezes the answers.
package onboarding

// Package kv defines the string-valued key-value port that every piece of
// local state goes through: cached remote responses, favorites, onboarding
// progress and the active UI language. It ships an in-memory adapter; the
// SQLite adapter lives in the store package.
package kv

// Package remote holds the pieces shared by the clients that talk to
// third-party HTTP APIs: the sticky Available/Degraded state, credential
// checks, structured API errors and request pacing.
package remote

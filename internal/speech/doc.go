// Package speech turns affirmation text into audio through the ElevenLabs
// text-to-speech API.
//
// Synthesized audio is written to a cache.DiskStore and its handle cached for
// a day per (voice, text) pair. The client never returns an error: failures
// come back as a Result with Success set to false.
package speech

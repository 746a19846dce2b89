// Package audio plays synthesized affirmations through the system audio
// device using oto/v3. Only raw PCM (signed 16-bit little endian) is
// supported; builds with the nocgo tag get a player that reports audio as
// unavailable.
package audio

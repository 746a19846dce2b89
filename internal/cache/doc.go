// Package cache provides the keyed response cache shared by the remote media
// and speech clients. Entries expire after a fixed TTL and the whole mapping is
// persisted through a kv.Store so it survives restarts on the same device.
// DiskStore keeps the binary payloads (synthesized audio) that cached speech
// handles point at.
package cache

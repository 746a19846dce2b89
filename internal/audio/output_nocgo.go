//go:build nocgo
// +build nocgo

package audio

func newDeviceOutput(PlayerConfig) (Output, error) {
	return nil, ErrAudioUnavailable
}

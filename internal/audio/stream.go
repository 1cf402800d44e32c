package audio

import "time"

// Stream is a decoded mono PCM audio stream. It is immutable once loaded
// and owned by a single processing run.
type Stream struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the total length of the stream.
func (s *Stream) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}

// Seconds returns the total length of the stream in seconds.
func (s *Stream) Seconds() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

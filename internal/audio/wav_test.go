package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	samples := make([]float64, 1600)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*float64(i)/100)
	}

	encoded := EncodeWAV(samples, 16000)
	stream, err := DecodeWAV(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}

	if stream.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", stream.SampleRate)
	}
	if len(stream.Samples) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(stream.Samples), len(samples))
	}
	for i := range samples {
		if math.Abs(stream.Samples[i]-samples[i]) > 1e-3 {
			t.Fatalf("sample %d = %v, want %v (16-bit quantization exceeded)", i, stream.Samples[i], samples[i])
		}
	}
}

func TestDecodeStereoDownmix(t *testing.T) {
	// Hand-build a stereo WAV: channel 0 at +0.5, channel 1 at -0.5.
	const frames = 100
	var data bytes.Buffer
	left := int16(16383) // ~ +0.5 * 32767
	right := -left
	for i := 0; i < frames; i++ {
		binary.Write(&data, binary.LittleEndian, left)
		binary.Write(&data, binary.LittleEndian, right)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(2)) // stereo
	binary.Write(&buf, binary.LittleEndian, uint32(8000))
	binary.Write(&buf, binary.LittleEndian, uint32(8000*4))
	binary.Write(&buf, binary.LittleEndian, uint16(4))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	stream, err := DecodeWAV(&buf)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if len(stream.Samples) != frames {
		t.Fatalf("got %d samples, want %d", len(stream.Samples), frames)
	}
	// Opposite channels average to silence.
	for i, s := range stream.Samples {
		if math.Abs(s) > 1e-3 {
			t.Fatalf("sample %d = %v, want ~0 after downmix", i, s)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAV(bytes.NewReader([]byte("not a wav file at all"))); err == nil {
		t.Error("expected an error for non-WAV input")
	}
}

func TestStreamDuration(t *testing.T) {
	s := &Stream{Samples: make([]float64, 24000), SampleRate: 16000}
	if got := s.Seconds(); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("Seconds() = %v, want 1.5", got)
	}
}

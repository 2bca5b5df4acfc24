package audio

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	SampleRate = 44100

	peakGain   = 0.3
	floorGain  = 0.01
	attack     = 10 * time.Millisecond
	toneLength = 150 * time.Millisecond
)

// tone is one sine note of the chime
type tone struct {
	freq   float64
	offset time.Duration
}

// chimeTones is the rising two-note notification chime
var chimeTones = []tone{
	{freq: 800, offset: 0},
	{freq: 1000, offset: toneLength},
}

// ChimeDuration is the total length of the synthesized chime
func ChimeDuration() time.Duration {
	last := chimeTones[len(chimeTones)-1]
	return last.offset + toneLength
}

// SynthesizeChime renders the chime as mono signed 16-bit little-endian PCM
func SynthesizeChime() []byte {
	total := samplesFor(ChimeDuration())
	mix := make([]float64, total)

	for _, t := range chimeTones {
		start := samplesFor(t.offset)
		n := samplesFor(toneLength)
		for i := 0; i < n && start+i < total; i++ {
			at := float64(i) / SampleRate
			mix[start+i] += envelope(at) * math.Sin(2*math.Pi*t.freq*at)
		}
	}

	pcm := make([]byte, total*2)
	for i, v := range mix {
		v = math.Max(-1, math.Min(1, v))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	return pcm
}

// envelope ramps linearly up to peakGain over the attack, then decays
// exponentially to floorGain by the end of the tone
func envelope(at float64) float64 {
	a := attack.Seconds()
	if at < a {
		return peakGain * at / a
	}
	decay := toneLength.Seconds() - a
	return peakGain * math.Pow(floorGain/peakGain, (at-a)/decay)
}

func samplesFor(d time.Duration) int {
	return int(math.Round(d.Seconds() * SampleRate))
}

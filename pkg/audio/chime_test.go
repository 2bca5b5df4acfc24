package audio

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(pcm []byte, i int) int16 {
	return int16(binary.LittleEndian.Uint16(pcm[i*2:]))
}

func TestChimeDuration(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, ChimeDuration())
}

func TestSynthesizeChimeLength(t *testing.T) {
	pcm := SynthesizeChime()
	require.Len(t, pcm, samplesFor(ChimeDuration())*2)
	assert.Equal(t, int(0.3*SampleRate)*2, len(pcm))
}

func TestSynthesizeChimeAmplitude(t *testing.T) {
	pcm := SynthesizeChime()
	limit := int(math.Ceil(peakGain * math.MaxInt16))

	peak := 0
	for i := 0; i < len(pcm)/2; i++ {
		v := int(sampleAt(pcm, i))
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	assert.LessOrEqual(t, peak, limit)
	assert.Greater(t, peak, limit/2)
}

func TestSynthesizeChimeTwoNotes(t *testing.T) {
	pcm := SynthesizeChime()

	assert.Equal(t, int16(0), sampleAt(pcm, 0))

	// each note restarts its attack, so the sample at the second onset is silent again
	second := samplesFor(toneLength)
	assert.Equal(t, int16(0), sampleAt(pcm, second))

	loud := func(from, to int) bool {
		for i := from; i < to; i++ {
			if v := sampleAt(pcm, i); v > 5000 || v < -5000 {
				return true
			}
		}
		return false
	}
	assert.True(t, loud(0, second/4))
	assert.True(t, loud(second, second+second/4))
}

func TestEnvelope(t *testing.T) {
	assert.InDelta(t, 0, envelope(0), 1e-9)
	assert.InDelta(t, peakGain/2, envelope(attack.Seconds()/2), 1e-9)
	assert.InDelta(t, peakGain, envelope(attack.Seconds()), 1e-9)
	assert.InDelta(t, floorGain, envelope(toneLength.Seconds()), 1e-9)
	assert.Less(t, envelope(0.1), envelope(0.05))
}

package audio

import (
	"math"
	"testing"
	"time"
)

func TestToneVolumeAndDurationScaleWithIntensity(t *testing.T) {
	if got := toneVolume(0); got != toneMinVolume {
		t.Fatalf("volume at zero intensity = %v, want %v", got, toneMinVolume)
	}
	if got := toneVolume(1); got != toneMaxVolume {
		t.Fatalf("volume at full intensity = %v, want %v", got, toneMaxVolume)
	}
	if toneVolume(0.7) <= toneVolume(0.3) {
		t.Fatal("volume should grow with intensity")
	}

	if got := toneDuration(0); got != toneMinDuration {
		t.Fatalf("duration at zero intensity = %v, want %v", got, toneMinDuration)
	}
	if got := toneDuration(1); got != toneMaxDuration {
		t.Fatalf("duration at full intensity = %v, want %v", got, toneMaxDuration)
	}
}

func TestToneStreamsFiniteSine(t *testing.T) {
	s := newTone(440, 0.5, 10*time.Millisecond, sampleRate)
	want := sampleRate.N(10 * time.Millisecond)

	buf := make([][2]float64, 256)
	total := 0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			if math.Abs(buf[i][0]) > 0.5+1e-9 {
				t.Fatalf("sample %v exceeds volume bound", buf[i][0])
			}
			if buf[i][0] != buf[i][1] {
				t.Fatal("tone should be identical on both channels")
			}
		}
		total += n
		if !ok {
			break
		}
	}
	if total != want {
		t.Fatalf("streamed %d samples, want %d", total, want)
	}
}

func TestFadeRampsEdges(t *testing.T) {
	const dur = 20 * time.Millisecond
	inner := newTone(440, 1.0, dur, sampleRate)
	s := newFade(inner, dur, 2*time.Millisecond, 2*time.Millisecond, sampleRate)

	var all []float64
	buf := make([][2]float64, 128)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			all = append(all, buf[i][0])
		}
		if !ok {
			break
		}
	}

	if len(all) == 0 {
		t.Fatal("fade produced no samples")
	}
	if math.Abs(all[0]) > 1e-6 {
		t.Fatalf("first sample %v should start near silence", all[0])
	}
	if last := all[len(all)-1]; math.Abs(last) > 0.05 {
		t.Fatalf("last sample %v should fade toward silence", last)
	}
}

func TestCancelAndMuteAreSafeWithoutSpeaker(t *testing.T) {
	e := &Engine{}
	e.Cancel(42)
	e.SetMuted(true)
	e.Close()
}

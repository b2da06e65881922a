// Package audio provides spell voices on top of beep.
package audio

import (
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// resampleQuality is the beep resampler quality (1..64).
const resampleQuality = 4

// Voice is one source streamer with play/pause, pitch and gain controls:
// source -> Ctrl -> Resampler -> Volume.
type Voice struct {
	lock sync.Locker

	ctrl *beep.Ctrl
	res  *beep.Resampler
	vol  *effects.Volume
	gain float64
}

// NewVoice wraps src. The voice starts paused at unity gain and pitch.
func NewVoice(src beep.Streamer) *Voice {
	ctrl := &beep.Ctrl{Streamer: src, Paused: true}
	res := beep.ResampleRatio(resampleQuality, 1, ctrl)
	return &Voice{
		lock: &sync.Mutex{},
		ctrl: ctrl,
		res:  res,
		vol:  &effects.Volume{Streamer: res, Base: 2, Volume: 0},
		gain: 1,
	}
}

// Streamer is the end of the chain, for a mixer or speaker.Play.
func (v *Voice) Streamer() beep.Streamer { return v.vol }

func (v *Voice) Gain() float64 {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.gain
}

// SetGain sets a linear gain. Zero or less is silent.
func (v *Voice) SetGain(g float64) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.gain = g
	if g <= 0 {
		v.vol.Silent = true
		v.vol.Volume = 0
		return
	}
	v.vol.Silent = false
	v.vol.Volume = math.Log2(g)
}

func (v *Voice) Pitch() float64 {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.res.Ratio()
}

// SetPitch sets the playback rate ratio. Non-positive ratios are ignored.
func (v *Voice) SetPitch(ratio float64) {
	if ratio <= 0 || math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return
	}
	v.lock.Lock()
	defer v.lock.Unlock()
	v.res.SetRatio(ratio)
}

func (v *Voice) Playing() bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	return !v.ctrl.Paused
}

func (v *Voice) Play() {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.ctrl.Paused = false
}

func (v *Voice) Stop() {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.ctrl.Paused = true
}

// tone is an endless sine oscillator.
type tone struct {
	freq  float64
	phase float64
	rate  beep.SampleRate
}

// Tone returns an endless sine wave at freq Hz.
func Tone(rate beep.SampleRate, freq float64) beep.Streamer {
	return &tone{freq: freq, rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := math.Sin(2 * math.Pi * t.phase)
		samples[i][0] = v
		samples[i][1] = v
		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// DefaultSampleRate is used when the config leaves it unset.
const DefaultSampleRate = beep.SampleRate(48000)

// Output mixes voices to the system speaker.
type Output struct {
	rate  beep.SampleRate
	mixer *beep.Mixer
}

// Open initializes the speaker and starts playing an empty mixer.
func Open(sampleRate int) (*Output, error) {
	sr := DefaultSampleRate
	if sampleRate > 0 {
		sr = beep.SampleRate(sampleRate)
	}
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	o := &Output{rate: sr, mixer: &beep.Mixer{}}
	speaker.Play(o.mixer)
	return o, nil
}

func (o *Output) SampleRate() beep.SampleRate { return o.rate }

// Add attaches v to the mixer. From then on v is guarded by the speaker lock.
func (o *Output) Add(v *Voice) {
	speaker.Lock()
	o.mixer.Add(v.Streamer())
	speaker.Unlock()
	v.lock = speakerLock{}
}

func (o *Output) Close() {
	speaker.Lock()
	o.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

type speakerLock struct{}

func (speakerLock) Lock() { speaker.Lock() }

func (speakerLock) Unlock() { speaker.Unlock() }

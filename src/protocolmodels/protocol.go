package protocolmodels

import (
	"fmt"
	"time"
)

// Protocol is a named, time-bounded recording session together with its
// recorder links and the samples recorded inside its range.
type Protocol struct {
	// ID is zero until the protocol is loaded from or saved to the store.
	ID      int64
	Name    string
	Begin   time.Time
	End     time.Time
	Links   []ProtocolLink
	Samples Records

	samplesLoaded bool
}

func NewProtocol(name string, begin, end time.Time) *Protocol {
	return &Protocol{
		Name:  name,
		Begin: begin,
		End:   end,
	}
}

func (p *Protocol) HasID() bool {
	return p.ID > 0
}

// SetSamples replaces the in-memory samples and marks them as loaded.
func (p *Protocol) SetSamples(samples Records) {
	p.Samples = samples
	p.samplesLoaded = true
}

// LoadedSampleCount reports the number of in-memory samples, if samples were loaded.
func (p *Protocol) LoadedSampleCount() (int, bool) {
	if !p.samplesLoaded {
		return 0, false
	}

	return len(p.Samples), true
}

func (p *Protocol) Duration() time.Duration {
	return p.End.Sub(p.Begin)
}

// Offset shifts begin, end and every sample by delta.
func (p *Protocol) Offset(delta time.Duration) {
	p.Begin = p.Begin.Add(delta)
	p.End = p.End.Add(delta)
	p.Samples.Offset(delta)
}

// ShiftTo offsets the protocol so that it begins at begin and returns the applied delta.
func (p *Protocol) ShiftTo(begin time.Time) time.Duration {
	delta := begin.Sub(p.Begin)
	p.Offset(delta)
	return delta
}

// SamplesPerSecond returns count divided by the protocol duration in seconds.
func (p *Protocol) SamplesPerSecond(count int) (float64, error) {
	seconds := p.Duration().Seconds()
	if seconds <= 0 {
		return 0, fmt.Errorf("Protocol.SamplesPerSecond: %w: duration %v", ErrInvalidRange, p.Duration())
	}

	return float64(count) / seconds, nil
}

func (p *Protocol) Validate() error {
	if !p.Begin.Before(p.End) {
		return fmt.Errorf("protocol %q: %w: begin %s is not before end %s", p.Name, ErrInvalidRange, p.Begin, p.End)
	}

	if i := p.Samples.FirstOutside(p.Begin, p.End); i >= 0 {
		return fmt.Errorf("protocol %q: %w: sample %d at %s is outside (%s, %s)", p.Name, ErrInvalidRange, i, p.Samples[i].Datetime, p.Begin, p.End)
	}

	return nil
}

func (p *Protocol) Summary() ProtocolSummary {
	return ProtocolSummary{
		ID:    p.ID,
		Name:  p.Name,
		Begin: p.Begin,
		End:   p.End,
	}
}

func (p *Protocol) ToDTO() ProtocolDTO {
	links := make([]ProtocolLinkDTO, len(p.Links))
	for i, l := range p.Links {
		links[i] = l.ToDTO()
	}

	return ProtocolDTO{
		Name:         p.Name,
		Begin:        formatTime(p.Begin),
		End:          formatTime(p.End),
		ProtocolData: links,
		Data:         p.Samples.ToDTO(),
	}
}

package protocolmodels

import "fmt"

type OverlapReason string

const (
	// OverlapReasonProtocol means a stored protocol range intersects the candidate range.
	OverlapReasonProtocol OverlapReason = "protocol"
	// OverlapReasonSamples means stored samples fall inside the candidate range.
	OverlapReasonSamples OverlapReason = "samples"
)

// OverlapError is returned when saving a protocol would overlap stored data.
type OverlapError struct {
	Reason      OverlapReason
	Conflicts   []ProtocolSummary
	SampleCount int64
}

// Conflict returns the first conflicting stored protocol, if any.
func (e *OverlapError) Conflict() (ProtocolSummary, bool) {
	if len(e.Conflicts) == 0 {
		return ProtocolSummary{}, false
	}

	return e.Conflicts[0], true
}

func (e *OverlapError) Error() string {
	if c, ok := e.Conflict(); ok {
		return fmt.Sprintf("%s: conflicting protocol id:%d %q %s - %s", ErrProtocolOverlap, c.ID, c.Name, c.Begin, c.End)
	}

	if e.Reason == OverlapReasonSamples {
		return fmt.Sprintf("%s: %d conflicting data rows", ErrProtocolOverlap, e.SampleCount)
	}

	return ErrProtocolOverlap.Error()
}

func (e *OverlapError) Is(target error) bool {
	return target == ErrProtocolOverlap
}

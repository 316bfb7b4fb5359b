package generate

import (
	"context"
	"io"
	"time"
)

// MockGenerator streams scripted fragments for tests and offline runs. When
// Err is set the stream fails with it after the fragments are exhausted,
// which models a provider dying mid-stream.
type MockGenerator struct {
	Fragments []string
	Err       error
	Delay     time.Duration
}

// Stream replays the scripted fragments.
func (m *MockGenerator) Stream(ctx context.Context, _ Credentials, _ Request) (*Stream, error) {
	i := 0
	return NewStream(ctx, func() (string, error) {
		if m.Delay > 0 {
			select {
			case <-time.After(m.Delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		if i < len(m.Fragments) {
			frag := m.Fragments[i]
			i++
			return frag, nil
		}
		if m.Err != nil {
			return "", m.Err
		}
		return "", io.EOF
	}, nil), nil
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"aborted", fmt.Errorf("waiting for feeds: %w", ErrAborted), ExitAborted},
		{"source", fmt.Errorf("loading: %w", ErrSourceRead), ExitNoSource},
		{"invalid input", ErrInvalidInput, ExitUsage},
		{"app error wins", New(ErrSourceRead, 3, "custom"), 3},
		{"unknown", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrFeedParse, ExitFailure, "feed %s", "http://x.com/rss")
	assert.True(t, errors.Is(err, ErrFeedParse))
	assert.Equal(t, "feed parse failed: feed http://x.com/rss", err.Error())
}

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedAddress(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"https", "https://x.com/feed.xml", false},
		{"http with port", "http://localhost:8080/rss", false},
		{"empty", "", true},
		{"relative", "/feed.xml", true},
		{"ftp", "ftp://x.com/feed", true},
		{"no host", "http:///feed", true},
		{"garbage", "::not a url", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FeedAddress(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFeedAddresses(t *testing.T) {
	lines := []string{
		"https://a.com/rss",
		"",
		"# comment",
		"  https://b.com/rss  ",
		"not a feed",
	}
	valid, verr := FeedAddresses(lines)
	assert.Equal(t, []string{"https://a.com/rss", "https://b.com/rss"}, valid)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields, "line 5")
	assert.Len(t, verr.Fields, 1)
}

func TestFeedAddressesAllValid(t *testing.T) {
	valid, verr := FeedAddresses([]string{"https://a.com/rss"})
	assert.Nil(t, verr)
	assert.Len(t, valid, 1)
}

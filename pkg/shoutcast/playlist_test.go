package shoutcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlaylist(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"pls",
			"[playlist]\nnumberofentries=1\nFile1=http://ice.example.com/stream\nTitle1=Test\n",
			"http://ice.example.com/stream",
		},
		{
			"m3u",
			"#EXTM3U\n#EXTINF:-1,Test FM\nhttps://ice.example.com/stream\n",
			"https://ice.example.com/stream",
		},
		{"bare url", "http://ice.example.com/a\nhttp://ice.example.com/b\n", "http://ice.example.com/a"},
		{"comments only", "#EXTM3U\n# nothing here\n", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePlaylist(tt.content))
		})
	}
}

func TestLooksLikePlaylist(t *testing.T) {
	assert.True(t, looksLikePlaylist("http://x.example/listen.pls"))
	assert.True(t, looksLikePlaylist("http://x.example/listen.M3U?sid=1"))
	assert.True(t, looksLikePlaylist("http://x.example/hls/live.m3u8"))
	assert.False(t, looksLikePlaylist("http://x.example/stream"))
	assert.False(t, looksLikePlaylist("http://x.example/stream.mp3"))
}

package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikelyPlay(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "play of the day post",
			text: "Play of the Day: counter trey with the backside guard pulling",
			want: true,
		},
		{
			name: "scheme keyword",
			text: "Beautiful RPO look off the weakside here",
			want: true,
		},
		{
			name: "case insensitive",
			text: "FILM ROOM: how the safety rotation gives it away",
			want: true,
		},
		{
			name: "scheduling chatter",
			text: "Kickoff moved to 3:30 next Saturday",
			want: false,
		},
		{
			name: "empty",
			text: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LikelyPlay(tt.text))
		})
	}
}

func TestSocialTitle(t *testing.T) {
	t.Run("strips links and collapses whitespace", func(t *testing.T) {
		got := SocialTitle("Play of the Day:   counter trey https://video.example.com/v/123.mp4?tag=12")
		assert.Equal(t, "Play of the Day: counter trey", got)
	})

	t.Run("caps length on rune boundary", func(t *testing.T) {
		text := strings.Repeat("zone read keeper ", 20)
		got := SocialTitle(text)
		assert.LessOrEqual(t, len([]rune(got)), socialTitleMaxLen)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("link-only post falls back", func(t *testing.T) {
		got := SocialTitle("https://video.example.com/v/123.mp4")
		assert.Equal(t, FallbackTitle, got)
	})
}

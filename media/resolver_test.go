package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_SequenceAndDivider(t *testing.T) {
	markup := `
		<td>Down & Distance: 2nd & 10 | Personnel: 11p | Formation: Dual Rt</td>
		<img src="https://cdn.example.com/plays/737_angle1.gif">
		<img src="https://cdn.example.com/plays/737_angle2.gif">
		<img src="https://cdn.example.com/plays/737_angle3.gif">
		<div class="fd-divider"></div>
		<img src="https://cdn.example.com/plays/737_diagram.jpg">`

	refs := NewResolver().Resolve(markup)

	require.Len(t, refs.Sequence, 3)
	assert.Equal(t, "https://cdn.example.com/plays/737_angle1.gif", refs.Sequence[0])
	assert.Equal(t, "https://cdn.example.com/plays/737_angle2.gif", refs.Sequence[1])
	assert.Equal(t, "https://cdn.example.com/plays/737_angle3.gif", refs.Sequence[2])
	assert.Empty(t, refs.Auxiliary, "diagram after the divider must be discarded")
}

func TestResolve_AuxiliaryBeforeDivider(t *testing.T) {
	markup := `
		<img src="https://cdn.example.com/plays/737_angle1.gif">
		<img src="https://cdn.example.com/plays/737_diagram.jpg">
		<div class="fd-divider"></div>
		<img src="https://cdn.example.com/footer/logo.png">`

	refs := NewResolver().Resolve(markup)

	require.Len(t, refs.Sequence, 1)
	assert.Equal(t, "https://cdn.example.com/plays/737_diagram.jpg", refs.Auxiliary)
}

func TestResolve_Denylist(t *testing.T) {
	markup := `
		<img src="https://cdn.example.com/assets/Email-Header-2026.png">
		<img src="https://cdn.example.com/icons/TeamWorks-badge.gif">
		<img src="https://cdn.example.com/plays/737_angle1.gif">`

	refs := NewResolver().Resolve(markup)

	require.Len(t, refs.Sequence, 1)
	assert.Equal(t, "https://cdn.example.com/plays/737_angle1.gif", refs.Sequence[0])
	assert.Empty(t, refs.Auxiliary)
}

func TestResolve_ScreenshotPreference(t *testing.T) {
	markup := `
		<img src="https://cdn.example.com/plays/737_render.jpg">
		<img src="https://cdn.example.com/plays/737_Screenshot_2026.png">
		<img src="https://cdn.example.com/plays/737_angle1.gif">`

	refs := NewResolver().Resolve(markup)

	assert.Equal(t, "https://cdn.example.com/plays/737_Screenshot_2026.png", refs.Auxiliary,
		"screenshot-flavored asset wins the tie-break over an earlier static")
}

func TestResolve_FirstStaticFallback(t *testing.T) {
	markup := `
		<img src="https://cdn.example.com/plays/737_board.jpg">
		<img src="https://cdn.example.com/plays/737_sideline.png">`

	refs := NewResolver().Resolve(markup)

	assert.Empty(t, refs.Sequence)
	assert.Equal(t, "https://cdn.example.com/plays/737_board.jpg", refs.Auxiliary)
}

func TestResolve_DeduplicatesKeepingOrder(t *testing.T) {
	markup := `
		<a href="https://cdn.example.com/plays/737_angle1.gif">
			<img src="https://cdn.example.com/plays/737_angle1.gif">
		</a>
		<img src="https://cdn.example.com/plays/737_angle2.gif">`

	refs := NewResolver().Resolve(markup)

	require.Len(t, refs.Sequence, 2)
	assert.Equal(t, "https://cdn.example.com/plays/737_angle1.gif", refs.Sequence[0])
	assert.Equal(t, "https://cdn.example.com/plays/737_angle2.gif", refs.Sequence[1])
}

func TestResolve_QueryStringsAndVideo(t *testing.T) {
	markup := `Play of the Day https://video.example.com/vid/9981.mp4?tag=12 and
		a still https://pbs.example.com/media/9981.jpg?name=small`

	refs := NewResolver().Resolve(markup)

	require.Len(t, refs.Sequence, 1)
	assert.Equal(t, "https://video.example.com/vid/9981.mp4?tag=12", refs.Sequence[0])
	assert.Equal(t, "https://pbs.example.com/media/9981.jpg?name=small", refs.Auxiliary)
}

func TestResolve_TrailingPunctuation(t *testing.T) {
	markup := `Watch https://cdn.example.com/plays/737_angle1.gif.`

	refs := NewResolver().Resolve(markup)

	require.Len(t, refs.Sequence, 1)
	assert.Equal(t, "https://cdn.example.com/plays/737_angle1.gif", refs.Sequence[0])
}

func TestResolve_NoMediaIsNotAnError(t *testing.T) {
	refs := NewResolver().Resolve("<p>No assets here at all.</p>")

	assert.Empty(t, refs.Sequence)
	assert.Empty(t, refs.Auxiliary)
}

func TestResolve_Options(t *testing.T) {
	t.Run("custom divider", func(t *testing.T) {
		markup := `<img src="https://a.example.com/1.gif"><!-- cut --><img src="https://a.example.com/2.gif">`
		refs := NewResolver(WithDivider("<!-- cut -->")).Resolve(markup)
		require.Len(t, refs.Sequence, 1)
	})

	t.Run("empty divider disables truncation", func(t *testing.T) {
		markup := `<img src="https://a.example.com/1.gif">fd-divider<img src="https://a.example.com/2.gif">`
		refs := NewResolver(WithDivider("")).Resolve(markup)
		require.Len(t, refs.Sequence, 2)
	})

	t.Run("custom denylist", func(t *testing.T) {
		markup := `<img src="https://a.example.com/sponsor/1.gif"><img src="https://a.example.com/plays/2.gif">`
		refs := NewResolver(WithDenylist([]string{"sponsor"})).Resolve(markup)
		require.Len(t, refs.Sequence, 1)
		assert.Equal(t, "https://a.example.com/plays/2.gif", refs.Sequence[0])
	})
}

package media

import "regexp"

const (
	youtubeEmbedBase = "https://www.youtube.com/embed/"
	vimeoEmbedBase   = "https://player.vimeo.com/video/"
)

var (
	// watch?v=ID, also with other query params before v
	reYouTubeWatch = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]{6,})`)
	reYouTubeShort = regexp.MustCompile(`^(?:https?://)?youtu\.be/([A-Za-z0-9_-]{6,})`)
	reYouTubeEmbed = regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube(?:-nocookie)?\.com/(?:embed|shorts|live)/([A-Za-z0-9_-]{6,})`)
	reVimeo        = regexp.MustCompile(`^(?:https?://)?(?:www\.)?(?:player\.)?vimeo\.com/(?:video/)?(\d+)`)
)

// EmbedURL converts a video page URL into its embeddable form. Watch-page,
// short-link and embed URLs for the same video all map to the same result.
// Unrecognized URLs are returned unchanged.
func EmbedURL(raw string) string {
	for _, re := range []*regexp.Regexp{reYouTubeWatch, reYouTubeShort, reYouTubeEmbed} {
		if m := re.FindStringSubmatch(raw); m != nil {
			return youtubeEmbedBase + m[1]
		}
	}
	if m := reVimeo.FindStringSubmatch(raw); m != nil {
		return vimeoEmbedBase + m[1]
	}
	return raw
}

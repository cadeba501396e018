package domain

import "regexp"

// URL shapes accepted per platform. Scheme and www prefix are optional,
// query strings and trailing slashes are tolerated. Patterns are
// anchored so the host is the platform's own, not a substring of some
// other URL: the matched URL is handed to an external extractor, and
// this check is the only platform gate on the submit path.
var (
	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/watch\?(?:[^#]*&)?v=([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtu\.be/([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/embed/([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/v/([0-9A-Za-z_-]{11})`),
	}

	instagramPost  = regexp.MustCompile(`^(?:https?://)?(?:www\.)?instagram\.com/p/([A-Za-z0-9_-]+)`)
	instagramReel  = regexp.MustCompile(`^(?:https?://)?(?:www\.)?instagram\.com/reel/([A-Za-z0-9_-]+)`)
	instagramStory = regexp.MustCompile(`^(?:https?://)?(?:www\.)?instagram\.com/stories/[^/]+/([A-Za-z0-9_-]+)`)
)

// ClassifyYouTube extracts the 11-character video ID from a YouTube URL.
// Accepts watch, youtu.be, embed and /v/ forms.
func ClassifyYouTube(url string) (string, error) {
	for _, re := range youtubePatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", ErrInvalidURL
}

// ClassifyInstagram extracts the shortcode and media type from an
// Instagram URL. Story URLs classify successfully; rejecting them is the
// caller's decision, since that is a permission matter, not a parse error.
func ClassifyInstagram(url string) (string, MediaType, error) {
	if m := instagramPost.FindStringSubmatch(url); m != nil {
		return m[1], MediaPost, nil
	}
	if m := instagramReel.FindStringSubmatch(url); m != nil {
		return m[1], MediaReel, nil
	}
	if m := instagramStory.FindStringSubmatch(url); m != nil {
		return m[1], MediaStory, nil
	}
	return "", "", ErrInvalidURL
}

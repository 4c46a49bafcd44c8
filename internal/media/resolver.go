package media

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var versionMarker = regexp.MustCompile(`^v\d+$`)

// anchors in priority order.
var anchors = []string{"upload", "video", "image", "raw"}

// ResolvePublicID derives the remote public id from a delivery URL. It
// returns "" when the URL is not served by domain or no identifier can be
// recovered. domain must appear in the host or the path; the query and
// fragment are never consulted.
func ResolvePublicID(rawURL, domain string) string {
	u := parseURL(rawURL)
	if u == nil {
		return ""
	}
	if domain != "" && !strings.Contains(strings.ToLower(u.Hostname())+u.Path, domain) {
		return ""
	}
	segs := segments(u)
	if len(segs) == 0 {
		return ""
	}

	version := -1
	for i, s := range segs {
		if versionMarker.MatchString(s) {
			version = i
			break
		}
	}

	anchor, at := "", -1
	for _, a := range anchors {
		if i := indexOf(segs, a); i >= 0 {
			anchor, at = a, i
			break
		}
	}
	if at < 0 {
		return stripExt(segs[len(segs)-1])
	}

	if version > at && version < len(segs)-1 {
		return stripExt(strings.Join(segs[version+1:], "/"))
	}

	rest := segs[at+1:]
	if anchor == "video" && len(rest) > 0 && rest[0] == "upload" {
		rest = rest[1:]
		if len(rest) > 0 && versionMarker.MatchString(rest[0]) {
			rest = rest[1:]
		}
	}
	if len(rest) == 0 {
		return ""
	}
	return stripExt(strings.Join(rest, "/"))
}

// Filename returns the last path segment of rawURL without its extension.
func Filename(rawURL string) string {
	segs := pathSegments(rawURL)
	if len(segs) == 0 {
		return ""
	}
	return stripExt(segs[len(segs)-1])
}

// CategoryFromURL guesses the resource category of a delivery URL whose
// category was never recorded.
func CategoryFromURL(rawURL string) ResourceCategory {
	p := "/" + strings.ToLower(strings.Join(pathSegments(rawURL), "/"))
	switch {
	case strings.Contains(p, "/video/"), hasAnySuffix(p, ".mp4", ".mov", ".webm"):
		return CategoryVideo
	case strings.Contains(p, "/raw/"), strings.HasSuffix(p, ".pdf"):
		return CategoryRaw
	default:
		return CategoryImage
	}
}

func parseURL(rawURL string) *url.URL {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return u
}

func pathSegments(rawURL string) []string {
	u := parseURL(rawURL)
	if u == nil {
		return nil
	}
	return segments(u)
}

func segments(u *url.URL) []string {
	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func stripExt(s string) string {
	return strings.TrimSuffix(s, path.Ext(s))
}

func indexOf(segs []string, want string) int {
	for i, s := range segs {
		if s == want {
			return i
		}
	}
	return -1
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

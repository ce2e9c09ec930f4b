// Package imagepath canonicalizes user-supplied product image paths into a
// stable relative form rooted at the images/ folder.
package imagepath

import (
	"strings"
)

// Dir is the folder every local product image lives under.
const Dir = "images"

// Normalize turns an arbitrary image path (relative, absolute, Windows-style
// or remote) into the form stored on a product.
//
// Remote URLs and data URIs are kept as is. Anything that contains an
// "images" segment is cut down to what follows that segment, Windows paths
// keep only the file name, and a bare file name is placed under images/.
// Segments are trimmed and empty or "." segments dropped, so the result is
// always a fixed point: Normalize(Normalize(p)) == Normalize(p).
func Normalize(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}
	if isRemote(p) {
		return p
	}

	windows := strings.Contains(p, `\`)
	segments := split(p)
	if len(segments) == 0 {
		return ""
	}
	if hasDrive(segments[0]) {
		windows = true
	}

	for i, seg := range segments {
		if strings.EqualFold(seg, Dir) {
			if i == len(segments)-1 {
				return ""
			}
			return Dir + "/" + strings.Join(segments[i+1:], "/")
		}
	}

	if windows || len(segments) == 1 {
		return Dir + "/" + segments[len(segments)-1]
	}
	return strings.Join(segments, "/")
}

func isRemote(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:")
}

// hasDrive reports a drive-letter prefix such as "C:".
func hasDrive(seg string) bool {
	if len(seg) < 2 || seg[1] != ':' {
		return false
	}
	c := seg[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// split breaks p on forward and back slashes, trims each segment and drops
// empty and "." segments. Leading "/" and "./" runs vanish with them.
func split(p string) []string {
	var segments []string
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	}) {
		seg = strings.TrimSpace(seg)
		if seg == "" || seg == "." {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

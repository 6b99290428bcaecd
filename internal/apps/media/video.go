package media

import "regexp"

var (
	bareID  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	urlForm = regexp.MustCompile(`^.*(?:youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]{11}).*`)
)

// VideoID extracts the 11 character video id from a bare id or a
// watch, short, or embed URL. It returns false when none is found.
func VideoID(urlOrID string) (string, bool) {
	if urlOrID == "" {
		return "", false
	}
	if bareID.MatchString(urlOrID) {
		return urlOrID, true
	}
	m := urlForm.FindStringSubmatch(urlOrID)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

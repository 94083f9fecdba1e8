package upload

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const keyPrefix = "videos"

// VideoPrefix is the key prefix under which every upload of one interview
// lives.
func VideoPrefix(userID, interviewID string) string {
	return fmt.Sprintf("%s/%s/%s/", keyPrefix, userID, interviewID)
}

// VideoKey builds videos/{user}/{interview}/{unix_millis}_{filename}. Only the
// base name of filename is kept.
func VideoKey(userID, interviewID string, at time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return fmt.Sprintf("%s%d_%s", VideoPrefix(userID, interviewID), at.UnixMilli(), name)
}

// OwnsKey reports whether key names a single object directly under the
// interview's prefix. Every key VideoKey issues for the interview passes.
func OwnsKey(userID, interviewID, key string) bool {
	rest, ok := strings.CutPrefix(key, VideoPrefix(userID, interviewID))
	return ok && rest != "" && rest != "." && rest != ".." && !strings.Contains(rest, "/")
}

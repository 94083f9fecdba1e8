package upload

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"slices"
	"strings"
)

// ErrInvalidFormat is the parent of every allow-list rejection.
var ErrInvalidFormat = errors.New("invalid video format")

var (
	ErrUnsupportedContentType = fmt.Errorf("%w: unsupported content type", ErrInvalidFormat)
	ErrUnsupportedExtension   = fmt.Errorf("%w: unsupported file extension", ErrInvalidFormat)
	ErrExtensionMismatch      = fmt.Errorf("%w: file extension does not match content type", ErrInvalidFormat)
)

// videoTypes maps each accepted content type to the extensions it may carry.
var videoTypes = map[string][]string{
	"video/mp4":        {".mp4", ".m4v"},
	"video/webm":       {".webm"},
	"video/quicktime":  {".mov"},
	"video/x-msvideo":  {".avi"},
	"video/x-matroska": {".mkv"},
	"video/mpeg":       {".mpeg", ".mpg"},
}

// AllowedContentTypes lists the accepted content types, sorted.
func AllowedContentTypes() []string {
	types := make([]string, 0, len(videoTypes))
	for t := range videoTypes {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

func knownExtension(ext string) bool {
	for _, exts := range videoTypes {
		if slices.Contains(exts, ext) {
			return true
		}
	}
	return false
}

// ValidateVideo checks a filename and declared content type against the
// allow-list. Content type parameters and case are ignored.
func ValidateVideo(filename, contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w %q", ErrUnsupportedContentType, contentType)
	}
	exts, ok := videoTypes[strings.ToLower(mediaType)]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnsupportedContentType, mediaType)
	}

	ext := strings.ToLower(path.Ext(filename))
	if !knownExtension(ext) {
		return fmt.Errorf("%w %q", ErrUnsupportedExtension, ext)
	}
	if !slices.Contains(exts, ext) {
		return fmt.Errorf("%w (%s, %s)", ErrExtensionMismatch, ext, mediaType)
	}
	return nil
}

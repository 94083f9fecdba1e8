package upload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateVideo(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        error
	}{
		{"mp4", "interview.mp4", "video/mp4", nil},
		{"m4v", "interview.m4v", "video/mp4", nil},
		{"upper case", "INTERVIEW.MOV", "Video/QuickTime", nil},
		{"codec params", "a.webm", "video/webm; codecs=\"vp9, opus\"", nil},
		{"mpg", "clip.mpg", "video/mpeg", nil},
		{"executable", "interview.exe", "video/mp4", ErrUnsupportedExtension},
		{"no extension", "interview", "video/mp4", ErrUnsupportedExtension},
		{"mismatch", "a.webm", "video/mp4", ErrExtensionMismatch},
		{"not a video", "a.mp4", "application/pdf", ErrUnsupportedContentType},
		{"octet stream", "a.mp4", "application/octet-stream", ErrUnsupportedContentType},
		{"empty content type", "a.mp4", "", ErrUnsupportedContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVideo(tt.filename, tt.contentType)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestAllowedContentTypes(t *testing.T) {
	assert.Equal(t, []string{
		"video/mp4",
		"video/mpeg",
		"video/quicktime",
		"video/webm",
		"video/x-matroska",
		"video/x-msvideo",
	}, AllowedContentTypes())
}

func TestVideoKey(t *testing.T) {
	at := time.UnixMilli(1767225600123)

	assert.Equal(t, "videos/u1/iv1/1767225600123_clip.mp4", VideoKey("u1", "iv1", at, "clip.mp4"))
	assert.Equal(t, "videos/u1/iv1/1767225600123_clip.mp4", VideoKey("u1", "iv1", at, "../../etc/clip.mp4"))
	assert.Equal(t, "videos/u1/iv1/1767225600123_clip.mp4", VideoKey("u1", "iv1", at, `C:\Users\me\clip.mp4`))
	assert.Regexp(t, `^videos/u1/iv1/\d+_clip\.mp4$`, VideoKey("u1", "iv1", time.Now(), "clip.mp4"))
}

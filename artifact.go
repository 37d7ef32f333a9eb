package unifai

import "strings"

// MediaKind identifies the kind of a media artifact.
type MediaKind string

// Media kinds.
const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// MimeType is a declared content-type of an artifact.
type MimeType string

// Standard MIME types accepted by media constraints.
const (
	MimePNG  MimeType = "image/png"
	MimeJPEG MimeType = "image/jpeg"
	MimeWEBP MimeType = "image/webp"
	MimeGIF  MimeType = "image/gif"
	MimeBMP  MimeType = "image/bmp"
	MimeTIFF MimeType = "image/tiff"

	MimeMP4 MimeType = "video/mp4"
	MimeAVI MimeType = "video/x-msvideo"
	MimeMOV MimeType = "video/quicktime"

	MimeMP3  MimeType = "audio/mpeg"
	MimeWAV  MimeType = "audio/wav"
	MimeOGG  MimeType = "audio/ogg"
	MimeWEBM MimeType = "audio/webm"
	MimeAAC  MimeType = "audio/aac"
	MimeFLAC MimeType = "audio/flac"
	MimeM4A  MimeType = "audio/mp4"
	MimePCM  MimeType = "audio/pcm"
)

// Artifact is a media input or output. Providers typically populate only one of URL, Data or Path.
type Artifact struct {
	Kind     MediaKind
	URL      string
	Data     []byte
	Path     string
	MimeType MimeType // empty when unknown
	Metadata map[string]any
}

// HasContent reports whether the artifact carries a URL, inline data or a path.
func (a Artifact) HasContent() bool {
	return strings.TrimSpace(a.URL) != "" || len(a.Data) > 0 || strings.TrimSpace(a.Path) != ""
}

// Image returns an image artifact.
func Image(url string, mime MimeType) Artifact {
	return Artifact{Kind: MediaImage, URL: url, MimeType: mime}
}

// Video returns a video artifact.
func Video(url string, mime MimeType) Artifact {
	return Artifact{Kind: MediaVideo, URL: url, MimeType: mime}
}

// Audio returns an audio artifact.
func Audio(url string, mime MimeType) Artifact {
	return Artifact{Kind: MediaAudio, URL: url, MimeType: mime}
}

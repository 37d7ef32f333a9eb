package media

import (
	"net/http"
	"strings"

	"github.com/skosovsky/unifai"
)

// sniffAliases maps content types reported by http.DetectContentType to the
// names used by unifai.
var sniffAliases = map[string]unifai.MimeType{
	"audio/wave":      unifai.MimeWAV,
	"video/avi":       unifai.MimeAVI,
	"application/ogg": unifai.MimeOGG,
	"video/webm":      unifai.MimeWEBM,
}

var known = map[unifai.MimeType]bool{
	unifai.MimePNG: true, unifai.MimeJPEG: true, unifai.MimeWEBP: true,
	unifai.MimeGIF: true, unifai.MimeBMP: true, unifai.MimeTIFF: true,
	unifai.MimeMP4: true, unifai.MimeAVI: true, unifai.MimeMOV: true,
	unifai.MimeMP3: true, unifai.MimeWAV: true, unifai.MimeOGG: true,
	unifai.MimeWEBM: true, unifai.MimeAAC: true, unifai.MimeFLAC: true,
	unifai.MimeM4A: true, unifai.MimePCM: true,
}

// DetectMimeType sniffs the media type from magic bytes. It returns "" when the
// content is not a recognized image, video or audio format.
func DetectMimeType(data []byte) unifai.MimeType {
	if len(data) == 0 {
		return ""
	}
	sniffed := http.DetectContentType(data)
	if idx := strings.Index(sniffed, ";"); idx >= 0 {
		sniffed = strings.TrimSpace(sniffed[:idx])
	}
	if alias, ok := sniffAliases[sniffed]; ok {
		return alias
	}
	if mt := unifai.MimeType(sniffed); known[mt] {
		return mt
	}
	return ""
}

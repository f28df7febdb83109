package opds

import "strings"

// DefaultImageMimetype is returned for image names with an unknown extension.
const DefaultImageMimetype = "image/jpeg"

// GuessImageMimetype returns the image mimetype implied by the extension of
// filename, ignoring case. It never looks at the file itself.
func GuessImageMimetype(filename string) string {
	ext := filename
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i+1:]
	}
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "png":
		return "image/png"
	default:
		return DefaultImageMimetype
	}
}

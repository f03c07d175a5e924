package upload

import (
	"mime"
	"path"
	"strings"
)

// fallbackContentType is used for extensions nothing else recognises.
const fallbackContentType = "application/octet-stream"

// contentTypes maps the artifact extensions the release pipeline commonly
// produces to their MIME types. Extensions not listed here fall through to
// the platform MIME database, then to the generic binary type.
var contentTypes = map[string]string{
	".js":    "application/javascript; charset=utf-8",
	".mjs":   "application/javascript; charset=utf-8",
	".map":   "application/json; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".html":  "text/html; charset=utf-8",
	".txt":   "text/plain; charset=utf-8",
	".csv":   "text/csv; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".wasm":  "application/wasm",
	".gz":    "application/gzip",
	".zip":   "application/zip",
	".tar":   "application/x-tar",
	".woff2": "font/woff2",
}

// ContentType maps a filename to the MIME type attached to its upload. It
// never fails; unknown extensions resolve to application/octet-stream.
func ContentType(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return fallbackContentType
}

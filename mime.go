package main

import (
	"path/filepath"
	"strings"
)

const unknownBinaryMIME = "application/octet-stream"

var mimeTypes = map[string]string{
	"txt":   "text/plain",
	"html":  "text/html",
	"css":   "text/css",
	"js":    "text/javascript",
	"png":   "image/png",
	"svg":   "image/svg+xml",
	"jpeg":  "image/jpeg",
	"jpg":   "image/jpeg",
	"jfif":  "image/jpeg",
	"pjpeg": "image/jpeg",
	"pjp":   "image/jpeg",
	"webp":  "image/webp",
}

// mimeType derives a Content-Type from the file extension. The lookup is
// case-sensitive and closed; anything else is unknown binary.
func mimeType(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if t, ok := mimeTypes[ext]; ok {
		return t
	}
	return unknownBinaryMIME
}

// Package ffprobe runs ffprobe against a media file and decodes its JSON
// report. The metadata layer uses the container tags as a read fallback for
// Matroska files and the CLI inspect command renders the stream summary.
package ffprobe

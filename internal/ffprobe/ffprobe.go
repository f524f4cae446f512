package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"mediaorganizer/internal/services"
)

// Result is a decoded "ffprobe -show_format -show_streams" report.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

type Stream struct {
	Index      int               `json:"index"`
	CodecName  string            `json:"codec_name"`
	CodecType  string            `json:"codec_type"`
	Duration   string            `json:"duration"`
	BitRate    string            `json:"bit_rate"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	SampleRate string            `json:"sample_rate"`
	Channels   int               `json:"channels"`
	Tags       map[string]string `json:"tags"`
}

// Format is the container section of the report.
type Format struct {
	Filename   string            `json:"filename"`
	NBStreams  int               `json:"nb_streams"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	FormatName string            `json:"format_name"`
	Tags       map[string]string `json:"tags"`
}

// probeArgs precede the input path on every invocation.
var probeArgs = []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--"}

// Inspect runs binary (ffprobe when blank) on path through runner, or through
// services.CommandExecutor when runner is nil, and decodes the report.
func Inspect(ctx context.Context, runner services.Executor, binary string, path string) (Result, error) {
	if path = strings.TrimSpace(path); path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}
	if runner == nil {
		runner = services.CommandExecutor{}
	}

	out, err := runner.Run(ctx, binary, append(append([]string(nil), probeArgs...), path)...)
	switch {
	case err != nil:
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	case out.ExitCode != 0:
		return Result{}, fmt.Errorf("ffprobe inspect: exit status %d: %s", out.ExitCode, strings.TrimSpace(out.Stderr))
	}
	return Parse([]byte(out.Stdout))
}

// Parse decodes an ffprobe JSON report, keeping a copy of the raw bytes.
func Parse(payload []byte) (Result, error) {
	r := Result{raw: append([]byte(nil), payload...)}
	if err := json.Unmarshal(payload, &r); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w: %w", services.ErrUnparseable, err)
	}
	return r, nil
}

// RawJSON returns a copy of the report as ffprobe printed it.
func (r Result) RawJSON() []byte { return append([]byte(nil), r.raw...) }

// Tag returns the container tag named key, matched case-insensitively since
// muxers disagree on "title" versus "TITLE".
func (r Result) Tag(key string) string {
	for k, v := range r.Format.Tags {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Title returns the container title tag, if any.
func (r Result) Title() string {
	return r.Tag("title")
}

func (r Result) VideoStreamCount() int    { return r.streamsOfType("video") }
func (r Result) AudioStreamCount() int    { return r.streamsOfType("audio") }
func (r Result) SubtitleStreamCount() int { return r.streamsOfType("subtitle") }

func (r Result) streamsOfType(kind string) (n int) {
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, kind) {
			n++
		}
	}
	return n
}

// DurationSeconds is the container duration; zero when ffprobe omitted it.
func (r Result) DurationSeconds() float64 {
	return number(r.Format.Duration)
}

// SizeBytes is the container size ffprobe reported; zero when unknown.
func (r Result) SizeBytes() int64 {
	return int64(number(r.Format.Size))
}

// BitRate is the overall bitrate in bits per second; zero when unknown.
func (r Result) BitRate() int64 {
	return int64(number(r.Format.BitRate))
}

// number parses ffprobe's stringly typed numeric fields. Blank, malformed,
// negative and "N/A" values all read as zero.
func number(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

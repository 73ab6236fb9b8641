package ffmpegdecoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/user/timelapse/pkg/ports"
	"gopkg.in/Knetic/govaluate.v2"
)

// DefaultFPS is used when a stream does not report a usable frame rate.
const DefaultFPS = 30.0

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
}

// ParseFrameRate evaluates an ffprobe rate such as "30/1" or "30000/1001".
// Malformed, zero or non-finite rates yield DefaultFPS.
func ParseFrameRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.Count(s, "/") > 1 {
		return DefaultFPS
	}

	expr, err := govaluate.NewEvaluableExpression(s)
	if err != nil {
		return DefaultFPS
	}
	result, err := expr.Evaluate(map[string]interface{}{})
	if err != nil {
		return DefaultFPS
	}
	fps, ok := result.(float64)
	if !ok || math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return DefaultFPS
	}
	return fps
}

// parseProbe extracts the first video stream from ffprobe JSON output.
func parseProbe(data []byte) (ports.StreamInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ports.StreamInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, s := range out.Streams {
		if s.CodecType != "" && s.CodecType != "video" {
			continue
		}
		if s.Width <= 0 || s.Height <= 0 {
			continue
		}

		rate := s.RFrameRate
		if rate == "" || rate == "0/0" {
			rate = s.AvgFrameRate
		}
		info := ports.StreamInfo{
			Width:  s.Width,
			Height: s.Height,
			FPS:    ParseFrameRate(rate),
			Codec:  s.CodecName,
		}

		seconds := parseSeconds(s.Duration)
		if seconds <= 0 {
			seconds = parseSeconds(out.Format.Duration)
		}
		if seconds > 0 {
			info.Duration = time.Duration(seconds * float64(time.Second))
		}

		if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
			info.FrameCount = n
		} else if seconds > 0 {
			info.FrameCount = int(math.Round(seconds * info.FPS))
		}
		return info, nil
	}

	return ports.StreamInfo{}, ErrNoVideoStream
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (d *Decoder) ffprobe(ctx context.Context, path string) (ports.StreamInfo, error) {
	ffprobePath, err := d.locator.FFprobe()
	if err != nil {
		return ports.StreamInfo{}, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_type,codec_name,width,height,r_frame_rate,avg_frame_rate,nb_frames,duration:format=duration",
		"-of", "json",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	data, err := cmd.Output()
	if err != nil {
		return ports.StreamInfo{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	return parseProbe(data)
}

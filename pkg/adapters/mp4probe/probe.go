// Package mp4probe reads video stream metadata from ISO-BMFF containers
// (mp4, m4v, mov) without decoding any samples.
package mp4probe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/timelapse/pkg/ports"
)

// ErrNoVideoTrack is returned when a container has no usable video track.
var ErrNoVideoTrack = errors.New("mp4probe: no video track found")

// Supports reports whether path has an ISO-BMFF extension.
func Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v", ".mov":
		return true
	}
	return false
}

// ProbeFile reads stream information from the first video track of path.
func ProbeFile(path string) (ports.StreamInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.StreamInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Probe(f)
}

// Probe reads stream information from an io.ReadSeeker and rewinds it.
// Sample data in mdat boxes is skipped, not read.
func Probe(reader io.ReadSeeker) (ports.StreamInfo, error) {
	mp4File, err := mp4.DecodeFile(reader, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.StreamInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return ports.StreamInfo{}, fmt.Errorf("seek: %w", err)
	}

	return probeFile(mp4File)
}

func probeFile(mp4File *mp4.File) (ports.StreamInfo, error) {
	if mp4File.IsFragmented() {
		if mp4File.Init == nil || mp4File.Init.Moov == nil {
			return ports.StreamInfo{}, ErrNoVideoTrack
		}
		for _, trak := range mp4File.Init.Moov.Traks {
			info, ok := probeTrak(trak)
			if !ok {
				continue
			}
			countFragmented(mp4File, trak, &info)
			return info, nil
		}
		return ports.StreamInfo{}, ErrNoVideoTrack
	}

	if mp4File.Moov != nil {
		for _, trak := range mp4File.Moov.Traks {
			if info, ok := probeTrak(trak); ok {
				return info, nil
			}
		}
	}

	return ports.StreamInfo{}, ErrNoVideoTrack
}

// probeTrak extracts what the moov describes for a video track.
// Sample counts come from stsz and timing from stts.
func probeTrak(trak *mp4.TrakBox) (ports.StreamInfo, bool) {
	if trak == nil || trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return ports.StreamInfo{}, false
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return ports.StreamInfo{}, false
	}
	stbl := trak.Mdia.Minf.Stbl

	var info ports.StreamInfo
	for _, child := range stbl.Stsd.Children {
		if entry, ok := child.(*mp4.VisualSampleEntryBox); ok {
			info.Codec = entry.Type()
			info.Width = int(entry.Width)
			info.Height = int(entry.Height)
			break
		}
	}
	if info.Codec == "" {
		return ports.StreamInfo{}, false
	}
	if (info.Width == 0 || info.Height == 0) && trak.Tkhd != nil {
		info.Width = int(uint32(trak.Tkhd.Width) >> 16)
		info.Height = int(uint32(trak.Tkhd.Height) >> 16)
	}

	var timescale uint32
	if trak.Mdia.Mdhd != nil {
		timescale = trak.Mdia.Mdhd.Timescale
	}

	if stbl.Stsz != nil {
		info.FrameCount = int(stbl.Stsz.SampleNumber)
	}

	var ticks uint64
	if stbl.Stts != nil {
		for i, count := range stbl.Stts.SampleCount {
			if i >= len(stbl.Stts.SampleTimeDelta) {
				break
			}
			ticks += uint64(count) * uint64(stbl.Stts.SampleTimeDelta[i])
		}
	}
	if ticks == 0 && trak.Mdia.Mdhd != nil {
		ticks = trak.Mdia.Mdhd.Duration
	}

	applyTiming(&info, timescale, ticks)
	return info, true
}

// countFragmented fills frame count and timing from the movie fragments.
func countFragmented(mp4File *mp4.File, trak *mp4.TrakBox, info *ports.StreamInfo) {
	trackID := uint32(0)
	if trak.Tkhd != nil {
		trackID = trak.Tkhd.TrackID
	}

	var trex *mp4.TrexBox
	if mp4File.Init.Moov.Mvex != nil {
		for _, t := range mp4File.Init.Moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	frames := 0
	var ticks uint64
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				defaultDur := uint32(0)
				switch {
				case traf.Tfhd.HasDefaultSampleDuration():
					defaultDur = traf.Tfhd.DefaultSampleDuration
				case trex != nil:
					defaultDur = trex.DefaultSampleDuration
				}
				for _, trun := range traf.Truns {
					frames += int(trun.SampleCount())
					ticks += trun.Duration(defaultDur)
				}
			}
		}
	}

	if frames > 0 {
		info.FrameCount = frames
	}
	var timescale uint32
	if trak.Mdia.Mdhd != nil {
		timescale = trak.Mdia.Mdhd.Timescale
	}
	applyTiming(info, timescale, ticks)
}

func applyTiming(info *ports.StreamInfo, timescale uint32, ticks uint64) {
	if timescale == 0 || ticks == 0 {
		return
	}
	ts := uint64(timescale)
	info.Duration = time.Duration(ticks/ts)*time.Second + time.Duration(ticks%ts*uint64(time.Second)/ts)
	if info.FrameCount > 0 {
		info.FPS = float64(info.FrameCount) * float64(timescale) / float64(ticks)
	}
}

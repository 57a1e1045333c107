package media

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// parseProbe extracts clip metadata from ffprobe's JSON output. Duration
// comes from the container, falling back to the video stream.
func parseProbe(raw string) (ClipInfo, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return ClipInfo{}, fmt.Errorf("parse probe output: %w", err)
	}

	var info ClipInfo
	info.Duration, _ = strconv.ParseFloat(out.Format.Duration, 64)
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if info.Width == 0 {
				info.Width = s.Width
				info.Height = s.Height
				if info.Duration == 0 {
					info.Duration, _ = strconv.ParseFloat(s.Duration, 64)
				}
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if info.Width == 0 {
		return ClipInfo{}, fmt.Errorf("parse probe output: no video stream")
	}
	return info, nil
}

// clipDuration caps the clip at max seconds. Unknown source durations use
// the cap directly.
func clipDuration(probed, max float64) float64 {
	if probed <= 0 || probed > max {
		return max
	}
	return probed
}

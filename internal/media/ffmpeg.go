package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpeg runs probes and composites through the ffmpeg binaries on PATH.
type FFmpeg struct {
	logger *slog.Logger
}

func NewFFmpeg(logger *slog.Logger) *FFmpeg {
	return &FFmpeg{logger: logger}
}

func (f *FFmpeg) Probe(ctx context.Context, path string) (ClipInfo, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return ClipInfo{}, &EncodingError{Stage: "probe", Err: err}
	}
	return parseProbe(raw)
}

// Composite stamps the overlay PNG over the base clip, scaled to the target
// frame and capped at MaxDuration. With no base clip a solid color source
// stands in, which always yields a silent output.
func (f *FFmpeg) Composite(ctx context.Context, req CompositeRequest) error {
	duration := req.MaxDuration
	hasAudio := false

	var base *ffmpeg.Stream
	if req.BasePath == "" {
		f.logger.Info("no base clip, using solid background", "color", req.Background)
		base = ffmpeg.Input(colorSource(req), ffmpeg.KwArgs{"f": "lavfi"})
	} else {
		info, err := f.Probe(ctx, req.BasePath)
		if err != nil {
			return err
		}
		duration = clipDuration(info.Duration, req.MaxDuration)
		hasAudio = info.HasAudio
		base = ffmpeg.Input(req.BasePath)
	}

	video := base.Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", req.Width, req.Height)}).
		Filter("setsar", ffmpeg.Args{"1"})
	withText := ffmpeg.Filter(
		[]*ffmpeg.Stream{video, ffmpeg.Input(req.OverlayPath)},
		"overlay",
		ffmpeg.Args{"0:0"},
	)

	streams := []*ffmpeg.Stream{withText}
	if hasAudio {
		streams = append(streams, ffmpeg.Input(req.BasePath).Audio())
	}

	f.logger.Debug("compositing",
		"output", req.OutputPath,
		"duration", duration,
		"audio", hasAudio)

	err := ffmpeg.Output(streams, req.OutputPath, outputArgs(req, duration, hasAudio)).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return &EncodingError{Stage: "composite", Err: err}
	}
	return nil
}

// colorSource builds the lavfi description for the placeholder background.
func colorSource(req CompositeRequest) string {
	color := strings.TrimPrefix(req.Background, "#")
	return fmt.Sprintf("color=c=0x%s:s=%dx%d:r=%d:d=%.2f",
		color, req.Width, req.Height, req.FPS, req.MaxDuration)
}

func outputArgs(req CompositeRequest, duration float64, hasAudio bool) ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{
		"c:v":     req.VideoCodec,
		"t":       fmt.Sprintf("%.2f", duration),
		"r":       req.FPS,
		"pix_fmt": "yuv420p",
	}
	if hasAudio {
		args["c:a"] = req.AudioCodec
		args["shortest"] = ""
	}
	return args
}

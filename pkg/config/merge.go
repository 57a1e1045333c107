package config

// Merge layers override on top of base: sections merge field by field, and a
// non-zero scalar in the override replaces the base value. Booleans always
// take the override value, so target toggles behave like explicit switches
// rather than optional fields.
func Merge(base, override Config) Config {
	out := base

	out.Paths = mergePaths(base.Paths, override.Paths)
	out.Video = mergeVideo(base.Video, override.Video)
	out.Overlay = mergeOverlay(base.Overlay, override.Overlay)
	out.Publish = mergePublish(base.Publish, override.Publish)
	out.Storage = mergeStorage(base.Storage, override.Storage)

	mergeString(&out.FacebookPageID, override.FacebookPageID)
	mergeString(&out.FacebookAccessToken, override.FacebookAccessToken)
	mergeString(&out.TikTokClientKey, override.TikTokClientKey)
	mergeString(&out.TikTokClientSecret, override.TikTokClientSecret)
	mergeString(&out.TikTokRedirectURI, override.TikTokRedirectURI)
	mergeString(&out.YouTubeClientID, override.YouTubeClientID)
	mergeString(&out.YouTubeClientSecret, override.YouTubeClientSecret)
	mergeString(&out.YouTubeRedirectURI, override.YouTubeRedirectURI)
	mergeString(&out.GCPProject, override.GCPProject)

	return out
}

func mergePaths(base, override PathsConfig) PathsConfig {
	mergeString(&base.QuotesFile, override.QuotesFile)
	mergeString(&base.BaseVideo, override.BaseVideo)
	mergeString(&base.OutputVideo, override.OutputVideo)
	mergeString(&base.TokenDir, override.TokenDir)
	return base
}

func mergeVideo(base, override VideoConfig) VideoConfig {
	mergeInt(&base.MaxDurationSeconds, override.MaxDurationSeconds)
	mergeInt(&base.Width, override.Width)
	mergeInt(&base.Height, override.Height)
	mergeInt(&base.FPS, override.FPS)
	mergeString(&base.PlaceholderColor, override.PlaceholderColor)
	mergeString(&base.VideoCodec, override.VideoCodec)
	mergeString(&base.AudioCodec, override.AudioCodec)
	return base
}

func mergeOverlay(base, override OverlayConfig) OverlayConfig {
	mergeString(&base.FontPath, override.FontPath)
	mergeInt(&base.FontSize, override.FontSize)
	mergeInt(&base.MinFontSize, override.MinFontSize)
	mergeString(&base.Color, override.Color)
	mergeString(&base.ShadowColor, override.ShadowColor)
	mergeInt(&base.ShadowOffset, override.ShadowOffset)
	mergeFloat(&base.MaxWidthPct, override.MaxWidthPct)
	mergeFloat(&base.MaxHeightPct, override.MaxHeightPct)
	mergeInt(&base.LineSpacing, override.LineSpacing)
	mergeString(&base.Align, override.Align)
	mergeString(&base.PositionMode, override.PositionMode)
	mergeString(&base.Preset, override.Preset)
	mergeFloat(&base.XPct, override.XPct)
	mergeFloat(&base.YPct, override.YPct)
	return base
}

func mergePublish(base, override PublishConfig) PublishConfig {
	base.Targets = override.Targets
	mergeString(&base.ScheduleTime, override.ScheduleTime)
	return base
}

func mergeStorage(base, override StorageConfig) StorageConfig {
	base.GCSEnabled = override.GCSEnabled
	mergeString(&base.GCSBucket, override.GCSBucket)
	mergeString(&base.GCSPrefix, override.GCSPrefix)
	mergeString(&base.CacheDir, override.CacheDir)
	return base
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func mergeFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

package config

import "subfit/internal/retime"

const (
	defaultStateDir             = "~/.local/share/subfit"
	defaultLogDir               = "~/.local/share/subfit/logs"
	defaultWorkDir              = "~/.cache/subfit/work"
	defaultMaxWidth             = 40
	defaultTimingPolicy         = string(retime.Truncate)
	defaultTranscriptionBaseURL = "https://api.openai.com/v1/audio/transcriptions"
	defaultTranscriptionModel   = "whisper-1"
	defaultTranscriptionTimeout = 300
	defaultTranscriptionRetries = 3
	defaultFFmpegBinary         = "ffmpeg"
	defaultAudioCodec           = "mp3"
	defaultAudioBitrate         = "192k"
	defaultBurnSuffix           = ".subtitled"
	defaultHistoryEnabled       = true
	defaultHistoryKeepRuns      = 500
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
	transcriptionAPIKeyEnv      = "OPENAI_API_KEY"
	defaultConfigRelativePath   = "~/.config/subfit/config.toml"
	projectConfigFileName       = "subfit.toml"
	historyDatabaseFileName     = "history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
			WorkDir:  defaultWorkDir,
		},
		Resegment: Resegment{
			MaxWidth:     defaultMaxWidth,
			TimingPolicy: defaultTimingPolicy,
		},
		Transcription: Transcription{
			BaseURL:        defaultTranscriptionBaseURL,
			Model:          defaultTranscriptionModel,
			TimeoutSeconds: defaultTranscriptionTimeout,
			MaxRetries:     defaultTranscriptionRetries,
		},
		Media: Media{
			FFmpegBinary: defaultFFmpegBinary,
			AudioCodec:   defaultAudioCodec,
			AudioBitrate: defaultAudioBitrate,
			BurnSuffix:   defaultBurnSuffix,
		},
		History: History{
			Enabled:  defaultHistoryEnabled,
			KeepRuns: defaultHistoryKeepRuns,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

package config

const (
	defaultConfigPath    = "~/.config/captiongen/config.toml"
	projectConfigName    = "captiongen.toml"
	defaultStateDir      = "~/.local/share/captiongen"
	defaultLogDir        = "~/.local/share/captiongen/logs"
	defaultCachePath     = "~/.cache/captiongen/transcripts.db"
	defaultEngine        = EngineStableTS
	defaultModel         = "base"
	defaultDevice        = DeviceCPU
	defaultLogFormat     = "console"
	defaultLogLevel      = "warn"
	defaultRetentionDays = 30
)

// Engine identifiers accepted in transcription.engine.
const (
	EngineStableTS = "stable-ts"
	EngineWhisperX = "whisperx"
)

// Device identifiers accepted in transcription.device.
const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// Caption formats accepted in output.formats, in the order they are written.
const (
	FormatSRT = "srt"
	FormatVTT = "vtt"
	FormatTSV = "tsv"
)

// DefaultFormats lists every supported caption format in write order.
func DefaultFormats() []string {
	return []string{FormatSRT, FormatVTT, FormatTSV}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Transcription: Transcription{
			Engine: defaultEngine,
			Model:  defaultModel,
			FP16:   false,
			Device: defaultDevice,
		},
		Output: Output{
			Formats: DefaultFormats(),
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Cache: Cache{
			Enabled: false,
			Path:    defaultCachePath,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}

package config

const (
	defaultDataDir             = "~/.local/share/verity"
	defaultScratchDir          = "~/.local/share/verity/scratch"
	defaultLogDir              = "~/.local/share/verity/logs"
	defaultSpeechBaseURL       = "https://speech.googleapis.com/v1"
	defaultSpeechLanguage      = "en-US"
	defaultSpeechTimeout       = 120
	defaultVerdictBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	defaultVerdictModel        = "gemini-2.0-flash"
	defaultVerdictTimeout      = 90
	defaultVerdictMaxSentences = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			ScratchDir: defaultScratchDir,
			LogDir:     defaultLogDir,
		},
		Speech: Speech{
			BaseURL:        defaultSpeechBaseURL,
			Language:       defaultSpeechLanguage,
			TimeoutSeconds: defaultSpeechTimeout,
		},
		Verdict: Verdict{
			BaseURL:        defaultVerdictBaseURL,
			Model:          defaultVerdictModel,
			TimeoutSeconds: defaultVerdictTimeout,
			MaxSentences:   defaultVerdictMaxSentences,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

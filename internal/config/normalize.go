package config

// Normalize fills in defaults for optional fields. It is allowed to mutate
// the configuration and MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Scanner

	if s.Bridge.Baud == 0 {
		s.Bridge.Baud = 115200
	}
	if s.Capture.Tempo == 0 {
		s.Capture.Tempo = 32000
	}
	if s.Capture.NbRead == 0 {
		s.Capture.NbRead = 1000
	}
	if s.Capture.TimeoutMs == 0 {
		s.Capture.TimeoutMs = 5000
	}
	if s.Channels.StopHz == 0 {
		// single-channel capture
		s.Channels.StopHz = s.Channels.StartHz
	}
	if s.Channels.StepHz == 0 {
		s.Channels.StepHz = 1
	}
}

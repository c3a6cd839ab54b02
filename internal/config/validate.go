package config

import "fmt"

// maxChannels bounds one sweep; a step that produces more than this is
// almost certainly a typo in the config.
const maxChannels = 2048

// Validate checks the configuration for structural errors. It does not
// mutate it; defaults are applied later by Normalize.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	s := &cfg.Scanner

	if s.Bridge.Port == "" {
		return fmt.Errorf("bridge: port is required")
	}
	if s.Bridge.Baud < 0 {
		return fmt.Errorf("bridge: baud must not be negative")
	}
	if s.Bridge.GPIOChip != "" && s.Bridge.BusyPin < 0 {
		return fmt.Errorf("bridge: busy_pin must not be negative")
	}

	if s.Capture.TimeoutMs < 0 {
		return fmt.Errorf("capture: timeout_ms must not be negative")
	}

	c := &s.Channels
	if c.StartHz == 0 {
		return fmt.Errorf("channels: start_hz is required")
	}
	// StopHz may be left out for a single-channel capture; Normalize fills
	// it with StartHz later
	if c.StopHz != 0 && c.StopHz < c.StartHz {
		return fmt.Errorf("channels: stop_hz %d is below start_hz %d", c.StopHz, c.StartHz)
	}
	if c.StopHz > c.StartHz {
		if c.StepHz == 0 {
			return fmt.Errorf("channels: step_hz is required for a sweep")
		}
		n := (c.StopHz-c.StartHz)/c.StepHz + 1
		if n > maxChannels {
			return fmt.Errorf("channels: sweep of %d channels exceeds the limit of %d", n, maxChannels)
		}
	}

	return nil
}

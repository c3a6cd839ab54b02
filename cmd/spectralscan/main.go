package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bmarkulin/go-lgw-fpga/internal/config"
	"github.com/bmarkulin/go-lgw-fpga/pkg/fpga"
	"github.com/bmarkulin/go-lgw-fpga/pkg/scan"
	"github.com/bmarkulin/go-lgw-fpga/pkg/serialbridge"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: spectralscan <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	s := cfg.Scanner

	// --------------------
	// Bring up the register layer
	// --------------------

	bridge, err := serialbridge.New(serialbridge.Config{
		Port:     s.Bridge.Port,
		Baud:     s.Bridge.Baud,
		GPIOChip: s.Bridge.GPIOChip,
		BusyPin:  s.Bridge.BusyPin,
	})
	if err != nil {
		log.Fatalf("bridge build failed: %v", err)
	}

	dev := fpga.NewDevice(bridge)
	if err := dev.Connect(); err != nil {
		log.Fatalf("connect failed: %v", err)
	}
	defer func() {
		if err := dev.Disconnect(); err != nil {
			log.Printf("disconnect failed: %v", err)
		}
	}()

	scanner, err := scan.New(dev, scan.Config{
		Tempo:   s.Capture.Tempo,
		NbRead:  s.Capture.NbRead,
		Timeout: time.Duration(s.Capture.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("scanner build failed: %v", err)
	}
	if err := scanner.Setup(); err != nil {
		log.Fatalf("capture setup failed: %v", err)
	}

	// --------------------
	// Sweep the channels
	// --------------------

	out := os.Stdout
	if s.Output != "" {
		out, err = os.Create(s.Output)
		if err != nil {
			log.Fatalf("failed to create output file: %v", err)
		}
		defer out.Close()
	}

	for freq := s.Channels.StartHz; freq <= s.Channels.StopHz; freq += s.Channels.StepHz {
		histo, err := scanner.ScanChannel(freq)
		if err != nil {
			log.Fatalf("capture at %d Hz failed: %v", freq, err)
		}

		fmt.Fprintf(out, "%d", freq)
		for _, bin := range histo {
			fmt.Fprintf(out, ",%d", bin)
		}
		fmt.Fprintln(out)
		log.Printf("captured %d Hz", freq)
	}
}

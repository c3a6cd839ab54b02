// Package fpga handles the register file of a LoRa spectral scan FPGA.
// Registers are addressed by name, multi-byte registers are assembled and
// split automatically, and sub-byte fields go through read-modify-write so
// sibling bits stay untouched.
//
// # Basic usage
//
//	bridge, _ := serialbridge.New(serialbridge.Config{Port: "/dev/ttyUSB0"})
//	dev := fpga.NewDevice(bridge)
//	if err := dev.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Disconnect()
//
//	tempo, err := dev.Read(fpga.RegHistoTempo)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The package does not implement the byte-level link itself; any
// hal.Transport works, including fakes for testing. Values written to a
// field wider than the field's bit length are truncated by masking, which
// matches the device behavior and is relied upon by callers that mask
// oversized inputs intentionally.
package fpga

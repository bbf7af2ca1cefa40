package server

import "arenacore/internal/neterr"

// MaxClients is the hard ceiling on simultaneous client slots.
const MaxClients = 16

// TickRate is the fixed authoritative simulation rate.
const TickRate = 128.0

// Config is the caller-supplied server configuration, validated in
// NewSession.
type Config struct {
	// Port is the UDP port to bind; 0 means loopback-only (no socket).
	Port int
	// MaxClientSlots bounds the client-slot array, <= MaxClients.
	MaxClientSlots uint32
	// TickRateHz overrides TickRate when non-zero (testing hook).
	TickRateHz float64
}

func (c Config) validate() error {
	if c.MaxClientSlots == 0 || c.MaxClientSlots > MaxClients {
		return neterr.New(neterr.InvalidParam, "server.Config.MaxClientSlots")
	}
	if c.TickRateHz < 0 {
		return neterr.New(neterr.InvalidParam, "server.Config.TickRateHz")
	}
	return nil
}

func (c Config) tickRate() float64 {
	if c.TickRateHz == 0 {
		return TickRate
	}
	return c.TickRateHz
}

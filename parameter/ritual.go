package parameter

import "time"

// Ritual holds the gesture protocol tunables. Zero values are not usable;
// start from DefaultRitual and override.
type Ritual struct {
	// Pinch thresholds. Charging starts above ChargeThreshold; dropping
	// below ReleaseThreshold while charging attempts a release.
	PinchChargeThreshold  float64
	PinchReleaseThreshold float64

	// Energy accumulation while pinching, decay otherwise (per second).
	ChargeRate  float64
	ChargeDecay float64
	IdleDecay   float64

	// Release gating: both must hold or the attempt silently falls back
	// to Ready and the accumulated energy is discarded.
	MinReleaseEnergy float64
	ReleaseCooldown  time.Duration

	// Animation durations, seconds.
	ReleaseDuration float64
	ReceiveDuration float64

	// Sync moment: local release and remote receive within this window
	// trigger the lock, held for SyncHold seconds before decaying.
	SyncWindow time.Duration
	SyncHold   float64

	// Scar lifetime for events recorded by this machine, seconds.
	ScarMaxAge float64

	// MaxDt clamps a single tick's delta to survive stalls.
	MaxDt float64
}

// DefaultRitual returns the tuning used by the installation.
func DefaultRitual() Ritual {
	return Ritual{
		PinchChargeThreshold:  0.65,
		PinchReleaseThreshold: 0.40,
		ChargeRate:            0.4,
		ChargeDecay:           0.6,
		IdleDecay:             1.8,
		MinReleaseEnergy:      0.6,
		ReleaseCooldown:       3 * time.Second,
		ReleaseDuration:       1.2,
		ReceiveDuration:       1.6,
		SyncWindow:            30 * time.Second,
		SyncHold:              2.5,
		ScarMaxAge:            45,
		MaxDt:                 0.1,
	}
}

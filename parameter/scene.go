package parameter

// Scene geometry tuning. These shape the distance field composition and are
// shared between the composer and the shading glow layers.
const (
	// Domain warp
	WarpFrequency  = 2.2  // spatial frequency of the sine wobble
	WarpSineAmp    = 0.16 // wobble displacement at WarpAmount=1
	WarpNoiseAmp   = 0.10 // simplex displacement at WarpAmount=1
	WarpNoiseFreq  = 1.4  // spatial frequency of the simplex layer
	WarpNoiseDrift = 0.35 // temporal drift of the simplex layer

	// Attention lean
	LeanFactor = 0.55

	// Breathing
	BreatheAmplitude = 0.35

	// Base shape blending
	ShapeBlendK = 0.45

	// Core cavity
	CoreCavityMax    = 0.55
	CoreCavityBlendK = 0.22

	// Shockwave ring
	ShockThickness = 0.08
	ShockMaxRadius = 2.4
	ShockBlendK    = 0.12

	// Sync-lock canonical torus
	SyncTorusMajor = 0.9
	SyncTorusMinor = 0.32

	// Scars
	ScarShellRadius = 0.82
	ScarCavityBase  = 0.07
	ScarCavityScale = 0.28
	ScarBlendK      = 0.12

	// Remote core approach
	RemoteApproachRadius = 2.4
	RemoteCoreRadiusBase = 0.12
	RemoteCoreRadiusMax  = 0.30
	RemoteBlendK         = 0.30

	// FieldEpsilon gates the optional field modifiers; contributions below
	// this are skipped entirely.
	FieldEpsilon = 1e-3
)

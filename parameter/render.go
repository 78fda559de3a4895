package parameter

// Display geometry. Matches the 32x32 HUB75 panel the totem drives.
const (
	FrameWidth  = 32
	FrameHeight = 32
)

// Raymarcher tuning.
const (
	MarchMaxSteps   = 48
	SurfaceEpsilon  = 0.02
	MarchMaxDist    = 6.0
	NormalEpsilon   = 0.01
	CameraDistance  = 3.1
	CameraFOVScale  = 1.25 // ray z component; larger means narrower FOV
	CameraOrbitRate = 0.6  // radians/sec at RotSpeed=1
)

// Shading tuning.
const (
	AmbientLevel     = 0.16
	DiffuseLevel     = 0.78
	SpecularLevel    = 0.45
	SpecularPower    = 18.0
	HueDriftScale    = 0.06 // positional/time hue modulation
	SaturationBase   = 0.45
	SaturationFocus  = 0.45 // extra saturation at CoreFocus=1
	CoreGlowRadius   = 0.9
	RemoteGlowRadius = 0.7
	ShockGlowWidth   = 0.22
	ScarGlowRadius   = 0.5
	BackgroundLevel  = 0.05 // top-of-frame background brightness
)

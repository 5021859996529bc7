package physics

const (
	DefaultGravity              = -9.81
	DefaultContactSlop          = 0.01
	DefaultLinearDamping        = 0.01
	DefaultAngularDamping       = 0.05
	DefaultRestitutionThreshold = 1.0

	SphereInertiaFactor = 2.0 / 5.0
	MinimumDirection    = 1e-9
	RayParallelEpsilon  = 1e-12
)

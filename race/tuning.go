package race

// Engine units are pixels and seconds. The velocity figures below are pixels
// per legacy 60Hz step, the unit clients see in MarbleState.Vx/Vy.
const (
	stepsPerSecond = 60.0
	// countdown remainders below this many milliseconds are float noise
	clockEpsilon = 1e-6

	// gravity scale 0.0004 gives 400 px/s^2
	gravityUnit = 1e6
	// velocity kept after one second of free flight
	airDamping = 0.74
	substeps   = 2

	marbleDensity    = 0.002
	marbleElasticity = 0.6
	marbleFriction   = 0.2

	// cp multiplies the two shapes' coefficients; against a marble these
	// give restitution 0.4 and friction 0.03.
	wallElasticity = 0.667
	wallFriction   = 0.15
	wallThickness  = 10
	wallOverlap    = 2

	spawnMargin   = 5
	spawnColGap   = 8
	spawnSpacing  = 10
	spawnRowGap   = 6
	spawnVelocity = 0.3

	stuckSpeed    = 2
	maxStuckForce = 8
)

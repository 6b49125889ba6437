package geometry

// Fixed dimensions of the characterization setup fixtures, in mm. These are
// measured properties of the hardware, not derived quantities.
const (
	// amHS1RadialOffsetInMM is the empirical radial offset of the am_HS1
	// collimator fixture. The physical origin of the value is only
	// approximately known.
	amHS1RadialOffsetInMM = 66.0

	// amCollimatorHeightInMM is the full height of the am_HS1 collimator.
	amCollimatorHeightInMM = 30.0

	// sourceHolderTopPlateHeightInMM is the thickness of the plexiglass
	// source holder top plate.
	sourceHolderTopPlateHeightInMM = 5.0

	// th_HS2 copper can stack.
	thCopperCanHeightInMM       = 40.0
	thCopperCanBaseHeightInMM   = 3.0
	thCopperCanBottomHeightInMM = 2.0
	thPlateHeightInMM           = 2.0

	// Lead castle and its support.
	bottomPlateHeightInMM = 20.0
	castleBaseHeightInMM  = 40.0

	// Containment volumes.
	worldSideInMM = 10000.0
	labSideInMM   = 6000.0
)

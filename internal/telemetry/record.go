package telemetry

// Record is one control cycle's telemetry snapshot. The producer fills
// one in per cycle and passes it by value; it is never mutated after
// submission.
//
// Field order matches the log schema. Changing fields here requires the
// matching change in schema.go.
type Record struct {
	// Cycle bookkeeping
	LoopIndex  uint64 // monotonically increasing cycle counter
	LastStepUs uint64 // duration of the previous cycle in microseconds

	// Attitude estimate
	Altitude float64
	Roll     float64
	Pitch    float64
	Yaw      float64

	// Controller outputs (normalized)
	UX     float64
	UY     float64
	UZ     float64
	URoll  float64
	UPitch float64
	UYaw   float64

	// Actuator commands
	Mot1 float64
	Mot2 float64
	Mot3 float64
	Mot4 float64
	Mot5 float64
	Mot6 float64

	// Battery voltage
	VBatt float64
}

package proc

// Config carries the scheduling parameters. The zero value of any field
// falls back to its DefaultConfig value; the aging threshold and RR cap
// are deliberately tunable.
type Config struct {
	// TimeSlice is the base number of quanta a queue level is served for.
	TimeSlice int

	// QueueWeights scale TimeSlice per queue level; the higher-priority
	// queue gets more quanta before the scheduler rotates levels.
	QueueWeights [NQueue]int

	// AgingThreshold is the number of ticks a RUNNABLE process may wait
	// before being promoted one queue level.
	AgingThreshold int

	// RRCap is the per-process cap on consecutive round-robin quanta.
	RRCap int

	// Seed primes the SJF tie-break generator.
	Seed uint64
}

// DefaultConfig returns the stock parameters.
func DefaultConfig() Config {
	return Config{
		TimeSlice:      10,
		QueueWeights:   [NQueue]int{3, 2, 1},
		AgingThreshold: 800,
		RRCap:          5,
		Seed:           1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TimeSlice <= 0 {
		c.TimeSlice = d.TimeSlice
	}
	if c.QueueWeights == ([NQueue]int{}) {
		c.QueueWeights = d.QueueWeights
	}
	if c.AgingThreshold <= 0 {
		c.AgingThreshold = d.AgingThreshold
	}
	if c.RRCap <= 0 {
		c.RRCap = d.RRCap
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
	return c
}

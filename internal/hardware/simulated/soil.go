package simulated

import (
	"math/rand/v2"
	"sync"
)

const (
	defaultDryStep = 0.5
	defaultWetStep = 6.0
	defaultJitter  = 3
	// margin lets the model wander slightly past the calibration points.
	margin = 20.0
)

// Soil is a one-dimensional moisture model expressed in raw ADC units.
// Lower raw values mean wetter soil.
type Soil struct {
	mu sync.Mutex

	raw     float64
	dryRaw  float64
	wetRaw  float64
	pumping bool

	dryStep float64
	wetStep float64
	jitter  int
	rng     *rand.Rand
}

// NewSoil creates a model starting at startRaw between the calibration points.
func NewSoil(dryRaw, wetRaw, startRaw int) *Soil {
	return &Soil{
		raw:     float64(startRaw),
		dryRaw:  float64(dryRaw),
		wetRaw:  float64(wetRaw),
		dryStep: defaultDryStep,
		wetStep: defaultWetStep,
		jitter:  defaultJitter,
		//nolint:gosec // Simulation noise, not security.
		rng: rand.New(rand.NewPCG(uint64(dryRaw), uint64(wetRaw))),
	}
}

// SetJitter changes the amplitude of the per-conversion noise. Zero disables it.
func (s *Soil) SetJitter(jitter int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jitter = max(jitter, 0)
}

// Raw returns the current noiseless raw value.
func (s *Soil) Raw() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int(s.raw)
}

// Pumping reports whether the pump is running.
func (s *Soil) Pumping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pumping
}

func (s *Soil) setPumping(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pumping = on
}

// step advances the model by one sampling cycle.
func (s *Soil) step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Dry and wet raw values may be in either order depending on the probe.
	direction := 1.0
	if s.dryRaw < s.wetRaw {
		direction = -1.0
	}

	if s.pumping {
		s.raw -= direction * s.wetStep
	} else {
		s.raw += direction * s.dryStep
	}

	lo, hi := min(s.dryRaw, s.wetRaw)-margin, max(s.dryRaw, s.wetRaw)+margin
	s.raw = min(max(s.raw, lo), hi)
}

// convert returns one noisy conversion of the current value.
func (s *Soil) convert() int16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	noise := 0
	if s.jitter > 0 {
		noise = s.rng.IntN(2*s.jitter+1) - s.jitter
	}

	return int16(min(max(int(s.raw)+noise, 0), 1023))
}

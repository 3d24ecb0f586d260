package source

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"math/rand/v2"
	"time"
)

// Phase is one segment of the simulated activity cycle.
type Phase struct {
	Seconds   int
	Motion    int
	Magnitude float64
}

// DefaultPhases cycles through sitting, fidgeting and walking.
func DefaultPhases() []Phase {
	return []Phase{
		{Seconds: 60, Motion: 0, Magnitude: 0.008},
		{Seconds: 20, Motion: 0, Magnitude: 0.028},
		{Seconds: 15, Motion: 1, Magnitude: 0.090},
	}
}

// SimulatedSource generates synthetic frames at a fixed rate.
type SimulatedSource struct {
	RateHz int
	Phases []Phase
	Start  time.Time
	Seed   uint64
}

func NewSimulatedSource(rateHz int) *SimulatedSource {
	if rateHz <= 0 {
		rateHz = 10
	}
	return &SimulatedSource{
		RateHz: rateHz,
		Phases: DefaultPhases(),
		Start:  time.Now(),
		Seed:   uint64(time.Now().UnixNano()),
	}
}

func (s *SimulatedSource) Name() string {
	return "simulated"
}

func (s *SimulatedSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	go s.run(ctx, pw)
	return pr, nil
}

type simFrame struct {
	TS  string  `json:"ts"`
	PIR int     `json:"pir"`
	ACC float64 `json:"acc"`
}

func (s *SimulatedSource) run(ctx context.Context, pw *io.PipeWriter) {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	interval := time.Second / time.Duration(s.RateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	clock := s.Start
	enc := json.NewEncoder(pw)
	var step int
	for {
		select {
		case <-ctx.Done():
			_ = pw.CloseWithError(ctx.Err())
			return
		case <-ticker.C:
			phase := s.phaseAt(step / s.RateHz)
			acc := phase.Magnitude * (1 + 0.2*math.Sin(float64(step)/7)) * (0.9 + 0.2*rng.Float64())
			frame := simFrame{
				TS:  clock.Format("15:04:05"),
				PIR: phase.Motion,
				ACC: math.Round(acc*1e4) / 1e4,
			}
			if err := enc.Encode(frame); err != nil {
				return
			}
			step++
			clock = clock.Add(interval)
		}
	}
}

func (s *SimulatedSource) phaseAt(second int) Phase {
	if len(s.Phases) == 0 {
		return Phase{}
	}
	total := 0
	for _, p := range s.Phases {
		total += p.Seconds
	}
	if total <= 0 {
		return s.Phases[0]
	}
	offset := second % total
	for _, p := range s.Phases {
		if offset < p.Seconds {
			return p
		}
		offset -= p.Seconds
	}
	return s.Phases[len(s.Phases)-1]
}

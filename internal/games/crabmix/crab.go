package crabmix

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/crabmix/internal/config"
	"github.com/vovakirdan/crabmix/internal/pigment"
)

// ErrNoCravings is returned when a crab has nothing to crave.
var ErrNoCravings = errors.New("crabmix: crab has no cravings")

// Mood is how the crab feels about its last meal.
type Mood uint8

const (
	MoodHungry Mood = iota
	MoodContent
	MoodDelighted
)

// String returns the string representation of a mood.
func (m Mood) String() string {
	switch m {
	case MoodHungry:
		return "hungry"
	case MoodContent:
		return "content"
	case MoodDelighted:
		return "delighted"
	default:
		return "unknown"
	}
}

// Feeding is the crab's verdict on one meal.
type Feeding struct {
	Craving  pigment.Color
	Fed      pigment.Color
	Distance float64
	Points   int
	Mood     Mood
}

// Crab craves a color and scores what it is fed.
type Crab struct {
	cfg        config.CrabConfig
	difficulty *config.DifficultyManager
	cravings   []pigment.Color
	rng        *rand.Rand

	craving  pigment.Color
	fixed    bool // Craving pinned by a blueprint
	mood     Mood
	score    int
	feedings int
}

// NewCrab creates a crab from config. Cravings that fail to parse are errors.
func NewCrab(cfg config.CrabConfig, difficulty *config.DifficultyManager, seed int64) (*Crab, error) {
	cravings := make([]pigment.Color, 0, len(cfg.Cravings))
	for _, s := range cfg.Cravings {
		c, err := pigment.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("crabmix: craving: %w", err)
		}
		cravings = append(cravings, c)
	}
	if len(cravings) == 0 {
		return nil, ErrNoCravings
	}
	if difficulty == nil {
		difficulty = config.NewDifficultyManager(config.DifficultyConfig{})
	}

	c := &Crab{
		cfg:        cfg,
		difficulty: difficulty,
		cravings:   cravings,
		rng:        rand.New(rand.NewSource(seed)),
	}
	c.pick()
	return c, nil
}

// pick chooses a new craving, avoiding an immediate repeat when possible.
func (c *Crab) pick() {
	if len(c.cravings) == 1 {
		c.craving = c.cravings[0]
		return
	}
	next := c.cravings[c.rng.Intn(len(c.cravings))]
	for tries := 0; next == c.craving && tries < 8; tries++ {
		next = c.cravings[c.rng.Intn(len(c.cravings))]
	}
	c.craving = next
}

// Craving returns the color the crab currently wants.
func (c *Crab) Craving() pigment.Color {
	return c.craving
}

// Pin fixes the craving to a color until Unpin is called.
func (c *Crab) Pin(color pigment.Color) {
	c.craving = color
	c.fixed = true
}

// Unpin returns the crab to random cravings.
func (c *Crab) Unpin() {
	c.fixed = false
	c.pick()
}

// Mood returns the mood after the last meal.
func (c *Crab) Mood() Mood {
	return c.mood
}

// Score returns the total points earned.
func (c *Crab) Score() int {
	return c.score
}

// Feedings returns how many meals the crab accepted.
func (c *Crab) Feedings() int {
	return c.feedings
}

// Tolerance returns the current scoring tolerance.
func (c *Crab) Tolerance() float64 {
	return c.difficulty.Tolerance(c.cfg.Tolerance, c.score, c.feedings)
}

// Feed offers paint to the crab. Absent paint is refused and changes
// nothing. Otherwise the meal is scored and a new craving is picked.
func (c *Crab) Feed(p pigment.Paint) (Feeding, bool) {
	if !p.Present {
		return Feeding{}, false
	}

	f := Feeding{
		Craving:  c.craving,
		Fed:      p.Color,
		Distance: c.craving.Distance(p.Color),
	}
	f.Points = points(f.Distance, c.Tolerance())
	f.Mood = c.moodFor(f.Points)

	c.mood = f.Mood
	c.score += f.Points
	c.feedings++
	if !c.fixed {
		c.pick()
	}
	return f, true
}

// Reset clears score and mood and picks a fresh craving.
func (c *Crab) Reset(seed int64) {
	c.rng = rand.New(rand.NewSource(seed))
	c.score = 0
	c.feedings = 0
	c.mood = MoodHungry
	if !c.fixed {
		c.pick()
	}
}

func (c *Crab) moodFor(pts int) Mood {
	switch {
	case pts >= c.cfg.DelightedPoints:
		return MoodDelighted
	case pts >= c.cfg.ContentPoints:
		return MoodContent
	default:
		return MoodHungry
	}
}

// points maps a distance to 0-100: an exact match scores 100 and anything
// at or beyond the tolerance scores 0.
func points(distance, tolerance float64) int {
	if tolerance <= 0 {
		if distance == 0 {
			return 100
		}
		return 0
	}
	p := math.Round(100 * (1 - distance/tolerance))
	return int(math.Max(0, math.Min(100, p)))
}

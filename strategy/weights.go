package strategy

import (
	"encoding/json"
	"io"

	"github.com/battlesnakeio/zerocool/search"
	"github.com/pkg/errors"
)

// Weights are the tunable constants every behaviour and bias reads.
type Weights struct {
	// SurvivalMinHealth is the health under which eating always wins.
	SurvivalMinHealth int
	// LongGameHealthResiliency is how many turns it takes for the minimum
	// health to drop by one.
	LongGameHealthResiliency int

	Base           BaseWeights
	BaseMultiplier BaseMultipliers
	Multiplier     Multipliers
	Decay          Decays
	Exponent       Exponents
}

// BaseWeights is the flat value of stepping on a cell of each category.
type BaseWeights struct {
	ForgetAboutIt float64
	Space         float64
	Food          float64
	Tail          float64
	KillZone      float64
	WallNear      float64
	Warning       float64
	Future2       float64
	SmallDanger   float64
	EnemyHead     float64
	Danger        float64
}

type BaseMultipliers struct {
	KillZone float64
	WallNear float64
}

type Multipliers struct {
	HungerUrgency float64
	TailDistance  float64
	WallDistance  float64
	WallNearFill  float64
	DangerFill    float64
	TightMove     float64
}

type Decays struct {
	FoodDistance float64
	TailDistance float64
}

type Exponents struct {
	HuntKillZoneDistance float64
	HuntFuture2Distance  float64
	EnemyHeadDistance    float64
	KillZoneDistance     float64
}

// DefaultWeights are the weights the snake plays with.
func DefaultWeights() Weights {
	return Weights{
		SurvivalMinHealth:        33,
		LongGameHealthResiliency: 500,
		Base: BaseWeights{
			ForgetAboutIt: -200,
			Space:         0.9,
			Food:          0.4,
			Tail:          12.3,
			KillZone:      4.5,
			WallNear:      -0.4,
			Warning:       -2.6,
			Future2:       -0.7,
			SmallDanger:   -11.0,
			EnemyHead:     -5.9,
			Danger:        -12,
		},
		BaseMultiplier: BaseMultipliers{
			KillZone: 1.3,
			WallNear: 6.5,
		},
		Multiplier: Multipliers{
			HungerUrgency: 0.4,
			TailDistance:  2.0,
			WallDistance:  1.0,
			WallNearFill:  -0.5,
			DangerFill:    0.06,
			TightMove:     1.0,
		},
		Decay: Decays{
			FoodDistance: 2.8,
			TailDistance: 2.0,
		},
		Exponent: Exponents{
			HuntKillZoneDistance: 0.65,
			HuntFuture2Distance:  0.4,
			EnemyHeadDistance:    0.9,
			KillZoneDistance:     0.8,
		},
	}
}

// Fill is the weighting applied to a flood fill tally.
func (w Weights) Fill() search.FillWeights {
	return search.FillWeights{
		Space:     w.Base.Space,
		Tail:      w.Base.Tail,
		Food:      w.Base.Food,
		EnemyHead: w.Base.EnemyHead,
		KillZone:  w.Base.KillZone,
		Warning:   w.Base.Warning,
		WallNear:  w.Base.WallNear * w.Multiplier.WallNearFill,
		Danger:    w.Base.Danger * w.Multiplier.DangerFill,
		Future2:   w.Base.Future2,
	}
}

// LoadWeights reads weights as JSON from r. Fields missing from the input
// keep their default value.
func LoadWeights(r io.Reader) (Weights, error) {
	w := DefaultWeights()
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return Weights{}, errors.Wrap(err, "invalid weights")
	}
	return w, nil
}

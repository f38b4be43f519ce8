package ai

const (
	// easy seats play a random legal card this often
	easyRandomRate = 0.4
	// and otherwise close an established combo this often
	easyCloseRate     = 0.5
	easyCloseMinCombo = 2
	// normal seats throw away their best move this often
	normalMistakeRate = 0.15
)

// Tuning weighs the candidate moves of the scoring tiers
type Tuning struct {
	OpeningBase     int
	OpeningLowValue int

	CloseLong      int // combo of four or more
	CloseMedium    int // three
	CloseShort     int // two
	CloseBare      int
	ObjectiveBonus int
	NearWinMargin  int
	NearWinBonus   int
	// LingerBonus rewards closing a combo of LingerLength or more instead of growing it
	LingerLength     int
	LingerBonus      int
	PointsMultiplier int

	ExtendSmall    int // combo of at most one card
	ExtendPair     int
	ExtendLong     int
	ExtendLowValue int // flat bonus for a value of two or less
	HoldingEnd     int
	MissingEnd     int
	// ExtendValueWeight scales (4 - value) so cheaper extensions win ties
	ExtendValueWeight int
}

var NormalTuning = Tuning{
	OpeningBase:      100,
	OpeningLowValue:  3,
	CloseLong:        50,
	CloseMedium:      35,
	CloseShort:       20,
	CloseBare:        5,
	ObjectiveBonus:   25,
	NearWinMargin:    5,
	NearWinBonus:     30,
	PointsMultiplier: 1,
	ExtendSmall:      20,
	ExtendPair:       15,
	ExtendLong:       8,
	ExtendLowValue:   5,
}

var ExpertTuning = Tuning{
	OpeningBase:       100,
	OpeningLowValue:   10,
	CloseLong:         80,
	CloseMedium:       55,
	CloseShort:        20,
	CloseBare:         5,
	ObjectiveBonus:    40,
	NearWinMargin:     5,
	NearWinBonus:      60,
	LingerLength:      3,
	LingerBonus:       15,
	PointsMultiplier:  2,
	ExtendSmall:       20,
	ExtendPair:        12,
	ExtendLong:        3,
	HoldingEnd:        15,
	MissingEnd:        -10,
	ExtendValueWeight: 4,
}

func tuningFor(t Tier) Tuning {
	if t == Expert {
		return ExpertTuning
	}
	return NormalTuning
}

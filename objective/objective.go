// Package objective holds the fixed catalog of per-round scoring objectives.
package objective

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/minaorangina/cadena/deck"
)

// Tier is an objective's difficulty
type Tier int

const (
	Easy Tier = iota
	Normal
	Hard
)

var tierNames = []string{"easy", "normal", "hard"}

func (t Tier) String() string {
	if t < Easy || t > Hard {
		return "unknown"
	}
	return tierNames[t]
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tier) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range tierNames {
		if n == name {
			*t = Tier(i)
			return nil
		}
	}
	return fmt.Errorf("unknown objective tier %q", name)
}

// Bonus points awarded per tier
var tierBonus = map[Tier]int{
	Easy:   2,
	Normal: 4,
	Hard:   7,
}

// Weights used when drawing an objective. Easier objectives come up more often.
var tierWeights = map[Tier]int{
	Easy:   3,
	Normal: 2,
	Hard:   1,
}

// Objective is a secret bonus condition assigned to a player for one round
type Objective struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Bonus       int       `json:"bonus"`
	Tier        Tier      `json:"tier"`
	Predicate   Predicate `json:"predicate"`
}

// Met reports whether a closed combo (END card included) satisfies the objective
func (o Objective) Met(combo []deck.Card) bool {
	return o.Predicate.Holds(combo)
}

func newObjective(id, description string, tier Tier, p Predicate) Objective {
	return Objective{
		ID:          id,
		Description: description,
		Bonus:       tierBonus[tier],
		Tier:        tier,
		Predicate:   p,
	}
}

var catalog = []Objective{
	newObjective("e1", "Combo of 3+ cards", Easy, MinLength(3)),
	newObjective("e2", "Start with a 1", Easy, FirstValue(1)),
	newObjective("e3", "Finish with a 3", Easy, LastValue(3)),
	newObjective("e4", "At least 1 extension", Easy, MinKindCount(deck.Extension, 1)),

	newObjective("n1", "Combo of 4+ cards", Normal, MinLength(4)),
	newObjective("n2", "At least 2 extensions", Normal, MinKindCount(deck.Extension, 2)),
	newObjective("n3", "Only low values (1-2)", Normal, MaxValue(2, 2)),
	newObjective("n4", "Values add up to 8 or more", Normal, MinSum(8)),
	newObjective("n5", "Contains a 1, a 2 and a 3", Normal, AllValues()),

	newObjective("h1", "Every value the same", Hard, SameValue(3)),
	newObjective("h2", "Combo of 5+ cards", Hard, MinLength(5)),
	newObjective("h3", "Run: 1, 2, 3", Hard, Run()),
	newObjective("h4", "Values add up to 12 or more", Hard, MinSum(12)),
	newObjective("h5", "Three 3s", Hard, MinValueCount(3, 3)),
}

var byID = func() map[string]Objective {
	m := make(map[string]Objective, len(catalog))
	for _, o := range catalog {
		m[o.ID] = o
	}
	return m
}()

// Catalog returns a copy of every objective
func Catalog() []Objective {
	out := make([]Objective, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds an objective by id
func Lookup(id string) (Objective, bool) {
	o, ok := byID[id]
	return o, ok
}

// Pick draws an objective at random, weighted by tier. Draws are independent, so two
// players (or two rounds) can get the same objective.
func Pick(rng *rand.Rand) Objective {
	total := 0
	for _, o := range catalog {
		total += tierWeights[o.Tier]
	}

	n := rng.Intn(total)
	for _, o := range catalog {
		n -= tierWeights[o.Tier]
		if n < 0 {
			return o
		}
	}

	// unreachable while every tier has a positive weight
	return catalog[len(catalog)-1]
}

package objective

import (
	"github.com/minaorangina/cadena/deck"
)

// PredicateKind names the rule a Predicate applies
type PredicateKind string

const (
	KindMinLength     PredicateKind = "min_length"
	KindFirstValue    PredicateKind = "first_value"
	KindLastValue     PredicateKind = "last_value"
	KindMinKindCount  PredicateKind = "min_kind_count"
	KindMaxValue      PredicateKind = "max_value"
	KindMinSum        PredicateKind = "min_sum"
	KindAllValues     PredicateKind = "all_values"
	KindSameValue     PredicateKind = "same_value"
	KindRun           PredicateKind = "run"
	KindMinValueCount PredicateKind = "min_value_count"
)

// Predicate is a condition over a closed combo. It is plain data so it can be sent to
// clients and evaluated the same way on both ends.
type Predicate struct {
	Kind  PredicateKind `json:"kind"`
	N     int           `json:"n,omitempty"`
	Value int           `json:"value,omitempty"`
	Card  deck.Kind     `json:"card,omitempty"`
}

// MinLength holds when the combo has at least n cards
func MinLength(n int) Predicate { return Predicate{Kind: KindMinLength, N: n} }

// FirstValue holds when the first card has value v
func FirstValue(v int) Predicate { return Predicate{Kind: KindFirstValue, Value: v} }

// LastValue holds when the last card has value v
func LastValue(v int) Predicate { return Predicate{Kind: KindLastValue, Value: v} }

// MinKindCount holds when at least n cards are of kind k
func MinKindCount(k deck.Kind, n int) Predicate {
	return Predicate{Kind: KindMinKindCount, Card: k, N: n}
}

// MaxValue holds when the combo has at least minLen cards and none exceeds v
func MaxValue(v, minLen int) Predicate {
	return Predicate{Kind: KindMaxValue, Value: v, N: minLen}
}

// MinSum holds when the card values add up to at least n
func MinSum(n int) Predicate { return Predicate{Kind: KindMinSum, N: n} }

// AllValues holds when every card value appears at least once
func AllValues() Predicate { return Predicate{Kind: KindAllValues} }

// SameValue holds when the combo has at least minLen cards, all of one value
func SameValue(minLen int) Predicate { return Predicate{Kind: KindSameValue, N: minLen} }

// Run holds when 1, 2, 3 appear as consecutive values
func Run() Predicate { return Predicate{Kind: KindRun} }

// MinValueCount holds when at least n cards have value v
func MinValueCount(v, n int) Predicate {
	return Predicate{Kind: KindMinValueCount, Value: v, N: n}
}

// Holds evaluates the predicate. Unknown kinds never hold.
func (p Predicate) Holds(cards []deck.Card) bool {
	switch p.Kind {
	case KindMinLength:
		return len(cards) >= p.N

	case KindFirstValue:
		return len(cards) > 0 && cards[0].Value == p.Value

	case KindLastValue:
		return len(cards) > 0 && cards[len(cards)-1].Value == p.Value

	case KindMinKindCount:
		n := 0
		for _, c := range cards {
			if c.Kind == p.Card {
				n++
			}
		}
		return n >= p.N

	case KindMaxValue:
		if len(cards) < p.N {
			return false
		}
		for _, c := range cards {
			if c.Value > p.Value {
				return false
			}
		}
		return true

	case KindMinSum:
		return sum(cards) >= p.N

	case KindAllValues:
		for _, v := range deck.Values {
			if countValue(cards, v) == 0 {
				return false
			}
		}
		return true

	case KindSameValue:
		if len(cards) < p.N || len(cards) == 0 {
			return false
		}
		return countValue(cards, cards[0].Value) == len(cards)

	case KindRun:
		for i := 0; i+2 < len(cards); i++ {
			if cards[i].Value == 1 && cards[i+1].Value == 2 && cards[i+2].Value == 3 {
				return true
			}
		}
		return false

	case KindMinValueCount:
		return countValue(cards, p.Value) >= p.N
	}

	return false
}

func sum(cards []deck.Card) int {
	total := 0
	for _, c := range cards {
		total += c.Value
	}
	return total
}

func countValue(cards []deck.Card, v int) int {
	n := 0
	for _, c := range cards {
		if c.Value == v {
			n++
		}
	}
	return n
}

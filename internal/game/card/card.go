package card

import "fmt"

// Suit is one of the four French suits. The server identifies suits by
// their English names on the wire, so the enum is string-typed and
// marshals as-is.
type Suit string

const (
	Hearts   Suit = "Hearts"
	Diamonds Suit = "Diamonds"
	Clubs    Suit = "Clubs"
	Spades   Suit = "Spades"
)

// Value is a card face value. Schnapsen plays with a 20-card deck, Ten
// through Ace in every suit.
type Value string

const (
	Ten   Value = "Ten"
	Jack  Value = "Jack"
	Queen Value = "Queen"
	King  Value = "King"
	Ace   Value = "Ace"
)

var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
	Spades:   "♠",
}

var valueNames = map[Value]string{
	Ten:   "10",
	Jack:  "J",
	Queen: "Q",
	King:  "K",
	Ace:   "A",
}

func (s Suit) Valid() bool {
	_, ok := suitSymbols[s]
	return ok
}

func (v Value) Valid() bool {
	_, ok := valueNames[v]
	return ok
}

// Card is an immutable card value. The server never assigns card
// identities, so equality is structural: two cards are the same card iff
// suit and value match.
type Card struct {
	Suit  Suit  `json:"suit"`
	Value Value `json:"value"`
}

func (c Card) Equal(other Card) bool {
	return c.Suit == other.Suit && c.Value == other.Value
}

func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Value.Valid()
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", suitSymbols[c.Suit], valueNames[c.Value])
}

// Remove returns cards with every card equal to target filtered out.
// Removing an absent card is a no-op.
func Remove(cards []Card, target Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !c.Equal(target) {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether target is present in cards by value.
func Contains(cards []Card, target Card) bool {
	for _, c := range cards {
		if c.Equal(target) {
			return true
		}
	}
	return false
}

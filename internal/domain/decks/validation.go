package decks

import "fmt"

const (
	minDrawDeckSize = 60
	plotDeckSize    = 7
)

// Problem describes why a deck cannot be published. A nil Problem means
// the deck is valid.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (p *Problem) Error() string {
	return p.Message
}

// FindProblem runs the structural checks a deck must pass before it can be
// published. cardTypes maps card code to card type, deckLimits maps card
// code to the allowed number of copies; codes missing from either are
// unknown cards.
func FindProblem(deck *Deck, cardTypes map[string]string, deckLimits map[string]int) *Problem {
	drawCount := 0
	plotCount := 0

	for _, slot := range deck.Slots {
		if slot.Quantity <= 0 {
			return &Problem{
				Code:    "invalid_quantity",
				Message: fmt.Sprintf("card %s has a non-positive quantity", slot.CardCode),
			}
		}

		typ, known := cardTypes[slot.CardCode]
		if !known {
			return &Problem{
				Code:    "unknown_card",
				Message: fmt.Sprintf("card %s does not exist", slot.CardCode),
			}
		}

		if limit, ok := deckLimits[slot.CardCode]; ok && slot.Quantity > limit {
			return &Problem{
				Code:    "too_many_copies",
				Message: fmt.Sprintf("card %s exceeds its deck limit of %d", slot.CardCode, limit),
			}
		}

		if typ == "plot" {
			plotCount += slot.Quantity
		} else {
			drawCount += slot.Quantity
		}
	}

	if plotCount != plotDeckSize {
		return &Problem{
			Code:    "plot_deck_size",
			Message: fmt.Sprintf("plot deck must contain exactly %d cards, has %d", plotDeckSize, plotCount),
		}
	}
	if drawCount < minDrawDeckSize {
		return &Problem{
			Code:    "draw_deck_size",
			Message: fmt.Sprintf("draw deck must contain at least %d cards, has %d", minDrawDeckSize, drawCount),
		}
	}

	return nil
}

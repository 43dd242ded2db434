package mixerctl

import (
	"fmt"
	"strings"
)

// String returns a string representation of the card
func (c Card) String() string {
	return fmt.Sprintf("Card %d: %s [%s]", c.Number, c.Name, c.ID)
}

// DeviceName returns the alsa-lib hardware device name for the card
func (c Card) DeviceName() string {
	return fmt.Sprintf("hw:%d", c.Number)
}

// FindCard finds a card by number, id or name substring among cards
func FindCard(cards []Card, identifier string) (Card, error) {
	// try parsing as card number
	var cardNum int
	if _, err := fmt.Sscanf(identifier, "%d", &cardNum); err == nil {
		for _, card := range cards {
			if card.Number == cardNum {
				return card, nil
			}
		}
		return Card{}, fmt.Errorf("card %d not found", cardNum)
	}

	for _, card := range cards {
		if card.ID == identifier {
			return card, nil
		}
	}

	// try matching by name substring
	identifierLower := strings.ToLower(identifier)
	for _, card := range cards {
		if strings.Contains(strings.ToLower(card.Name), identifierLower) {
			return card, nil
		}
	}

	return Card{}, fmt.Errorf("no card matching '%s' found", identifier)
}

package catalog

// Default returns the built-in catalog the server ships with, used when no
// catalog file is configured. One non-playable "situation" type plus two
// playable types, including a few chainer cards that declare slots of
// their own.
func Default() Catalog {
	situations := []string{
		"I never leave the house without {}.",
		"The last thing I remember is {}.",
		"My therapist says I should stop {}.",
		"Nothing ruins a wedding faster than {}.",
		"The museum's newest exhibit: {}.",
		"My secret talent is {} while {}.",
		"Step one: {}. Step two: profit.",
		"The neighbors complained about {} again.",
		"I knew the party was over when I saw {}.",
		"Grandma's famous recipe calls for {}.",
		"The job listing asked for five years of experience in {}.",
		"Scientists were baffled to discover {}.",
	}

	nouns := []string{
		"a rubber duck",
		"an expired coupon",
		"the world's smallest violin",
		"a suspiciously heavy burrito",
		"my lucky sock",
		"an inflatable flamingo",
		"a decorative gravy boat",
		"the office stapler",
		"a motivational poster",
		"an unpaid internship",
		"a glow-in-the-dark skeleton",
		"the neighbor's trampoline",
		"a commemorative spoon collection",
		"an aggressively friendly goose",
		"a half-finished crossword",
		"the emergency kazoo",
	}

	verbs := []string{
		"yodeling at strangers",
		"alphabetizing the spice rack",
		"negotiating with pigeons",
		"speed-walking dramatically",
		"whispering to houseplants",
		"collecting parking tickets",
		"practicing my acceptance speech",
		"reorganizing the junk drawer",
		"taste-testing toothpaste",
		"narrating my own life",
	}

	// Chainer cards: playable cards whose own slots must be filled by the
	// cards submitted immediately after them.
	chainers := []Card{
		{Type: "noun", Text: "a haunted {}", Slots: []string{"noun"}},
		{Type: "noun", Text: "a life-sized statue of {}", Slots: []string{"noun"}},
		{Type: "noun", Text: "an instructional video about {}", Slots: []string{"verb"}},
		{Type: "verb", Text: "apologizing to {}", Slots: []string{"noun"}},
	}

	cards := make([]Card, 0, len(situations)+len(nouns)+len(verbs)+len(chainers))
	for _, text := range situations {
		slots := make([]string, 0, 2)
		for i := 0; i < countSlots(text); i++ {
			slots = append(slots, SlotAny)
		}
		cards = append(cards, Card{Type: "situation", Text: text, Slots: slots})
	}
	for _, text := range nouns {
		cards = append(cards, Card{Type: "noun", Text: text})
	}
	for _, text := range verbs {
		cards = append(cards, Card{Type: "verb", Text: text})
	}
	cards = append(cards, chainers...)

	return Catalog{
		Types: []CardType{
			{Name: "situation", Playable: false},
			{Name: "noun", Playable: true},
			{Name: "verb", Playable: true},
		},
		Cards: cards,
	}
}

func countSlots(text string) int {
	count := 0
	for i := 0; i+1 < len(text); i++ {
		if text[i] == '{' && text[i+1] == '}' {
			count++
		}
	}
	return count
}

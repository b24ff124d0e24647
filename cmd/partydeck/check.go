package main

import (
	"fmt"

	"github.com/partydeck/partydeck/internal/catalog"
)

// CheckCmd validates a catalog file without starting the server.
type CheckCmd struct {
	File     string `kong:"arg,help='Path to HCL catalog file'"`
	HandSize int    `kong:"default='4',help='Hand size to check deal feasibility against'"`
}

func (c *CheckCmd) Run() error {
	cat, err := catalog.LoadFile(c.File)
	if err != nil {
		return err
	}
	if err := cat.ValidateHandSize(c.HandSize); err != nil {
		return err
	}

	playable := 0
	for _, ct := range cat.Types {
		if ct.Playable {
			playable++
		}
	}
	fmt.Printf("%s: %d card types (%d playable), %d cards\n",
		c.File, len(cat.Types), playable, len(cat.Cards))
	for _, ct := range cat.Types {
		fmt.Printf("  %-12s playable=%-5v cards=%d\n", ct.Name, ct.Playable, len(cat.CardsOf(ct.Name)))
	}
	return nil
}

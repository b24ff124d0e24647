package catalog

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// catalogFile mirrors the HCL layout of a catalog file:
//
//	card_type "noun" {
//	  playable = true
//	}
//
//	card "situation" {
//	  text  = "I never travel without {}."
//	  slots = ["noun"]
//	}
type catalogFile struct {
	Types []typeBlock `hcl:"card_type,block"`
	Cards []cardBlock `hcl:"card,block"`
}

type typeBlock struct {
	Name     string `hcl:"name,label"`
	Playable *bool  `hcl:"playable,optional"`
}

type cardBlock struct {
	Type  string   `hcl:"type,label"`
	Text  string   `hcl:"text"`
	Slots []string `hcl:"slots,optional"`
}

// LoadFile parses and validates a catalog from an HCL file.
func LoadFile(filename string) (Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return Catalog{}, fmt.Errorf("failed to parse catalog file: %s", diags.Error())
	}

	var raw catalogFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return Catalog{}, fmt.Errorf("failed to decode catalog: %s", diags.Error())
	}

	defs := make([]TypeDef, 0, len(raw.Types))
	for _, tb := range raw.Types {
		defs = append(defs, TypeDef{Name: tb.Name, Playable: tb.Playable})
	}
	types, err := ValidateTypes(defs)
	if err != nil {
		return Catalog{}, err
	}

	cards := make([]Card, 0, len(raw.Cards))
	for _, cb := range raw.Cards {
		cards = append(cards, Card{Type: cb.Type, Text: cb.Text, Slots: cb.Slots})
	}

	catalog := Catalog{Types: types, Cards: cards}
	if err := catalog.Validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

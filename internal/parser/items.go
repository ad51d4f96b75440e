package parser

import (
	"strconv"
	"strings"

	"mulesync/internal/models"
)

const emptySlot = -1

type itemToken struct {
	typeID int
	key    string
}

// splitItems reads "<typeId>[#<enchantKey>],..." tokens. Blank tokens are
// ignored; tokens with an unreadable type id are dropped and counted.
func splitItems(csv string, diag *Diagnostics) []itemToken {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	tokens := make([]itemToken, 0, len(parts))
	for _, raw := range parts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		idPart, key, _ := strings.Cut(raw, "#")
		id, ok := TryInt(idPart)
		if !ok {
			diag.SkippedItemTokens++
			continue
		}
		tokens = append(tokens, itemToken{typeID: id, key: key})
	}
	return tokens
}

// ParseItems decodes an item CSV, resolving "#key" suffixes in enchantments.
// A nil map leaves every item without an enchantment.
func ParseItems(csv string, enchantments map[string]string) []models.Item {
	var diag Diagnostics
	return parseItems(csv, enchantments, &diag)
}

func parseItems(csv string, enchantments map[string]string, diag *Diagnostics) []models.Item {
	tokens := splitItems(csv, diag)
	items := make([]models.Item, 0, len(tokens))
	for _, t := range tokens {
		var enchant string
		if t.key != "" && enchantments != nil {
			enchant = enchantments[t.key]
		}
		items = append(items, models.NewItem(t.typeID, enchant))
	}
	return items
}

func fillContainer(c *models.ItemContainer, csv string, enchantments map[string]string, diag *Diagnostics) {
	for _, item := range parseItems(csv, enchantments, diag) {
		c.Add(item)
	}
}

// parseEquipment keeps slot positions: empty (-1) and unreadable slots become nil.
// Enchantments come from the character's type-keyed map, first entry wins.
func parseEquipment(csv string, ch *models.Character, diag *Diagnostics) []*models.Item {
	if strings.TrimSpace(csv) == "" {
		return make([]*models.Item, 0)
	}
	parts := strings.Split(csv, ",")
	slots := make([]*models.Item, 0, len(parts))
	for _, raw := range parts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		idPart, _, _ := strings.Cut(raw, "#")
		id, ok := TryInt(idPart)
		if !ok {
			diag.SkippedItemTokens++
			slots = append(slots, nil)
			continue
		}
		if id == emptySlot {
			slots = append(slots, nil)
			continue
		}
		item := models.NewItem(id, ch.EnchantmentFor(strconv.Itoa(id)))
		slots = append(slots, &item)
	}
	return slots
}

// petInventoryItems extracts the item CSV from a shared pet inventory string
// ("<slots>;<marker>;<items>"). ok is false when the string has fewer than three segments.
func petInventoryItems(inv string) (string, bool) {
	if inv == "" {
		return "", false
	}
	segments := strings.Split(inv, ";")
	if len(segments) < 3 {
		return "", false
	}
	return segments[2], true
}

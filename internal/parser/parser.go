package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mulesync/internal/models"
)

// Diagnostics counts values the parser defaulted or dropped. None of them are errors.
type Diagnostics struct {
	MalformedFields   int
	SkippedItemTokens int
}

func (d Diagnostics) Empty() bool {
	return d.MalformedFields == 0 && d.SkippedItemTokens == 0
}

// Parse decodes a /char/list document into a fresh snapshot for credentialID.
// The only error it returns is a document that is not well-formed XML.
func Parse(credentialID uuid.UUID, data []byte) (*models.Snapshot, Diagnostics, error) {
	snap := models.NewSnapshot(credentialID)
	diag, err := ParseInto(snap, data)
	if err != nil {
		return nil, diag, err
	}
	return snap, diag, nil
}

// ParseInto decodes data into snap, which must come from models.NewSnapshot.
func ParseInto(snap *models.Snapshot, data []byte) (Diagnostics, error) {
	var doc charListDoc
	if err := DecodeDocument(data, &doc); err != nil {
		return Diagnostics{}, fmt.Errorf("decode char list: %w", err)
	}

	b := &builder{snap: snap, seenPets: make(map[int]struct{})}
	b.account(doc.MaxNumChars, doc.Account)
	for i := range doc.Chars {
		b.character(&doc.Chars[i])
	}
	b.containers(doc.Account)
	snap.ParsedAt = time.Now().UTC()

	b.diag.MalformedFields = b.fields.malformed
	return b.diag, nil
}

type builder struct {
	snap   *models.Snapshot
	fields fieldReader
	diag   Diagnostics

	seenPets          map[int]struct{}
	seasonalPetInv    bool
	nonSeasonalPetInv bool
}

func (b *builder) account(maxNumChars string, acc *accountXML) {
	if acc == nil {
		return
	}
	s := b.snap
	s.Name = acc.Name
	s.Credits = b.fields.int(acc.Credits)
	s.Fame = b.fields.int(acc.Fame)
	s.MaxNumChars = b.fields.int(maxNumChars)

	if acc.Guild != nil {
		s.GuildName = acc.Guild.Name
		s.GuildRank = b.fields.int(acc.Guild.Rank)
	}

	if acc.Stats != nil {
		total := 0
		for _, cs := range acc.Stats.ClassStats {
			total += Stars(b.fields.int(cs.BestBaseFame))
		}
		s.Stars = total
	}

	mergeAccountEnchantments(s.UniqueItemData, acc.UniqueItemInfo)
	mergeAccountEnchantments(s.UniqueGiftItemData, acc.UniqueGiftItemInfo)
	mergeAccountEnchantments(s.UniqueTemporaryGiftItemData, acc.UniqueTemporaryGiftItemInfo)
	mergeAccountEnchantments(s.MaterialStorageItemData, acc.MaterialStorageData)
}

func (b *builder) character(c *charXML) {
	f := &b.fields
	ch := models.NewCharacter(f.int(c.ID))
	ch.ObjectType = f.int(c.ObjectType)
	ch.Skin = f.int(c.Texture)
	ch.Level = f.int(c.Level)
	ch.Exp = f.int(c.Exp)
	ch.CurrentFame = f.int(c.CurrentFame)
	ch.EquipQS = c.EquipQS
	ch.MaxHitPoints = f.int(c.MaxHitPoints)
	ch.MaxMagicPoints = f.int(c.MaxMagicPoints)
	ch.Attack = f.int(c.Attack)
	ch.Defense = f.int(c.Defense)
	ch.Speed = f.int(c.Speed)
	ch.Dexterity = f.int(c.Dexterity)
	ch.Vitality = f.int(c.HpRegen)
	ch.Wisdom = f.int(c.MpRegen)
	ch.PCStats = c.PCStats
	ch.Seasonal = strings.EqualFold(strings.TrimSpace(c.Seasonal), "true")
	ch.HasBackpack = isTruthy(c.HasBackpack)

	mergeCharacterEnchantments(ch.UniqueItemData, c.UniqueItemInfo)
	ch.Equipment = parseEquipment(c.Equipment, ch, &b.diag)

	if c.Pet != nil {
		b.pet(c.Pet, ch.Seasonal)
	}

	b.snap.Characters = append(b.snap.Characters, ch)
}

func (b *builder) pet(p *petXML, seasonal bool) {
	f := &b.fields
	s := b.snap
	instanceID := f.intAttr(p.InstanceID)

	if _, dup := b.seenPets[instanceID]; !dup {
		b.seenPets[instanceID] = struct{}{}
		pet := &models.Pet{
			InstanceID:      instanceID,
			Name:            p.Name,
			ObjectType:      f.intAttr(p.Type),
			Rarity:          f.intAttr(p.Rarity),
			MaxAbilityPower: f.intAttr(p.MaxAbilityPower),
			Skin:            f.intAttr(p.Skin),
			Shader:          f.intAttr(p.Shader),
			CreatedOn:       p.CreatedOn,
			Abilities:       make([]models.PetAbility, 0),
		}
		if p.Abilities != nil {
			for _, a := range p.Abilities.Ability {
				pet.Abilities = append(pet.Abilities, models.PetAbility{
					Type:   f.intAttr(a.Type),
					Power:  f.intAttr(a.Power),
					Points: f.intAttr(a.Points),
				})
			}
		}
		s.Pets = append(s.Pets, pet)
	}

	// Duplicates still contribute their enchantment entries.
	mergeAccountEnchantments(s.UniqueItemData, p.UniqueItemInfo)

	if strings.TrimSpace(p.IncInv) != "1" {
		return
	}
	done := &b.nonSeasonalPetInv
	target := &s.NonSeasonalPetInventory
	if seasonal {
		done = &b.seasonalPetInv
		target = &s.SeasonalPetInventory
	}
	if *done {
		return
	}
	csv, ok := petInventoryItems(p.Inv)
	if !ok {
		return
	}
	fillContainer(target, csv, s.UniqueItemData, &b.diag)
	*done = true
}

func (b *builder) containers(acc *accountXML) {
	if acc == nil {
		return
	}
	s := b.snap
	if acc.Vault != nil {
		for _, chest := range acc.Vault.Chests {
			fillContainer(&s.Vault, chest, s.UniqueItemData, &b.diag)
		}
	}
	if acc.MaterialStorage != nil {
		for _, chest := range acc.MaterialStorage.Chests {
			fillContainer(&s.MaterialStorage, chest, s.MaterialStorageItemData, &b.diag)
		}
	}
	if acc.Gifts != nil {
		fillContainer(&s.Gifts, *acc.Gifts, s.UniqueGiftItemData, &b.diag)
	}
	if acc.TemporaryGifts != nil {
		fillContainer(&s.TemporaryGifts, *acc.TemporaryGifts, s.UniqueTemporaryGiftItemData, &b.diag)
	}
	if acc.Potions != nil {
		fillContainer(&s.Potions, *acc.Potions, nil, &b.diag)
	}
}

// mergeAccountEnchantments folds id-keyed ItemData entries into dst; later ids overwrite earlier ones.
func mergeAccountEnchantments(dst map[string]string, set *itemDataSetXML) {
	if set == nil {
		return
	}
	for _, it := range set.Items {
		if it.ID == nil {
			continue
		}
		dst[*it.ID] = it.Value
	}
}

func mergeCharacterEnchantments(dst map[string][]string, set *itemDataSetXML) {
	if set == nil {
		return
	}
	for _, it := range set.Items {
		if it.Type == nil || *it.Type == "" {
			continue
		}
		dst[*it.Type] = append(dst[*it.Type], it.Value)
	}
}

func isTruthy(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || strings.EqualFold(s, "true")
}

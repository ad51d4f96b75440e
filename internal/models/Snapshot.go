package models

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	TypeID      int    `json:"type_id"`
	Enchantment string `json:"enchantment,omitempty"`
}

func NewItem(typeID int, enchantment string) Item {
	return Item{TypeID: typeID, Enchantment: enchantment}
}

func (i Item) HasEnchantment() bool {
	return i.Enchantment != ""
}

type ItemContainer struct {
	Items []Item `json:"items"`
}

func (c *ItemContainer) Add(item Item) {
	c.Items = append(c.Items, item)
}

func (c *ItemContainer) Len() int {
	return len(c.Items)
}

type PetAbility struct {
	Type   int `json:"type"`
	Power  int `json:"power"`
	Points int `json:"points"`
}

type Pet struct {
	InstanceID      int          `json:"instance_id"`
	Name            string       `json:"name"`
	ObjectType      int          `json:"object_type"`
	Rarity          int          `json:"rarity"`
	MaxAbilityPower int          `json:"max_ability_power"`
	Skin            int          `json:"skin"`
	Shader          int          `json:"shader"`
	CreatedOn       string       `json:"created_on"`
	Abilities       []PetAbility `json:"abilities"`
}

type Character struct {
	ID             int    `json:"id"`
	ObjectType     int    `json:"object_type"`
	Skin           int    `json:"skin"`
	Level          int    `json:"level"`
	Exp            int    `json:"exp"`
	CurrentFame    int    `json:"current_fame"`
	EquipQS        string `json:"equip_qs,omitempty"`
	Attack         int    `json:"attack"`
	Defense        int    `json:"defense"`
	Speed          int    `json:"speed"`
	Dexterity      int    `json:"dexterity"`
	Vitality       int    `json:"vitality"`
	Wisdom         int    `json:"wisdom"`
	MaxHitPoints   int    `json:"max_hit_points"`
	MaxMagicPoints int    `json:"max_magic_points"`
	PCStats        string `json:"pc_stats,omitempty"`
	Seasonal       bool   `json:"seasonal"`
	HasBackpack    bool   `json:"has_backpack"`
	// Equipment slots keep their position; nil marks an empty slot.
	Equipment      []*Item             `json:"equipment"`
	UniqueItemData map[string][]string `json:"unique_item_data"`
}

func NewCharacter(id int) *Character {
	return &Character{
		ID:             id,
		Equipment:      make([]*Item, 0),
		UniqueItemData: make(map[string][]string),
	}
}

// EnchantmentFor returns the first character-scoped enchantment recorded for typeKey.
func (c *Character) EnchantmentFor(typeKey string) string {
	if list := c.UniqueItemData[typeKey]; len(list) > 0 {
		return list[0]
	}
	return ""
}

type Snapshot struct {
	CredentialID uuid.UUID `json:"credential_id"`
	Name         string    `json:"name"`
	Credits      int       `json:"credits"`
	Fame         int       `json:"fame"`
	GuildName    string    `json:"guild_name,omitempty"`
	GuildRank    int       `json:"guild_rank"`
	MaxNumChars  int       `json:"max_num_chars"`
	Stars        int       `json:"stars"`

	UniqueItemData              map[string]string `json:"unique_item_data"`
	UniqueGiftItemData          map[string]string `json:"unique_gift_item_data"`
	UniqueTemporaryGiftItemData map[string]string `json:"unique_temporary_gift_item_data"`
	MaterialStorageItemData     map[string]string `json:"material_storage_item_data"`

	Characters []*Character `json:"characters"`
	Pets       []*Pet       `json:"pets"`

	Vault           ItemContainer `json:"vault"`
	MaterialStorage ItemContainer `json:"material_storage"`
	Gifts           ItemContainer `json:"gifts"`
	TemporaryGifts  ItemContainer `json:"temporary_gifts"`
	Potions         ItemContainer `json:"potions"`

	SeasonalPetInventory    ItemContainer `json:"seasonal_pet_inventory"`
	NonSeasonalPetInventory ItemContainer `json:"non_seasonal_pet_inventory"`

	PasswordError bool      `json:"password_error"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	ParsedAt      time.Time `json:"parsed_at"`
}

func NewSnapshot(credentialID uuid.UUID) *Snapshot {
	return &Snapshot{
		CredentialID:                credentialID,
		UniqueItemData:              make(map[string]string),
		UniqueGiftItemData:          make(map[string]string),
		UniqueTemporaryGiftItemData: make(map[string]string),
		MaterialStorageItemData:     make(map[string]string),
		Characters:                  make([]*Character, 0),
		Pets:                        make([]*Pet, 0),
	}
}

// HasError reports whether the snapshot carries a password or service error indicator.
func (s *Snapshot) HasError() bool {
	return s.PasswordError || s.ErrorMessage != ""
}

func (s *Snapshot) PetByInstanceID(id int) *Pet {
	for _, p := range s.Pets {
		if p.InstanceID == id {
			return p
		}
	}
	return nil
}

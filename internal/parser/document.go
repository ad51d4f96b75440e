package parser

// Wire shape of the /char/list response. Every scalar is kept as a string
// and coerced afterwards, so a malformed value never aborts decoding.

type charListDoc struct {
	MaxNumChars string      `xml:"maxNumChars,attr"`
	Account     *accountXML `xml:"Account"`
	Chars       []charXML   `xml:"Char"`
}

type accountXML struct {
	Name    string    `xml:"Name"`
	Credits string    `xml:"Credits"`
	Fame    string    `xml:"Fame"`
	Guild   *guildXML `xml:"Guild"`
	Stats   *statsXML `xml:"Stats"`

	UniqueItemInfo              *itemDataSetXML `xml:"UniqueItemInfo"`
	UniqueGiftItemInfo          *itemDataSetXML `xml:"UniqueGiftItemInfo"`
	UniqueTemporaryGiftItemInfo *itemDataSetXML `xml:"UniqueTemporaryGiftItemInfo"`
	MaterialStorageData         *itemDataSetXML `xml:"MaterialStorageData"`

	Vault           *chestSetXML `xml:"Vault"`
	MaterialStorage *chestSetXML `xml:"MaterialStorage"`
	Gifts           *string      `xml:"Gifts"`
	TemporaryGifts  *string      `xml:"TemporaryGifts"`
	Potions         *string      `xml:"Potions"`
}

type guildXML struct {
	Name string `xml:"Name"`
	Rank string `xml:"Rank"`
}

type statsXML struct {
	ClassStats []classStatsXML `xml:"ClassStats"`
}

type classStatsXML struct {
	ObjectType   string `xml:"objectType,attr"`
	BestBaseFame string `xml:"BestBaseFame"`
}

type itemDataSetXML struct {
	Items []itemDataXML `xml:"ItemData"`
}

type itemDataXML struct {
	ID    *string `xml:"id,attr"`
	Type  *string `xml:"type,attr"`
	Value string  `xml:",chardata"`
}

type chestSetXML struct {
	Chests []string `xml:"Chest"`
}

type charXML struct {
	ID             string          `xml:"id,attr"`
	ObjectType     string          `xml:"ObjectType"`
	Texture        string          `xml:"Texture"`
	Level          string          `xml:"Level"`
	Exp            string          `xml:"Exp"`
	CurrentFame    string          `xml:"CurrentFame"`
	EquipQS        string          `xml:"EquipQS"`
	MaxHitPoints   string          `xml:"MaxHitPoints"`
	MaxMagicPoints string          `xml:"MaxMagicPoints"`
	Attack         string          `xml:"Attack"`
	Defense        string          `xml:"Defense"`
	Speed          string          `xml:"Speed"`
	Dexterity      string          `xml:"Dexterity"`
	HpRegen        string          `xml:"HpRegen"`
	MpRegen        string          `xml:"MpRegen"`
	PCStats        string          `xml:"PCStats"`
	Seasonal       string          `xml:"Seasonal"`
	HasBackpack    string          `xml:"HasBackpack"`
	Equipment      string          `xml:"Equipment"`
	UniqueItemInfo *itemDataSetXML `xml:"UniqueItemInfo"`
	Pet            *petXML         `xml:"Pet"`
}

type petXML struct {
	InstanceID      *string         `xml:"instanceId,attr"`
	Name            string          `xml:"name,attr"`
	Type            *string         `xml:"type,attr"`
	Rarity          *string         `xml:"rarity,attr"`
	MaxAbilityPower *string         `xml:"maxAbilityPower,attr"`
	Skin            *string         `xml:"skin,attr"`
	Shader          *string         `xml:"shader,attr"`
	CreatedOn       string          `xml:"createdOn,attr"`
	IncInv          string          `xml:"incInv,attr"`
	Inv             string          `xml:"inv,attr"`
	Abilities       *abilitiesXML   `xml:"Abilities"`
	UniqueItemInfo  *itemDataSetXML `xml:"UniqueItemInfo"`
}

type abilitiesXML struct {
	Ability []abilityXML `xml:"Ability"`
}

type abilityXML struct {
	Type   *string `xml:"type,attr"`
	Power  *string `xml:"power,attr"`
	Points *string `xml:"points,attr"`
}

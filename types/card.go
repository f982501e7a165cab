package types

// CardType is the mechanical type of a card.
type CardType string

const (
	CardAttack CardType = "ATTACK"
	CardSkill  CardType = "SKILL"
	CardPower  CardType = "POWER"
	CardStatus CardType = "STATUS"
	CardCurse  CardType = "CURSE"
)

// Category is the upgrade tier of a card.
type Category string

const (
	CategoryLegacy Category = "LEGACY"
	CategoryCloud  Category = "CLOUD"
	CategoryVertex Category = "VERTEX"
)

// EffectKind tags one effect variant.
type EffectKind string

// Effect kinds, listed in resolution order.
const (
	EffectDamage          EffectKind = "damage"
	EffectBlock           EffectKind = "block"
	EffectReflect         EffectKind = "reflect"
	EffectDraw            EffectKind = "draw"
	EffectScry            EffectKind = "scry"
	EffectHeal            EffectKind = "heal"
	EffectCleanse         EffectKind = "cleanse"
	EffectUpgradeHand     EffectKind = "upgrade_hand"
	EffectPlayFromDiscard EffectKind = "play_from_discard"
	EffectDiscardHand     EffectKind = "discard_hand"
	EffectAddStatus       EffectKind = "add_status"
	EffectPower           EffectKind = "power"
	EffectGenerateCard    EffectKind = "generate_card"
	EffectCancelIntent    EffectKind = "cancel_intent"
)

// Effect is one tagged behavior of a card. Only the fields relevant
// to Kind are set.
type Effect struct {
	Kind       EffectKind
	Amount     int
	Max        int      // damage: upper bound of a variable roll (Amount..Max)
	PerDiscard int      // damage: bonus per card in the discard pile
	Status     string   // add_status: card template id
	Power      string   // power: power id
	Pool       Category // generate_card: source pool
}

// On-draw and passive markers.
const (
	OnDrawDiscardRandom    = "discard_random"
	PassiveReduceMaxEnergy = "reduce_max_energy"
)

// CardDef is a catalog entry.
type CardDef struct {
	ID               string
	Name             string
	Cost             int
	Type             CardType
	Category         Category
	Text             string
	Effects          []Effect
	Exhaust          bool
	Ethereal         bool
	Retain           bool
	RequiresRetained bool
	Unplayable       bool
	XCost            bool
	Unblockable      bool
	AOE              bool
	EndsTurn         bool
	Fake             bool
	OnDraw           string
	Passive          string
	EndTurnDamage    int
}

// Card is an owned card instance. ID is unique per instance and shadows
// the embedded CardDef.ID, which stays the catalog template id.
type Card struct {
	ID string
	CardDef

	BonusDamage int
	BonusBlock  int
	TurnsHeld   int
	TempCost    *int
	Locked      bool
	Temporary   bool // injected for one combat only
}

// Power is an active player power. Value is used by reflect.
type Power struct {
	ID    string
	Name  string
	Value int
}

// RelicDef is a catalog relic.
type RelicDef struct {
	ID   string
	Name string
	Text string
}

// ClassDef fixes a starting relic and deck.
type ClassDef struct {
	ID    string
	Name  string
	Text  string
	Relic string
	Deck  []string // card template ids, with repeats
}

package types

// Player is the run's protagonist. Block and Energy are per-turn resources;
// HP and Gold persist across combats.
type Player struct {
	HP        int
	MaxHP     int
	Gold      int
	Energy    int
	MaxEnergy int
	Block     int

	Deck    []Card // top of deck is the last element
	Hand    []Card
	Discard []Card
	Exhaust []Card

	Powers []Power
	Relics []string
	Class  string
}

// Role is an enemy's encounter tier.
type Role string

const (
	RoleNormal Role = "NORMAL"
	RoleElite  Role = "ELITE"
	RoleBoss   Role = "BOSS"
)

// IntentType is the kind of action an enemy has declared.
type IntentType string

const (
	IntentAttack  IntentType = "ATTACK"
	IntentDefend  IntentType = "DEFEND"
	IntentBuff    IntentType = "BUFF"
	IntentDebuff  IntentType = "DEBUFF"
	IntentSummon  IntentType = "SUMMON"
	IntentUnknown IntentType = "UNKNOWN"
)

// EnemyIntent is an enemy's declared next action.
type EnemyIntent struct {
	Type  IntentType
	Value int
	Desc  string
}

// EnemyDef is a catalog enemy: stats plus a behavior descriptor
// interpreted by the enemy engine.
type EnemyDef struct {
	ID    string
	Name  string
	Text  string
	Act   int
	Role  Role
	MaxHP int

	Opening EnemyIntent // intent shown on turn 1

	// Passive mechanics.
	Dodge      float64
	Thorns     int
	ReviveHP   int
	BurnEnergy int
	Mimic      bool

	StartsInvulnerable bool // shielded until its first summon has been cleared

	// Behavior descriptor.
	Script          string // generic, periodic, summoner, deadline, mystery
	Attack          int
	Debuff          string // inject_junk, force_discard, lock_cards, loop_hand
	DebuffDesc      string
	DebuffEvery     int
	Junk            string // card template injected by inject_junk
	JunkMin         int
	JunkMax         int
	DiscardCount    int
	LockCount       int
	MaxCardsPerTurn int
	FastPlayAt      int
	FastPlayPenalty int
	RepeatAt        int
	RepeatStrength  int
	DeadlineTurn    int
	ConsumeTurns    []int
}

// Enemy is the active combatant. Combat-only fields are reset on spawn.
type Enemy struct {
	EnemyDef

	HP           int
	Block        int
	Strength     int
	Minions      int
	Invulnerable bool
	Intent       EnemyIntent
	ExactKill    bool // last lethal hit equalled pre-hit hp
}

// Phase is the combat state machine position.
type Phase string

const (
	PhasePlayerTurn    Phase = "PLAYER_TURN"
	PhaseModernization Phase = "RESOLVING_MODERNIZATION"
	PhaseEnemyTurn     Phase = "ENEMY_TURN"
	PhaseVictory       Phase = "VICTORY"
	PhaseDefeat        Phase = "DEFEAT"
)

// Pile names a card location.
type Pile string

const (
	PileNone    Pile = "NONE"
	PileHand    Pile = "HAND"
	PileDeck    Pile = "DECK"
	PileDiscard Pile = "DISCARD"
	PileExhaust Pile = "EXHAUST"
)

// Modernization is the announced target of a pending meter event.
// Location NONE means no legacy card exists and a heal will be granted.
type Modernization struct {
	CardID   string
	CardName string
	Location Pile
}

// Combat is the per-combat state.
type Combat struct {
	Turn        int
	Phase       Phase
	CardsPlayed int
	TypesPlayed map[CardType]int
	Counters    map[string]int

	LoopActive bool
	LoopedHand []string // instance ids stashed for a forced redraw
	EndedHand  []string // the hand as it stood when the player ended the turn

	Pending       *Modernization
	EndTurnQueued bool
}

// NodeType is the encounter type of a map node.
type NodeType string

const (
	NodeBattle NodeType = "BATTLE"
	NodeElite  NodeType = "ELITE"
	NodeEvent  NodeType = "EVENT"
	NodeShop   NodeType = "SHOP"
	NodeRest   NodeType = "REST"
	NodeBoss   NodeType = "BOSS"
)

// NodeStatus is a node's reachability. "Current" is derived from
// Run.CurrentNode, not stored.
type NodeStatus string

const (
	NodeLocked    NodeStatus = "LOCKED"
	NodeAvailable NodeStatus = "AVAILABLE"
	NodeCompleted NodeStatus = "COMPLETED"
)

// MapNode is one encounter in the act graph.
type MapNode struct {
	ID      string
	Layer   int
	Type    NodeType
	Status  NodeStatus
	Next    []string
	Parents []string
	X       float64 // layout hint in [0,100]
}

// MapLayer is one row of the act graph.
type MapLayer struct {
	Nodes []MapNode
}

// Map is a layered DAG of encounter nodes for one act.
type Map struct {
	Act    int
	Layers []MapLayer
}

// EventOption is one choice offered by an event.
type EventOption struct {
	ID       string
	Label    string
	Text     string
	EffectID string
	Value    float64
	Risk     float64 // failure probability, 0 for none
	Card     string  // card granted or added by the effect, if any
}

// EventDef is a catalog event. Act 0 means any act.
type EventDef struct {
	ID        string
	Title     string
	Narrative string
	Act       int
	Options   []EventOption
}

// ShopCard is a card offered for sale.
type ShopCard struct {
	Card  Card
	Price int
}

// ShopRelic is a relic offered for sale.
type ShopRelic struct {
	Relic string
	Price int
}

// Shop is the inventory of one shop visit.
type Shop struct {
	Cards       []ShopCard
	Relic       *ShopRelic
	RemovePrice int
}

// Reward is the post-combat payout. Gold is granted immediately;
// one of Cards may be picked.
type Reward struct {
	Gold  int
	Cards []Card
}

// Mode is the top-level screen of the run.
type Mode string

const (
	ModeMap    Mode = "MAP"
	ModeCombat Mode = "COMBAT"
	ModeEvent  Mode = "EVENT"
	ModeShop   Mode = "SHOP"
	ModeReward Mode = "REWARD"
	ModeWon    Mode = "RUN_WON"
	ModeLost   Mode = "RUN_LOST"
)

// Run is the whole mutable game state, owned by one engine.
type Run struct {
	ID          string
	Seed        int64
	Act         int
	Mode        Mode
	Player      Player
	Enemy       *Enemy
	Combat      *Combat
	Meter       int
	Map         *Map
	CurrentNode string
	Event       *EventDef
	Shop        *Shop
	Reward      *Reward
	Counters    map[string]int // run-scoped bookkeeping
	Log         []LogEntry
	Seq         int
	Flavor      string
}

// Snapshot is a deep copy of a Run handed to collaborators.
type Snapshot struct {
	Run
	Theme string
}

// Package types defines the shared data structures for the Ascension engine.
// This package contains only type definitions: no logic, no methods.
package types

// Intent is the parsed representation of a typed command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
}

// Result is the output of a single Step.
type Result struct {
	Command string
	Err     error
	Log     []LogEntry // entries appended while handling the command
	Output  []string   // front-end text that is not part of the game log
}

// Severity ranks a log entry.
type Severity string

const (
	SeverityDebug    Severity = "DEBUG"
	SeverityInfo     Severity = "INFO"
	SeverityNotice   Severity = "NOTICE"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Source tags who produced a log entry.
type Source string

const (
	SourceSystem     Source = "SYSTEM"
	SourcePlayer     Source = "PLAYER"
	SourceEnemy      Source = "ENEMY"
	SourceModernizer Source = "MODERNIZER"
	SourceNarrator   Source = "NARRATOR"
)

// LogEntry is one line of the append-only game log.
type LogEntry struct {
	Seq      int
	Turn     int
	Severity Severity
	Source   Source
	Message  string
}

// Playability is the answer to "can this card be played right now".
// CanAfford is reported separately so front ends can tell
// "not enough energy" apart from "structurally blocked".
type Playability struct {
	Playable  bool
	Reason    string
	CanAfford bool
}

// Rules holds numeric balance constants loaded from balance.yaml.
type Rules struct {
	HandLimit     int `yaml:"hand_limit"`
	MeterMax      int `yaml:"meter_max"`
	BaseDraw      int `yaml:"base_draw"`
	StartHP       int `yaml:"start_hp"`
	StartGold     int `yaml:"start_gold"`
	StartEnergy   int `yaml:"start_energy"`
	UpgradeStep   int `yaml:"upgrade_step"`
	ScryDiscard   int `yaml:"scry_discard"`
	SurviveFloor  int `yaml:"survive_floor"`
	RestHeal      int `yaml:"rest_heal"`
	FallbackHeal  int `yaml:"fallback_heal"`
	RiskFailDmg   int `yaml:"risk_fail_damage"`
	BuffStrength  int `yaml:"buff_strength"`
	SummonCount   int `yaml:"summon_count"`
	RarePoolPct   int `yaml:"modernize_rare_pct"`
	ActCount      int `yaml:"act_count"`
	StatusHeal    int `yaml:"power_heal"`
	TurretDamage  int `yaml:"turret_damage"`
	HotfixDamage  int `yaml:"hotfix_damage"`
	FirewallBlock int `yaml:"firewall_block"`

	Map    MapRules    `yaml:"map"`
	Reward RewardRules `yaml:"reward"`
	Shop   ShopRules   `yaml:"shop"`
}

// MapRules are the node-type weights for the map generator.
type MapRules struct {
	Layers  int            `yaml:"layers"`
	Weights map[string]int `yaml:"weights"`
}

// RewardRules are the post-combat reward constants.
type RewardRules struct {
	Gold        map[string]int `yaml:"gold"`
	NormalOdds  []int          `yaml:"normal_odds"` // common, uncommon, rare
	EliteOdds   []int          `yaml:"elite_odds"`
	CardChoices int            `yaml:"card_choices"`
}

// ShopRules are the shop price constants.
type ShopRules struct {
	Cards        int `yaml:"cards"`
	VertexPct    int `yaml:"vertex_pct"`
	CardBase     int `yaml:"card_base"`
	CardSpread   int `yaml:"card_spread"`
	VertexMarkup int `yaml:"vertex_markup"`
	RelicBase    int `yaml:"relic_base"`
	RelicSpread  int `yaml:"relic_spread"`
	RemoveBase   int `yaml:"remove_base"`
	RemoveStep   int `yaml:"remove_step"`
}

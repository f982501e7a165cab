package telemetry

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/ascension/types"
)

// counter returns the value of the named counter with the given labels,
// or -1 when no such series exists.
func counter(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	series:
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue series
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return -1
}

func TestCounters(t *testing.T) {
	m := New()

	m.CardPlayed(types.CardAttack)
	m.CardPlayed(types.CardAttack)
	m.CardPlayed(types.CardSkill)
	m.CombatStarted(types.RoleElite)
	m.CombatEnded(true)
	m.CombatEnded(false)
	m.NodeEntered(types.NodeShop)
	m.Modernized(true)
	m.RunEnded(types.ModeLost, 2)

	assert.Equal(t, 2.0, counter(t, m, "ascension_cards_played_total", map[string]string{"type": "ATTACK"}))
	assert.Equal(t, 1.0, counter(t, m, "ascension_cards_played_total", map[string]string{"type": "SKILL"}))
	assert.Equal(t, 1.0, counter(t, m, "ascension_combats_started_total", map[string]string{"role": "ELITE"}))
	assert.Equal(t, 1.0, counter(t, m, "ascension_combats_ended_total", map[string]string{"outcome": "won"}))
	assert.Equal(t, 1.0, counter(t, m, "ascension_combats_ended_total", map[string]string{"outcome": "lost"}))
	assert.Equal(t, 1.0, counter(t, m, "ascension_map_nodes_entered_total", map[string]string{"type": string(types.NodeShop)}))
	assert.Equal(t, 1.0, counter(t, m, "ascension_modernizations_total", map[string]string{"replaced": "true"}))
	assert.Equal(t, 1.0, counter(t, m, "ascension_runs_ended_total", map[string]string{"mode": string(types.ModeLost), "act": "2"}))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.CardPlayed(types.CardPower)
	assert.Equal(t, 1.0, counter(t, a, "ascension_cards_played_total", map[string]string{"type": "POWER"}))
	assert.Equal(t, -1.0, counter(t, b, "ascension_cards_played_total", map[string]string{"type": "POWER"}))
}

func TestHandler(t *testing.T) {
	m := New()
	m.NodeEntered(types.NodeBoss)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `ascension_map_nodes_entered_total{type="BOSS"} 1`)
}

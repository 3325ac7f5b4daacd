package game

import (
	"math/rand/v2"
	"testing"

	"github.com/samdwyer/deckband/internal/entity"
	"github.com/samdwyer/deckband/internal/gamedata"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateCombat, "combat"},
		{StateReward, "reward"},
		{StateStageComplete, "stage_complete"},
		{StateGameComplete, "game_complete"},
		{StateDefeat, "defeat"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}

func TestNewCombatState(t *testing.T) {
	cs := NewCombatState()

	if cs.PlayerHP != playerMaxHP {
		t.Errorf("NewCombatState().PlayerHP = %d, want %d", cs.PlayerHP, playerMaxHP)
	}
	if cs.TurnCount != 0 {
		t.Errorf("NewCombatState().TurnCount = %d, want 0", cs.TurnCount)
	}
	if cs.LastMessage() != "Combat begins!" {
		t.Errorf("NewCombatState().LastMessage() = %q, want %q", cs.LastMessage(), "Combat begins!")
	}
}

func TestCombatStateLogKeepsRecent(t *testing.T) {
	cs := NewCombatState()
	for i := range maxMessages + 3 {
		cs.Log(string(rune('a' + i)))
	}

	msgs := cs.Messages()
	if len(msgs) != maxMessages {
		t.Fatalf("Messages() length = %d, want %d", len(msgs), maxMessages)
	}
	if cs.LastMessage() != string(rune('a'+maxMessages+2)) {
		t.Errorf("LastMessage() = %q, want the newest entry", cs.LastMessage())
	}
}

func TestCombatStateDamagePlayer(t *testing.T) {
	tests := []struct {
		name       string
		hp, amount int
		wantTaken  int
		wantHP     int
	}{
		{"normal hit", 40, 6, 6, 34},
		{"overkill clamps", 5, 9, 5, 0},
		{"negative ignored", 20, -4, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := &CombatState{PlayerHP: tt.hp}
			taken := cs.DamagePlayer(tt.amount)
			if taken != tt.wantTaken || cs.PlayerHP != tt.wantHP {
				t.Errorf("DamagePlayer(%d) = %d, HP %d; want %d, HP %d", tt.amount, taken, cs.PlayerHP, tt.wantTaken, tt.wantHP)
			}
			if cs.IsDefeated() != (tt.wantHP == 0) {
				t.Errorf("IsDefeated() = %v with HP %d", cs.IsDefeated(), cs.PlayerHP)
			}
		})
	}
}

func TestStrikeAndAttackDamage(t *testing.T) {
	golem := entity.NewEnemy(&gamedata.EnemyDef{ID: "golem", HP: 45, Resources: map[string]int{"energy": 2, "block": 5}})
	wall := entity.NewEnemy(&gamedata.EnemyDef{ID: "wall", HP: 99, Resources: map[string]int{"block": 20}})
	imp := entity.NewEnemy(&gamedata.EnemyDef{ID: "imp", HP: 8, Resources: map[string]int{"energy": 1}})

	tests := []struct {
		name       string
		enemy      *entity.Enemy
		wantStrike int
		wantAttack int
	}{
		{"block reduces strike", golem, 1, 6},
		{"strike never below one", wall, 1, 2},
		{"unblocked", imp, cardDamage, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strikeDamage(tt.enemy); got != tt.wantStrike {
				t.Errorf("strikeDamage() = %d, want %d", got, tt.wantStrike)
			}
			if got := enemyAttack(tt.enemy); got != tt.wantAttack {
				t.Errorf("enemyAttack() = %d, want %d", got, tt.wantAttack)
			}
		})
	}
}

func TestPickSummon(t *testing.T) {
	warlock := entity.NewEnemy(&gamedata.EnemyDef{ID: "warlock", HP: 30, Resources: map[string]int{"energy": 3}, Summons: []string{"cultist", "imp"}})
	tired := entity.NewEnemy(&gamedata.EnemyDef{ID: "cultist", HP: 20, Resources: map[string]int{"energy": 1}, Summons: []string{"imp"}})
	slime := entity.NewEnemy(&gamedata.EnemyDef{ID: "slime", HP: 12, Resources: map[string]int{"energy": 5}})

	rng := rand.New(rand.NewPCG(1, 2))
	summoned := 0
	for range 300 {
		id, ok := pickSummon(warlock, 0, rng)
		if !ok {
			continue
		}
		summoned++
		if id != "cultist" && id != "imp" {
			t.Fatalf("pickSummon() = %q, not in the summon table", id)
		}
	}
	if summoned == 0 || summoned == 300 {
		t.Errorf("pickSummon() summoned %d of 300 turns, want some but not all", summoned)
	}

	for _, tt := range []struct {
		name  string
		enemy *entity.Enemy
		depth int
	}{
		{"depth capped", warlock, maxSummonDepth},
		{"not enough energy", tired, 0},
		{"no summon table", slime, 0},
	} {
		for range 50 {
			if _, ok := pickSummon(tt.enemy, tt.depth, rng); ok {
				t.Errorf("%s: pickSummon() summoned", tt.name)
				break
			}
		}
	}
}

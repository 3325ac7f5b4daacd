package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/deckband/internal/combat"
	"github.com/samdwyer/deckband/internal/entity"
	"github.com/samdwyer/deckband/internal/gamedata"
	"github.com/samdwyer/deckband/internal/telemetry"
)

const (
	playerMaxHP    = 40
	cardDamage     = 6
	cleaveSplash   = 2
	maxSummonDepth = 2
	maxMessages    = 6
)

var cardNames = []string{"Strike", "Slash", "Jab", "Cleave", "Lunge"}

// CombatState holds the player's side of the fight. The enemy side lives in
// the encounter sequencer.
type CombatState struct {
	PlayerHP  int
	TurnCount int
	Entrance  float64 // Entrance progress of the active enemy, 0 to 1
	messages  []string
}

// NewCombatState creates a combat state with a full-health player.
func NewCombatState() *CombatState {
	return &CombatState{
		PlayerHP: playerMaxHP,
		Entrance: 1,
		messages: []string{"Combat begins!"},
	}
}

// Log appends a message, keeping only the most recent few.
func (cs *CombatState) Log(msg string) {
	cs.messages = append(cs.messages, msg)
	if len(cs.messages) > maxMessages {
		cs.messages = cs.messages[len(cs.messages)-maxMessages:]
	}
}

// Messages returns the message log, oldest first.
func (cs *CombatState) Messages() []string {
	return append([]string(nil), cs.messages...)
}

// LastMessage returns the newest message.
func (cs *CombatState) LastMessage() string {
	if len(cs.messages) == 0 {
		return ""
	}
	return cs.messages[len(cs.messages)-1]
}

// DamagePlayer reduces player HP and returns the damage actually taken.
func (cs *CombatState) DamagePlayer(amount int) int {
	actual := min(max(amount, 0), cs.PlayerHP)
	cs.PlayerHP -= actual
	return actual
}

// IsDefeated reports whether the player has run out of HP.
func (cs *CombatState) IsDefeated() bool {
	return cs.PlayerHP <= 0
}

// strikeDamage is the damage a played card deals after the enemy's block.
func strikeDamage(enemy *entity.Enemy) int {
	return max(cardDamage-enemy.Resource("block"), 1)
}

// enemyAttack is the damage an enemy deals on its turn.
func enemyAttack(enemy *entity.Enemy) int {
	return 2 + 2*enemy.Resource("energy")
}

// pickSummon decides whether the enemy summons this turn and returns the
// enemy ID to summon. Enemies need at least 2 energy and nesting is capped.
func pickSummon(enemy *entity.Enemy, depth int, rng *rand.Rand) (string, bool) {
	summons := enemy.Spec().Summons
	if len(summons) == 0 || depth >= maxSummonDepth || enemy.Resource("energy") < 2 {
		return "", false
	}
	if rng.IntN(3) != 0 {
		return "", false
	}
	return summons[rng.IntN(len(summons))], true
}

// =============================================================================
// Combat actions, run on the command worker
// =============================================================================

// drawCard puts a new card into the first free wait slot.
func (g *Game) drawCard(context.Context) {
	if g.lifecycle.Phase() != combat.PhasePlayerTurn {
		g.log("You can only draw on your turn.")
		return
	}
	pos, ok := g.slots.FirstFreeWait()
	if !ok {
		g.log("Your hand is full.")
		return
	}

	card := entity.NewCard(cardNames[g.rng.IntN(len(cardNames))])
	if err := g.slots.Place(pos, card, combat.OwnerPlayer); err != nil {
		g.logger.Warn("draw failed", zap.Error(err))
		return
	}
	g.log(fmt.Sprintf("Drew %s into %s.", card.Label(), pos))
}

// playCard moves the first card in hand into the battle slot and strikes
// the active enemy with it.
func (g *Game) playCard(ctx context.Context) {
	if g.lifecycle.Phase() != combat.PhasePlayerTurn {
		g.log("Wait for your turn.")
		return
	}
	enemy, ok := g.seq.ActiveEnemy().(*entity.Enemy)
	if !ok || enemy == nil {
		g.log("There is nothing to strike.")
		return
	}

	card, ok := g.takeFromHand()
	if !ok {
		g.log("No cards in hand. Draw first.")
		return
	}
	if old, _, err := g.slots.Take(combat.PositionBattle); err == nil {
		old.Destroy()
	}
	if err := g.slots.Place(combat.PositionBattle, card, combat.OwnerPlayer); err != nil {
		g.logger.Warn("play failed", zap.Error(err))
		return
	}

	ctx, span := telemetry.Tracer("combat").Start(ctx, "combat.play_card")
	defer span.End()

	label := cardLabel(card)
	damage := enemy.TakeDamage(strikeDamage(enemy))
	span.SetAttributes(
		attribute.String("card", label),
		attribute.String("target", enemy.Spec().ID),
		attribute.Int("damage", damage),
	)
	g.log(fmt.Sprintf("%s hits %s for %d.", label, enemy.Name(), damage))

	if label == "Cleave" {
		g.cleaveSuspended()
	}

	if enemy.IsAlive() {
		return
	}
	if err := g.seq.OnEnemyDeath(ctx, enemy); err != nil {
		span.RecordError(err)
		g.logger.Warn("enemy death not resolved", zap.Error(err))
		g.log("The fight stalls: " + err.Error())
	}
}

// cleaveSuspended chips the innermost suspended parent behind a summon. It
// never finishes the parent off.
func (g *Game) cleaveSuspended() {
	frames := g.seq.SummonFrames()
	if len(frames) == 0 {
		return
	}
	top := frames[len(frames)-1]
	hp := max(top.HP-cleaveSplash, 1)
	if g.seq.UpdateTopHP(hp) {
		g.log(fmt.Sprintf("The cleave reaches %s behind the summon (%d HP).", top.Enemy.Name, hp))
	}
}

func cardLabel(card combat.Card) string {
	if c, ok := card.(*entity.Card); ok {
		return c.Label()
	}
	return "card"
}

// takeFromHand removes the first card from the wait slots.
func (g *Game) takeFromHand() (combat.Card, bool) {
	for n := 1; n <= g.slots.WaitSlots(); n++ {
		card, owner, ok := g.slots.Get(combat.WaitPosition(n))
		if !ok || owner != combat.OwnerPlayer {
			continue
		}
		if _, _, err := g.slots.Take(combat.WaitPosition(n)); err != nil {
			continue
		}
		return card, true
	}
	return nil, false
}

// endTurn hands the turn to the enemy, runs its action, and hands it back
// unless the player fell.
func (g *Game) endTurn(ctx context.Context) {
	if err := g.lifecycle.EndPlayerTurn(ctx); err != nil {
		g.log("It is not your turn.")
		return
	}

	ctx, span := telemetry.Tracer("combat").Start(ctx, "combat.enemy_turn")
	defer span.End()

	g.mu.Lock()
	g.combat.TurnCount++
	turn := g.combat.TurnCount
	g.mu.Unlock()
	span.SetAttributes(attribute.Int("turn", turn))

	enemy, ok := g.seq.ActiveEnemy().(*entity.Enemy)
	if ok && enemy != nil {
		g.enemyAct(ctx, enemy)
	}

	g.mu.Lock()
	defeated := g.combat.IsDefeated()
	g.mu.Unlock()

	if defeated {
		span.SetAttributes(attribute.Bool("defeat", true))
		if err := g.lifecycle.PlayerDefeated(ctx); err != nil {
			g.logger.Warn("combat lifecycle rejected defeat", zap.Error(err))
		}
		if err := g.seq.FailStage(ctx); err != nil {
			g.logger.Warn("stage failure not recorded", zap.Error(err))
		}
		return
	}
	if err := g.lifecycle.EndEnemyTurn(ctx); err != nil {
		g.logger.Warn("combat lifecycle rejected end of enemy turn", zap.Error(err))
	}
}

// enemyAct either summons or attacks.
func (g *Game) enemyAct(ctx context.Context, enemy *entity.Enemy) {
	if id, ok := pickSummon(enemy, g.seq.SummonDepth(), g.rng); ok {
		if g.summon(ctx, id) {
			return
		}
	}

	damage := enemyAttack(enemy)
	g.mu.Lock()
	taken := g.combat.DamagePlayer(damage)
	g.mu.Unlock()
	g.log(fmt.Sprintf("%s attacks you for %d.", enemy.Name(), taken))
}

// summon makes the active enemy call in the enemy with the given ID.
func (g *Game) summon(ctx context.Context, id string) bool {
	def := g.stages.Enemies().GetByID(id)
	if def == nil {
		g.logger.Warn("unknown summon", zap.String("enemy", id))
		return false
	}
	parent := g.seq.ActiveEnemy()

	entered, err := g.seq.EnterSummon(ctx, def)
	if err != nil {
		g.log("The summoning fails: " + err.Error())
		return false
	}
	if entered && parent != nil {
		g.log(fmt.Sprintf("%s summons %s!", parent.Spec().Name, def.Name))
	}
	return entered
}

// forceSummon summons the active enemy's first listed minion.
func (g *Game) forceSummon(ctx context.Context) {
	active := g.seq.ActiveEnemy()
	if active == nil || len(active.Spec().Summons) == 0 {
		g.log("Nothing answers the call.")
		return
	}
	if g.seq.SummonDepth() >= maxSummonDepth {
		g.log("The summoning circle is full.")
		return
	}
	g.summon(ctx, active.Spec().Summons[0])
}

// togglePause pauses an active fight or resumes a paused one.
func (g *Game) togglePause(ctx context.Context) {
	if g.lifecycle.Phase() == combat.PhasePaused {
		if err := g.lifecycle.Resume(ctx); err == nil {
			g.log("Resumed.")
		}
		return
	}
	if err := g.lifecycle.Pause(ctx); err != nil {
		g.logger.Debug("pause rejected", zap.Error(err))
		return
	}
	g.log("Paused.")
}

// stageByNumber resolves a stage, logging data errors.
func (g *Game) stageByNumber(number int) (*gamedata.Stage, bool) {
	stage, err := g.stages.Build(number)
	if err != nil {
		g.logger.Error("stage data invalid", zap.Int("stage", number), zap.Error(err))
		g.log(err.Error())
		return nil, false
	}
	return stage, true
}

package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/deckband/internal/combat"
	"github.com/samdwyer/deckband/internal/encounter"
	"github.com/samdwyer/deckband/internal/gamedata"
	"github.com/samdwyer/deckband/internal/telemetry"
	"github.com/samdwyer/deckband/internal/ui"
)

const commandQueueSize = 16

// command is a unit of work for the command worker. Sequencer operations
// can block (entrance animations, the reward panel), so they never run on
// the input loop.
type command struct {
	name string
	run  func(context.Context)
}

// Game holds the entire game state.
type Game struct {
	cfg    Config
	logger *zap.Logger
	seed   int64
	rng    *rand.Rand

	screen   *ui.Screen
	renderer *ui.Renderer

	stages    *gamedata.StageRegistry
	lifecycle *combat.Lifecycle
	slots     *combat.SlotSet
	seq       *encounter.Sequencer
	factory   *actorFactory
	rewards   *rewardPanel

	commands chan command
	running  bool

	mu     sync.Mutex
	combat *CombatState
}

// New creates a new game instance attached to the terminal.
func New(cfg Config, logger *zap.Logger) (*Game, error) {
	stages, err := loadStages(cfg)
	if err != nil {
		return nil, err
	}

	g, err := newGame(cfg, logger, stages)
	if err != nil {
		return nil, err
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	g.screen = screen
	g.renderer = ui.NewRenderer(screen)
	return g, nil
}

func loadStages(cfg Config) (*gamedata.StageRegistry, error) {
	if cfg.StagesFile != "" {
		stages, err := gamedata.LoadPackRegistry(cfg.StagesFile)
		if err != nil {
			return nil, fmt.Errorf("load stage pack %s: %w", cfg.StagesFile, err)
		}
		return stages, nil
	}
	stages, err := gamedata.LoadStageRegistry()
	if err != nil {
		return nil, fmt.Errorf("load stages: %w", err)
	}
	return stages, nil
}

// newGame wires everything except the terminal.
func newGame(cfg Config, logger *zap.Logger, stages *gamedata.StageRegistry) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int64()
	}

	g := &Game{
		cfg:       cfg,
		logger:    logger.Named("game"),
		seed:      seed,
		rng:       rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)),
		stages:    stages,
		lifecycle: combat.NewLifecycle(logger),
		slots:     combat.NewSlotSet(cfg.WaitSlots),
		factory:   newActorFactory(logger),
		commands:  make(chan command, commandQueueSize),
		running:   true,
		combat:    NewCombatState(),
	}
	g.rewards = &rewardPanel{onOpen: g.onRewardOpen}

	seq, err := encounter.NewSequencer(encounter.Deps{
		Factory:   g.factory,
		Animator:  &fadeAnimator{duration: cfg.EntranceDuration, onFrame: g.onEntranceFrame},
		Gate:      g.rewards,
		Lifecycle: g.lifecycle,
		Slots:     g.slots,
	},
		encounter.WithLogger(logger),
		encounter.WithEntranceTimeout(cfg.EntranceTimeout),
		encounter.WithStrictInvariants(cfg.StrictInvariants),
	)
	if err != nil {
		return nil, err
	}
	g.seq = seq
	g.seq.Subscribe(g.onEncounterEvent)
	g.lifecycle.Subscribe(g.onLifecycleEvent)
	return g, nil
}

// Run executes the main game loop.
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	_, initSpan := telemetry.Tracer("game").Start(ctx, "game.init")
	initSpan.SetAttributes(
		attribute.Int("stages", g.stages.Count()),
		attribute.Int("wait_slots", g.cfg.WaitSlots),
		attribute.Int64("seed", g.seed),
	)
	initSpan.End()
	g.logger.Info("game started", zap.Int64("seed", g.seed), zap.Int("stages", g.stages.Count()))

	done := make(chan struct{})
	go g.work(ctx, done)
	g.enqueue("start", g.startRun)

	for g.running {
		g.renderer.Render(g.view())
		g.handleInput()
	}

	// Teardown order: no resumed operation may touch the screen after Close.
	g.seq.Destroy()
	cancel()
	close(g.commands)
	<-done
	g.screen.Close()
	return nil
}

// work runs queued commands one at a time.
func (g *Game) work(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for cmd := range g.commands {
		if ctx.Err() != nil {
			continue
		}
		g.logger.Debug("running command", zap.String("command", cmd.name))
		cmd.run(ctx)
		g.redraw()
	}
}

// enqueue hands a command to the worker without blocking input.
func (g *Game) enqueue(name string, run func(context.Context)) bool {
	select {
	case g.commands <- command{name: name, run: run}:
		return true
	default:
		g.logger.Warn("command dropped: queue full", zap.String("command", name))
		return false
	}
}

// handleInput processes a single input event.
func (g *Game) handleInput() {
	switch ev := g.screen.PollEvent().(type) {
	case nil:
		g.running = false
	case *tcell.EventKey:
		g.handleKeyEvent(ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyEnter:
		// The worker is blocked in the reward gate; closing must not queue.
		g.closeReward()

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'd':
			g.enqueue("draw", g.drawCard)
		case 'a', ' ':
			g.enqueue("play", g.playCard)
		case 'e':
			g.enqueue("end_turn", g.endTurn)
		case 's':
			g.enqueue("summon", g.forceSummon)
		case 'p':
			g.enqueue("pause", g.togglePause)
		case 'n':
			g.enqueue("next_stage", g.nextStage)
		case 'r':
			g.enqueue("retry", g.retry)
		}
	}
}

// =============================================================================
// Stage flow
// =============================================================================

func (g *Game) startRun(ctx context.Context) {
	stage, err := g.stages.First()
	if err != nil {
		g.logger.Error("no stages to play", zap.Error(err))
		g.log("No stages to play.")
		return
	}
	g.startStage(ctx, stage)
}

func (g *Game) startStage(ctx context.Context, stage *gamedata.Stage) {
	if n := g.factory.DiscardSuspended(); n > 0 {
		g.logger.Debug("discarded suspended enemies", zap.Int("count", n))
	}
	if err := g.seq.StartStage(ctx, stage); err != nil {
		g.logger.Warn("stage did not start cleanly", zap.Int("stage", stage.Number), zap.Error(err))
		g.log("Stage setup failed: " + err.Error() + " (r to retry)")
	}
}

// nextStage moves on after the player has seen the stage-complete screen.
func (g *Game) nextStage(ctx context.Context) {
	if g.seq.GameCompleted() {
		g.log("The run is over. Press q to quit.")
		return
	}
	if g.seq.State() != encounter.StateCompleted {
		g.log("Finish the stage first.")
		return
	}
	next, err := g.stages.Next(g.seq.StageNumber())
	if err != nil {
		g.logger.Error("no stage after current", zap.Int("stage", g.seq.StageNumber()), zap.Error(err))
		g.log(err.Error())
		return
	}

	g.factory.DiscardSuspended()
	if err := g.seq.RequestNextStage(ctx, next); err != nil {
		g.logger.Warn("next stage rejected", zap.Error(err))
		g.log("Cannot move on: " + err.Error())
	}
}

// retry replays a failed stage, or retries a spawn or reward that did not
// complete.
func (g *Game) retry(ctx context.Context) {
	switch g.seq.State() {
	case encounter.StateFailed:
		stage, ok := g.stageByNumber(g.seq.StageNumber())
		if !ok {
			return
		}
		g.mu.Lock()
		g.combat = NewCombatState()
		g.mu.Unlock()
		g.startStage(ctx, stage)

	case encounter.StateInProgress:
		if g.seq.ActiveEnemy() != nil {
			return
		}
		if err := g.seq.AdvanceProgress(ctx); err != nil {
			g.log("Still stuck: " + err.Error())
		}

	case encounter.StateNotStarted:
		g.startRun(ctx)
	}
}

func (g *Game) closeReward() {
	if g.rewards.Close() {
		g.log("Reward collected.")
	}
}

// =============================================================================
// Event handlers
// =============================================================================

func (g *Game) onEncounterEvent(ev encounter.Event) {
	switch ev.Kind {
	case encounter.EventEnemySpawned:
		g.log(fmt.Sprintf("%s appears!", ev.Actor.Spec().Name))
		if err := g.lifecycle.Prepared(context.Background()); err != nil {
			g.logger.Warn("combat lifecycle rejected preparation", zap.Error(err))
		}
	case encounter.EventSpawnFailed:
		g.log("An enemy failed to appear: " + ev.Err.Error())
	case encounter.EventEnemyDefeated:
		g.log(fmt.Sprintf("%s is defeated!", ev.Actor.Spec().Name))
	case encounter.EventSummonDefeated:
		g.log(fmt.Sprintf("%s vanishes.", ev.Actor.Spec().Name))
	case encounter.EventEncounterRestored:
		g.log(fmt.Sprintf("%s returns with %d HP.", ev.Actor.Spec().Name, ev.Actor.HP()))
	case encounter.EventStageCompleted:
		g.log(fmt.Sprintf("Stage %d cleared!", ev.Stage.Number))
	case encounter.EventStageFailed:
		g.log("You have fallen.")
	case encounter.EventGameCompleted:
		g.log("The last stage falls. You win!")
	case encounter.EventStageTransition:
		g.log(fmt.Sprintf("Onward to stage %d: %s.", ev.Next.Number, ev.Next.Name))
	}
}

func (g *Game) onLifecycleEvent(ev combat.Event) {
	switch ev.Kind {
	case combat.EventEnemyDeathDetected:
		g.logger.Debug("lifecycle saw enemy death", zap.String("actor", ev.ActorID), zap.Stringer("phase", ev.Phase))
	case combat.EventStateEntered:
		g.logger.Debug("combat phase", zap.Stringer("from", ev.Previous), zap.Stringer("to", ev.Phase))
	}
}

func (g *Game) onEntranceFrame(_ encounter.Actor, progress float64) {
	g.mu.Lock()
	g.combat.Entrance = progress
	g.mu.Unlock()
	g.redraw()
}

func (g *Game) onRewardOpen(reward Reward) {
	g.log(reward.String())
	g.redraw()
}

// =============================================================================
// View
// =============================================================================

func (g *Game) mode() State {
	if _, open := g.rewards.Open(); open {
		return StateReward
	}
	switch g.seq.State() {
	case encounter.StateFailed:
		return StateDefeat
	case encounter.StateCompleted:
		if g.seq.GameCompleted() {
			return StateGameComplete
		}
		return StateStageComplete
	}
	return StateCombat
}

// view snapshots everything the renderer needs.
func (g *Game) view() ui.View {
	progress := g.seq.Progress()
	v := ui.View{
		Title:       "Deckband",
		Phase:       g.lifecycle.Phase().String(),
		PlayerMaxHP: playerMaxHP,
		Gold:        g.rewards.Gold(),
	}
	if stage := g.seq.Stage(); stage != nil {
		v.Title = fmt.Sprintf("Stage %d: %s", stage.Number, stage.Name)
		v.Progress = fmt.Sprintf("enemy %d/%d", progress.EnemyIndex, len(stage.Enemies))
	}

	g.mu.Lock()
	v.PlayerHP = g.combat.PlayerHP
	v.Messages = g.combat.Messages()
	reveal := g.combat.Entrance
	g.mu.Unlock()

	if active := g.seq.ActiveEnemy(); active != nil {
		spec := active.Spec()
		v.Enemy = &ui.EnemyView{
			Name:   spec.Name,
			Glyph:  spec.GlyphRune(),
			Color:  spec.TCellColor(),
			HP:     active.HP(),
			MaxHP:  spec.HP,
			Reveal: reveal,
		}
	}
	for _, frame := range g.seq.SummonFrames() {
		v.Suspended = append(v.Suspended, fmt.Sprintf("%s (%d HP)", frame.Enemy.Name, frame.HP))
	}
	for _, slot := range g.slots.Snapshot() {
		line := ui.SlotLine{Position: slot.Position.String(), Owner: slot.Owner.String()}
		if slot.Card != nil {
			line.Card = cardLabel(slot.Card)
		}
		v.Slots = append(v.Slots, line)
	}

	v.Overlay, v.Help = g.overlay()
	return v
}

func (g *Game) overlay() (overlay, help string) {
	const combatHelp = "d draw  a play  e end turn  s summon  p pause  q quit"
	switch g.mode() {
	case StateReward:
		reward, _ := g.rewards.Open()
		return reward.String() + "\nPress Enter to continue", "Enter collect"
	case StateStageComplete:
		return fmt.Sprintf("Stage %d complete", g.seq.StageNumber()) + "\nPress n for the next stage", "n next stage  q quit"
	case StateGameComplete:
		return strings.Join([]string{
			"Victory!",
			fmt.Sprintf("%d stages cleared, %d gold", g.seq.StagesCompleted(), g.rewards.Gold()),
		}, "\n"), "q quit"
	case StateDefeat:
		return "Defeated\nPress r to retry the stage", "r retry  q quit"
	}
	if g.lifecycle.Phase() == combat.PhasePaused {
		return "Paused", "p resume  q quit"
	}
	return "", combatHelp
}

// log appends a player-facing message.
func (g *Game) log(msg string) {
	g.mu.Lock()
	g.combat.Log(msg)
	g.mu.Unlock()
}

func (g *Game) redraw() {
	if g.screen != nil {
		g.screen.Interrupt()
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.seq.Destroy()
	if g.screen != nil {
		g.screen.Close()
	}
}

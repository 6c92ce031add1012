package game

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/pthm-cable/bubbletrouble/components"
	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/level"
	"github.com/pthm-cable/bubbletrouble/progress"
	"github.com/pthm-cable/bubbletrouble/progress/mocks"
)

// A tier 2 ball takes three shots: one split and two tier 1 pops. The
// level is complete on the tick of the last pop.
func TestPopTierTwoBall(t *testing.T) {
	cfg := staticConfig()
	s := startSession(t, Options{Config: cfg, Levels: mustSet(t,
		levelDef(1, 30, ball(320, 100, 2)),
		levelDef(2, 30, ball(100, 100, 1)),
	)})

	fireUntilPop(t, s)
	snap := s.Snapshot()
	if snap.Score != cfg.Scoring.Pop {
		t.Errorf("score after first pop = %d, want %d", snap.Score, cfg.Scoring.Pop)
	}
	if len(snap.Balls) != 2 {
		t.Fatalf("balls after split = %d, want 2", len(snap.Balls))
	}
	for _, b := range snap.Balls {
		if b.Tier != 1 {
			t.Errorf("child tier = %d, want 1", b.Tier)
		}
	}
	if snap.LevelCompleted {
		t.Error("level completed with balls left")
	}

	fireUntilPop(t, s)
	if got := len(s.Snapshot().Balls); got != 1 {
		t.Fatalf("balls after second pop = %d, want 1", got)
	}
	if s.LevelCompleted() {
		t.Error("level completed with a ball left")
	}

	fireUntilPop(t, s)
	snap = s.Snapshot()
	if !snap.LevelCompleted {
		t.Error("level not completed on the tick of the last pop")
	}
	if snap.State != StateLevelCompleted {
		t.Errorf("state = %v, want level_completed", snap.State)
	}
	if snap.AllCompleted {
		t.Error("all levels completed with level 2 left")
	}
	if snap.Score != 3*cfg.Scoring.Pop {
		t.Errorf("score = %d, want %d", snap.Score, 3*cfg.Scoring.Pop)
	}

	// Next tick awards the time bonus of the cleared level and loads level 2.
	timeLeft := s.TimeLeft()
	mustTick(t, s, 1)
	wantScore := 3*cfg.Scoring.Pop + cfg.Scoring.TimeBonusFactor*timeLeft
	if s.Score() != wantScore {
		t.Errorf("score after transition = %d, want %d", s.Score(), wantScore)
	}
	if s.Level() != 2 {
		t.Errorf("level = %d, want 2", s.Level())
	}
	if s.LevelCompleted() {
		t.Error("level_completed still set after loading the next level")
	}
	if s.TimeLeft() != 30 {
		t.Errorf("time left = %d, want fresh budget 30", s.TimeLeft())
	}
}

// With a one second budget and nobody acting, every player loses a life
// when the countdown expires. Players on their last life end the game.
func TestTimeoutEndsGame(t *testing.T) {
	cfg := staticConfig()
	cfg.Player.StartingLives = 1
	rec := &recorder{}
	s := startSession(t, Options{
		Config:   cfg,
		Players:  2,
		Observer: rec,
		Levels:   mustSet(t, levelDef(1, 1, ball(320, 60, 1))),
	})

	mustTick(t, s, cfg.Physics.TicksPerSecond-1)
	if s.Lives() != 2 || s.GameOver() {
		t.Fatalf("before expiry: lives %d game over %v, want 2 false", s.Lives(), s.GameOver())
	}

	mustTick(t, s, 1)
	for i := 0; i < 2; i++ {
		p, _ := s.Player(i)
		if p.Lives != 0 {
			t.Errorf("player %d lives = %d, want 0", i, p.Lives)
		}
	}
	if !s.GameOver() {
		t.Error("game over not set after the last lives timed out")
	}
	if s.State() != StateGameOver {
		t.Errorf("state = %v, want game_over", s.State())
	}
	if s.TimeLeft() != 0 {
		t.Errorf("time left = %d, want 0", s.TimeLeft())
	}
	if got := rec.count(EventLifeLost); got != 2 {
		t.Errorf("life lost events = %d, want 2", got)
	}
	if got := rec.count(EventGameOver); got != 1 {
		t.Errorf("game over events = %d, want 1", got)
	}

	// Terminal: further ticks change nothing.
	before := s.Snapshot()
	mustTick(t, s, 5)
	if after := s.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("terminal session changed:\nbefore %+v\nafter  %+v", before, after)
	}
}

// A timeout with lives left restarts the level on the next tick with a
// fresh countdown, keeping score and the reduced lives.
func TestTimeoutRestartsLevel(t *testing.T) {
	cfg := staticConfig()
	cfg.Player.StartingLives = 3
	s := startSession(t, Options{Config: cfg, Levels: mustSet(t,
		levelDef(1, 1, ball(320, 60, 1), ball(50, 60, 2)))})

	mustTick(t, s, cfg.Physics.TicksPerSecond)
	if s.State() != StatePlayerDead {
		t.Fatalf("state = %v, want player_dead", s.State())
	}
	if s.Lives() != 2 {
		t.Errorf("lives = %d, want 2", s.Lives())
	}

	mustTick(t, s, 1)
	if s.State() != StateRunning {
		t.Errorf("state after restart = %v, want running", s.State())
	}
	if s.TimeLeft() != 1 {
		t.Errorf("time left after restart = %d, want 1", s.TimeLeft())
	}
	p, _ := s.Player(0)
	if !p.Alive || p.Lives != 2 {
		t.Errorf("player after restart = %+v, want alive with 2 lives", p)
	}
	if got := len(s.Snapshot().Balls); got != 2 {
		t.Errorf("balls after restart = %d, want 2", got)
	}
}

// A ball resting on the player kills it; the last life ends the game
// instead of restarting the level.
func TestCollisionDeath(t *testing.T) {
	cfg := staticConfig()
	cfg.Player.StartingLives = 1
	rec := &recorder{}
	s := startSession(t, Options{Config: cfg, Observer: rec, Levels: mustSet(t,
		levelDef(1, 30, ball(320, 460, 1)))})

	mustTick(t, s, 1)
	if !s.GameOver() {
		t.Fatal("player under a ball survived")
	}
	if s.State() != StateGameOver {
		t.Errorf("state = %v, want game_over (overrides player_dead)", s.State())
	}
	var death Event
	for _, e := range rec.events {
		if e.Type == EventLifeLost {
			death = e
		}
	}
	if death.Cause != CauseBubble {
		t.Errorf("death cause = %v, want bubble", death.Cause)
	}

	ticks := s.Ticks()
	mustTick(t, s, 3)
	if s.Ticks() != ticks {
		t.Errorf("ticks advanced after game over: %d -> %d", ticks, s.Ticks())
	}
}

// Two players firing at the same ball on the same tick pop it once.
func TestSimultaneousHitsPopOnce(t *testing.T) {
	cfg := staticConfig()
	rec := &recorder{}
	s := startSession(t, Options{Config: cfg, Players: 2, Observer: rec, Levels: mustSet(t,
		levelDef(1, 30, ball(320, 300, 1)))})

	s.players[0].X = 320
	s.players[1].X = 320
	for i := 0; i < 2; i++ {
		if err := s.Apply(i, ActionFire); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 50 && !s.LevelCompleted(); i++ {
		mustTick(t, s, 1)
	}

	if !s.LevelCompleted() {
		t.Fatal("ball was never popped")
	}
	if got := rec.count(EventPop); got != 1 {
		t.Errorf("pops = %d, want 1", got)
	}
	if s.Score() != cfg.Scoring.Pop {
		t.Errorf("score = %d, want %d", s.Score(), cfg.Scoring.Pop)
	}
	if p, _ := s.Player(1); !p.Weapon.Active {
		t.Error("player 1's shot was consumed by a bubble it never popped")
	}
}

func TestAllLevelsCompleted(t *testing.T) {
	cfg := staticConfig()
	s := startSession(t, Options{Config: cfg, Levels: mustSet(t,
		levelDef(1, 30, ball(320, 100, 1)))})

	fireUntilPop(t, s)
	if !s.AllCompleted() || !s.Done() {
		t.Fatal("clearing the last level did not complete the session")
	}
	score := s.Score()
	mustTick(t, s, 2)
	if s.Score() != score {
		t.Errorf("score changed after completion: %d -> %d", score, s.Score())
	}
	if s.State() != StateAllCompleted {
		t.Errorf("state = %v, want all_completed", s.State())
	}
}

func TestBonusPickup(t *testing.T) {
	cfg := staticConfig()
	cfg.Bonus.DropChance = 1
	rec := &recorder{}
	s := startSession(t, Options{Config: cfg, Observer: rec, Seed: 7, Levels: mustSet(t,
		levelDef(1, 60, ball(320, 100, 1), ball(40, 40, 1)))})

	fireUntilPop(t, s)
	if got := len(s.Snapshot().Bonuses); got != 1 {
		t.Fatalf("bonuses after pop = %d, want 1", got)
	}
	lives := s.Lives()

	var got *Event
	for i := 0; i < 400 && got == nil; i++ {
		timeLeft := s.TimeLeft()
		mustTick(t, s, 1)
		for j := range rec.events {
			if rec.events[j].Type == EventBonus {
				got = &rec.events[j]
			}
		}
		if got != nil && got.Bonus == components.BonusTime && s.TimeLeft() < timeLeft+cfg.Bonus.ExtraTime-1 {
			t.Errorf("time left %d -> %d, want +%d", timeLeft, s.TimeLeft(), cfg.Bonus.ExtraTime)
		}
	}
	if got == nil {
		t.Fatal("bonus never collected")
	}
	if got.Bonus == components.BonusLife && s.Lives() != lives+1 {
		t.Errorf("lives = %d, want %d", s.Lives(), lives+1)
	}
	if n := len(s.Snapshot().Bonuses); n != 0 {
		t.Errorf("bonuses after pickup = %d, want 0", n)
	}
}

// Lives only rise on the tick a life bonus is collected.
func TestLivesMonotonic(t *testing.T) {
	cfg := config.Default().Clone()
	cfg.Bonus.DropChance = 0.5
	rec := &recorder{}
	s := startSession(t, Options{Config: cfg, Observer: rec, Seed: 3})
	rng := rand.New(rand.NewSource(11))

	lives := s.Lives()
	for i := 0; i < 5000 && !s.Done(); i++ {
		s.Apply(0, Action(rng.Intn(NumActions)))
		seen := len(rec.events)
		mustTick(t, s, 1)

		now := s.Lives()
		if now < 0 {
			t.Fatalf("tick %d: negative lives %d", i, now)
		}
		if now > lives {
			lifeBonus := false
			for _, e := range rec.events[seen:] {
				if e.Type == EventBonus && e.Bonus == components.BonusLife {
					lifeBonus = true
				}
			}
			if !lifeBonus {
				t.Fatalf("tick %d: lives rose %d -> %d without a life bonus", i, lives, now)
			}
		}
		lives = now
		if s.TimeLeft() < 0 {
			t.Fatalf("tick %d: negative time left", i)
		}
	}
}

func TestSessionDeterministic(t *testing.T) {
	run := func() []Snapshot {
		cfg := config.Default().Clone()
		cfg.Bonus.DropChance = 0.3
		s := startSession(t, Options{Config: cfg, Seed: 99})
		actions := rand.New(rand.NewSource(5))
		var out []Snapshot
		for i := 0; i < 1500 && !s.Done(); i++ {
			s.Apply(0, Action(actions.Intn(NumActions)))
			mustTick(t, s, 1)
			out = append(out, s.Snapshot())
		}
		return out
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			t.Fatalf("tick %d differs:\n%+v\n%+v", i+1, a[i], b[i])
		}
	}
}

func TestStartErrors(t *testing.T) {
	t.Run("level locked", func(t *testing.T) {
		s, err := NewSession(Options{Logger: quietLogger()})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Start(2); !errors.Is(err, ErrLevelLocked) {
			t.Errorf("Start(2) err = %v, want ErrLevelLocked", err)
		}
	})

	t.Run("no level one", func(t *testing.T) {
		_, err := NewSession(Options{Logger: quietLogger(), Levels: mustSet(t, levelDef(2, 10, ball(1, 1, 1)))})
		var missing *level.MissingLevelError
		if !errors.As(err, &missing) {
			t.Errorf("NewSession err = %v, want *MissingLevelError", err)
		}
	})

	t.Run("tier beyond table", func(t *testing.T) {
		s, err := NewSession(Options{Logger: quietLogger(), Levels: mustSet(t, levelDef(1, 10, ball(100, 100, 9)))})
		if err != nil {
			t.Fatal(err)
		}
		var malformed *level.MalformedLevelError
		if err := s.Start(1); !errors.As(err, &malformed) {
			t.Errorf("Start err = %v, want *MalformedLevelError", err)
		}
	})

	t.Run("tick before start", func(t *testing.T) {
		s, err := NewSession(Options{Logger: quietLogger()})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Tick(); !errors.Is(err, ErrNotStarted) {
			t.Errorf("Tick err = %v, want ErrNotStarted", err)
		}
		if s.State() != StateLoading {
			t.Errorf("state = %v, want loading", s.State())
		}
	})

	t.Run("double start", func(t *testing.T) {
		s := startSession(t, Options{})
		if err := s.Start(1); !errors.Is(err, ErrAlreadyStarted) {
			t.Errorf("second Start err = %v, want ErrAlreadyStarted", err)
		}
	})
}

// Reaching a level above the stored marker advances it exactly once.
func TestProgressAdvancedOnNewLevel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().MaxLevelUnlocked().Return(1, nil)
	store.EXPECT().AdvanceUnlockedLevel(2).Return(nil).Times(1)

	s := startSession(t, Options{Config: staticConfig(), Progress: store, Levels: mustSet(t,
		levelDef(1, 30, ball(320, 100, 1)),
		levelDef(2, 30, ball(100, 100, 1)),
	)})

	fireUntilPop(t, s)
	mustTick(t, s, 1)
	if s.Level() != 2 {
		t.Fatalf("level = %d, want 2", s.Level())
	}
}

func TestProgressFailureDoesNotStopPlay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().MaxLevelUnlocked().Return(1, nil)
	store.EXPECT().AdvanceUnlockedLevel(gomock.Any()).Return(errors.New("disk full"))

	s := startSession(t, Options{Config: staticConfig(), Progress: store, Levels: mustSet(t,
		levelDef(1, 30, ball(320, 100, 1)),
		levelDef(2, 30, ball(100, 100, 1)),
	)})
	fireUntilPop(t, s)
	mustTick(t, s, 1)
	if s.Level() != 2 || s.State() != StateRunning {
		t.Errorf("level %d state %v, want 2 running", s.Level(), s.State())
	}
}

func TestProgressReadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().MaxLevelUnlocked().Return(0, errors.New("corrupt"))

	if _, err := NewSession(Options{Progress: store, Logger: quietLogger()}); err == nil {
		t.Error("NewSession succeeded with an unreadable progress store")
	}
}

func TestStartAboveOneWhenUnlocked(t *testing.T) {
	s, err := NewSession(Options{Logger: quietLogger(), Progress: progress.NewMemoryStore(3)})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(3); err != nil {
		t.Fatalf("Start(3): %v", err)
	}
	if s.Level() != 3 {
		t.Errorf("level = %d, want 3", s.Level())
	}
}

func TestPlayersSpreadAcrossField(t *testing.T) {
	s := startSession(t, Options{Config: staticConfig(), Players: 3, Levels: mustSet(t,
		levelDef(1, 30, ball(320, 100, 1)))})
	want := []float32{160, 320, 480}
	for i, w := range want {
		p, _ := s.Player(i)
		if p.X != w {
			t.Errorf("player %d x = %v, want %v", i, p.X, w)
		}
	}
}

func TestFireWhileShotActiveIsNoop(t *testing.T) {
	s := startSession(t, Options{Config: staticConfig(), Levels: mustSet(t,
		levelDef(1, 30, ball(40, 40, 1)))})

	s.Apply(0, ActionFire)
	mustTick(t, s, 3)
	first, _ := s.Player(0)

	s.Apply(0, ActionRight)
	s.Apply(0, ActionFire)
	mustTick(t, s, 1)
	p, _ := s.Player(0)
	if p.Weapon.X != first.Weapon.X {
		t.Errorf("second fire moved the shot from %v to %v", first.Weapon.X, p.Weapon.X)
	}
	if p.MovingLeft || p.MovingRight {
		t.Error("fire did not stop movement")
	}
}

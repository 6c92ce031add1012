package game

import (
	"errors"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{"left", ActionLeft, false},
		{"MOVE_RIGHT", ActionRight, false},
		{" fire ", ActionFire, false},
		{"idle", ActionIdle, false},
		{"2", ActionFire, false},
		{"4", 0, true},
		{"jump", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if tt.wantErr {
				var invalid *InvalidActionError
				if !errors.As(err, &invalid) {
					t.Errorf("ParseAction(%q) err = %v, want *InvalidActionError", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAction(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestActionNumbering(t *testing.T) {
	// Trained controllers index actions by these numbers.
	if ActionLeft != 0 || ActionRight != 1 || ActionFire != 2 || ActionIdle != 3 {
		t.Error("action numbering changed")
	}
}

func TestApplyRejectsInvalidAction(t *testing.T) {
	s := startSession(t, Options{Config: staticConfig(), Levels: mustSet(t,
		levelDef(1, 30, ball(100, 100, 1)))})

	err := s.Apply(0, Action(9))
	var invalid *InvalidActionError
	if !errors.As(err, &invalid) {
		t.Fatalf("Apply(9) err = %v, want *InvalidActionError", err)
	}
	p, _ := s.Player(0)
	if p.MovingLeft || p.MovingRight || p.Weapon.Active {
		t.Errorf("invalid action changed player state: %+v", p)
	}

	if err := s.Apply(3, ActionIdle); !errors.Is(err, ErrNoSuchPlayer) {
		t.Errorf("Apply to player 3 err = %v, want ErrNoSuchPlayer", err)
	}
}

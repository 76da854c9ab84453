package core

import "testing"

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if f.Has(ActionFeed) {
		t.Error("zero frame should have no actions")
	}
	if !f.Empty() {
		t.Error("zero frame should be empty")
	}

	f.Set(ActionFeed)
	if !f.Has(ActionFeed) || f.Has(ActionSelect) {
		t.Error("Set should mark only the given action")
	}

	f.Clear()
	if !f.Empty() {
		t.Error("Clear should remove all actions")
	}
}

func TestFrameOf(t *testing.T) {
	f := FrameOf(ActionUp, ActionAddAdder)
	if !f.Has(ActionUp) || !f.Has(ActionAddAdder) || f.Has(ActionDown) {
		t.Errorf("FrameOf produced %v", f.Actions)
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{ActionNone, "None"},
		{ActionSelect, "Select"},
		{ActionAddGradientor, "AddGradientor"},
		{ActionQuit, "Quit"},
		{Action(999), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.a.String(); got != tc.want {
			t.Errorf("Action(%d).String() = %q, expected %q", tc.a, got, tc.want)
		}
	}
}

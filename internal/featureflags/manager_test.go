package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("live_feed=on,legacy_counts=off,badges=true,dark=false,alpha=1,beta=0")

	if !m.Enabled("live_feed", 1) || !m.Enabled("badges", 1) || !m.Enabled("alpha", 1) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("legacy_counts", 1) || m.Enabled("dark", 1) || m.Enabled("beta", 1) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%")

	if !m.Enabled("always", 1) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", 1) {
		t.Fatal("0% rollout should always be disabled")
	}

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", 42); got != first {
			t.Fatal("rollout evaluation must be deterministic per user")
		}
	}

	if m.Enabled("canary", 0) {
		t.Fatal("percentage rollout requires non-zero userID")
	}
}

func TestEnabled_UnknownFlagIsOff(t *testing.T) {
	m := NewManager("live_feed=on")
	if m.Enabled("does_not_exist", 7) {
		t.Fatal("unknown flags must evaluate to off")
	}
	var nilManager *Manager
	if nilManager.Enabled("live_feed", 7) {
		t.Fatal("nil manager must evaluate to off")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off ")

	raw := m.Raw()
	if len(raw) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d", len(raw))
	}
	if raw["x"] != "on" || raw["y"] != "20%" || raw["z"] != "off" {
		t.Fatalf("unexpected raw flags: %#v", raw)
	}

	snap := m.Snapshot(123)
	if len(snap) != 3 {
		t.Fatalf("expected snapshot size 3, got %d", len(snap))
	}
}

package world

import (
	"testing"
)

func testMap(t *testing.T) *Map {
	t.Helper()
	m, err := NewMap(
		[]Location{
			{ID: "square", Name: "Village Square"},
			{ID: "market", Name: "Market Row"},
			{ID: "mill", Name: "Ashford Mill"},
		},
		[]Connection{
			{From: "square", To: "market", TravelTime: 2, Bidirectional: true},
			{From: "market", To: "mill", TravelTime: 4},
		},
	)
	if err != nil {
		t.Fatalf("NewMap failed: %v", err)
	}
	return m
}

func TestNewMapRejectsDanglingConnection(t *testing.T) {
	_, err := NewMap(
		[]Location{{ID: "square"}},
		[]Connection{{From: "square", To: "nowhere", TravelTime: 1}},
	)
	if err == nil {
		t.Error("connection to unknown location should fail")
	}
}

func TestNewMapRejectsDuplicateIDs(t *testing.T) {
	_, err := NewMap(
		[]Location{{ID: "square"}, {ID: "square"}},
		nil,
	)
	if err == nil {
		t.Error("duplicate location id should fail")
	}
}

func TestReachability(t *testing.T) {
	m := testMap(t)

	if !m.Reachable("square", "market") {
		t.Error("square -> market should be reachable")
	}
	if !m.Reachable("market", "square") {
		t.Error("bidirectional edge should work both ways")
	}
	if m.Reachable("mill", "market") {
		t.Error("one-way edge should not work in reverse")
	}
	if m.Reachable("square", "mill") {
		t.Error("non-adjacent locations are not directly reachable")
	}
}

func TestNeighbors(t *testing.T) {
	m := testMap(t)
	n := m.Neighbors("market")
	if len(n) != 2 || n[0] != "mill" || n[1] != "square" {
		t.Errorf("Neighbors(market) = %v", n)
	}
}

func TestTravelTime(t *testing.T) {
	m := testMap(t)
	m.TravelModifiers["horse"] = 0.4

	tests := []struct {
		from, to, mode string
		want           int
		ok             bool
	}{
		{"square", "market", "walk", 2, true},
		{"market", "mill", "walk", 4, true},
		{"market", "mill", "horse", 1, true},
		{"square", "market", "unknown_mode", 2, true},
		{"square", "mill", "walk", 0, false},
	}

	for _, tt := range tests {
		got, ok := m.TravelTime(tt.from, tt.to, tt.mode)
		if got != tt.want || ok != tt.ok {
			t.Errorf("TravelTime(%s, %s, %s) = (%d, %v), want (%d, %v)",
				tt.from, tt.to, tt.mode, got, ok, tt.want, tt.ok)
		}
	}
}

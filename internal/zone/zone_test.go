package zone

import (
	"encoding/json"
	"testing"
)

func TestMemStat_JSONRoundTrip(t *testing.T) {
	m := MemStat{
		Zonename: "6dc5da73-e4e5-45b6-80b9-5d2073e9b1ee",
		Alias:    SomeAlias("amon0"),
		RSS:      174,
		Cap:      1024,
		Swap:     SomeSwap(7.11193),
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back MemStat
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != m {
		t.Errorf("round trip = %+v, want %+v", back, m)
	}
}

func TestMemStat_JSONAbsentFieldsAreNull(t *testing.T) {
	m := MemStat{Zonename: "global", RSS: 850, Cap: 16777215}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if raw["alias"] != nil {
		t.Errorf("alias = %v, want null", raw["alias"])
	}
	if raw["swap"] != nil {
		t.Errorf("swap = %v, want null", raw["swap"])
	}
}

func TestMemStat_UUID_Global(t *testing.T) {
	m := MemStat{Zonename: "global"}
	if _, err := m.UUID(); err == nil {
		t.Error("UUID() on the global zone should not parse")
	}
	if !m.IsGlobal() {
		t.Error("IsGlobal() = false, want true")
	}
}

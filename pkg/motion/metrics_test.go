package motion

import (
	"encoding/json"
	"testing"
)

func TestTypeJSONNames(t *testing.T) {
	b, err := json.Marshal(Metrics{Type: Global})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var m Metrics
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if m.Type != Global {
		t.Errorf("Round trip lost type: %v", m.Type)
	}

	var bad Type
	if err := bad.UnmarshalJSON([]byte(`"sideways"`)); err == nil {
		t.Error("Expected error for unknown type name")
	}
}

package metrics

import "testing"

func TestMetricFieldKeysAreStable(t *testing.T) {
	keys := []string{AttrMethod, AttrPath, AttrStatus, AttrGateway, AttrOperation, AttrAction, AttrOutcome}
	for _, k := range keys {
		if k == "" {
			t.Fatalf("expected metric attribute keys to be non-empty")
		}
	}
}

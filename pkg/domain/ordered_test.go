package domain

import (
	"encoding/json"
	"testing"
)

func TestOrderedPreservesInsertionOrder(t *testing.T) {
	var o Ordered[int]
	o.Set("b", 1)
	o.Set("a", 2)
	o.Set("b", 3)
	if keys := o.Keys(); len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if v, ok := o.Get("b"); !ok || v != 3 {
		t.Fatalf("expected replaced value 3, got %d", v)
	}
	raw, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"b":3,"a":2}` {
		t.Fatalf("unexpected json %s", raw)
	}
	var seen []string
	for k := range o.All() {
		seen = append(seen, k)
		break
	}
	if len(seen) != 1 {
		t.Fatalf("expected early stop, got %v", seen)
	}
}

func TestOrderedUnmarshalKeepsDocumentOrder(t *testing.T) {
	var o Ordered[Hours]
	if err := json.Unmarshal([]byte(`{"Tuesday":{"open":8,"close":18},"Monday":{"open":0,"close":0}}`), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if keys := o.Keys(); len(keys) != 2 || keys[0] != "Tuesday" || keys[1] != "Monday" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if h, _ := o.Get("Tuesday"); h.Close != 18 {
		t.Fatalf("unexpected hours %+v", h)
	}
	if err := json.Unmarshal([]byte(`null`), &o); err != nil || o.Len() != 0 {
		t.Fatalf("expected null to reset, got len %d err %v", o.Len(), err)
	}
	if err := json.Unmarshal([]byte(`[1]`), &o); err == nil {
		t.Fatalf("expected error for array input")
	}
}

func TestOrderedCloneIsIndependent(t *testing.T) {
	var o Ordered[float64]
	o.Set("Adult", 1)
	cp := o.Clone()
	cp.Set("Adult", 2)
	cp.Set("Child", 3)
	if v, _ := o.Get("Adult"); v != 1 || o.Len() != 1 {
		t.Fatalf("clone mutated source")
	}
	var empty Ordered[float64]
	if empty.Clone().Len() != 0 {
		t.Fatalf("expected empty clone")
	}
	raw, _ := json.Marshal(empty)
	if string(raw) != `{}` {
		t.Fatalf("expected empty object, got %s", raw)
	}
}

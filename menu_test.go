package main

import (
	"reflect"
	"testing"
	"time"
)

const walkWindowTimeout = 120 * time.Second

func TestWalkWindowScrolling(t *testing.T) {
	w := newDefectWalk(fallbackTaxonomy(), "AABB", time.Now(), walkWindowTimeout)

	// Four sections, three visible rows.
	rows, sel := w.visible()
	if !reflect.DeepEqual(rows, []string{"Front", "Back", "Sleeve"}) || sel != 0 {
		t.Fatalf("initial window => %v sel %d", rows, sel)
	}

	w.navDown()
	w.navDown()
	w.navDown() // cursor on the fourth entry, window slides
	rows, sel = w.visible()
	if !reflect.DeepEqual(rows, []string{"Back", "Sleeve", "Collar"}) || sel != 2 {
		t.Fatalf("window after 3 downs => %v sel %d", rows, sel)
	}

	w.navDown() // wraparound to the top
	rows, sel = w.visible()
	if !reflect.DeepEqual(rows, []string{"Front", "Back", "Sleeve"}) || sel != 0 {
		t.Fatalf("window after wraparound => %v sel %d", rows, sel)
	}

	w.navUp() // and back around to the bottom
	rows, sel = w.visible()
	if !reflect.DeepEqual(rows, []string{"Back", "Sleeve", "Collar"}) || sel != 2 {
		t.Fatalf("window after up-wraparound => %v sel %d", rows, sel)
	}
}

// Scenario: back out of Type; the Section picked before is still
// selected. Descending again starts the lower level fresh.
func TestWalkCancelPreservesUpperLevel(t *testing.T) {
	w := newDefectWalk(fallbackTaxonomy(), "AABB", time.Now(), walkWindowTimeout)

	w.navDown() // Section = Back
	if done, _, _, _ := w.confirm(); done {
		t.Fatal("confirm at Section level completed the walk")
	}
	w.navDown()
	w.navDown() // wander around the Type level

	if aborted := w.cancel(); aborted {
		t.Fatal("cancel at Type level aborted the whole walk")
	}
	if w.level != levelSection || w.cursors[levelSection] != 1 {
		t.Fatalf("after back-out: level=%v cursor=%d; want Section/1", w.level, w.cursors[levelSection])
	}

	w.confirm()
	if w.cursors[levelType] != 0 {
		t.Errorf("re-entered Type level keeps stale cursor %d", w.cursors[levelType])
	}
}

func TestWalkCancelAtTopAborts(t *testing.T) {
	w := newDefectWalk(fallbackTaxonomy(), "AABB", time.Now(), walkWindowTimeout)
	if aborted := w.cancel(); !aborted {
		t.Fatal("cancel at Section level did not abort")
	}
}

func TestWalkCodes(t *testing.T) {
	w := newDefectWalk(fallbackTaxonomy(), "AABB", time.Now(), walkWindowTimeout)

	w.confirm() // Section 0 (Front)
	w.navDown()
	w.navDown() // Type index 2 (Measurement)
	w.confirm()
	w.navDown() // Subtype index 1 (Asymmetry, global code 7)

	done, section, typ, subtype := w.confirm()
	if !done {
		t.Fatal("confirm at Subtype level did not complete")
	}
	if section != 0 || typ != 2 || subtype != 7 {
		t.Errorf("codes => %d/%d/%d; want 0/2/7", section, typ, subtype)
	}
}

func TestWalkDeadline(t *testing.T) {
	start := time.Now()
	w := newDefectWalk(fallbackTaxonomy(), "AABB", start, walkWindowTimeout)

	if w.expired(start.Add(119 * time.Second)) {
		t.Error("walk expired before its deadline")
	}
	if !w.expired(start.Add(121 * time.Second)) {
		t.Error("walk not expired after its deadline")
	}
}

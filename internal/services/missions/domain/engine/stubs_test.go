package engine

import (
	"bytes"
	"log"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/missionkit/internal/random"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/record"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeCarrier struct {
	data   []byte
	has    bool
	broken bool
	writes int
	marks  int
}

func (c *fakeCarrier) MissionData() ([]byte, bool) { return c.data, c.has }

func (c *fakeCarrier) SetMissionData(data []byte) {
	c.data = slices.Clone(data)
	c.has = true
	c.writes++
}

func (c *fakeCarrier) Broken() bool { return c.broken }
func (c *fakeCarrier) MarkBroken()  { c.broken = true; c.marks++ }
func (c *fakeCarrier) ClearBroken() { c.broken = false }

type fakeHolder struct {
	id       uuid.UUID
	name     string
	location string
	slots    []Slot
	removed  []Carrier
}

func (h *fakeHolder) ID() uuid.UUID    { return h.id }
func (h *fakeHolder) Name() string     { return h.name }
func (h *fakeHolder) Location() string { return h.location }
func (h *fakeHolder) Slots() []Slot    { return h.slots }

func (h *fakeHolder) Remove(carrier Carrier) {
	h.removed = append(h.removed, carrier)
	for i, slot := range h.slots {
		if slot.Carrier == carrier {
			h.slots[i].Carrier = nil
		}
	}
}

func newHolder() *fakeHolder {
	return &fakeHolder{id: uuid.New(), name: "steve", location: "world"}
}

func (h *fakeHolder) put(index int, kind SlotKind, c *fakeCarrier) {
	slot := Slot{Index: index, Kind: kind}
	if c != nil {
		slot.Carrier = c
	}
	h.slots = append(h.slots, slot)
}

func testTable(t *testing.T) *definition.Table {
	t.Helper()
	types, err := missiontype.DefaultRegistry(missiontype.DefaultVocabulary())
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	table, err := definition.Compile(types,
		[]definition.CategoryWeight{{Name: "A", Weight: 0}, {Name: "B", Weight: 10}, {Name: "empty", Weight: 5}},
		[]definition.Input{
			{Key: "miner", Category: "A", Type: "break", RequirementMin: 10, RequirementMax: 10, Targets: []string{"stone", "*_ore"}, Rewards: []string{"give <player> diamond 1", "say gg <player>"}},
			{Key: "lumber", Category: "B", Type: "break", RequirementMin: 3, RequirementMax: 5, Targets: []string{"oak_log"}},
			{Key: "walker", Category: "B", Type: "walk", RequirementMin: 100, Duration: time.Hour, FailConditions: []string{"death"}},
			{Key: "enchanter", Category: "B", Type: "complex_enchant", RequirementMin: 1, Targets: []string{"fire*:3:*"}},
			{Key: "surface", Category: "B", Type: "break", RequirementMin: 5, Targets: []string{"*"}, ExcludedLocations: []string{"world_nether"}},
		})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return table
}


func newTestEngine(t *testing.T, extra ...Option) (*Engine, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	opts := append([]Option{
		WithClock(func() time.Time { return testNow }),
		WithRand(random.NewRand(7)),
		WithLogger(log.New(&logs, "", 0)),
	}, extra...)
	e, err := New(testTable(t), opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, &logs
}

func carrierFor(t *testing.T, configID string, requirement, progress int, completed bool, expiresAt time.Time) *fakeCarrier {
	t.Helper()
	rec := record.Restore(uuid.New(), configID, requirement, progress, completed, expiresAt)
	return &fakeCarrier{data: record.Encode(rec), has: true}
}

func decodeCarrier(t *testing.T, c *fakeCarrier) record.Record {
	t.Helper()
	rec, err := record.Decode(c.data)
	if err != nil {
		t.Fatalf("decode carrier: %v", err)
	}
	return rec
}

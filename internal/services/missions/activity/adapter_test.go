package activity

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/missionkit/internal/random"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/cache"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/engine"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/record"
)

type stubCarrier struct {
	data   []byte
	has    bool
	broken bool
}

func (c *stubCarrier) MissionData() ([]byte, bool) { return c.data, c.has }
func (c *stubCarrier) SetMissionData(data []byte)  { c.data = slices.Clone(data); c.has = true }
func (c *stubCarrier) Broken() bool                { return c.broken }
func (c *stubCarrier) MarkBroken()                 { c.broken = true }
func (c *stubCarrier) ClearBroken()                { c.broken = false }

type stubHolder struct {
	id      uuid.UUID
	slots   []engine.Slot
	removed int
}

func (h *stubHolder) ID() uuid.UUID        { return h.id }
func (h *stubHolder) Name() string         { return "alex" }
func (h *stubHolder) Location() string     { return "world" }
func (h *stubHolder) Slots() []engine.Slot { return h.slots }

func (h *stubHolder) Remove(carrier engine.Carrier) {
	h.removed++
	for i := range h.slots {
		if h.slots[i].Carrier == carrier {
			h.slots[i].Carrier = nil
		}
	}
}

type holderIndex map[uuid.UUID]engine.Holder

func (idx holderIndex) Holder(id uuid.UUID) (engine.Holder, bool) {
	h, ok := idx[id]
	return h, ok
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var world = uuid.MustParse("0b5e8c1e-3d7a-4f69-a0a4-5b1f9f3b2c10")

func at(x, y, z int) cache.BlockPos { return cache.BlockPos{World: world, X: x, Y: y, Z: z} }

type fixture struct {
	adapter *Adapter
	holder  *stubHolder
	clock   *clock
	seen    []engine.Outcome
}

func newFixture(t *testing.T, inputs ...definition.Input) *fixture {
	t.Helper()
	types, err := missiontype.DefaultRegistry(missiontype.DefaultVocabulary())
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	table, err := definition.Compile(types, []definition.CategoryWeight{{Name: "main", Weight: 1}}, inputs)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e, err := engine.New(table, engine.WithRand(random.NewRand(1)))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	f := &fixture{
		holder: &stubHolder{id: uuid.New()},
		clock:  &clock{now: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i, in := range inputs {
		rec, err := record.New(in.Key, 1000, time.Time{})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		c := &stubCarrier{data: record.Encode(rec), has: true}
		f.holder.slots = append(f.holder.slots, engine.Slot{Index: i, Kind: engine.SlotMain, Carrier: c})
	}
	f.adapter = New(e, DefaultSettings(),
		WithCacheClock(f.clock.Now),
		WithHolders(holderIndex{f.holder.id: f.holder}),
		WithObserver(ObserverFunc(func(_ engine.Holder, out engine.Outcome) { f.seen = append(f.seen, out) })),
	)
	return f
}

func (f *fixture) progress(t *testing.T, slot int) int {
	t.Helper()
	data, _ := f.holder.slots[slot].Carrier.MissionData()
	rec, err := record.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Progress()
}

func TestBreakIgnoresRecentlyPlacedBlocks(t *testing.T) {
	f := newFixture(t,
		definition.Input{Key: "builder", Category: "main", Type: "place", Targets: []string{"*"}},
		definition.Input{Key: "miner", Category: "main", Type: "break", Targets: []string{"*"}},
	)
	stone := Block{Pos: at(0, 64, 0), Material: "STONE"}

	if err := f.adapter.PlaceBlock(f.holder, stone); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := f.adapter.BreakBlock(f.holder, stone); err != nil {
		t.Fatalf("break: %v", err)
	}
	if f.progress(t, 0) != 1 || f.progress(t, 1) != 0 {
		t.Fatalf("expected place credited and break ignored, got %d %d", f.progress(t, 0), f.progress(t, 1))
	}

	f.clock.Advance(time.Minute)
	if err := f.adapter.BreakBlock(f.holder, stone); err != nil {
		t.Fatalf("break: %v", err)
	}
	if f.progress(t, 1) != 1 {
		t.Fatal("expected break credited once the placement expired")
	}
}

func TestBreakCountsFreshChain(t *testing.T) {
	f := newFixture(t, definition.Input{Key: "miner", Category: "main", Type: "break", Targets: []string{"*"}})
	f.adapter.places.Add(at(0, 66, 0))

	err := f.adapter.BreakBlock(f.holder, Block{Pos: at(0, 64, 0), Material: "sugar_cane"}, at(0, 65, 0), at(0, 66, 0))
	if err != nil {
		t.Fatalf("break: %v", err)
	}
	if f.progress(t, 0) != 2 {
		t.Fatalf("expected base block plus one fresh chain block, got %d", f.progress(t, 0))
	}
}

func TestHarvestRequiresMaturity(t *testing.T) {
	f := newFixture(t, definition.Input{Key: "farmer", Category: "main", Type: "harvest", Targets: []string{"wheat"}})
	wheat := Block{Pos: at(1, 64, 1), Material: "WHEAT"}

	f.adapter.HarvestBlock(f.holder, wheat, false)
	if f.progress(t, 0) != 0 {
		t.Fatal("expected unripe crop to earn nothing")
	}
	f.adapter.HarvestBlock(f.holder, wheat, true)
	if f.progress(t, 0) != 1 {
		t.Fatal("expected ripe crop to be credited")
	}
}

func TestMoveBatchesSteps(t *testing.T) {
	f := newFixture(t, definition.Input{Key: "walker", Category: "main", Type: "walk"})

	for x := range 4 {
		f.adapter.Move(f.holder, at(x, 64, 0), at(x+1, 64, 0), MoveWalk)
	}
	if f.progress(t, 0) != 0 {
		t.Fatal("expected no credit before the batch fills")
	}
	f.adapter.Move(f.holder, at(4, 64, 0), at(4, 65, 0), MoveWalk)
	if f.progress(t, 0) != 0 {
		t.Fatal("expected vertical movement to be ignored")
	}
	f.adapter.Move(f.holder, at(4, 64, 0), at(5, 64, 0), MoveWalk)
	if f.progress(t, 0) != 5 {
		t.Fatalf("expected batch of 5, got %d", f.progress(t, 0))
	}
	f.adapter.Move(f.holder, at(5, 64, 0), at(4, 64, 0), MoveWalk)
	f.adapter.Move(f.holder, at(5, 64, 0), at(6, 64, 0), MoveOther)
	f.adapter.Leave(f.holder)
}

func TestMoveIgnoresRecentBlocks(t *testing.T) {
	f := newFixture(t, definition.Input{Key: "swimmer", Category: "main", Type: "swim"})
	for range 10 {
		f.adapter.Move(f.holder, at(0, 60, 0), at(1, 60, 0), MoveSwim)
		f.adapter.Move(f.holder, at(1, 60, 0), at(0, 60, 0), MoveSwim)
	}
	if f.progress(t, 0) != 0 {
		t.Fatalf("expected back-and-forth swimming to earn nothing, got %d", f.progress(t, 0))
	}
}

func TestBrewCreditsAssociatedHolder(t *testing.T) {
	f := newFixture(t, definition.Input{Key: "brewer", Category: "main", Type: "brew", Targets: []string{"swiftness"}})
	stand := at(5, 70, 5)

	f.adapter.Brewed(stand, []BrewResult{{Before: "awkward", After: "swiftness"}})
	if f.progress(t, 0) != 0 {
		t.Fatal("expected unassociated stand to credit nobody")
	}

	f.adapter.LoadBrewer(f.holder, stand)
	err := f.adapter.Brewed(stand, []BrewResult{
		{Before: "awkward", After: "SWIFTNESS"},
		{Before: "swiftness", After: "swiftness"},
		{Before: "awkward", After: ""},
		{Before: "water", After: "swiftness"},
	})
	if err != nil {
		t.Fatalf("brewed: %v", err)
	}
	if f.progress(t, 0) != 2 {
		t.Fatalf("expected two changed bottles credited, got %d", f.progress(t, 0))
	}

	f.clock.Advance(5 * time.Minute)
	f.adapter.Brewed(stand, []BrewResult{{Before: "awkward", After: "swiftness"}})
	if f.progress(t, 0) != 2 {
		t.Fatal("expected association to expire")
	}
}

func TestEnchantCreditsPlainAndTuple(t *testing.T) {
	f := newFixture(t,
		definition.Input{Key: "enchanter", Category: "main", Type: "enchant", Targets: []string{"sharpness"}},
		definition.Input{Key: "fire", Category: "main", Type: "complex_enchant", Targets: []string{"fire*:2:*_sword"}},
	)
	err := f.adapter.Enchant(f.holder, "DIAMOND_SWORD", []Enchantment{
		{Key: "minecraft:sharpness", Level: 3},
		{Key: "minecraft:fire_aspect", Level: 2},
	})
	if err != nil {
		t.Fatalf("enchant: %v", err)
	}
	if f.progress(t, 0) != 1 || f.progress(t, 1) != 1 {
		t.Fatalf("expected both missions credited once, got %d %d", f.progress(t, 0), f.progress(t, 1))
	}
	if len(f.seen) != 2 {
		t.Fatalf("expected two observed outcomes, got %d", len(f.seen))
	}
}

func TestEnchantMatchesWildcardTarget(t *testing.T) {
	f := newFixture(t, definition.Input{Key: "burner", Category: "main", Type: "enchant", Targets: []string{"FIRE*"}})
	err := f.adapter.Enchant(f.holder, "iron_sword", []Enchantment{
		{Key: "fire_aspect", Level: 1},
		{Key: "minecraft:sharpness", Level: 1},
	})
	if err != nil {
		t.Fatalf("enchant: %v", err)
	}
	if got := f.progress(t, 0); got != 1 {
		t.Fatalf("expected only fire_aspect credited, got %d", got)
	}
}

func TestRepairCreditsRaisedEnchantments(t *testing.T) {
	f := newFixture(t,
		definition.Input{Key: "smith", Category: "main", Type: "repair", Targets: []string{"iron_pickaxe"}},
		definition.Input{Key: "enchanter", Category: "main", Type: "enchant", Targets: []string{"*"}},
	)
	err := f.adapter.Repair(f.holder, "iron_pickaxe", 40,
		[]Enchantment{{Key: "minecraft:efficiency", Level: 2}, {Key: "minecraft:unbreaking", Level: 3}},
		[]Enchantment{{Key: "minecraft:efficiency", Level: 3}, {Key: "minecraft:unbreaking", Level: 3}},
	)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if f.progress(t, 0) != 40 || f.progress(t, 1) != 1 {
		t.Fatalf("unexpected progress %d %d", f.progress(t, 0), f.progress(t, 1))
	}
}

func TestConsumeAndEntities(t *testing.T) {
	f := newFixture(t,
		definition.Input{Key: "drinker", Category: "main", Type: "potion", Targets: []string{"healing"}},
		definition.Input{Key: "eater", Category: "main", Type: "consume", Targets: []string{"*"}},
		definition.Input{Key: "hunter", Category: "main", Type: "kill", Targets: []string{"zombie"}},
		definition.Input{Key: "fighter", Category: "main", Type: "damage", Targets: []string{"*"}},
		definition.Input{Key: "scholar", Category: "main", Type: "xp"},
		definition.Input{Key: "merchant", Category: "main", Type: "trade"},
	)
	f.adapter.Consume(f.holder, "potion", "healing")
	f.adapter.Kill(f.holder, "ZOMBIE")
	f.adapter.Damage(f.holder, "skeleton", 6.6)
	f.adapter.Experience(f.holder, 12)
	f.adapter.Experience(f.holder, -3)
	f.adapter.Trade(f.holder)

	want := []int{1, 1, 1, 7, 12, 1}
	for slot, progress := range want {
		if got := f.progress(t, slot); got != progress {
			t.Fatalf("slot %d progress %d, want %d", slot, got, progress)
		}
	}
}

func TestFailTriggers(t *testing.T) {
	f := newFixture(t,
		definition.Input{Key: "daredevil", Category: "main", Type: "walk", FailConditions: []string{"take_damage"}},
		definition.Input{Key: "survivor", Category: "main", Type: "walk", FailConditions: []string{"death"}},
	)
	if n := f.adapter.Damaged(f.holder, 0); n != 0 {
		t.Fatal("expected zero damage to be ignored")
	}
	if n := f.adapter.Damaged(f.holder, 2.5); n != 1 {
		t.Fatalf("expected one failure, got %d", n)
	}
	if n := f.adapter.Died(f.holder); n != 1 {
		t.Fatalf("expected one failure, got %d", n)
	}
	if f.holder.removed != 2 {
		t.Fatalf("expected both carriers removed, got %d", f.holder.removed)
	}
}

func TestReconfigureKeepsLiveEntries(t *testing.T) {
	f := newFixture(t, definition.Input{Key: "miner", Category: "main", Type: "break", Targets: []string{"*"}})
	pos := at(9, 64, 9)
	f.adapter.places.Add(pos)

	settings := DefaultSettings()
	settings.RecentPlacementSize = 10
	settings.WalkBatch = 2
	f.adapter.Reconfigure(settings)
	if !f.adapter.places.Recent(pos) {
		t.Fatal("expected placement to survive reconfigure")
	}
	if f.adapter.Settings().WalkBatch != 2 {
		t.Fatal("expected new settings to apply")
	}

	settings.RecentPlacementEnabled = false
	f.adapter.Reconfigure(settings)
	f.adapter.BreakBlock(f.holder, Block{Pos: pos, Material: "stone"})
	if f.progress(t, 0) != 1 {
		t.Fatal("expected disabled placement cache to let breaks through")
	}
}

func TestCraftAmount(t *testing.T) {
	tests := []struct {
		name  string
		craft Craft
		want  int
	}{
		{"single take", Craft{Output: 4, Click: CraftTake, Matrix: []int{64, 3}, FreeSpace: 0}, 4},
		{"shift limited by grid", Craft{Output: 4, Click: CraftShift, Matrix: []int{64, 3, 0}, FreeSpace: 100}, 12},
		{"shift limited by space", Craft{Output: 4, Click: CraftShift, Matrix: []int{64, 10}, FreeSpace: 30}, 30},
		{"shift without space", Craft{Output: 1, Click: CraftShift, Matrix: []int{8}, FreeSpace: 0}, 0},
		{"drop ignores space", Craft{Output: 1, Click: CraftDrop, Matrix: []int{8, 5}, FreeSpace: 0}, 5},
		{"empty grid", Craft{Output: 1, Click: CraftDrop}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.craft.Amount(); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCraftCreditsProducedItems(t *testing.T) {
	f := newFixture(t, definition.Input{Key: "torches", Category: "main", Type: "craft", Targets: []string{"torch"}})

	if err := f.adapter.Craft(f.holder, Craft{Item: "TORCH", Output: 4, Click: CraftShift, Matrix: []int{3, 7}, FreeSpace: 64}); err != nil {
		t.Fatalf("craft: %v", err)
	}
	if got := f.progress(t, 0); got != 12 {
		t.Fatalf("expected 12 torches credited, got %d", got)
	}
	if err := f.adapter.Craft(f.holder, Craft{Item: "torch", Output: 4, Click: CraftShift, Matrix: []int{3}, FreeSpace: 0}); err != nil {
		t.Fatalf("craft: %v", err)
	}
	if got := f.progress(t, 0); got != 12 {
		t.Fatalf("expected full inventory to earn nothing, got %d", got)
	}
}

func TestItemActions(t *testing.T) {
	f := newFixture(t,
		definition.Input{Key: "smelter", Category: "main", Type: "smelt", Targets: []string{"iron_ingot"}},
		definition.Input{Key: "angler", Category: "main", Type: "fish", Targets: []string{"cod", "salmon"}},
		definition.Input{Key: "grinder", Category: "main", Type: "disenchant", Targets: []string{"*_sword"}},
	)

	if err := f.adapter.Smelt(f.holder, "IRON_INGOT", 16); err != nil {
		t.Fatalf("smelt: %v", err)
	}
	if err := f.adapter.Fish(f.holder, "salmon"); err != nil {
		t.Fatalf("fish: %v", err)
	}
	if err := f.adapter.Fish(f.holder, "pufferfish"); err != nil {
		t.Fatalf("fish: %v", err)
	}
	if err := f.adapter.Disenchant(f.holder, "iron_sword", 0); err != nil {
		t.Fatalf("disenchant: %v", err)
	}
	if err := f.adapter.Disenchant(f.holder, "diamond_sword", 3); err != nil {
		t.Fatalf("disenchant: %v", err)
	}

	if got := f.progress(t, 0); got != 16 {
		t.Fatalf("expected 16 smelted, got %d", got)
	}
	if got := f.progress(t, 1); got != 1 {
		t.Fatalf("expected only the matching catch credited, got %d", got)
	}
	if got := f.progress(t, 2); got != 1 {
		t.Fatalf("expected only the enchanted input credited, got %d", got)
	}
}

func TestEntityInteractions(t *testing.T) {
	f := newFixture(t,
		definition.Input{Key: "tamer", Category: "main", Type: "tame", Targets: []string{"wolf"}},
		definition.Input{Key: "dairy", Category: "main", Type: "milk", Targets: []string{"cow", "goat"}},
		definition.Input{Key: "shearer", Category: "main", Type: "shear", Targets: []string{"sheep"}},
		definition.Input{Key: "rancher", Category: "main", Type: "breed", Targets: []string{"*"}},
	)

	calls := []func() error{
		func() error { return f.adapter.Tame(f.holder, "WOLF") },
		func() error { return f.adapter.Tame(f.holder, "cat") },
		func() error { return f.adapter.Milk(f.holder, "goat") },
		func() error { return f.adapter.Shear(f.holder, "sheep") },
		func() error { return f.adapter.Breed(f.holder, "pig") },
		func() error { return f.adapter.Breed(f.holder, "cow") },
	}
	for _, call := range calls {
		if err := call(); err != nil {
			t.Fatalf("action: %v", err)
		}
	}

	want := []int{1, 1, 1, 2}
	for slot, n := range want {
		if got := f.progress(t, slot); got != n {
			t.Fatalf("slot %d: expected %d, got %d", slot, n, got)
		}
	}
}

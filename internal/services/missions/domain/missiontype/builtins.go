package missiontype

import "github.com/louisbranch/missionkit/internal/services/missions/domain/target"

// Built-in type ids.
const (
	TypeBreak          = "break"
	TypePlace          = "place"
	TypeFish           = "fish"
	TypeCraft          = "craft"
	TypeHarvest        = "harvest"
	TypeDisenchant     = "disenchant"
	TypeRepair         = "repair"
	TypeConsume        = "consume"
	TypeSmelt          = "smelt"
	TypeMilk           = "milk"
	TypeBreed          = "breed"
	TypeKill           = "kill"
	TypeDamage         = "damage"
	TypeTame           = "tame"
	TypeShear          = "shear"
	TypePotion         = "potion"
	TypeBrew           = "brew"
	TypeEnchant        = "enchant"
	TypeComplexEnchant = "complex_enchant"
	TypeWalk           = "walk"
	TypeGlide          = "glide"
	TypeSwim           = "swim"
	TypeXP             = "xp"
	TypeTrade          = "trade"
)

// Vocabulary supplies the host's symbol sets to the built-in types.
type Vocabulary struct {
	Materials        []string
	Entities         []string
	Potions          []string
	EnchantNamespace string
	Enchantments     target.Keys
}

// Builtins returns the default mission type catalog for vocab.
func Builtins(vocab Vocabulary) []Type {
	materialTypes := []string{TypeBreak, TypePlace, TypeFish, TypeCraft, TypeHarvest, TypeDisenchant, TypeRepair, TypeConsume, TypeSmelt}
	entityTypes := []string{TypeMilk, TypeBreed, TypeKill, TypeDamage, TypeTame, TypeShear}
	potionTypes := []string{TypePotion, TypeBrew}

	types := make([]Type, 0, 24)
	for _, id := range materialTypes {
		types = append(types, Enum(id, vocab.Materials...))
	}
	for _, id := range entityTypes {
		types = append(types, Enum(id, vocab.Entities...))
	}
	for _, id := range potionTypes {
		types = append(types, Enum(id, vocab.Potions...))
	}
	types = append(types,
		Keyed(TypeEnchant, vocab.EnchantNamespace, vocab.Enchantments),
		Composite(TypeComplexEnchant,
			target.Registry(vocab.EnchantNamespace, vocab.Enchantments),
			target.Int(),
			target.Enum(vocab.Materials...),
		),
		Simple(TypeWalk),
		Simple(TypeGlide),
		Simple(TypeSwim),
		Simple(TypeXP),
		Simple(TypeTrade),
	)
	return types
}

// DefaultRegistry registers the built-in catalog for vocab and freezes it.
func DefaultRegistry(vocab Vocabulary) (*Registry, error) {
	b := NewBuilder()
	if err := b.Register(Builtins(vocab)...); err != nil {
		return nil, err
	}
	return b.Freeze(), nil
}

// DefaultVocabulary returns a small vanilla symbol set for tools and tests
// that run without a host.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Materials: []string{
			"stone", "cobblestone", "dirt", "grass_block", "sand", "gravel",
			"oak_log", "birch_log", "spruce_log", "oak_planks",
			"coal_ore", "iron_ore", "gold_ore", "diamond_ore", "deepslate_iron_ore",
			"wheat", "carrots", "potatoes", "beetroots", "sugar_cane", "melon", "pumpkin",
			"cod", "salmon", "pufferfish", "tropical_fish",
			"bread", "cooked_beef", "golden_apple", "iron_ingot", "gold_ingot",
			"wooden_sword", "stone_sword", "iron_sword", "diamond_sword", "netherite_sword",
			"iron_pickaxe", "diamond_pickaxe", "netherite_pickaxe", "bow", "fishing_rod",
			"torch", "crafting_table", "furnace", "chest",
		},
		Entities: []string{
			"cow", "sheep", "pig", "chicken", "horse", "wolf", "cat", "mooshroom", "goat",
			"zombie", "skeleton", "creeper", "spider", "enderman", "witch", "blaze", "player",
		},
		Potions: []string{
			"water", "awkward", "swiftness", "strength", "healing", "regeneration",
			"fire_resistance", "night_vision", "invisibility", "poison", "weakness", "slowness",
		},
		EnchantNamespace: "minecraft",
		Enchantments: target.NewKeySet(
			"minecraft:sharpness", "minecraft:smite", "minecraft:fire_aspect", "minecraft:knockback",
			"minecraft:looting", "minecraft:efficiency", "minecraft:fortune", "minecraft:silk_touch",
			"minecraft:unbreaking", "minecraft:mending", "minecraft:protection", "minecraft:power",
		),
	}
}

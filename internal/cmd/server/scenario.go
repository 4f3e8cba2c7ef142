package server

import "github.com/louisbranch/fableroom/internal/scenario"

// builtinScenario is the shipped starter story. Operators add their own
// scenarios through the SQLite store.
func builtinScenario() scenario.Scenario {
	return scenario.Scenario{
		ID:          "lantern-of-the-hollow",
		Name:        "Lantern of the Hollow",
		Description: "A storm strands the party in a village whose lighthouse went dark three nights ago.",
		MinPlayers:  1,
		MaxPlayers:  4,
		WorldBackground: "The fishing village of Graywick survives on the lighthouse " +
			"at Hollow Point. When its lantern fails, ships wreck and something " +
			"older than the village stirs in the caves below the cliffs.",
		MainScene: "The Drowned Gull inn, rain hammering the windows",
		Templates: []scenario.CharacterTemplate{
			{
				Name:          "Keeper",
				Description:   "A retired lighthouse keeper who knows the cliff paths blind.",
				MaxHealth:     10,
				Attributes:    map[string]int{"grit": 3, "lore": 2},
				Items:         []string{"storm lantern", "coil of rope"},
				StartLocation: "The Drowned Gull",
			},
			{
				Name:          "Tidecaller",
				Description:   "A sea-witch's apprentice who hears the water's moods.",
				MaxHealth:     8,
				Attributes:    map[string]int{"grit": 1, "lore": 4},
				Items:         []string{"salt charm", "driftwood staff"},
				StartLocation: "The Drowned Gull",
			},
			{
				Name:          "Wrecker",
				Description:   "A salvage diver with a crowbar and few scruples.",
				MaxHealth:     12,
				Attributes:    map[string]int{"grit": 4, "lore": 1},
				Items:         []string{"crowbar", "oilskin satchel"},
				StartLocation: "The Drowned Gull",
			},
			{
				Name:          "Cartographer",
				Description:   "A mapmaker surveying the coast, stranded by the storm.",
				MaxHealth:     9,
				Attributes:    map[string]int{"grit": 2, "lore": 3},
				Items:         []string{"sea charts", "spyglass"},
				StartLocation: "The Drowned Gull",
			},
		},
		Scenes: []scenario.Scene{
			{
				Name:        "The Drowned Gull",
				Description: "The village inn, packed with fishermen who will not meet your eyes.",
			},
			{
				Name:        "Cliff Path",
				Description: "A switchback trail up Hollow Point, slick with rain.",
				Puzzle:      "The rope bridge is cut; the gap must be crossed another way.",
				Items:       []string{"broken signal mirror"},
			},
			{
				Name:        "Lighthouse",
				Description: "The lantern room is cold and dark, the keeper's log missing its last page.",
				Items:       []string{"keeper's log"},
			},
			{
				Name:        "Sea Caves",
				Description: "Tunnels under the cliff where the tide breathes like a sleeping animal.",
				Puzzle:      "The inner gate opens only when the tide chant is spoken in order.",
			},
		},
		Events: []scenario.NarrativeEvent{
			{Name: "Arrival", Description: "The party shelters at the inn and hears the lighthouse went dark."},
			{Name: "The Climb", Description: "The cliff path proves sabotaged, not storm-worn."},
			{Name: "The Empty Lantern", Description: "The lighthouse is abandoned and the lens has been carried off."},
			{Name: "The Chant", Description: "The caves reveal who took the lens, and why."},
			{Name: "Relight", Description: "The lens is recovered and the lantern relit, or the village is left to the dark."},
		},
		NPCs: []scenario.NPC{
			{Name: "Maren", Description: "The innkeeper, who pays too well for silence.", Location: "The Drowned Gull"},
			{Name: "Old Sorley", Description: "The missing lighthouse keeper.", Location: "Sea Caves"},
		},
	}
}

package town

import (
	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/models"
)

// The seed catalogs. Each call returns fresh slices so callers may mutate.

func initialStats() models.TownStats {
	return models.TownStats{
		Level:      constants.InitialLevel,
		Experience: constants.InitialExperience,
		Population: constants.InitialPopulation,
		Happiness:  constants.InitialHappiness,
		Coins:      constants.InitialCoins,
	}
}

func initialBuildings() []models.Building {
	return []models.Building{
		{
			ID:               "house",
			Name:             "House",
			Description:      "A basic home for residents",
			Type:             "residential",
			Cost:             100,
			Unlocked:         true,
			Level:            1,
			MaxLevel:         5,
			ExperienceReward: 10,
			HappinessBonus:   5,
			PopulationBonus:  2,
			Icon:             "🏠",
		},
		{
			ID:               "shop",
			Name:             "Shop",
			Description:      "A store where goods are bought and sold",
			Type:             "commercial",
			Cost:             200,
			Level:            1,
			MaxLevel:         3,
			ExperienceReward: 15,
			HappinessBonus:   10,
			PopulationBonus:  1,
			Icon:             "🏪",
		},
		{
			ID:               "park",
			Name:             "Park",
			Description:      "A place for residents to relax",
			Type:             "public",
			Cost:             300,
			Level:            1,
			MaxLevel:         3,
			ExperienceReward: 20,
			HappinessBonus:   15,
			PopulationBonus:  0,
			Icon:             "🌳",
		},
	}
}

func initialAreas() []models.Area {
	return []models.Area{
		{
			ID:            "residential",
			Name:          "Residential District",
			Description:   "Where the residents live",
			Unlocked:      true,
			RequiredLevel: 1,
			Buildings:     []string{"house"},
			Icon:          "🏘️",
		},
		{
			ID:            "commercial",
			Name:          "Commercial District",
			Description:   "Shops and businesses gather here",
			RequiredLevel: 3,
			Buildings:     []string{"shop"},
			Icon:          "🏢",
		},
		{
			ID:            "recreation",
			Name:          "Recreation District",
			Description:   "Parks and entertainment",
			RequiredLevel: 5,
			Buildings:     []string{"park"},
			Icon:          "🎡",
		},
	}
}

func initialResidents() []models.Resident {
	return []models.Resident{
		{
			ID:           "citizen1",
			Name:         "Tanaka",
			Type:         models.ResidentCitizen,
			Role:         "resident",
			Specialty:    "farming",
			Level:        1,
			Happiness:    80,
			Contribution: 10,
			Unlocked:     true,
			Icon:         "👤",
		},
		{
			ID:           "merchant1",
			Name:         "Shopkeeper",
			Type:         models.ResidentMerchant,
			Role:         "merchant",
			Specialty:    "trade",
			Level:        2,
			Happiness:    70,
			Contribution: 15,
			Icon:         "👨‍💼",
		},
	}
}

func initialEvents() []models.TownEvent {
	return []models.TownEvent{
		{
			ID:          "festival",
			Title:       "Festival",
			Description: "The town is holding a festival!",
			Type:        models.EventPositive,
			Effects:     models.EventEffects{Happiness: 20, Experience: 50},
			Duration:    3,
			Icon:        "🎉",
		},
	}
}

func initialSpecialBuildings() []models.SpecialBuilding {
	return []models.SpecialBuilding{
		{
			ID:               "golden_statue",
			Name:             "Golden Statue",
			Description:      "A monument to an unbroken streak",
			RequiredStreak:   30,
			Level:            1,
			ExperienceReward: 100,
			HappinessBonus:   50,
			PopulationBonus:  10,
			Icon:             "🏆",
		},
	}
}

// Seed returns the initial town state.
func Seed() models.TownState {
	return models.TownState{
		Stats:            initialStats(),
		Buildings:        initialBuildings(),
		Areas:            initialAreas(),
		Residents:        initialResidents(),
		Events:           initialEvents(),
		SpecialBuildings: initialSpecialBuildings(),
	}
}

package constants

const (
	// Experience and reward rules applied on every habit completion
	BaseExperienceGain     = 10
	StreakExperienceFactor = 2
	ExperiencePerLevel     = 100

	CoinsPerCompletion     = 10
	CoinsPerLevelUp        = 50
	HappinessPerCompletion = 5
	HappinessPerLevelUp    = 20
	MaxHappiness           = 100

	// A building unlocks once Level*BuildingCostPerLevel >= Cost
	BuildingCostPerLevel = 100

	// Initial town stats
	InitialLevel      = 1
	InitialExperience = 0
	InitialPopulation = 10
	InitialHappiness  = 50
	InitialCoins      = 100
)

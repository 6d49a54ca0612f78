package models

// TownStats is the aggregate state of the town
type TownStats struct {
	Level      int `json:"level"`
	Experience int `json:"experience"`
	Population int `json:"population"`
	Happiness  int `json:"happiness"`
	Coins      int `json:"coins"`
}

// Building is a catalog building. Cost doubles as the level gate: a building
// unlocks once the town level reaches Cost/100.
type Building struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Type             string `json:"type"`
	Cost             int    `json:"cost"`
	Unlocked         bool   `json:"unlocked"`
	Level            int    `json:"level"`
	MaxLevel         int    `json:"maxLevel"`
	ExperienceReward int    `json:"experienceReward"`
	HappinessBonus   int    `json:"happinessBonus"`
	PopulationBonus  int    `json:"populationBonus"`
	Icon             string `json:"icon"`
}

// Area is a district of the town gated by town level
type Area struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Unlocked      bool     `json:"unlocked"`
	RequiredLevel int      `json:"requiredLevel"`
	Buildings     []string `json:"buildings"`
	Icon          string   `json:"icon"`
}

// ResidentType classifies a resident
type ResidentType string

const (
	ResidentCitizen   ResidentType = "citizen"
	ResidentMerchant  ResidentType = "merchant"
	ResidentArtist    ResidentType = "artist"
	ResidentScientist ResidentType = "scientist"
)

// Resident is a townsperson; residents are unlocked explicitly
type Resident struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         ResidentType `json:"type"`
	Role         string       `json:"role"`
	Specialty    string       `json:"specialty"`
	Level        int          `json:"level"`
	Happiness    int          `json:"happiness"`
	Contribution int          `json:"contribution"`
	Unlocked     bool         `json:"unlocked"`
	Icon         string       `json:"icon"`
}

// EventType is the tone of a town event
type EventType string

const (
	EventPositive EventType = "positive"
	EventNegative EventType = "negative"
	EventNeutral  EventType = "neutral"
)

// EventEffects describes the stat changes an event announces
type EventEffects struct {
	Experience int `json:"experience,omitempty"`
	Happiness  int `json:"happiness,omitempty"`
	Coins      int `json:"coins,omitempty"`
	Population int `json:"population,omitempty"`
}

// TownEvent is a catalog event that can be triggered
type TownEvent struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        EventType    `json:"type"`
	Effects     EventEffects `json:"effects"`
	Duration    int          `json:"duration"` // days
	Active      bool         `json:"active"`
	Icon        string       `json:"icon"`
}

// SpecialBuilding is a landmark gated by a habit streak
type SpecialBuilding struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	RequiredStreak   int    `json:"requiredStreak"`
	Unlocked         bool   `json:"unlocked"`
	Level            int    `json:"level"`
	ExperienceReward int    `json:"experienceReward"`
	HappinessBonus   int    `json:"happinessBonus"`
	PopulationBonus  int    `json:"populationBonus"`
	Icon             string `json:"icon"`
}

// TownState is the persisted town blob
type TownState struct {
	Stats            TownStats         `json:"stats"`
	Buildings        []Building        `json:"buildings"`
	Areas            []Area            `json:"areas"`
	Residents        []Resident        `json:"residents"`
	Events           []TownEvent       `json:"events"`
	SpecialBuildings []SpecialBuilding `json:"specialBuildings"`
}

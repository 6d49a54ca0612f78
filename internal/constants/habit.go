package constants

// Frequency is how often a habit is expected to be performed
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"

	DefaultHabitColor = "#3b82f6"
	DefaultHabitIcon  = "🌱"
	DefaultTargetDays = 1
)

// HabitColors is the palette offered by the habit wizard.
var HabitColors = []string{
	"#3b82f6", // blue
	"#10b981", // green
	"#8b5cf6", // purple
	"#ec4899", // pink
	"#f59e0b", // orange
	"#ef4444", // red
	"#6366f1", // indigo
	"#14b8a6", // teal
}

// HabitIcons is the icon set offered by the habit wizard.
var HabitIcons = []string{
	"🏃", "💪", "📚", "🧘", "💧", "🍎", "🛌", "✍️",
	"🎵", "🎨", "🌱", "🚴", "🏋️", "🧠", "❤️", "🌟",
}

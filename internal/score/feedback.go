package score

// PassingScore is shown next to the total as a fixed reference point.
const PassingScore = 425

type Level string

const (
	LevelOutstanding Level = "outstanding"
	LevelExcellent   Level = "excellent"
	LevelPassed      Level = "passed"
	LevelClose       Level = "close"
	LevelKeepGoing   Level = "keep_going"
)

type Band struct {
	Min     int    `json:"min" yaml:"min"`
	Level   Level  `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// Bands is ordered from highest threshold to lowest; the last entry catches everything.
var Bands = []Band{
	{Min: 600, Level: LevelOutstanding, Message: "Outstanding! You absolutely crushed it!"},
	{Min: 550, Level: LevelExcellent, Message: "Excellent score! You're well above average."},
	{Min: PassingScore, Level: LevelPassed, Message: "Great job! You passed with flying colors."},
	{Min: 380, Level: LevelClose, Message: "You're so close! A little more practice and you'll get there."},
	{Min: 0, Level: LevelKeepGoing, Message: "Don't give up! Review your weak spots and try again."},
}

// Feedback returns the first band whose threshold total reaches.
func Feedback(total int) Band {
	for _, b := range Bands[:len(Bands)-1] {
		if total >= b.Min {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

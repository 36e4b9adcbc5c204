package main

// Project is one entry in the projects section.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// GameCopy is the text around the puzzle window.
type GameCopy struct {
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
	SolvedBadge string `json:"solved_badge"`
	NextLevel   string `json:"next_level"`
	ResetHint   string `json:"reset_hint"`
}

var (
	AboutMe = `I build backend systems and the occasional toy that explains them.
	This site doubles as a playground: open the dependency resolver from the terminal
	and drag the graph until nothing crosses.`

	Resolver = GameCopy{
		Title:       "Dependency Resolver",
		Instruction: "Drag nodes to untangle the system dependencies. No crossing lines allowed.",
		SolvedBadge: "SOLVED!",
		NextLevel:   "Next System Lvl",
		ResetHint:   "Reset Level",
	}

	Projects = []Project{
		{
			Title:       "Dependency Resolver",
			Description: "A planar untangle puzzle served from Go. Every pointer move re-checks all edge pairs for crossings with an orientation test.",
			Tags:        []string{"Go", "Gin", "Geometry"},
		},
		{
			Title:       "Portfolio Analytics",
			Description: "Visitor and puzzle statistics kept in SQLite with salted, truncated IP hashes and a twelve-month retention window.",
			Tags:        []string{"Go", "SQLite", "Privacy"},
		},
		{
			Title:       "untangle CLI",
			Description: "Generate levels and check hand-drawn graphs for crossings from the terminal.",
			Tags:        []string{"Go", "Cobra"},
		},
	}
)

package model

const (
	MarbleRadius     = 20
	TrackWidth       = 350
	MaxMarbles       = 20
	LobbyCodeLength  = 6
	CountdownSeconds = 3
	TickRate         = 60
	SyncRate         = 30

	DefaultGravityScale = 0.0004
	MinGravityScale     = 0.0001
	MaxGravityScale     = 0.002
)

var PlayerNames = []string{
	"Thunderball", "Big Red", "Slick", "Pebble", "Cannonball",
	"Dizzy", "Rocket", "Bouncer", "Shadow", "Blaze",
	"Cyclone", "Nugget", "Comet", "Rumble", "Frost",
	"Sparky", "Vortex", "Marble Madness", "Rolling Thunder", "Quicksilver",
	"Jade", "Onyx", "Ruby", "Sapphire", "Turbo",
	"Zigzag", "Bullet", "Drifter", "Ace", "Flash",
}

var MarbleColors = []string{
	"#FF4136", "#FF851B", "#FFDC00", "#2ECC40", "#0074D9",
	"#B10DC9", "#F012BE", "#01FF70", "#7FDBFF", "#AAAAAA",
	"#FF6B6B", "#C44DFF", "#FF9F43", "#00D2D3", "#EE5A24",
	"#6C5CE7", "#FDA7DF", "#A3CB38", "#1289A7", "#D980FA",
}

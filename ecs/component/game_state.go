package component

type GameStateKind uint8

const (
	StateStart GameStateKind = iota
	StatePlaying
	StateCompleted
)

func (k GameStateKind) String() string {
	switch k {
	case StatePlaying:
		return "playing"
	case StateCompleted:
		return "completed"
	default:
		return "start"
	}
}

// GameState is the singleton run state. Frames counts steps spent in the
// current state.
type GameState struct {
	State        GameStateKind
	Frames       int
	RestartDelay int
}

var GameStateComponent = NewComponent[GameState]()

package component

type Score struct {
	Distance     float64
	Pills        int
	BestDistance float64
	BestPills    int
	NewBest      bool
}

var ScoreComponent = NewComponent[Score]()

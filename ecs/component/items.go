package component

type Pill struct {
	Collected bool
}

var PillComponent = NewComponent[Pill]()

type Obstacle struct {
	Hit bool
}

var ObstacleComponent = NewComponent[Obstacle]()

// ChunkItem links a pill or obstacle to the chunk it was placed on.
type ChunkItem struct {
	Chunk  uint64
	Sample int
}

var ChunkItemComponent = NewComponent[ChunkItem]()

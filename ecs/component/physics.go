package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk runtime data and collider configuration for
// dynamic entities and loose sensors. Terrain chunks keep their shapes on
// TerrainChunk instead.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Role   BodyRole
	Width  float64
	Height float64
	Radius float64
	Mass   float64
	Static bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// PlayerSensors describes the two player sensors. The ground sensor is a
// wide box on the player body below its feet; the angle sensor is a thin box
// on its own unrotated body held under the player.
type PlayerSensors struct {
	GroundWidth  float64
	GroundHeight float64
	AngleWidth   float64
	AngleHeight  float64
	AngleOffset  float64

	GroundShape *cp.Shape
	AngleBody   *cp.Body
	AngleShape  *cp.Shape
}

var PlayerSensorsComponent = NewComponent[PlayerSensors]()

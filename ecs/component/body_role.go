package component

import "github.com/jakecoffman/cp"

// BodyRole identifies what a physics shape stands for. It is fixed when the
// shape is created and doubles as its collision type and filter category.
type BodyRole uint8

const (
	RoleNone BodyRole = iota
	RoleTerrain
	RolePlayerBody
	RolePlayerGroundSensor
	RoleTerrainRotationSensor
	RolePill
	RoleObstacle
)

var bodyRoleLabels = [...]string{
	RoleNone:                  "none",
	RoleTerrain:               "terrain-chunk",
	RolePlayerBody:            "player-body",
	RolePlayerGroundSensor:    "player-ground-sensor",
	RoleTerrainRotationSensor: "terrain-rotation-sensor",
	RolePill:                  "pill",
	RoleObstacle:              "obstacle",
}

func (r BodyRole) String() string {
	if int(r) < len(bodyRoleLabels) {
		return bodyRoleLabels[r]
	}
	return "unknown"
}

func (r BodyRole) CollisionType() cp.CollisionType {
	return cp.CollisionType(r)
}

func (r BodyRole) Category() uint {
	return 1 << uint(r)
}

// ParseBodyRole maps a label back to its role.
func ParseBodyRole(label string) (BodyRole, bool) {
	for i, l := range bodyRoleLabels {
		if l == label && BodyRole(i) != RoleNone {
			return BodyRole(i), true
		}
	}
	return RoleNone, false
}

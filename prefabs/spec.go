package prefabs

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type validator interface {
	Validate() error
}

// loadValidated loads a spec and rejects it if Validate fails.
func loadValidated[T validator](filename string) (T, error) {
	spec, err := LoadSpec[T](filename)
	if err != nil {
		return spec, err
	}
	if err := spec.Validate(); err != nil {
		var zero T
		return zero, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return spec, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidSpec}, args...)...)
}

type RangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type Vec2Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type SizeSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (s SizeSpec) positive() bool {
	return s.Width > 0 && s.Height > 0
}

type WorldSpec struct {
	Gravity    float64 `yaml:"gravity"`
	Timestep   float64 `yaml:"timestep"`
	Iterations int     `yaml:"iterations"`
}

func (s WorldSpec) Validate() error {
	if s.Timestep <= 0 || s.Timestep > 0.1 {
		return invalid("timestep %v", s.Timestep)
	}
	if s.Iterations <= 0 {
		return invalid("iterations %d", s.Iterations)
	}
	return nil
}

type NoiseSpec struct {
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
}

type PillSpec struct {
	Chance float64 `yaml:"chance"`
	Hover  float64 `yaml:"hover"`
	Radius float64 `yaml:"radius"`
}

type ObstacleSpec struct {
	Chance float64 `yaml:"chance"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type TerrainSpec struct {
	InitialChunks  int          `yaml:"initial_chunks"`
	Anchor         Vec2Spec     `yaml:"anchor"`
	ControlPoints  int          `yaml:"control_points"`
	SegmentLength  RangeSpec    `yaml:"segment_length"`
	SegmentAngle   RangeSpec    `yaml:"segment_angle"` // degrees
	Alternate      bool         `yaml:"alternate"`
	Subdivisions   int          `yaml:"subdivisions"`
	Noise          NoiseSpec    `yaml:"noise"`
	Thickness      float64      `yaml:"thickness"`
	ItemsFromChunk int          `yaml:"items_from_chunk"`
	Pill           PillSpec     `yaml:"pill"`
	Obstacle       ObstacleSpec `yaml:"obstacle"`
}

func (s TerrainSpec) Validate() error {
	switch {
	case s.InitialChunks < 1:
		return invalid("initial_chunks %d", s.InitialChunks)
	case s.ControlPoints < 2:
		return invalid("control_points %d", s.ControlPoints)
	case s.Subdivisions < 2:
		return invalid("subdivisions %d", s.Subdivisions)
	case s.SegmentLength.Min <= 0 || s.SegmentLength.Max < s.SegmentLength.Min:
		return invalid("segment_length [%v, %v]", s.SegmentLength.Min, s.SegmentLength.Max)
	case s.SegmentAngle.Max < s.SegmentAngle.Min:
		return invalid("segment_angle [%v, %v]", s.SegmentAngle.Min, s.SegmentAngle.Max)
	case math.Abs(s.SegmentAngle.Min) >= 90 || math.Abs(s.SegmentAngle.Max) >= 90:
		return invalid("segment_angle [%v, %v] must stay within 90 degrees", s.SegmentAngle.Min, s.SegmentAngle.Max)
	case s.Thickness <= 0:
		return invalid("thickness %v", s.Thickness)
	case s.Pill.Chance < 0 || s.Pill.Chance > 1 || s.Obstacle.Chance < 0 || s.Obstacle.Chance > 1:
		return invalid("item chances must be in [0, 1]")
	case s.Pill.Chance > 0 && s.Pill.Radius <= 0:
		return invalid("pill radius %v", s.Pill.Radius)
	case s.Obstacle.Chance > 0 && (s.Obstacle.Width <= 0 || s.Obstacle.Height <= 0):
		return invalid("obstacle size %vx%v", s.Obstacle.Width, s.Obstacle.Height)
	}
	return nil
}

type SpawnSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Angle float64 `yaml:"angle"` // degrees
}

type AngleSensorSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Offset float64 `yaml:"offset"`
}

type PlayerSpec struct {
	Spawn           SpawnSpec       `yaml:"spawn"`
	Size            SizeSpec        `yaml:"size"`
	Mass            float64         `yaml:"mass"`
	GroundSensor    SizeSpec        `yaml:"ground_sensor"`
	AngleSensor     AngleSensorSpec `yaml:"angle_sensor"`
	Velocity        float64         `yaml:"velocity"`
	JumpImpulse     float64         `yaml:"jump_impulse"`
	BackflipImpulse float64         `yaml:"backflip_impulse"`
	AutoRotate      float64         `yaml:"auto_rotate"`
	FailAngle       float64         `yaml:"fail_angle"` // degrees
}

func (s PlayerSpec) Validate() error {
	switch {
	case !s.Size.positive():
		return invalid("player size %vx%v", s.Size.Width, s.Size.Height)
	case !s.GroundSensor.positive():
		return invalid("ground sensor %vx%v", s.GroundSensor.Width, s.GroundSensor.Height)
	case s.AngleSensor.Width <= 0 || s.AngleSensor.Height <= 0:
		return invalid("angle sensor %vx%v", s.AngleSensor.Width, s.AngleSensor.Height)
	case s.Mass <= 0:
		return invalid("mass %v", s.Mass)
	case s.AutoRotate < 0 || s.AutoRotate > 1:
		return invalid("auto_rotate %v must be in [0, 1]", s.AutoRotate)
	case s.FailAngle <= 0 || s.FailAngle >= 180:
		return invalid("fail_angle %v", s.FailAngle)
	}
	return nil
}

type OffsetsSpec struct {
	Start     Vec3Spec `yaml:"start"`
	Playing   Vec3Spec `yaml:"playing"`
	Completed Vec3Spec `yaml:"completed"`
}

type FrameSpec struct {
	Width float64 `yaml:"width"`
	Depth float64 `yaml:"depth"`
}

type CameraSpec struct {
	Fov                float64     `yaml:"fov"` // vertical, degrees
	Near               float64     `yaml:"near"`
	RayLength          float64     `yaml:"ray_length"`
	RayLift            float64     `yaml:"ray_lift"`
	StartLerp          float64     `yaml:"start_lerp"`
	PlayingLerp        float64     `yaml:"playing_lerp"`
	TransitionDuration float64     `yaml:"transition_duration"`
	LerpDuration       float64     `yaml:"lerp_duration"`
	Frame              FrameSpec   `yaml:"frame"`
	Landscape          OffsetsSpec `yaml:"landscape"`
	Portrait           OffsetsSpec `yaml:"portrait"`
}

func (s CameraSpec) Validate() error {
	switch {
	case s.Fov <= 0 || s.Fov >= 180:
		return invalid("fov %v", s.Fov)
	case s.RayLength <= 0:
		return invalid("ray_length %v", s.RayLength)
	case s.StartLerp <= 0 || s.StartLerp > 1 || s.PlayingLerp <= 0 || s.PlayingLerp > 1:
		return invalid("lerp values must be in (0, 1]")
	case s.TransitionDuration < 0 || s.LerpDuration < 0:
		return invalid("negative transition duration")
	}
	return nil
}

func LoadWorldSpec() (WorldSpec, error)     { return loadValidated[WorldSpec]("world.yaml") }
func LoadTerrainSpec() (TerrainSpec, error) { return loadValidated[TerrainSpec]("terrain.yaml") }
func LoadPlayerSpec() (PlayerSpec, error)   { return loadValidated[PlayerSpec]("player.yaml") }
func LoadCameraSpec() (CameraSpec, error)   { return loadValidated[CameraSpec]("camera.yaml") }

// Config bundles every tunable the simulation reads.
type Config struct {
	World   WorldSpec
	Terrain TerrainSpec
	Player  PlayerSpec
	Camera  CameraSpec
}

func LoadConfig() (*Config, error) {
	var (
		cfg Config
		err error
	)
	if cfg.World, err = LoadWorldSpec(); err != nil {
		return nil, err
	}
	if cfg.Terrain, err = LoadTerrainSpec(); err != nil {
		return nil, err
	}
	if cfg.Player, err = LoadPlayerSpec(); err != nil {
		return nil, err
	}
	if cfg.Camera, err = LoadCameraSpec(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package cube

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning centralizes all numeric parameters of the layout simulation.
// Every constant that shapes motion lives here so behaviour can be adjusted
// without touching engine code, and overridden from a YAML file at startup.
type Tuning struct {
	// Mass and size
	MassFloor         float64 `yaml:"mass_floor"`         // Lower bound for tag mass
	MinSize           float64 `yaml:"min_size"`           // Lower bound for tag size
	DefaultImportance float64 `yaml:"default_importance"` // Importance when the caller passes none

	// Cluster shape
	SurfaceRadiusFactor float64 `yaml:"surface_radius_factor"` // Target surface distance as a fraction of radius
	PackingFactor       float64 `yaml:"packing_factor"`        // Radius floor growth per cbrt(tag count)
	MinRadius           float64 `yaml:"min_radius"`            // Radius floor for tiny clusters

	// Face assignment
	AlignThreshold float64 `yaml:"align_threshold"` // Min dot product for a surface classification
	FaceLockAge    float64 `yaml:"face_lock_age"`   // Seconds a new tag keeps its spawn face

	// Entry flight
	EntrySpeed     float64 `yaml:"entry_speed"`     // Initial flight speed toward the center
	EntryMargin    float64 `yaml:"entry_margin"`    // Spawn distance beyond the cluster radius
	EntryJitter    float64 `yaml:"entry_jitter"`    // Max angular spawn offset in radians
	EntryProximity float64 `yaml:"entry_proximity"` // Radius fraction at which flight ends

	// Forces
	SurfaceSpring     float64 `yaml:"surface_spring"`     // Radial spring gain for surface tags
	InteriorPull      float64 `yaml:"interior_pull"`      // Center pull gain for interior tags
	FaceSpread        float64 `yaml:"face_spread"`        // Tangent-plane repulsion between same-face tags
	RepulsionStrength float64 `yaml:"repulsion_strength"` // Overlap repulsion gain
	GrowthImpulse     float64 `yaml:"growth_impulse"`     // Outward impulse per unit of size growth

	// Collision resolution
	Separation          float64 `yaml:"separation"`           // Broad-phase box expansion
	CollisionIterations int     `yaml:"collision_iterations"` // Positional correction passes per frame

	// Integration
	Damping  float64 `yaml:"damping"`   // Exponential velocity decay per second
	MaxSpeed float64 `yaml:"max_speed"` // Hard cap on tag speed
	MaxStep  float64 `yaml:"max_step"`  // Delta-time clamp per update

	// Settling
	SettleSpeed        float64 `yaml:"settle_speed"`         // Speed below which a tag can settle
	SettleRadiusFactor float64 `yaml:"settle_radius_factor"` // Settle allowed within this fraction of radius
	MinFlightTime      float64 `yaml:"min_flight_time"`      // Or after this many seconds regardless

	// Animations
	FlipDuration   float64 `yaml:"flip_duration"`   // Seconds for the orientation flip
	RemoveDuration float64 `yaml:"remove_duration"` // Seconds for the fly-out
	ResizeStiff    float64 `yaml:"resize_stiff"`    // Resize spring angular frequency
	ResizeDamping  float64 `yaml:"resize_damping"`  // Resize spring damping ratio
	ResizeEpsilon  float64 `yaml:"resize_epsilon"`  // Size error below which a resize completes

	// Movement chains
	ChainTTL float64 `yaml:"chain_ttl"` // Seconds before a push chain expires
}

// DefaultTuning returns the stock simulation parameters.
func DefaultTuning() Tuning {
	return Tuning{
		MassFloor:         0.1,
		MinSize:           0.05,
		DefaultImportance: 1.0,

		SurfaceRadiusFactor: 0.5,
		PackingFactor:       1.2,
		MinRadius:           2.0,

		AlignThreshold: 0.7,
		FaceLockAge:    2.0,

		EntrySpeed:     12.0,
		EntryMargin:    6.0,
		EntryJitter:    0.35,
		EntryProximity: 1.1,

		SurfaceSpring:     4.0,
		InteriorPull:      9.0,
		FaceSpread:        1.5,
		RepulsionStrength: 24.0,
		GrowthImpulse:     3.0,

		Separation:          0.15,
		CollisionIterations: 3,

		Damping:  2.5,
		MaxSpeed: 20.0,
		MaxStep:  0.1,

		SettleSpeed:        0.35,
		SettleRadiusFactor: 1.25,
		MinFlightTime:      2.0,

		FlipDuration:   0.6,
		RemoveDuration: 0.8,
		ResizeStiff:    6.0,
		ResizeDamping:  1.0,
		ResizeEpsilon:  0.01,

		ChainTTL: 1.5,
	}
}

// LoadTuning reads tuning overrides from a YAML file on top of the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	return t, nil
}

package scene

import (
	"github.com/lumiray/lumiray/pkg/core"
	"github.com/lumiray/lumiray/pkg/geometry"
	"github.com/lumiray/lumiray/pkg/renderer"
)

// Scene aggregates everything a render needs: the camera, the world
// geometry, the background gradient colors and the sampling defaults.
// Scenes are read-only once built and safe to share across workers.
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.HittableList
	TopColor       core.Vec3
	BottomColor    core.Vec3
	SamplingConfig core.SamplingConfig
}

// GetCamera implements renderer.Scene
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld implements renderer.Scene
func (s *Scene) GetWorld() core.Shape {
	return s.World
}

// GetBackgroundColors implements renderer.Scene
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// GetSamplingConfig implements renderer.Scene
func (s *Scene) GetSamplingConfig() core.SamplingConfig {
	return s.SamplingConfig
}

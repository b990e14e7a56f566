package scene

import (
	"fmt"
	"sort"

	"github.com/lumiray/lumiray/pkg/renderer"
)

// SceneInfo describes a built-in scene for the CLI and web UI
type SceneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// builder constructs a scene, optionally seeded for randomized worlds
type builder func(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene

var builtinScenes = map[string]struct {
	info  SceneInfo
	build builder
}{
	"tutorial": {
		info: SceneInfo{
			ID:          "tutorial",
			Name:        "Tutorial spheres",
			Description: "Diffuse, hollow glass and fuzzy metal spheres on a ground sphere",
		},
		build: func(_ int64, overrides ...renderer.CameraConfig) *Scene {
			return NewTutorialScene(overrides...)
		},
	},
	"random-world": {
		info: SceneInfo{
			ID:          "random-world",
			Name:        "Random world",
			Description: "The randomly generated cover scene with three signature spheres",
		},
		build: NewRandomWorldScene,
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtinScenes))
	for _, entry := range builtinScenes {
		infos = append(infos, entry.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// CreateScene builds a scene by ID
func CreateScene(id string, seed int64, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	entry, ok := builtinScenes[id]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", id)
	}
	return entry.build(seed, cameraOverrides...), nil
}

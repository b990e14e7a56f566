package geometry

import (
	"math"
	"testing"

	"github.com/lumiray/lumiray/pkg/core"
	"github.com/lumiray/lumiray/pkg/material"
)

func testMaterial() core.Material {
	return material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial())
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial())

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit from inside",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			tolerance := 1e-9
			if hit.Normal.Subtract(tt.expectedNormal).Length() > tolerance {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_TutorialScenario(t *testing.T) {
	// A ray from the origin aimed at a half-unit sphere at (0,0,-1)
	// must hit the near surface at t=0.5 with normal (0,0,1)
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5, testMaterial())
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-0.5) > 1e-9 {
		t.Errorf("Expected t=0.5, got t=%f", hit.T)
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
	}
	if !hit.FrontFace {
		t.Error("Expected front face hit")
	}
}

func TestSphere_Hit_PointOnSurface(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 0.75, testMaterial())
	ray := core.NewRay(core.NewVec3(-3, 1, 2), core.NewVec3(4, 1, 1).Normalize())

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	// The hit point lies on the sphere surface
	distance := hit.Point.Subtract(sphere.Center).Length()
	if math.Abs(distance-sphere.Radius) > 1e-9 {
		t.Errorf("Expected hit point at radius %f, got %f", sphere.Radius, distance)
	}

	// The stored normal always opposes the incoming ray
	if hit.Normal.Dot(ray.Direction) > 0 {
		t.Errorf("Expected normal to oppose ray direction, dot=%f", hit.Normal.Dot(ray.Direction))
	}
	if math.Abs(hit.Normal.Length()-1.0) > 1e-9 {
		t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
	}
}

func TestSphere_Hit_RangeWindow(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -2), 0.5, testMaterial())
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		name      string
		tMin      float64
		tMax      float64
		expectHit bool
		expectedT float64
	}{
		{"both roots inside", 0.001, 1000, true, 1.5},
		{"near root excluded, far root taken", 1.6, 1000, true, 2.5},
		{"both roots excluded", 2.6, 1000, false, 0},
		{"upper bound before near root", 0.001, 1.0, false, 0},
		{"bounds are exclusive", 1.5, 2.5, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(ray, tt.tMin, tt.tMax)

			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if isHit && math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
		})
	}
}

func TestSphere_Hit_NegativeRadiusFlipsNormal(t *testing.T) {
	// Hollow glass shells use negative radii to point normals inward
	sphere := NewSphere(core.NewVec3(0, 0, -1), -0.5, testMaterial())
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	// The outward normal flipped by the signed radius now agrees with
	// the ray, so SetFaceNormal reports a back face and flips it again
	if hit.FrontFace {
		t.Error("Expected back face for negative radius")
	}
	if hit.Normal.Dot(ray.Direction) > 0 {
		t.Errorf("Stored normal must still oppose the ray, dot=%f", hit.Normal.Dot(ray.Direction))
	}
}

func TestSphere_Validate(t *testing.T) {
	if err := NewSphere(core.Vec3{}, 0, testMaterial()).Validate(); err == nil {
		t.Error("Expected error for zero radius")
	}
	if err := NewSphere(core.Vec3{}, 1, nil).Validate(); err == nil {
		t.Error("Expected error for missing material")
	}
	if err := NewSphere(core.Vec3{}, 1, testMaterial()).Validate(); err != nil {
		t.Errorf("Expected valid sphere, got %v", err)
	}
}

package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	ShapeIndex   int                    `json:"shapeIndex"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Lit          bool                   `json:"lit"`
	LightIndex   int                    `json:"lightIndex"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult describes what a camera ray through one pixel hits
type InspectResult struct {
	Hit        bool
	HitRecord  *material.HitRecord
	Shape      geometry.Shape
	ShapeIndex int
	LightIndex int // First visible light, -1 when the point is unlit
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	channel := func(v float64) int {
		return int(255 * math.Max(0, math.Min(1, v)))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(c.X), channel(c.Y), channel(c.Z))
}

// extractMaterialInfo reports the material's kind and parameters
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := map[string]interface{}{"occlusion": mat.Occlusion()}

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff"
		return "dielectric", properties

	case *material.Phong:
		config := m.Config()
		properties["diffuse"] = config.Diffuse
		properties["specular"] = config.Specular
		properties["shine"] = config.Shine
		properties["exponent"] = config.Exponent
		properties["albedo"] = vecArray(config.Albedo)
		properties["color"] = hexColor(config.Albedo)
		properties["fuzz"] = config.Fuzz
		properties["diffuseProbability"] = config.DiffuseProbability
		return "phong", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo reports the shape's kind and parameters
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		properties["inverted"] = geom.Radius < 0
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts a ray through the centre of pixel (x, y), y counted from
// the top, and reports the nearest hit and whether any light reaches it.
// The scene must be prepared.
func inspectPixel(sceneObj *scene.Scene, x, y int) InspectResult {
	config := sceneObj.SamplingConfig
	j := config.Height - 1 - y
	u := (float64(x) + 0.5) / float64(max(1, config.Width-1))
	v := (float64(j) + 0.5) / float64(max(1, config.Height-1))
	ray := sceneObj.GetCamera().CenterRay(u, v)

	world := sceneObj.GetWorld()
	hit, isHit := world.Hit(ray, material.ShadowEpsilon, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false, ShapeIndex: -1, LightIndex: -1}
	}

	result := InspectResult{Hit: true, HitRecord: hit, ShapeIndex: -1, LightIndex: -1}

	// World.Hit does not say which shape it hit; find the first one at the same distance
	for i, shape := range world.Shapes {
		if shapeHit, shapeIsHit := shape.Hit(ray, material.ShadowEpsilon, hit.T+material.ShadowEpsilon); shapeIsHit && shapeHit.T == hit.T {
			result.Shape = shape
			result.ShapeIndex = i
			break
		}
	}

	lighting := sceneObj.GetLights()
	if light, lit := material.FirstVisibleLight(hit.Point, hit.Normal, lighting, world); lit {
		for i, l := range lighting {
			if l == light {
				result.LightIndex = i
				break
			}
		}
	}
	return result
}

// handleInspect reports what lies under one pixel of a scene
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	config := sceneObj.SamplingConfig
	if pixelX < 0 || pixelX >= config.Width || pixelY < 0 || pixelY >= config.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, ShapeIndex: -1, LightIndex: -1})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		ShapeIndex:   result.ShapeIndex,
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Lit:          result.LightIndex >= 0,
		LightIndex:   result.LightIndex,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

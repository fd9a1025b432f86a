package material

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// PhongConfig holds the coefficients of a Phong material
type PhongConfig struct {
	Diffuse            float64   // d: weight of the diffuse term
	Specular           float64   // s: weight of the specular term
	Shine              float64   // Highlight tightness; B = Shine / Exponent
	Exponent           int       // g: highlight exponent, a small power of two works well
	Albedo             core.Vec3 // Color of the stochastic bounce
	Fuzz               float64   // Perturbation of the specular bounce
	DiffuseProbability float64   // Chance of a diffuse rather than specular bounce
	Occlusion          float64   // 0 casts shadows
}

// Phong combines direct Phong illumination from every visible light with a
// stochastic diffuse or specular bounce
type Phong struct {
	config PhongConfig
	b      float64
}

// NewPhong creates a Phong material. An Exponent below 1 is raised to 1.
func NewPhong(config PhongConfig) *Phong {
	if config.Exponent < 1 {
		config.Exponent = 1
	}
	return &Phong{
		config: config,
		b:      config.Shine / float64(config.Exponent),
	}
}

// Config returns the coefficients the material was built with
func (p *Phong) Config() PhongConfig {
	return p.config
}

// Scatter implements the Material interface.
// The attenuation is the direct illumination times the chosen bounce's albedo.
func (p *Phong) Scatter(rayIn core.Ray, hit HitRecord, env Environment, sampler core.Sampler) (ScatterResult, bool) {
	illumination := p.Illumination(hit, env)

	var (
		result    ScatterResult
		scattered bool
	)
	if sampler.Get1D() < p.config.DiffuseProbability {
		result, scattered = diffuseBounce(hit, p.config.Albedo, sampler)
	} else {
		result, scattered = specularBounce(rayIn, hit, p.config.Albedo, p.config.Fuzz, sampler)
	}
	if !scattered {
		return ScatterResult{}, false
	}

	result.Attenuation = illumination.MultiplyVec(result.Attenuation)
	return result, true
}

// Illumination sums the diffuse and specular contribution of every light visible from hit
func (p *Phong) Illumination(hit HitRecord, env Environment) core.Vec3 {
	var illumination core.Vec3
	viewDirection := env.ViewOrigin.Subtract(hit.Point).Normalize()

	for _, light := range env.Lights {
		if !IsLit(hit.Point, hit.Normal, light, env.Occluder) {
			continue
		}

		l := light.Position().Subtract(hit.Point).Normalize()
		diffuse := l.Dot(hit.Normal)

		r := core.Reflect(l, hit.Normal).Normalize()
		specular := p.specularFactor(r.Dot(viewDirection))

		illumination = illumination.
			Add(light.Diffuse().Multiply(p.config.Diffuse * diffuse)).
			Add(light.Specular().Multiply(p.config.Specular * specular))
	}

	return illumination
}

// specularFactor evaluates max(0, 1 - B(1 - R·V))^g
func (p *Phong) specularFactor(rDotV float64) float64 {
	base := 1 - p.b*(1-rDotV)
	if base <= 0 {
		return 0
	}
	return math.Pow(base, float64(p.config.Exponent))
}

// Occlusion implements the Material interface
func (p *Phong) Occlusion() float64 {
	return p.config.Occlusion
}

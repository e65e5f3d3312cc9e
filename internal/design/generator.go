// Package design generates a planned lighting report from room dimensions and luminaire
// data, so a design can be checked before any calculation software has been run.
package design

import (
	"fmt"
	"math"
	"strings"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/internal/errors"
)

// Lumen method factors applied to the installed flux
const (
	UtilisationFactor = 0.5
	MaintenanceFactor = 0.8
	// AssumedUniformity is used for the min/max estimate; the lumen method gives no spread
	AssumedUniformity = 0.6
	// DefaultEfficacy in lm/W applies when neither flux nor efficacy is given
	DefaultEfficacy = 100.0
	// DefaultWorkPlaneHeight in metres
	DefaultWorkPlaneHeight = 0.75

	GeneratorName = "luxcheck design generator"
	notSpecified  = "Not specified"
)

// Request describes a planned installation. Lengths are in metres, power in watts.
type Request struct {
	ProjectName     string   `json:"project_name"`
	CompanyName     string   `json:"company_name,omitempty"`
	RoomType        string   `json:"room_type"`
	RoomLength      float64  `json:"room_length"`
	RoomWidth       float64  `json:"room_width"`
	RoomHeight      float64  `json:"room_height"`
	LuminaireCount  int      `json:"luminaire_count"`
	LuminairePower  float64  `json:"luminaire_power"`
	LuminousFlux    *float64 `json:"luminous_flux,omitempty"`
	Efficacy        *float64 `json:"efficacy,omitempty"`
	MountingHeight  float64  `json:"mounting_height"`
	WorkPlaneHeight *float64 `json:"work_plane_height,omitempty"`
	Manufacturer    string   `json:"manufacturer,omitempty"`
	ArticleNo       string   `json:"article_no,omitempty"`
}

// Validate reports every missing or out-of-range input in one VALIDATION_ERROR
func (r Request) Validate() error {
	var problems []string
	if strings.TrimSpace(r.ProjectName) == "" {
		problems = append(problems, "project_name is required")
	}
	if strings.TrimSpace(r.RoomType) == "" {
		problems = append(problems, "room_type is required")
	}
	positive := []struct {
		name  string
		value float64
	}{
		{"room_length", r.RoomLength},
		{"room_width", r.RoomWidth},
		{"room_height", r.RoomHeight},
		{"luminaire_power", r.LuminairePower},
		{"mounting_height", r.MountingHeight},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			problems = append(problems, p.name+" must be greater than 0")
		}
	}
	if r.LuminaireCount <= 0 {
		problems = append(problems, "luminaire_count must be greater than 0")
	}
	if r.LuminousFlux != nil && *r.LuminousFlux < 0 {
		problems = append(problems, "luminous_flux must not be negative")
	}
	if r.Efficacy != nil && *r.Efficacy < 0 {
		problems = append(problems, "efficacy must not be negative")
	}
	if r.WorkPlaneHeight != nil && *r.WorkPlaneHeight < 0 {
		problems = append(problems, "work_plane_height must not be negative")
	}

	if len(problems) > 0 {
		return errors.ValidationError(strings.Join(problems, "; "))
	}
	return nil
}

// Calculation is the lumen method result for a request
type Calculation struct {
	AreaM2           float64
	TotalPowerW      float64
	FluxPerLuminaire float64
	TotalFlux        float64
	Efficacy         float64
	AverageLux       float64
	MinLux           float64
	MaxLux           float64
	Uniformity       float64
}

// Calculate applies E = n x flux x UF x MF / A. An explicit flux wins over efficacy;
// a zero flux or efficacy counts as not given.
func Calculate(r Request) Calculation {
	c := Calculation{
		AreaM2:      r.RoomLength * r.RoomWidth,
		TotalPowerW: float64(r.LuminaireCount) * r.LuminairePower,
		Uniformity:  AssumedUniformity,
	}

	switch {
	case r.LuminousFlux != nil && *r.LuminousFlux > 0:
		c.FluxPerLuminaire = *r.LuminousFlux
		c.Efficacy = c.FluxPerLuminaire / r.LuminairePower
	case r.Efficacy != nil && *r.Efficacy > 0:
		c.Efficacy = *r.Efficacy
		c.FluxPerLuminaire = r.LuminairePower * c.Efficacy
	default:
		c.Efficacy = DefaultEfficacy
		c.FluxPerLuminaire = r.LuminairePower * c.Efficacy
	}

	c.TotalFlux = float64(r.LuminaireCount) * c.FluxPerLuminaire
	if c.AreaM2 > 0 {
		c.AverageLux = c.TotalFlux * UtilisationFactor * MaintenanceFactor / c.AreaM2
	}
	c.MinLux = c.AverageLux * c.Uniformity
	c.MaxLux = c.AverageLux * (2 - c.Uniformity)
	return c
}

// Point is a luminaire position in metres from the room corner
type Point struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
	Z float64 `json:"Z"`
}

// Layout places count luminaires on a near-square grid, row by row, with equal
// spacing between walls and fixtures. The last row may be partial.
func Layout(length, width float64, count int, mountingHeight float64) []Point {
	if count <= 0 {
		return []Point{}
	}
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := (count + cols - 1) / cols

	spacingX := length / float64(cols+1)
	spacingY := width / float64(rows+1)

	points := make([]Point, 0, count)
	for row := 0; row < rows && len(points) < count; row++ {
		for col := 0; col < cols && len(points) < count; col++ {
			points = append(points, Point{
				X: round(spacingX*float64(col+1), 3),
				Y: round(spacingY*float64(row+1), 3),
				Z: round(mountingHeight, 3),
			})
		}
	}
	return points
}

// Generate builds the report a lighting calculation would have produced for r: one room,
// one scene and one luminaire line, with values rounded as calculation software prints them.
func Generate(r Request) (*report.Record, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	calc := Calculate(r)

	workPlane := DefaultWorkPlaneHeight
	if r.WorkPlaneHeight != nil {
		workPlane = *r.WorkPlaneHeight
	}

	avg := core.Float(round(calc.AverageLux, 1))
	minLux := core.Float(round(calc.MinLux, 1))
	maxLux := core.Float(round(calc.MaxLux, 1))
	uniformity := core.Float(round(calc.Uniformity, 2))
	power := core.Float(round(r.LuminairePower, 1))
	flux := core.Float(round(calc.FluxPerLuminaire, 1))
	efficacy := core.Float(round(calc.Efficacy, 1))
	quantity := core.Float(float64(r.LuminaireCount))

	setupRaw := core.FieldsOf(
		"power_total_w", round(calc.TotalPowerW, 1),
		report.KeyLuminousFlux, *flux,
		"luminous_flux_total", round(calc.TotalFlux, 1),
		"mounting_height_m", round(r.MountingHeight, 2),
		"work_plane_height", round(workPlane, 2),
		"quantity", r.LuminaireCount,
	)

	roomRaw := core.FieldsOf("layout", Layout(r.RoomLength, r.RoomWidth, r.LuminaireCount, r.MountingHeight))

	return &report.Record{
		Metadata: report.Metadata{
			CompanyName: orNotSpecified(r.CompanyName),
			ProjectName: r.ProjectName,
			Engineer:    GeneratorName,
			ReportTitle: "Design_Report_" + strings.ReplaceAll(r.ProjectName, " ", "_"),
		},
		LightingSetup: report.LightingSetup{
			AverageLux:       avg,
			MinLux:           minLux,
			MaxLux:           maxLux,
			Uniformity:       uniformity,
			PowerW:           power,
			LuminousEfficacy: efficacy,
			Raw:              setupRaw,
		},
		Luminaires: []report.Luminaire{{
			Quantity:         quantity,
			Manufacturer:     orNotSpecified(r.Manufacturer),
			ArticleNo:        orNotSpecified(r.ArticleNo),
			PowerW:           power,
			LuminousFluxLm:   flux,
			LuminousEfficacy: efficacy,
		}},
		Rooms: []report.Room{{
			Name:               fmt.Sprintf("Room 1 - %s", r.ProjectName),
			UtilisationProfile: r.RoomType,
			Arrangement:        "Grid",
			Raw:                roomRaw,
		}},
		Scenes: []report.Scene{{
			Name:               r.ProjectName,
			UtilisationProfile: r.RoomType,
			AverageLux:         avg,
			MinLux:             minLux,
			MaxLux:             maxLux,
			Uniformity:         uniformity,
		}},
	}, nil
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"luxcheck/domain/core"
)

// Record is one extracted lighting report. Every field may be missing; the
// extractor's raw keys are kept alongside the typed view.
type Record struct {
	Metadata      Metadata      `json:"metadata"`
	LightingSetup LightingSetup `json:"lighting_setup"`
	Luminaires    []Luminaire   `json:"luminaires,omitempty"`
	Rooms         []Room        `json:"rooms"`
	Scenes        []Scene       `json:"scenes"`
}

// Metadata is informational report data; compliance checks do not read it
type Metadata struct {
	CompanyName string
	ProjectName string
	Engineer    string
	Email       string
	ReportTitle string
	Raw         *core.Fields
}

// LightingSetup holds the aggregate measured values of the whole design
type LightingSetup struct {
	AverageLux       *float64
	MinLux           *float64
	MaxLux           *float64
	Uniformity       *float64
	PowerW           *float64
	LuminousEfficacy *float64
	Raw              *core.Fields
}

// Luminaire is one fixture line of the report's luminaire list
type Luminaire struct {
	Quantity         *float64
	Manufacturer     string
	ArticleNo        string
	ArticleName      string
	PowerW           *float64
	LuminousFluxLm   *float64
	LuminousEfficacy *float64
	Raw              *core.Fields
}

// Room is a room of the report. SceneID or SceneIndex link it to its scene explicitly;
// without them rooms and scenes are joined by position.
type Room struct {
	Name               string
	UtilisationProfile string
	SceneID            string
	SceneIndex         *int
	Arrangement        string
	Raw                *core.Fields
}

// Scene holds the measured values of one calculation scene
type Scene struct {
	ID                 string
	Name               string
	UtilisationProfile string
	AverageLux         *float64
	MinLux             *float64
	MaxLux             *float64
	Uniformity         *float64
	Raw                *core.Fields
}

// Raw report keys
const (
	KeyName               = "name"
	KeySceneName          = "scene_name"
	KeyUtilisationProfile = "utilisation_profile"
	KeySceneID            = "scene_id"
	KeySceneIndex         = "scene_index"
	KeyID                 = "id"
	KeyAverageLux         = "average_lux"
	KeyMinLux             = "min_lux"
	KeyMaxLux             = "max_lux"
	KeyUniformity         = "uniformity"
	KeyPowerW             = "power_w"
	KeyLuminousFlux       = "luminous_flux_lm"
	KeyLuminousEfficacy   = "luminous_efficacy_lm_per_w"
)

// Parse decodes an extracted report document
func Parse(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidReport, err)
	}
	return &rec, nil
}

// ReadFile reads and decodes a report JSON file
func ReadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	return Parse(data)
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	raw := core.NewFields()
	if err := raw.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	*m = Metadata{
		CompanyName: text(raw, "company_name", "company"),
		ProjectName: text(raw, "project_name", "project"),
		Engineer:    text(raw, "engineer"),
		Email:       text(raw, "email"),
		ReportTitle: text(raw, "report_title"),
		Raw:         raw,
	}
	return nil
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	out := m.Raw.Clone()
	setText(out, "company_name", m.CompanyName)
	setText(out, "project_name", m.ProjectName)
	setText(out, "engineer", m.Engineer)
	setText(out, "email", m.Email)
	setText(out, "report_title", m.ReportTitle)
	return out.MarshalJSON()
}

func (l *LightingSetup) UnmarshalJSON(data []byte) error {
	raw := core.NewFields()
	if err := raw.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("lighting_setup: %w", err)
	}
	*l = LightingSetup{
		AverageLux:       raw.Float(KeyAverageLux),
		MinLux:           raw.Float(KeyMinLux),
		MaxLux:           raw.Float(KeyMaxLux),
		Uniformity:       raw.Float(KeyUniformity),
		PowerW:           raw.Float(KeyPowerW),
		LuminousEfficacy: raw.Float(KeyLuminousEfficacy),
		Raw:              raw,
	}
	return nil
}

func (l LightingSetup) MarshalJSON() ([]byte, error) {
	return l.Values().MarshalJSON()
}

// Values returns every measured key of the lighting setup in document order
func (l *LightingSetup) Values() *core.Fields {
	out := l.Raw.Clone()
	setFloat(out, KeyAverageLux, l.AverageLux)
	setFloat(out, KeyMinLux, l.MinLux)
	setFloat(out, KeyMaxLux, l.MaxLux)
	setFloat(out, KeyUniformity, l.Uniformity)
	setFloat(out, KeyPowerW, l.PowerW)
	setFloat(out, KeyLuminousEfficacy, l.LuminousEfficacy)
	return out
}

func (l *Luminaire) UnmarshalJSON(data []byte) error {
	raw := core.NewFields()
	if err := raw.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("luminaire: %w", err)
	}
	*l = Luminaire{
		Quantity:         raw.Float("quantity"),
		Manufacturer:     text(raw, "manufacturer"),
		ArticleNo:        text(raw, "article_no"),
		ArticleName:      text(raw, "article_name"),
		PowerW:           raw.Float(KeyPowerW),
		LuminousFluxLm:   raw.Float(KeyLuminousFlux),
		LuminousEfficacy: raw.Float(KeyLuminousEfficacy),
		Raw:              raw,
	}
	return nil
}

func (l Luminaire) MarshalJSON() ([]byte, error) {
	out := l.Raw.Clone()
	setFloat(out, "quantity", l.Quantity)
	setText(out, "manufacturer", l.Manufacturer)
	setText(out, "article_no", l.ArticleNo)
	setText(out, "article_name", l.ArticleName)
	setFloat(out, KeyPowerW, l.PowerW)
	setFloat(out, KeyLuminousFlux, l.LuminousFluxLm)
	setFloat(out, KeyLuminousEfficacy, l.LuminousEfficacy)
	return out.MarshalJSON()
}

func (r *Room) UnmarshalJSON(data []byte) error {
	raw := core.NewFields()
	if err := raw.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("room: %w", err)
	}
	*r = Room{
		Name:               text(raw, KeyName, "room_name"),
		UtilisationProfile: text(raw, KeyUtilisationProfile),
		SceneID:            text(raw, KeySceneID),
		SceneIndex:         index(raw, KeySceneIndex),
		Arrangement:        text(raw, "arrangement"),
		Raw:                raw,
	}
	return nil
}

func (r Room) MarshalJSON() ([]byte, error) {
	out := r.Raw.Clone()
	out.Set(KeyName, r.Name)
	out.Set(KeyUtilisationProfile, r.UtilisationProfile)
	setText(out, KeySceneID, r.SceneID)
	if r.SceneIndex != nil {
		out.Set(KeySceneIndex, *r.SceneIndex)
	}
	setText(out, "arrangement", r.Arrangement)
	return out.MarshalJSON()
}

func (s *Scene) UnmarshalJSON(data []byte) error {
	raw := core.NewFields()
	if err := raw.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	*s = Scene{
		ID:                 text(raw, KeyID),
		Name:               text(raw, KeySceneName, KeyName),
		UtilisationProfile: text(raw, KeyUtilisationProfile),
		AverageLux:         raw.Float(KeyAverageLux),
		MinLux:             raw.Float(KeyMinLux),
		MaxLux:             raw.Float(KeyMaxLux),
		Uniformity:         raw.Float(KeyUniformity),
		Raw:                raw,
	}
	return nil
}

func (s Scene) MarshalJSON() ([]byte, error) {
	return s.Values().MarshalJSON()
}

// Values returns every measured key of the scene in document order
func (s *Scene) Values() *core.Fields {
	out := s.Raw.Clone()
	setText(out, KeyID, s.ID)
	if !out.Has(KeyName) || out.Has(KeySceneName) {
		out.Set(KeySceneName, s.Name)
	}
	setText(out, KeyUtilisationProfile, s.UtilisationProfile)
	setFloat(out, KeyAverageLux, s.AverageLux)
	setFloat(out, KeyMinLux, s.MinLux)
	setFloat(out, KeyMaxLux, s.MaxLux)
	setFloat(out, KeyUniformity, s.Uniformity)
	return out
}

// MeasurementSource is where a room's measured values are read from
type MeasurementSource struct {
	Label  string
	Values *core.Fields
}

// Source returns the scene as a measurement source
func (s *Scene) Source() MeasurementSource {
	return MeasurementSource{Label: "scene:" + s.Name, Values: s.Values()}
}

// Source returns the lighting setup as a measurement source
func (l *LightingSetup) Source() MeasurementSource {
	return MeasurementSource{Label: "lighting_setup", Values: l.Values()}
}

// text returns the first non-blank string among keys. Numbers are formatted.
func text(f *core.Fields, keys ...string) string {
	for _, key := range keys {
		v, ok := f.Get(key)
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return ""
}

func index(f *core.Fields, key string) *int {
	v, ok := f.Get(key)
	if !ok {
		return nil
	}
	n, ok := core.ToFloat(v)
	if !ok || n < 0 || n != float64(int(n)) {
		return nil
	}
	i := int(n)
	return &i
}

func setText(f *core.Fields, key, value string) {
	if value != "" {
		f.Set(key, value)
	}
}

func setFloat(f *core.Fields, key string, value *float64) {
	if value != nil {
		f.Set(key, *value)
	}
}

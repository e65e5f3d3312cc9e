// Package testkit provides fixtures and in-memory fakes shared by package tests.
package testkit

import (
	"encoding/json"
	"testing"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/domain/standard"
)

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// Requirement builds a catalog record with the common numeric targets. Zero values are
// left absent.
func Requirement(category, task string, em, uo, ra float64) standard.RequirementRecord {
	rec := standard.RequirementRecord{Category: category, TaskOrActivity: task}
	if em != 0 {
		rec.EmRequired = Float(em)
	}
	if uo != 0 {
		rec.Uniformity = Float(uo)
	}
	if ra != 0 {
		rec.Ra = Float(ra)
	}
	return rec
}

// Catalog wraps records into a catalog
func Catalog(records ...standard.RequirementRecord) *standard.Catalog {
	return &standard.Catalog{Standards: records}
}

// StandardCatalog is a small EN 12464-1 style catalog covering the default profile labels
func StandardCatalog() *standard.Catalog {
	office := Requirement("Offices", "Office work", 500, 0.6, 80)
	office.RefNo = "5.26.1"
	office.Glare = Float(19)

	assembly := Requirement("Industrial activities and crafts", "General assembly work", 300, 0.6, 80)
	assembly.RefNo = "5.13.1"
	assembly.Glare = Float(25)

	corridor := Requirement("Traffic zones inside buildings", "Traffic zones inside buildings - Corridors", 100, 0.4, 40)
	corridor.RefNo = "5.1.1"
	corridor.Glare = Float(28)

	storage := Requirement("Storage rooms", "Storage areas", 100, 0.4, 60)
	storage.RefNo = "5.3.1"
	storage.Glare = Float(25)

	return Catalog(office, assembly, corridor, storage)
}

// StandardCatalogJSON is StandardCatalog in the wrapped file format
const StandardCatalogJSON = `{
  "source": "EN 12464-1:2021",
  "standards": [
    {"ref_no": "5.26.1", "category": "Offices", "task_or_activity": "Office work", "Em_r_lx": 500, "Uo": 0.6, "Ra": 80, "RUGL": 19},
    {"ref_no": "5.13.1", "category": "Industrial activities and crafts", "task_or_activity": "General assembly work", "Em_r_lx": 300, "Uo": 0.6, "Ra": 80, "RUGL": 25},
    {"ref_no": "5.1.1", "category": "Traffic zones inside buildings", "task_or_activity": "Traffic zones inside buildings - Corridors", "Em_r_lx": 100, "Uo": 0.4, "Ra": 40, "RUGL": 28},
    {"ref_no": "5.3.1", "category": "Storage rooms", "task_or_activity": "Storage areas", "Em_r_lx": 100, "Uo": 0.4, "Ra": 60, "RUGL": 25}
  ]
}`

// Room builds a report room
func Room(name, profile string) report.Room {
	return report.Room{Name: name, UtilisationProfile: profile}
}

// Scene builds a scene with average lux and uniformity; a negative value leaves it absent
func Scene(name string, lux, uniformity float64) report.Scene {
	s := report.Scene{Name: name, Raw: core.NewFields()}
	s.Raw.Set(report.KeySceneName, name)
	if lux >= 0 {
		s.AverageLux = Float(lux)
	}
	if uniformity >= 0 {
		s.Uniformity = Float(uniformity)
	}
	return s
}

// Report assembles a report from rooms and scenes
func Report(rooms []report.Room, scenes ...report.Scene) *report.Record {
	return &report.Record{Rooms: rooms, Scenes: scenes}
}

// ParseReport decodes a report JSON literal, failing the test on error
func ParseReport(t testing.TB, data string) *report.Record {
	t.Helper()
	rec, err := report.Parse([]byte(data))
	if err != nil {
		t.Fatalf("failed to parse report fixture: %v", err)
	}
	return rec
}

// FactoryReportJSON is a typical extractor output for a single-scene factory hall
const FactoryReportJSON = `{
  "metadata": {"company_name": "Lichtplan GmbH", "project_name": "Hall 7 retrofit", "engineer": "A. Keller", "email": "a.keller@example.com", "report_title": "Lighting calculation"},
  "lighting_setup": {"number_of_luminaires": 24, "average_lux": 412, "min_lux": 260, "max_lux": 520, "uniformity": 0.63, "power_w": 1152},
  "luminaires": [{"quantity": 24, "manufacturer": "Acme Lighting", "article_no": "HB-150", "article_name": "Highbay 150", "power_w": 48, "luminous_flux_lm": 7200, "luminous_efficacy_lm_per_w": 150}],
  "rooms": [{"name": "Building 1 · Storey 1 · Factory hall", "arrangement": "grid"}],
  "scenes": [{"scene_name": "Factory hall", "utilisation_profile": "General assembly work", "average_lux": 412, "min_lux": 260, "max_lux": 520, "uniformity": 0.63, "index": 1}]
}`

// MustJSON marshals v, failing the test on error
func MustJSON(t testing.TB, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return data
}

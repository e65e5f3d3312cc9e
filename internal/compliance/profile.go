package compliance

import (
	"strings"

	"luxcheck/domain/report"
)

// Canonical profile labels produced by inference
const (
	ProfileOffice          = "Office work"
	ProfileGeneralAssembly = "General assembly work"
	ProfileCorridor        = "Traffic zones inside buildings - Corridors"
	ProfileStorage         = "Storage areas"
	ProfileGeneralLighting = "General lighting"
)

// ProfileRule maps room names containing any keyword onto a profile label
type ProfileRule struct {
	Keywords []string
	Profile  string
}

// DefaultProfileRules are checked in order; generic "building"/"room" names fall back
// to general assembly work.
var DefaultProfileRules = []ProfileRule{
	{Keywords: []string{"office"}, Profile: ProfileOffice},
	{Keywords: []string{"factory", "warehouse", "industrial"}, Profile: ProfileGeneralAssembly},
	{Keywords: []string{"corridor", "hallway"}, Profile: ProfileCorridor},
	{Keywords: []string{"storage"}, Profile: ProfileStorage},
	{Keywords: []string{"building", "room"}, Profile: ProfileGeneralAssembly},
}

// DefaultIndustrialSceneKeywords force the general assembly profile when found in a scene name
var DefaultIndustrialSceneKeywords = []string{"factory", "industrial", "warehouse", "manufacturing"}

// Profile sources reported by ProfileInferer
const (
	ProfileFromRoom     = "room"
	ProfileFromScene    = "scene"
	ProfileFromRoomName = "room_name"
)

// ProfileInferer determines a room's utilisation profile
type ProfileInferer struct {
	Rules          []ProfileRule
	SceneKeywords  []string
	SceneProfile   string // label forced by SceneKeywords
	DefaultProfile string // label when no name rule matches, empty to skip the room
}

// NewProfileInferer returns an inferer with the default rules
func NewProfileInferer() ProfileInferer {
	return ProfileInferer{
		Rules:          DefaultProfileRules,
		SceneKeywords:  DefaultIndustrialSceneKeywords,
		SceneProfile:   ProfileGeneralAssembly,
		DefaultProfile: ProfileGeneralLighting,
	}
}

// Infer returns the profile and where it came from: the room's declared profile, then
// the correlated scene, then keyword rules over the room name. An empty profile means
// the room should be skipped.
func (p ProfileInferer) Infer(room report.Room, scene *report.Scene) (string, string) {
	if profile := strings.TrimSpace(room.UtilisationProfile); profile != "" {
		return profile, ProfileFromRoom
	}

	if scene != nil {
		name := strings.ToLower(scene.Name)
		for _, kw := range p.SceneKeywords {
			if kw != "" && strings.Contains(name, kw) {
				return p.SceneProfile, ProfileFromScene
			}
		}
		if profile := strings.TrimSpace(scene.UtilisationProfile); profile != "" {
			return profile, ProfileFromScene
		}
	}

	name := strings.ToLower(room.Name)
	for _, rule := range p.Rules {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
				return rule.Profile, ProfileFromRoomName
			}
		}
	}
	if p.DefaultProfile == "" {
		return "", ""
	}
	return p.DefaultProfile, ProfileFromRoomName
}

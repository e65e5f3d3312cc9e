package compliance

import (
	"luxcheck/domain/report"
)

// SceneMatcher picks the scene holding a room's measured values.
// It returns nil when the room should fall back to the lighting setup.
type SceneMatcher interface {
	MatchScene(rec *report.Record, roomIndex int) *report.Scene
}

// PositionalSceneMatcher joins room i to scene i, falling back to the first scene
type PositionalSceneMatcher struct{}

// MatchScene implements SceneMatcher
func (PositionalSceneMatcher) MatchScene(rec *report.Record, roomIndex int) *report.Scene {
	if len(rec.Scenes) == 0 {
		return nil
	}
	if roomIndex >= 0 && roomIndex < len(rec.Scenes) {
		return &rec.Scenes[roomIndex]
	}
	return &rec.Scenes[0]
}

// LinkedSceneMatcher honours explicit room links: scene_id against scene ids, then
// scene_index. Rooms without a usable link are joined positionally.
type LinkedSceneMatcher struct {
	Fallback SceneMatcher
}

// MatchScene implements SceneMatcher
func (m LinkedSceneMatcher) MatchScene(rec *report.Record, roomIndex int) *report.Scene {
	if roomIndex >= 0 && roomIndex < len(rec.Rooms) {
		room := rec.Rooms[roomIndex]
		if room.SceneID != "" {
			for i := range rec.Scenes {
				if rec.Scenes[i].ID == room.SceneID {
					return &rec.Scenes[i]
				}
			}
		}
		if idx := room.SceneIndex; idx != nil && *idx >= 0 && *idx < len(rec.Scenes) {
			return &rec.Scenes[*idx]
		}
	}

	fallback := m.Fallback
	if fallback == nil {
		fallback = PositionalSceneMatcher{}
	}
	return fallback.MatchScene(rec, roomIndex)
}

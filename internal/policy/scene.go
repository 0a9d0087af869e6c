package policy

import (
	"math/rand"

	"github.com/soluna-app/soluna/internal/domain"
)

func scenesFor(t domain.SessionType) []domain.SceneType {
	if t == domain.SessionMorning {
		return domain.MorningScenes
	}
	return domain.EveningScenes
}

// SceneForSession returns the default scene for a session type.
func SceneForSession(t domain.SessionType) domain.SceneType {
	return scenesFor(t)[0]
}

// ValidScene reports whether scene belongs to the type's scene set.
func ValidScene(scene domain.SceneType, t domain.SessionType) bool {
	for _, s := range scenesFor(t) {
		if s == scene {
			return true
		}
	}
	return false
}

// NextScene returns the deterministic successor of current within the type's
// scene set, wrapping at the end. Unknown scenes restart the rotation.
func NextScene(current domain.SceneType, t domain.SessionType) domain.SceneType {
	scenes := scenesFor(t)
	for i, s := range scenes {
		if s == current {
			return scenes[(i+1)%len(scenes)]
		}
	}
	return scenes[0]
}

// RandomScene picks a uniform scene for the type, excluding current. With
// fewer than two scenes there is nothing to exclude, so the set's only scene
// is returned.
func RandomScene(rng *rand.Rand, current domain.SceneType, t domain.SessionType) domain.SceneType {
	scenes := scenesFor(t)
	if len(scenes) < 2 {
		return scenes[0]
	}
	candidates := make([]domain.SceneType, 0, len(scenes)-1)
	for _, s := range scenes {
		if s != current {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return current
	}
	return candidates[rng.Intn(len(candidates))]
}

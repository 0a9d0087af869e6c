package domain

// SceneType names a background visual theme. Scenes are grouped per session
// type; rotation and random selection live in the policy package.
type SceneType string

const (
	SceneSunrise  SceneType = "sunrise"
	SceneForest   SceneType = "forest"
	SceneMeadow   SceneType = "meadow"
	SceneMist     SceneType = "mist"
	SceneSunset   SceneType = "sunset"
	SceneNightSky SceneType = "night_sky"
	SceneOcean    SceneType = "ocean"
	SceneRain     SceneType = "rain"
)

// MorningScenes and EveningScenes are the ordered scene sets per session
// type. Order matters: NextScene walks these slices.
var (
	MorningScenes = []SceneType{SceneSunrise, SceneForest, SceneMeadow, SceneMist}
	EveningScenes = []SceneType{SceneSunset, SceneNightSky, SceneOcean, SceneRain}
)

// SceneStills maps each scene to its still-frame asset URL.
var SceneStills = map[SceneType]string{
	SceneSunrise:  "/stills/sunrise.jpg",
	SceneForest:   "/stills/forest.jpg",
	SceneMeadow:   "/stills/meadow.jpg",
	SceneMist:     "/stills/mist.jpg",
	SceneSunset:   "/stills/sunset.jpg",
	SceneNightSky: "/stills/night_sky.jpg",
	SceneOcean:    "/stills/ocean.jpg",
	SceneRain:     "/stills/rain.jpg",
}

package weather

// Icon names understood by the client renderer.
const (
	IconSun      = "sun"
	IconCloudSun = "cloud_sun"
	IconCloud    = "cloud"
	IconFog      = "fog"
	IconDrizzle  = "drizzle"
	IconRain     = "rain"
	IconSnow     = "snow"
	IconStorm    = "storm"
)

type Condition struct {
	Description string
	Icon        string
}

var unknownCondition = Condition{Description: "Unknown", Icon: IconCloud}

// WMO weather interpretation codes as used by Open-Meteo.
var conditions = map[int]Condition{
	0:  {"Clear sky", IconSun},
	1:  {"Mainly clear", IconCloudSun},
	2:  {"Partly cloudy", IconCloudSun},
	3:  {"Overcast", IconCloud},
	45: {"Fog", IconFog},
	48: {"Depositing rime fog", IconFog},
	51: {"Light drizzle", IconDrizzle},
	53: {"Moderate drizzle", IconDrizzle},
	55: {"Dense drizzle", IconDrizzle},
	56: {"Light freezing drizzle", IconDrizzle},
	57: {"Dense freezing drizzle", IconDrizzle},
	61: {"Slight rain", IconRain},
	63: {"Moderate rain", IconRain},
	65: {"Heavy rain", IconRain},
	66: {"Light freezing rain", IconRain},
	67: {"Heavy freezing rain", IconRain},
	71: {"Slight snow fall", IconSnow},
	73: {"Moderate snow fall", IconSnow},
	75: {"Heavy snow fall", IconSnow},
	77: {"Snow grains", IconSnow},
	80: {"Slight rain showers", IconRain},
	81: {"Moderate rain showers", IconRain},
	82: {"Violent rain showers", IconRain},
	85: {"Slight snow showers", IconSnow},
	86: {"Heavy snow showers", IconSnow},
	95: {"Thunderstorm", IconStorm},
	96: {"Thunderstorm with slight hail", IconStorm},
	99: {"Thunderstorm with heavy hail", IconStorm},
}

// Describe maps a WMO code to its description and icon.
func Describe(code int) Condition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return unknownCondition
}

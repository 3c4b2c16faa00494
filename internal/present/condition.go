package present

// Condition classifies weather suitability for visual flight.
type Condition string

const (
	ConditionHazardous Condition = "Hazardous"
	ConditionMarginal  Condition = "Marginal"
	ConditionGoodVFR   Condition = "Good VFR"
)

// FlightCondition classifies a weather observation. Hazardous is
// checked before Marginal; the function is total over all inputs.
func FlightCondition(weatherCode int, windspeedKmh float64) Condition {
	if weatherCode >= 95 || windspeedKmh > 50 {
		return ConditionHazardous
	}
	if weatherCode == 45 || weatherCode == 48 || weatherCode >= 61 || windspeedKmh > 35 {
		return ConditionMarginal
	}
	return ConditionGoodVFR
}

// weatherDescriptions maps WMO weather codes to display text.
var weatherDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with hail",
	99: "Thunderstorm with heavy hail",
}

// WeatherDescription returns the display text for a weather code, or
// "Unknown" for unmapped codes.
func WeatherDescription(code int) string {
	if desc, ok := weatherDescriptions[code]; ok {
		return desc
	}
	return "Unknown"
}

// WeatherIcon buckets a weather code into a display glyph.
func WeatherIcon(code int) string {
	switch {
	case code == 0:
		return "☀️"
	case code <= 3:
		return "⛅"
	case code <= 48:
		return "🌫️"
	case code <= 65:
		return "🌧️"
	case code <= 77:
		return "❄️"
	case code <= 82:
		return "🌧️"
	case code <= 86:
		return "🌨️"
	default:
		return "⛈️"
	}
}

package view

import (
	"fmt"
	"math"
	"strings"
)

type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// ParseUnit accepts "C", "F", "celsius" or "fahrenheit" in any case and defaults to Celsius.
func ParseUnit(s string) Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "fahrenheit":
		return Fahrenheit
	default:
		return Celsius
	}
}

func (u Unit) Toggle() Unit {
	if u == Fahrenheit {
		return Celsius
	}
	return Fahrenheit
}

func (u Unit) Symbol() string {
	return "°" + string(u)
}

func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// DisplayTemp converts a Celsius value into u and rounds it for display.
func DisplayTemp(c float64, u Unit) int {
	if u == Fahrenheit {
		c = CelsiusToFahrenheit(c)
	}
	return int(math.Round(c))
}

// FormatTemp renders c in u, or "--" when the value is missing.
func FormatTemp(c *float64, u Unit) string {
	if c == nil {
		return "--"
	}
	return fmt.Sprintf("%d%s", DisplayTemp(*c, u), u.Symbol())
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Compass maps a bearing in degrees to one of eight compass points.
func Compass(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return compassPoints[int(math.Round(deg/45))%len(compassPoints)]
}

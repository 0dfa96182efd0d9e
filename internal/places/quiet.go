package places

import (
	"math"
	"strings"
)

// typeMapping maps Google place types to quiet space categories.
var typeMapping = map[string]string{
	"library":     "Library",
	"park":        "Park",
	"cafe":        "Cafe",
	"museum":      "Museum",
	"art_gallery": "Gallery",
	"spa":         "Wellness",
	"church":      "Spiritual",
	"university":  "Study Space",
	"book_store":  "Bookstore",
}

// baseScores are per-category starting points for the quiet score.
var baseScores = map[string]float32{
	"Library":     4.8,
	"Park":        4.2,
	"Museum":      4.0,
	"Gallery":     4.0,
	"Spiritual":   4.5,
	"Study Space": 3.8,
	"Cafe":        3.0,
	"Wellness":    4.3,
	"Bookstore":   3.5,
}

// QuietSpaceType maps a place's Google types to a quiet space category.
func QuietSpaceType(googleTypes []string) string {
	if len(googleTypes) == 0 {
		return "Other"
	}

	for _, t := range googleTypes {
		if mapped, ok := typeMapping[t]; ok {
			return mapped
		}
	}

	// Partial matches for related types.
	for _, t := range googleTypes {
		switch {
		case strings.Contains(t, "library"):
			return "Library"
		case strings.Contains(t, "park"), strings.Contains(t, "garden"):
			return "Park"
		case strings.Contains(t, "cafe"), strings.Contains(t, "coffee"):
			return "Cafe"
		case strings.Contains(t, "museum"):
			return "Museum"
		case strings.Contains(t, "gallery"):
			return "Gallery"
		case strings.Contains(t, "spa"), strings.Contains(t, "wellness"):
			return "Wellness"
		case strings.Contains(t, "church"), strings.Contains(t, "temple"):
			return "Spiritual"
		case strings.Contains(t, "university"), strings.Contains(t, "school"):
			return "Study Space"
		case strings.Contains(t, "book"):
			return "Bookstore"
		}
	}

	return "Other"
}

// QuietScore estimates how quiet a place is (1.0 to 5.0, one decimal) from its
// category and public rating. Higher rated places tend to be better managed,
// so the rating nudges the category base score.
func QuietScore(spaceType string, rating float32) float32 {
	base, ok := baseScores[spaceType]
	if !ok {
		base = 3.0
	}

	if rating > 0 {
		ratingFactor := (rating - 2.5) * 0.2
		base = base + ratingFactor
		if base < 1.0 {
			base = 1.0
		}
		if base > 5.0 {
			base = 5.0
		}
	}

	return float32(math.Round(float64(base)*10) / 10)
}

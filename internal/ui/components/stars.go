package components

import "github.com/khalidw/harfiz/internal/ui/theme"

const maxStars = 3

// StarRow renders a three-slot star row, gold for earned stars and
// dim for the rest.
func StarRow(earned int) string {
	if earned < 0 {
		earned = 0
	}
	if earned > maxStars {
		earned = maxStars
	}

	var s string
	for i := 0; i < maxStars; i++ {
		if i < earned {
			s += theme.StarFilled.Render("★")
		} else {
			s += theme.StarEmpty.Render("☆")
		}
	}
	return s
}

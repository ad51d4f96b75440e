package parser

var starThresholds = [...]int{20, 500, 1500, 5000, 15000}

// Stars maps a class's best base fame to its star tier (0-5).
func Stars(fame int) int {
	stars := 0
	for _, threshold := range starThresholds {
		if fame >= threshold {
			stars++
		}
	}
	return stars
}

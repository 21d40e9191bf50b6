package analysis

// CommunityLabel renders a community index as a display label:
// 0 -> "Community A", 25 -> "Community Z", 26 -> "Community AA".
func CommunityLabel(index int) string {
	if index < 0 {
		index = 0
	}

	letters := ""
	n := index
	for {
		letters = string(rune('A'+n%26)) + letters
		n = n/26 - 1
		if n < 0 {
			break
		}
	}

	return "Community " + letters
}

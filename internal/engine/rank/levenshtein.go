package rank

// Levenshtein returns the edit distance between a and b counting single rune
// insertions, deletions and substitutions at unit cost.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	// d[i][j] is the distance between rb[:i] and ra[:j].
	d := make([][]int, len(rb)+1)
	for i := range d {
		d[i] = make([]int, len(ra)+1)
		d[i][0] = i
	}
	for j := range d[0] {
		d[0][j] = j
	}

	for i := 1; i <= len(rb); i++ {
		for j := 1; j <= len(ra); j++ {
			cost := 1
			if rb[i-1] == ra[j-1] {
				cost = 0
			}
			d[i][j] = min(
				d[i-1][j]+1,
				d[i][j-1]+1,
				d[i-1][j-1]+cost,
			)
		}
	}
	return d[len(rb)][len(ra)]
}

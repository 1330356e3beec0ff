package detector

// DetectCross compares the last two points of a short and a long moving average.
// Golden: short was below long and is now above. Death is the mirror.
func DetectCross(short, long []float64) (golden, death bool) {
	if len(short) < 2 || len(long) < 2 {
		return false, false
	}
	sPrev, sCur := short[len(short)-2], short[len(short)-1]
	lPrev, lCur := long[len(long)-2], long[len(long)-1]

	golden = sPrev < lPrev && sCur > lCur
	death = sPrev > lPrev && sCur < lCur
	return golden, death
}

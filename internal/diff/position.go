package diff

import (
	"regexp"
	"strconv"
	"strings"
)

var hunkRe = regexp.MustCompile(`@@ -(\d+),?\d* \+(\d+),?\d* @@`)

// Position maps a patch line index onto the review-comment coordinate
// GitHub expects: the new-file start of the most recent hunk header plus
// every line emitted since it, except removals (they have no line on the
// new side). Always >= 1; malformed input degrades instead of failing.
func Position(patch string, targetIndex int) int {

	lines := strings.Split(patch, "\n")

	hunkStart := 0
	countSinceHunk := 0

	for i := 0; i < targetIndex && i < len(lines); i++ {

		line := lines[i]

		if m := hunkRe.FindStringSubmatch(line); m != nil {
			start, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			hunkStart = start
			countSinceHunk = 0
			continue
		}

		if strings.HasPrefix(line, "-") {
			continue
		}

		countSinceHunk++
	}

	pos := hunkStart + countSinceHunk
	if pos < 1 {
		return 1
	}
	return pos
}

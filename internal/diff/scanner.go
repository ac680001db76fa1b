package diff

import "strings"

// CandidateLine is an added line in a unified diff, keyed by its
// zero-based offset into the raw patch text.
type CandidateLine struct {
	PatchIndex int
	Content    string
}

// Scan enumerates the added lines of a single-file patch. The "+++ b/..."
// file marker is not an added line. Content carries the line with its
// diff marker stripped.
func Scan(patch string) []CandidateLine {

	var candidates []CandidateLine

	for i, line := range strings.Split(patch, "\n") {

		if !strings.HasPrefix(line, "+") {
			continue
		}
		if strings.HasPrefix(line, "+++") {
			continue
		}

		candidates = append(candidates, CandidateLine{
			PatchIndex: i,
			Content:    line[1:],
		})
	}

	return candidates
}

package github

import "strings"

var skipExt = []string{
	".json", ".lock", ".sum", ".yaml",
	".yml", ".md", ".txt",
}

var allowExt = []string{
	".go", ".js", ".ts", ".py",
}

// IsReviewable filters out generated/config files and files GitHub
// returns without a patch (binaries, huge diffs).
func IsReviewable(f PRFile) bool {

	if f.Patch == "" {
		return false
	}

	for _, s := range skipExt {
		if strings.HasSuffix(f.Filename, s) {
			return false
		}
	}

	for _, a := range allowExt {
		if strings.HasSuffix(f.Filename, a) {
			return true
		}
	}

	return false
}

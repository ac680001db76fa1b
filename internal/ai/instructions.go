package ai

const defaultInstructions = `You improve a single line taken from a code change.

Respond ONLY in this exact format:

reason: <one short sentence explaining the improvement>
suggestion: <the improved line>

If the line needs no improvement, respond with:

reason: No improvements needed.
suggestion: <the line, unchanged>

Do not add any other text, headings or code fences.`

// DefaultInstructions returns the fixed oracle instruction block. Built once
// at wiring time and handed to the pipeline; nothing mutates it.
func DefaultInstructions() string {
	return defaultInstructions
}

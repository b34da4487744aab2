package pipeline

import _ "embed"

// Prompt templates live alongside the stages that use them and are
// compiled in, so the pipeline has no runtime file dependencies.
var (
	//go:embed prompts/memory_query.md
	memoryQueryTemplate string

	//go:embed prompts/cognitive_update.md
	cognitiveUpdateTemplate string

	//go:embed prompts/action_selection.md
	actionSelectionTemplate string
)

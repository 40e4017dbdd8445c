package summarizer

// System prompts for the three summarization passes.
const (
	ChunkPrompt    = "Summarize the following lecture transcript while preserving key details."
	DetailedPrompt = "Create a structured, detailed summary of the following lecture transcript. " +
		"Ensure it includes all key points, organized in sections. Use bullet points where necessary."
	ShortPrompt = "Provide a very brief high-level summary of the following lecture in under 300 words."
)

// Placeholders used when a final pass fails.
const (
	DetailedUnavailable = "Detailed summary unavailable."
	ShortUnavailable    = "Short summary unavailable."
)

// Package summary generates AI summaries of saved articles through either a
// local Ollama server or any OpenAI-compatible API.
package summary

type Summarizer interface {
	Summarize(text string) (string, error)
}

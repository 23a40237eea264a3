package driven

// Prompt names used with PromptStore.
const (
	// PromptPersona is the fixed system instruction prepended to every
	// generation request.
	PromptPersona = "persona"
)

// PromptStore loads customisable prompt templates.
// Implementations fall back to embedded defaults when no custom prompt
// exists.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}

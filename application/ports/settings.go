package ports

// Settings exposes the runtime-tunable knobs the application layer reads on
// every request, so a dynamic config reload takes effect without a restart
type Settings interface {
	// Model is the LLM model identifier to request
	Model() string

	// MaxExplorationsPerUser is the per-owner quota checked before insert
	MaxExplorationsPerUser() int
}

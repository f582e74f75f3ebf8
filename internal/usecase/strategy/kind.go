package strategy

// Kind names one of the embedding acquisition policies.
type Kind string

// Strategy kinds.
const (
	// Generate always vectorizes the query and every candidate through the provider.
	Generate Kind = "generate"
	// UseExisting reads every embedding from content metadata and never calls the provider.
	UseExisting Kind = "use_existing"
	// Hybrid prefers metadata embeddings and generates only the missing ones.
	Hybrid Kind = "hybrid"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Generate || k == UseExisting || k == Hybrid
}

// ParseKind converts a configuration value to a Kind. Empty means Hybrid.
func ParseKind(s string) (Kind, bool) {
	if s == "" {
		return Hybrid, true
	}
	k := Kind(s)
	return k, k.IsValid()
}

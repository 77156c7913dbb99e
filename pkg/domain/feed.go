package domain

// FeedSource represents a configured job feed endpoint
type FeedSource struct {
	URL      string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Category string `yaml:"category" json:"category" jsonschema:"default=General,description=Default category for items without one"`
	Source   string `yaml:"source" json:"source" jsonschema:"description=Source name stored on each job (e.g. jobicy)"`
}

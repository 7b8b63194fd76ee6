package config

// SourceType selects where the navigation tree is built from.
type SourceType string

const (
	SourceOutline SourceType = "outline"
	SourceDocs    SourceType = "docs"
)

// Config is the top-level navtree configuration, corresponding to .navtree.yml.
type Config struct {
	ProjectName    string            `yaml:"project_name" koanf:"project_name"`
	ProjectURL     string            `yaml:"project_url" koanf:"project_url"`
	Source         SourceType        `yaml:"source" koanf:"source"`
	Outline        string            `yaml:"outline" koanf:"outline"`
	DocsDir        string            `yaml:"docs_dir" koanf:"docs_dir"`
	OutputDir      string            `yaml:"output_dir" koanf:"output_dir"`
	Include        []string          `yaml:"include" koanf:"include"`
	Exclude        []string          `yaml:"exclude" koanf:"exclude"`
	PageSize       int               `yaml:"page_size" koanf:"page_size"`
	SplitDepth     int               `yaml:"split_depth" koanf:"split_depth"`
	CreateSubdirs  bool              `yaml:"create_subdirs" koanf:"create_subdirs"` // outline sources only
	MaxConcurrency int               `yaml:"max_concurrency" koanf:"max_concurrency"`
	Messages       map[string]string `yaml:"messages" koanf:"messages"`
	Serve          ServeConfig       `yaml:"serve" koanf:"serve"`
}

// ServeConfig holds settings for the preview server.
type ServeConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}

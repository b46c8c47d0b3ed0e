package ports

// Settings is the ambient configuration a run reads before planning anything: how many
// workers to schedule with, the seed that feeds classLoaderSigHash (the build logic's
// own version), where the cache root lives, and whether to emit colored output.
type Settings struct {
	Workers            int
	ClassLoaderVersion  string
	CacheRoot           string
	Colored             bool
	FailFast            bool
}

// SettingsLoader reads the ambient configuration file, the one part of "configuration"
// this core keeps in scope even though the task-definition DSL itself is not.
//
//go:generate go run go.uber.org/mock/mockgen -source=settings.go -destination=mocks/mock_settings.go -package=mocks
type SettingsLoader interface {
	Load(path string) (Settings, error)
}

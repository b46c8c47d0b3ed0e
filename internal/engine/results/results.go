// Package results assembles a finished run's outcome: the raw successful values, the
// Failing-family results keyed by terminal, and the timing/profile artifacts written
// alongside a run.
package results

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/engine/driver"
)

// Results is the assembled view of one completed run.
type Results struct {
	RawValues map[domain.Terminal]any
	Failing   map[domain.Terminal]domain.Result
	Order     []domain.Terminal
	Timings   []driver.Timing
}

// Assemble builds a Results from a driver/scheduler Outcome, splitting successful
// values from the Failing family (Failure|Skipped|Aborted|Exception).
func Assemble(out driver.Outcome) *Results {
	r := &Results{
		RawValues: make(map[domain.Terminal]any, len(out.Order)),
		Failing:   make(map[domain.Terminal]domain.Result),
		Order:     out.Order,
		Timings:   out.Timings,
	}
	for _, t := range out.Order {
		res := out.Results[t]
		if res.Outcome.Failing() {
			r.Failing[t] = res
			continue
		}
		r.RawValues[t] = res.Value
	}
	return r
}

// Ok reports whether every terminal in the run succeeded.
func (r *Results) Ok() bool { return len(r.Failing) == 0 }

type profileEntry struct {
	Label  string `json:"label"`
	Millis int64  `json:"millis"`
	Cached bool   `json:"cached"`
}

// WriteProfile writes the per-group timing profile as a JSON array, one entry per
// evaluated terminal in run order (the teacher's equivalent of mill-profile.json,
// renamed kiln-profile.json).
func (r *Results) WriteProfile(path string) error {
	entries := make([]profileEntry, 0, len(r.Timings))
	for _, t := range r.Timings {
		entries = append(entries, profileEntry{Label: t.Terminal.Label(), Millis: t.Millis, Cached: t.Cached})
	}
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

type planEntry struct {
	Label   string   `json:"label" yaml:"label"`
	Depends []string `json:"depends" yaml:"depends"`
}

// WritePlan writes a human-readable YAML snapshot of the grouped, topologically ordered
// plan: each terminal's label and the labels of the groups it depends on. This is a
// supplemental observability artifact, not required for a run to succeed.
func WritePlan(path string, order []domain.Terminal, deps map[domain.Terminal][]domain.Terminal) error {
	entries := make([]planEntry, 0, len(order))
	for _, t := range order {
		labels := make([]string, 0, len(deps[t]))
		for _, d := range deps[t] {
			labels = append(labels, d.Label())
		}
		entries = append(entries, planEntry{Label: t.Label(), Depends: labels})
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ettle/strcase"
	gocommand "github.com/goliatone/go-command"
	"gopkg.in/yaml.v3"

	dashboard "github.com/goliatone/go-salesdash/components/dashboard"
)

// ManifestFile lists the files written by a snapshot run.
const ManifestFile = "manifest.yaml"

type chartRenderer interface {
	RenderChart(ctx context.Context, sel dashboard.Selection) (dashboard.RenderResult, error)
}

// SnapshotInput selects where charts are written and the control values used
// for the charts that need them.
type SnapshotInput struct {
	OutDir string
	Params dashboard.Params
}

// SnapshotEntry describes one rendered selection.
type SnapshotEntry struct {
	Tab     string `yaml:"tab"`
	Option  string `yaml:"option"`
	Kind    string `yaml:"kind"`
	Title   string `yaml:"title,omitempty"`
	File    string `yaml:"file,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// SnapshotCommand renders every tab/option pair to standalone HTML files.
type SnapshotCommand struct {
	service   chartRenderer
	telemetry Telemetry
}

// NewSnapshotCommand wires dependencies.
func NewSnapshotCommand(service chartRenderer, telemetry Telemetry) *SnapshotCommand {
	return &SnapshotCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SnapshotInput] = (*SnapshotCommand)(nil)

// Execute renders each selection. Selections still waiting for input are
// listed in the manifest without a file.
func (c *SnapshotCommand) Execute(ctx context.Context, msg SnapshotInput) error {
	if c.service == nil {
		return errors.New("snapshot command requires service")
	}
	if msg.OutDir == "" {
		return errors.New("snapshot command requires an output directory")
	}
	if err := os.MkdirAll(msg.OutDir, 0o755); err != nil {
		return fmt.Errorf("snapshot: create %s: %w", msg.OutDir, err)
	}

	var entries []SnapshotEntry
	written := 0
	for _, tab := range dashboard.Tabs() {
		for _, opt := range dashboard.TabOptions(tab) {
			result, err := c.service.RenderChart(ctx, dashboard.Selection{Tab: tab, Option: opt, Params: msg.Params})
			if err != nil {
				return fmt.Errorf("snapshot: %s/%s: %w", tab, opt, err)
			}
			entry := SnapshotEntry{
				Tab:     result.Tab,
				Option:  result.Option,
				Kind:    string(result.Kind),
				Message: result.Message,
			}
			if result.Figure != nil {
				entry.Title = result.Figure.Title
				entry.File = SnapshotFileName(tab, opt)
				if err := os.WriteFile(filepath.Join(msg.OutDir, entry.File), []byte(result.Figure.HTML), 0o644); err != nil {
					return fmt.Errorf("snapshot: write %s: %w", entry.File, err)
				}
				written++
			}
			entries = append(entries, entry)
		}
	}

	manifest, err := yaml.Marshal(map[string]any{"charts": entries})
	if err != nil {
		return fmt.Errorf("snapshot: encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(msg.OutDir, ManifestFile), manifest, 0o644); err != nil {
		return fmt.Errorf("snapshot: write manifest: %w", err)
	}
	c.telemetry.Record(ctx, EventSnapshot, map[string]any{
		"out_dir":    msg.OutDir,
		"selections": len(entries),
		"files":      written,
	})
	return nil
}

// SnapshotFileName is the kebab-cased file name of a selection, for example
// "top-products-by-size.html".
func SnapshotFileName(tab dashboard.Tab, opt dashboard.Option) string {
	return strcase.ToKebab(tab.String()+"_"+opt.String()) + ".html"
}

package charmodel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"
)

// DefaultPath is the model location relative to the working directory.
const DefaultPath = "adc_data/model.yaml"

// LoaderConfig configures model loading.
type LoaderConfig struct {
	Path string
	// GenerateCommand runs once when Path is missing. Empty disables generation.
	GenerateCommand string
	GenerateDir     string
	GenerateTimeout time.Duration
}

// Info describes the loaded model.
type Info struct {
	Path      string    `json:"path"`
	Exists    bool      `json:"exists"`
	Entries   int       `json:"entries"`
	Degraded  bool      `json:"degraded"`
	Generated bool      `json:"generated"`
	Size      int64     `json:"size,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// Loader reads the characterization table, generating it first if needed.
type Loader struct {
	cfg    LoaderConfig
	logger *slog.Logger
}

// NewLoader creates a new Loader.
func NewLoader(cfg LoaderConfig, logger *slog.Logger) *Loader {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 10 * time.Minute
	}
	return &Loader{cfg: cfg, logger: logger}
}

// Load returns the characterization table. A missing or unreadable file
// does not fail: the table comes back empty and Info.Degraded is set, so
// later lookups miss instead of the adapter refusing to start.
func (l *Loader) Load(ctx context.Context) (*Table, Info) {
	info := Info{Path: l.cfg.Path}

	if !l.exists() && l.cfg.GenerateCommand != "" {
		l.logger.Info("model file missing, running generator",
			"path", l.cfg.Path,
			"command", l.cfg.GenerateCommand,
		)
		if err := l.generate(ctx); err != nil {
			l.logger.Error("model generation failed", "error", err)
		} else {
			info.Generated = true
		}
	}

	file, err := os.Open(l.cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Error("could not find model file",
				"path", l.cfg.Path,
				"hint", "configure model.generate_command or generate a model",
			)
		} else {
			l.logger.Error("failed to open model file", "path", l.cfg.Path, "error", err)
		}
		return l.degraded(info)
	}
	defer file.Close()

	if stat, err := file.Stat(); err == nil {
		info.Exists = true
		info.Size = stat.Size()
		info.UpdatedAt = stat.ModTime()
	}

	table, err := Decode(file)
	if err != nil {
		l.logger.Error("failed to load model", "path", l.cfg.Path, "error", err)
		return l.degraded(info)
	}

	info.Entries = table.Len()
	info.Degraded = table.Len() == 0
	info.LoadedAt = time.Now()

	l.logger.Info("loaded model from disk",
		"path", l.cfg.Path,
		"entries", info.Entries,
	)
	return table, info
}

func (l *Loader) degraded(info Info) (*Table, Info) {
	info.Degraded = true
	info.LoadedAt = time.Now()
	return NewTable(nil), info
}

func (l *Loader) exists() bool {
	_, err := os.Stat(l.cfg.Path)
	return err == nil
}

func (l *Loader) generate(ctx context.Context) error {
	args, err := shellquote.Split(l.cfg.GenerateCommand)
	if err != nil {
		return fmt.Errorf("invalid generate command: %w", err)
	}
	if len(args) == 0 {
		return fmt.Errorf("empty generate command")
	}

	ctx, cancel := context.WithTimeout(ctx, l.cfg.GenerateTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = l.cfg.GenerateDir
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		l.logger.Debug("generator output", "output", string(out))
	}
	if err != nil {
		return fmt.Errorf("generator %q failed: %w", args[0], err)
	}
	return nil
}

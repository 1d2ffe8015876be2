package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"visiond/internal/config"
	"visiond/internal/logx"
)

// flagValues holds what was given on the command line. Empty values leave the
// config file (or the defaults) in charge.
type flagValues struct {
	configPath  string
	addr        string
	modelPath   string
	modelURL    string
	labels      string
	cacheDir    string
	ortLib      string
	logLevel    string
	logFormat   string
	topK        int
	maxUploadMB int
	corsOrigins string
}

func (f flagValues) overrides() config.Config {
	o := config.Config{
		Addr:        f.addr,
		ModelPath:   f.modelPath,
		ModelURL:    f.modelURL,
		LabelsPath:  f.labels,
		CacheDir:    f.cacheDir,
		ORTLibrary:  f.ortLib,
		LogLevel:    f.logLevel,
		LogFormat:   f.logFormat,
		TopK:        f.topK,
		MaxUploadMB: f.maxUploadMB,
	}
	if origins := splitCSV(f.corsOrigins); len(origins) > 0 {
		o.CORSEnabled = true
		o.CORSOrigins = origins
	}
	return o
}

// resolve reads the config file if one was named, lays the flags over it and
// fills the gaps with defaults.
func (f flagValues) resolve() (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		c, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = c
	}
	return cfg.Merge(f.overrides()).WithDefaults(), nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logx.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
}

func newRootCmd() *cobra.Command {
	var fv flagValues
	root := &cobra.Command{
		Use:           "visiond",
		Short:         "AI Vision Explorer: upload an image, get the top-5 labels",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmdRun(cmd, fv)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&fv.configPath, "config", "", "Path to a YAML, JSON or TOML config file")
	pf.StringVar(&fv.addr, "addr", envStr("VISIOND_ADDR", ""), "HTTP listen address, e.g. :8080 (defaults VISIOND_ADDR or :8080)")
	pf.StringVar(&fv.modelPath, "model-path", "", "Local .onnx model file")
	pf.StringVar(&fv.modelURL, "model-url", "", "URL to download the .onnx model from when no model path is set")
	pf.StringVar(&fv.labels, "labels", "", "Class label file, one label per line")
	pf.StringVar(&fv.cacheDir, "cache-dir", "", "Directory caching downloaded models (default ~/.cache/visiond)")
	pf.StringVar(&fv.ortLib, "ort-lib", "", "Path to the onnxruntime shared library")
	pf.StringVar(&fv.logLevel, "log-level", envStr("VISIOND_LOG_LEVEL", ""), "Log level: debug|info|warn|error (defaults VISIOND_LOG_LEVEL or info)")
	pf.StringVar(&fv.logFormat, "log-format", "", "Log format: console|json")
	pf.IntVar(&fv.topK, "top-k", 0, "Number of predictions to keep, 1 to 5 (default 5)")
	pf.IntVar(&fv.maxUploadMB, "max-upload-mb", 0, "Upload size limit in MiB (default 10)")
	pf.StringVar(&fv.corsOrigins, "cors-origins", "", "Comma-separated origins allowed to call /api (enables CORS)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the explorer page and JSON API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return serveCmdRun(cmd, fv)
			},
		},
		&cobra.Command{
			Use:     "classify <image>",
			Short:   "Load the model and classify one image file",
			Example: "  visiond classify --model-path mobilenet_v2.onnx --labels imagenet.txt cat.jpg",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return classifyCmdRun(cmd, fv, args[0])
			},
		},
	)
	return root
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitCSV splits a comma-separated list, trimming blanks and dropping empties.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

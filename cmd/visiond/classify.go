package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"visiond/internal/config"
	"visiond/internal/vision"
)

// progressPrinter renders load progress as a single updating stderr line.
type progressPrinter struct{ w io.Writer }

func (p progressPrinter) Publish(e vision.Event) {
	switch e.Name {
	case vision.EventLoadProgress:
		if pct, ok := e.Fields["progress"].(int); ok {
			fmt.Fprintf(p.w, "\rLoading AI Model... %d%%", pct)
		}
	case vision.EventModelReady:
		fmt.Fprintln(p.w, "\rLoading AI Model... 100%")
	case vision.EventLoadFailed:
		fmt.Fprintln(p.w, "\rModel failed to load")
	}
}

func classifyCmdRun(cmd *cobra.Command, fv flagValues, path string) error {
	cfg, err := fv.resolve()
	if err != nil {
		return err
	}
	return classifyFile(cmd.Context(), cfg, path, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// classifyFile loads the model synchronously and prints one "label — NN.N%"
// row per prediction.
func classifyFile(ctx context.Context, cfg config.Config, path string, out, errOut io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	mgr := newManager(cfg, newLogger(cfg), progressPrinter{w: errOut})
	defer mgr.Close()
	if err := mgr.Load(ctx); err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	preds, err := mgr.ClassifyImage(ctx, data)
	if err != nil {
		return err
	}
	for _, p := range preds {
		fmt.Fprintln(out, p.String())
	}
	return nil
}

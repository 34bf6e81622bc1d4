package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/HinsChueng/journalcrop"
)

func main() {
	cmd := &cli.Command{
		Name:  "journalcrop",
		Usage: "Crop figures and tables out of journal PDFs and rebuild their heading outlines",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				Sources: cli.EnvVars("JOURNALCROP_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("JOURNALCROP_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Also write logs to this file",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write logs as JSON",
			},
		},
		Commands: []*cli.Command{
			extractCommand(),
			outlineCommand(),
			reviewCommand(),
			watchCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		logrus.Fatalf("%+v", err)
	}
}

// setup loads the configuration and applies the global flags.
func setup(cmd *cli.Command) (journalcrop.Config, *logrus.Logger, io.Closer, error) {
	cfg := journalcrop.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := journalcrop.LoadConfig(path)
		if err != nil {
			return cfg, nil, nil, err
		}
		cfg = loaded
	}

	if level := cmd.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if file := cmd.String("log-file"); file != "" {
		cfg.Log.File = file
	}
	if cmd.Bool("log-json") {
		cfg.Log.JSON = true
	}

	log, closer, err := journalcrop.NewLogger(cfg.Log)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, log, closer, nil
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Process every PDF in the input directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Directory holding the PDF files",
			},
			&cli.StringFlag{
				Name:  "images",
				Usage: "Directory receiving the cropped images",
			},
			&cli.StringFlag{
				Name:  "results",
				Usage: "Directory receiving the outline JSON files",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Documents processed concurrently",
			},
		},
		Action: runExtract,
	}
}

func runExtract(ctx context.Context, cmd *cli.Command) error {
	cfg, log, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	if v := cmd.String("input"); v != "" {
		cfg.InputDir = v
	}
	if v := cmd.String("images"); v != "" {
		cfg.ImageDir = v
	}
	if v := cmd.String("results"); v != "" {
		cfg.ResultDir = v
	}
	if v := cmd.Int("workers"); v > 0 {
		cfg.Workers = int(v)
	}
	if cfg.InputDir == "" {
		return errors.New("no input directory given")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	paths, err := journalcrop.ListPDFs(cfg.InputDir)
	if err != nil {
		return err
	}
	log.WithField("files", len(paths)).Info("starting batch")

	opener, err := journalcrop.NewPDFiumOpener(cfg.Workers, cfg.Tables)
	if err != nil {
		return err
	}
	defer opener.Close()

	results := journalcrop.NewBatch(cfg, opener, log).Run(ctx, paths)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	log.WithFields(logrus.Fields{
		"files":  len(results),
		"failed": failed,
	}).Info("batch finished")

	if failed > 0 {
		return errors.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func outlineCommand() *cli.Command {
	return &cli.Command{
		Name:      "outline",
		Usage:     "Print the heading outline of one PDF as JSON",
		ArgsUsage: "<file.pdf>",
		Action:    runOutline,
	}
}

func runOutline(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New("no PDF file given")
	}

	cfg, log, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg.ExtractRegions = false
	cfg.BuildOutline = true
	cfg.ResultDir = ""

	opener, err := journalcrop.NewPDFiumOpener(1, cfg.Tables)
	if err != nil {
		return err
	}
	defer opener.Close()

	res := journalcrop.NewBatch(cfg, opener, log).ProcessFile(ctx, path)
	if res.Err != nil {
		return res.Err
	}
	return journalcrop.EncodeOutline(os.Stdout, res.Outline)
}

func reviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Sort cropped article directories by whether their figure and table numbering is complete",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "images",
				Usage: "Directory holding one subdirectory per article",
			},
			&cli.StringFlag{
				Name:  "ok",
				Usage: "Directory receiving complete articles",
			},
			&cli.StringFlag{
				Name:  "problem",
				Usage: "Directory receiving articles that need a manual look",
			},
			&cli.BoolFlag{
				Name:  "pending",
				Usage: "Only list input PDFs not reviewed yet",
			},
		},
		Action: runReview,
	}
}

func runReview(_ context.Context, cmd *cli.Command) error {
	cfg, log, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	if v := cmd.String("images"); v != "" {
		cfg.ImageDir = v
	}
	if v := cmd.String("ok"); v != "" {
		cfg.Review.OKDir = v
	}
	if v := cmd.String("problem"); v != "" {
		cfg.Review.ProblemDir = v
	}

	if cmd.Bool("pending") {
		if cfg.InputDir == "" {
			return errors.New("no input directory configured")
		}
		pending, err := journalcrop.Pending(cfg.InputDir, cfg.Review.OKDir, cfg.Review.ProblemDir)
		if err != nil {
			return err
		}
		for _, p := range pending {
			fmt.Println(p)
		}
		fmt.Fprintf(os.Stderr, "%d pending\n", len(pending))
		return nil
	}

	results, err := journalcrop.Review(cfg.ImageDir, cfg.Review.OKDir, cfg.Review.ProblemDir, log)
	if err != nil {
		return err
	}

	counts := map[journalcrop.Verdict]int{}
	for _, res := range results {
		if res.Err != nil {
			log.WithError(res.Err).WithField("article", res.Article).Warn("failed to review article")
			continue
		}
		counts[res.Verdict]++
	}
	log.WithFields(logrus.Fields{
		"ok":      counts[journalcrop.VerdictOK],
		"problem": counts[journalcrop.VerdictProblem],
	}).Info("review finished")
	return nil
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Process PDFs as they appear in the input directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Directory to watch",
			},
		},
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, log, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	if v := cmd.String("input"); v != "" {
		cfg.InputDir = v
	}
	if cfg.InputDir == "" {
		return errors.New("no input directory given")
	}

	opener, err := journalcrop.NewPDFiumOpener(1, cfg.Tables)
	if err != nil {
		return err
	}
	defer opener.Close()

	batch := journalcrop.NewBatch(cfg, opener, log)
	watcher := journalcrop.NewWatcher(cfg.InputDir, cfg.Watch.Debounce, func(ctx context.Context, path string) {
		batch.ProcessFile(ctx, path)
	}, log)
	return watcher.Run(ctx)
}

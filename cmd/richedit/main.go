package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rgonek/richedit/document"
	"github.com/rgonek/richedit/htmlparser"
	"github.com/rgonek/richedit/internal/config"
	"github.com/rgonek/richedit/internal/logger"
	"github.com/rgonek/richedit/mdexport"
	"github.com/rgonek/richedit/upload"
	"github.com/rgonek/richedit/uploadserver"
	"go.uber.org/zap"
)

const (
	presetDefault = "default"
	presetLegacy  = "legacy"
)

func presetConfig(preset string) (htmlparser.Config, error) {
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "", presetDefault:
		return htmlparser.Config{}, nil
	case presetLegacy:
		return htmlparser.Config{
			DefaultImageAlign: document.AlignLeft,
		}, nil
	default:
		return htmlparser.Config{}, fmt.Errorf("unknown preset %q (allowed: default, legacy)", preset)
	}
}

// resolveParserConfig lays the preset under the configured parser settings.
func resolveParserConfig(preset string, base htmlparser.Config) (htmlparser.Config, error) {
	cfg, err := presetConfig(preset)
	if err != nil {
		return htmlparser.Config{}, err
	}
	if base.DefaultImageAlign != "" {
		cfg.DefaultImageAlign = base.DefaultImageAlign
	}
	if base.ImageClass != "" {
		cfg.ImageClass = base.ImageClass
	}
	if base.LanguageMode != "" {
		cfg.LanguageMode = base.LanguageMode
	}
	if base.LanguageMap != nil {
		cfg.LanguageMap = base.LanguageMap
	}
	cfg.MarkdownRawHTML = cfg.MarkdownRawHTML || base.MarkdownRawHTML
	return cfg, nil
}

type app struct {
	config     config.Config
	parser     *htmlparser.Parser
	serializer *document.Serializer
	exporter   *mdexport.Exporter
	logger     *zap.Logger
	stdin      io.Reader
	stdout     io.Writer
}

func usage(w io.Writer, fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, "Usage: richedit [options] <command> [args]\n\n")
		fmt.Fprintf(w, "Commands:\n")
		fmt.Fprintf(w, "  normalize [file]   parse HTML and print the normalized HTML\n")
		fmt.Fprintf(w, "  markdown [file]    convert Markdown to editor HTML\n")
		fmt.Fprintf(w, "  tree [file]        print the document tree as JSON\n")
		fmt.Fprintf(w, "  export [file]      convert HTML to Markdown\n")
		fmt.Fprintf(w, "  upload <file>      upload an image and print its URL\n")
		fmt.Fprintf(w, "  serve              run the development upload endpoint\n\n")
		fs.PrintDefaults()
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("richedit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a YAML config file")
	preset := fs.String("preset", "", "Preset: default|legacy (overrides config)")
	logLevel := fs.String("log-level", "", "Log level (overrides config)")
	allowHTML := fs.Bool("allow-html", false, "Export: keep underline, colors, image layout and breaks as HTML")
	fs.Usage = usage(stderr, fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if *preset != "" {
		cfg.Preset = *preset
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log, closeLog, err := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File, JSON: cfg.Log.JSON, Console: stderr})
	if err != nil {
		return err
	}
	defer closeLog()

	parserConfig, err := resolveParserConfig(cfg.Preset, cfg.Parser)
	if err != nil {
		return fmt.Errorf("invalid preset: %w", err)
	}
	parser, err := htmlparser.New(parserConfig)
	if err != nil {
		return fmt.Errorf("invalid parser config: %w", err)
	}
	serializer, err := document.NewSerializer(cfg.Render)
	if err != nil {
		return fmt.Errorf("invalid render config: %w", err)
	}

	exportConfig := cfg.Export
	if *allowHTML {
		exportConfig = mdexport.HTMLConfig()
		exportConfig.LanguageMap = cfg.Export.LanguageMap
		exportConfig.UnknownNodes = cfg.Export.UnknownNodes
	}
	exporter, err := mdexport.New(exportConfig)
	if err != nil {
		return fmt.Errorf("invalid export config: %w", err)
	}

	a := &app{config: cfg, parser: parser, serializer: serializer, exporter: exporter, logger: log, stdin: stdin, stdout: stdout}
	command, rest := fs.Arg(0), fs.Args()[1:]
	switch command {
	case "normalize":
		return a.normalize(rest)
	case "markdown":
		return a.markdown(rest)
	case "tree":
		return a.tree(rest)
	case "export":
		return a.export(rest)
	case "upload":
		return a.upload(ctx, rest)
	case "serve":
		return a.serve(ctx)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

func (a *app) logWarnings(warnings []document.Warning) {
	for _, w := range warnings {
		a.logger.Warn(w.Message, zap.String("type", string(w.Type)), zap.String("node", w.NodeType))
	}
}

func (a *app) normalize(args []string) error {
	src, err := a.readInput(args)
	if err != nil {
		return err
	}
	result := a.parser.Parse(src)
	a.logWarnings(result.Warnings)
	_, err = fmt.Fprintln(a.stdout, a.serializer.Serialize(result.Doc))
	return err
}

func (a *app) markdown(args []string) error {
	src, err := a.readInput(args)
	if err != nil {
		return err
	}
	result, err := a.parser.ParseMarkdown(src)
	if err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	a.logWarnings(result.Warnings)
	_, err = fmt.Fprintln(a.stdout, a.serializer.Serialize(result.Doc))
	return err
}

func (a *app) tree(args []string) error {
	src, err := a.readInput(args)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(a.parser.Parse(src))
}

func (a *app) export(args []string) error {
	src, err := a.readInput(args)
	if err != nil {
		return err
	}
	parsed := a.parser.Parse(src)
	a.logWarnings(parsed.Warnings)
	result, err := a.exporter.Export(parsed.Doc)
	if err != nil {
		return fmt.Errorf("export markdown: %w", err)
	}
	a.logWarnings(result.Warnings)
	_, err = io.WriteString(a.stdout, result.Markdown)
	return err
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("upload needs exactly one file")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	client, err := upload.NewClient(a.config.Upload)
	if err != nil {
		return fmt.Errorf("invalid upload config: %w", err)
	}
	url, err := client.Upload(ctx, upload.File{Name: filepath.Base(args[0]), Data: data})
	if err != nil {
		return err
	}
	a.logger.Info("image uploaded", zap.String("file", args[0]), zap.String("url", url))
	_, err = fmt.Fprintln(a.stdout, url)
	return err
}

func (a *app) newStorage(ctx context.Context) (uploadserver.Storage, error) {
	storage := a.config.Storage
	switch storage.Backend {
	case config.StorageMinIO:
		s, err := uploadserver.NewMinIOStorage(storage.MinIO)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return uploadserver.NewLocalStorage(storage.Dir, storage.BaseURL)
	}
}

func (a *app) serve(ctx context.Context) error {
	storage, err := a.newStorage(ctx)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	server, err := uploadserver.New(a.config.Server, storage, a.logger)
	if err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.Listen()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down upload server")
		return server.Shutdown()
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// Package main provides the CLI entrypoint for maildash.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/maildash/internal/config"
	"github.com/verte-zerg/maildash/internal/dashboard"
	"github.com/verte-zerg/maildash/internal/emaillog"
	"github.com/verte-zerg/maildash/internal/logger"
	"github.com/verte-zerg/maildash/internal/model"
	"github.com/verte-zerg/maildash/internal/server"
	"github.com/verte-zerg/maildash/internal/stats"
	"github.com/verte-zerg/maildash/internal/statsui"
)

const (
	defaultDelimiter   = ","
	defaultEncoding    = "utf-8"
	defaultOnMalformed = string(model.MalformedFail)
	defaultFormat      = "text"
)

var (
	logPath        string
	logDelimiter   string
	logEncoding    string
	logOnMalformed string
	logCache       bool

	chartBins int
	chartTop  int

	serveAddr  string
	serveDebug bool

	reportFormat string
	reportWidth  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "maildash",
		Short:         "Dashboard for the classified email log",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServeCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logPath, "log", emaillog.DefaultPath, "path to the email log")
	pf.StringVar(&logDelimiter, "delimiter", defaultDelimiter, "field delimiter (one character, or \"tab\")")
	pf.StringVar(&logEncoding, "encoding", defaultEncoding, "log file character encoding (IANA name)")
	pf.StringVar(&logOnMalformed, "on-malformed", defaultOnMalformed, "malformed row policy: fail or skip")
	pf.BoolVar(&logCache, "cache", false, "reuse the parsed log while the file is unchanged")
	addServeFlags(rootCmd)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&serveDebug, "debug", false, "verbose logging and gin debug mode")
	addChartFlags(cmd)
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&chartBins, "bins", stats.DefaultBins, "number of score histogram bins")
	cmd.Flags().IntVar(&chartTop, "top", stats.DefaultTop, "number of top-scored emails")
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	addServeFlags(cmd)
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyBoolConfig(cmd, "debug", &serveDebug, fileCfg.Server.Debug)

	log, err := logger.New(serveDebug)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	logCfg, chartCfg, err := buildConfigs()
	if err != nil {
		return err
	}
	src, err := newSource(logCfg, log)
	if err != nil {
		return err
	}
	if serveDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	refresher := dashboard.NewRefresher(src, chartCfg, log)
	srv, err := server.New(refresher, model.ServerConfig{Addr: serveAddr, Debug: serveDebug}, logCfg.Path, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logErrf("Dashboard running on http://%s/\n", srv.Addr())
	return srv.Run(ctx)
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard charts as text, JSON or YAML",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportFormat, "format", defaultFormat, "output format: text, json or yaml")
	cmd.Flags().IntVar(&reportWidth, "width", 0, "text width (default: terminal width)")
	addChartFlags(cmd)
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	switch reportFormat {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("--format must be text, json or yaml")
	}
	if reportWidth < 0 {
		return fmt.Errorf("--width must be >= 0")
	}

	log, err := logger.New(false)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	logCfg, chartCfg, err := buildConfigs()
	if err != nil {
		return err
	}
	src, err := newSource(logCfg, log)
	if err != nil {
		return err
	}
	d, err := dashboard.NewRefresher(src, chartCfg, log).Refresh(cmd.Context())
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), d, reportFormat, reportWidth)
}

func writeReport(w io.Writer, d dashboard.Dashboard, format string, width int) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
		return nil
	default:
		if err := stats.RenderReport(w, d.Report, width, false); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}
}

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Show the dashboard in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUICmd,
	}
	addChartFlags(cmd)
	return cmd
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	logCfg, chartCfg, err := buildConfigs()
	if err != nil {
		return err
	}
	// The alternate screen owns the terminal, so nothing is logged.
	log := zap.NewNop()
	src, err := newSource(logCfg, log)
	if err != nil {
		return err
	}
	ui := statsui.NewModel(src, chartCfg, logCfg.Path, log)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadFileConfig reads the config file and applies it to every flag the
// user did not set explicitly.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log", &logPath, fileCfg.Log.Path)
	applyStringConfig(cmd, "delimiter", &logDelimiter, fileCfg.Log.Delimiter)
	applyStringConfig(cmd, "encoding", &logEncoding, fileCfg.Log.Encoding)
	applyStringConfig(cmd, "on-malformed", &logOnMalformed, fileCfg.Log.OnMalformed)
	applyBoolConfig(cmd, "cache", &logCache, fileCfg.Log.Cache)
	applyIntConfig(cmd, "bins", &chartBins, fileCfg.Charts.Bins)
	applyIntConfig(cmd, "top", &chartTop, fileCfg.Charts.Top)
	return fileCfg, nil
}

func buildConfigs() (model.LogConfig, model.ChartConfig, error) {
	delim, err := parseDelimiter(logDelimiter)
	if err != nil {
		return model.LogConfig{}, model.ChartConfig{}, err
	}
	logCfg := model.LogConfig{
		Path:        logPath,
		Delimiter:   delim,
		Encoding:    logEncoding,
		OnMalformed: model.MalformedPolicy(strings.ToLower(strings.TrimSpace(logOnMalformed))),
		Cache:       logCache,
	}
	chartCfg := model.ChartConfig{Bins: chartBins, Top: chartTop}
	if err := validateConfig(logCfg, chartCfg); err != nil {
		return model.LogConfig{}, model.ChartConfig{}, err
	}
	return logCfg, chartCfg, nil
}

func validateConfig(logCfg model.LogConfig, chartCfg model.ChartConfig) error {
	if strings.TrimSpace(logCfg.Path) == "" {
		return fmt.Errorf("--log must not be empty")
	}
	if chartCfg.Bins <= 0 {
		return fmt.Errorf("--bins must be > 0")
	}
	if chartCfg.Top <= 0 {
		return fmt.Errorf("--top must be > 0")
	}
	return nil
}

func parseDelimiter(value string) (rune, error) {
	switch strings.ToLower(value) {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("--delimiter must be a single character, got %q", value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

func newSource(cfg model.LogConfig, log *zap.Logger) (dashboard.Source, error) {
	reader, err := emaillog.NewReader(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to configure log reader: %w", err)
	}
	if cfg.Cache {
		return emaillog.NewCachedReader(reader), nil
	}
	return reader, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# maildash configuration
# Uncomment a value to enable it. CLI flags override config values.

[log]
# path = %q       # Email log written by the classifier
# delimiter = %q              # Field delimiter, one character or "tab"
# encoding = %q           # IANA charset name of the log file
# on-malformed = %q          # fail: reject the refresh, skip: drop bad rows
# cache = false                # Reuse the parsed log while the file is unchanged

[charts]
# bins = %d                    # Score histogram bins
# top = %d                     # Top-scored emails to show

[server]
# addr = %q       # Web dashboard listen address
# debug = false                # Verbose logging
`,
		emaillog.DefaultPath,
		defaultDelimiter,
		defaultEncoding,
		defaultOnMalformed,
		stats.DefaultBins,
		stats.DefaultTop,
		server.DefaultAddr,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

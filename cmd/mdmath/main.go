package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/yuin/goldmark"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
	"pkt.systems/mdmath"
	"pkt.systems/mdmath/mathext"
	"pkt.systems/version"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
	defaultFormat    = "text"
	configFileName   = "config.toml"
)

var formats = []string{"text", "tree", "yaml", "json", "html"}

func init() {
	version.SetDefaultModule("pkt.systems/mdmath")
}

// options holds the settings that may come from the config file or flags.
type options struct {
	Theme       string `toml:"theme"`
	Width       int    `toml:"width"`
	Format      string `toml:"format"`
	Color       string `toml:"color"`
	FrontMatter bool   `toml:"front_matter"`
	SkipCode    bool   `toml:"skip_code"`
	Strict      bool   `toml:"strict"`
}

func main() {
	var (
		opts       options
		expr       string
		display    bool
		listThemes bool
		outPath    string
		configPath string
		verbose    bool
	)

	flags := pflag.NewFlagSet("mdmath", pflag.ExitOnError)
	flags.StringVarP(&expr, "expr", "e", "", "Parse a single expression instead of Markdown input")
	flags.BoolVar(&display, "display", false, "Treat --expr as display math")
	flags.StringVarP(&opts.Format, "format", "f", defaultFormat, "Output format: "+strings.Join(formats, "|"))
	flags.StringVarP(&opts.Theme, "theme", "t", defaultThemeName, "Theme name")
	flags.IntVarP(&opts.Width, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVar(&opts.Color, "color", "auto", "Colored output: auto|on|off")
	flags.BoolVar(&opts.FrontMatter, "front-matter", false, "Decode front matter and skip it when scanning")
	flags.BoolVar(&opts.SkipCode, "skip-code", false, "Ignore $ inside code blocks and code spans")
	flags.BoolVar(&opts.Strict, "strict", false, "Exit with status 1 if any math span fails to parse")
	flags.BoolVar(&listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.StringVar(&configPath, "config", "", "Config file (TOML); defaults to the user config dir")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log scan details to stderr")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: mdmath [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logger := newLogger(os.Stderr, verbose)

	if listThemes {
		printThemes(os.Stdout)
		return
	}

	if err := applyConfig(flags, &opts, configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if !validFormat(opts.Format) {
		fmt.Fprintf(os.Stderr, "unknown format %q (expected %s)\n", opts.Format, strings.Join(formats, "|"))
		os.Exit(2)
	}

	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	theme, ok := mdmath.ThemeByName(opts.Theme)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown theme %q\n\n", opts.Theme)
		printThemes(os.Stderr)
		os.Exit(2)
	}
	color, err := resolveColor(opts.Color, writer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --color %q: %v\n", opts.Color, err)
		os.Exit(2)
	}
	if !color {
		theme = boringTheme()
	}
	width := resolveWidth(opts.Width)

	if flags.Changed("expr") {
		if err := runExpr(writer, expr, display, opts.Format, theme); err != nil {
			fmt.Fprintf(os.Stderr, "parse: %v\n", err)
			os.Exit(1)
		}
		return
	}

	reader, closer, err := openInputs(flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	src, err := io.ReadAll(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	res, err := mdmath.Scan(mdmath.ScanRequest{
		Reader: bytes.NewReader(src),
		Options: []mdmath.ScanOption{
			mdmath.WithFrontMatter(opts.FrontMatter),
			mdmath.WithSkipCode(opts.SkipCode),
			mdmath.WithValidation(true),
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan: %v\n", err)
		os.Exit(1)
	}
	logScan(logger, string(src), res)

	if err := writeResult(writer, string(src), res, opts.Format, width, theme); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	if opts.Strict && len(res.Failures) > 0 {
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func logScan(logger *slog.Logger, src string, res *mdmath.ScanResult) {
	if fm := res.FrontMatter; fm != nil {
		if fm.Err != nil {
			logger.Warn("front matter not decoded", "format", fm.Format, "error", fm.Err)
		} else {
			logger.Debug("front matter", "format", fm.Format, "keys", len(fm.Data))
		}
	}
	for _, f := range res.Formulas {
		line, col := f.Span.Position(src)
		logger.Debug("formula", "line", line, "col", col, "display", f.Display)
		for _, d := range f.Diagnostics {
			logger.Warn("dropped character", "char", string(d.Char), "offset", d.Offset)
		}
	}
	for _, e := range res.Failures {
		line, col := e.Span.Position(src)
		logger.Debug("span failed", "line", line, "col", col, "error", e.Err)
	}
	logger.Debug("scan complete", "formulas", len(res.Formulas), "failures", len(res.Failures))
}

// applyConfig fills options that were not set on the command line from the
// config file. A missing default config file is not an error.
func applyConfig(flags *pflag.FlagSet, opts *options, path string) error {
	explicit := path != ""
	if !explicit {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, "mdmath", configFileName)
	}
	var cfg options
	if _, err := toml.DecodeFile(normalizePath(path), &cfg); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return err
	}
	mergeOptions(flags, opts, cfg)
	return nil
}

func mergeOptions(flags *pflag.FlagSet, opts *options, cfg options) {
	if !flags.Changed("theme") && cfg.Theme != "" {
		opts.Theme = cfg.Theme
	}
	if !flags.Changed("width") && cfg.Width > 0 {
		opts.Width = cfg.Width
	}
	if !flags.Changed("format") && cfg.Format != "" {
		opts.Format = cfg.Format
	}
	if !flags.Changed("color") && cfg.Color != "" {
		opts.Color = cfg.Color
	}
	if !flags.Changed("front-matter") {
		opts.FrontMatter = opts.FrontMatter || cfg.FrontMatter
	}
	if !flags.Changed("skip-code") {
		opts.SkipCode = opts.SkipCode || cfg.SkipCode
	}
	if !flags.Changed("strict") {
		opts.Strict = opts.Strict || cfg.Strict
	}
}

func validFormat(format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

func runExpr(w io.Writer, expr string, display bool, format string, theme mdmath.Theme) error {
	block, err := mdmath.ParseMathBlock(expr, display)
	if err != nil {
		return err
	}
	var out string
	switch format {
	case "tree":
		out = mdmath.Dump(block.Expr).String()
	case "yaml":
		return encodeYAML(w, mdmath.Dump(block.Expr))
	case "json":
		return encodeJSON(w, mdmath.Dump(block.Expr))
	case "html":
		delim := "$"
		if display {
			delim = "$$"
		}
		return convertHTML(w, []byte(delim+expr+delim))
	default:
		out = mdmath.Highlight(block.Expr, theme) + "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}

type formulaReport struct {
	Line        int              `json:"line" yaml:"line"`
	Column      int              `json:"column" yaml:"column"`
	Display     bool             `json:"display" yaml:"display"`
	Source      string           `json:"source" yaml:"source"`
	Rendered    string           `json:"rendered" yaml:"rendered"`
	Tree        *mdmath.TreeNode `json:"tree" yaml:"tree"`
	Diagnostics []string         `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

type failureReport struct {
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Source string `json:"source" yaml:"source"`
	Error  string `json:"error" yaml:"error"`
}

type documentReport struct {
	FrontMatter map[string]any  `json:"front_matter,omitempty" yaml:"front_matter,omitempty"`
	Formulas    []formulaReport `json:"formulas" yaml:"formulas"`
	Failures    []failureReport `json:"failures,omitempty" yaml:"failures,omitempty"`
}

func buildReport(src string, res *mdmath.ScanResult) documentReport {
	doc := documentReport{Formulas: []formulaReport{}}
	if res.FrontMatter != nil {
		doc.FrontMatter = res.FrontMatter.Data
	}
	for _, f := range res.Formulas {
		line, col := f.Span.Position(src)
		r := formulaReport{
			Line:     line,
			Column:   col,
			Display:  f.Display,
			Source:   f.Span.Content(src),
			Rendered: mdmath.Render(f.Expr),
			Tree:     mdmath.Dump(f.Expr),
		}
		for _, d := range f.Diagnostics {
			r.Diagnostics = append(r.Diagnostics, d.String())
		}
		doc.Formulas = append(doc.Formulas, r)
	}
	for _, e := range res.Failures {
		line, col := e.Span.Position(src)
		doc.Failures = append(doc.Failures, failureReport{
			Line:   line,
			Column: col,
			Source: e.Span.Content(src),
			Error:  e.Err.Error(),
		})
	}
	return doc
}

func writeResult(w io.Writer, src string, res *mdmath.ScanResult, format string, width int, theme mdmath.Theme) error {
	switch format {
	case "tree":
		for _, f := range res.Formulas {
			line, col := f.Span.Position(src)
			if _, err := fmt.Fprintf(w, "%d:%d\n%s", line, col, mdmath.Dump(f.Expr)); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		return encodeYAML(w, buildReport(src, res))
	case "json":
		return encodeJSON(w, buildReport(src, res))
	case "html":
		return convertHTML(w, []byte(src))
	default:
		return mdmath.WriteReport(mdmath.ReportRequest{
			Writer: w,
			Source: src,
			Result: res,
			Width:  width,
			Theme:  theme,
		})
	}
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func convertHTML(w io.Writer, src []byte) error {
	md := goldmark.New(goldmark.WithExtensions(mathext.New()))
	return md.Convert(src, w)
}

func printThemes(w io.Writer) {
	names := mdmath.AvailableThemes()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconvAtoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveColor(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return isTerminal(w) && os.Getenv("NO_COLOR") == "", nil
	case "on", "true", "1", "yes", "always":
		return true, nil
	case "off", "false", "0", "no", "never":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

func boringTheme() mdmath.Theme {
	return mdmath.NewTheme("boring", mdmath.Styles{})
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func strconvAtoi(value string) (int, error) {
	var n int
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, fmt.Errorf("invalid int")
		}
		n = n*10 + int(value[i]-'0')
	}
	return n, nil
}

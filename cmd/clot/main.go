package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jclot/clot/internal/config"
	"github.com/jclot/clot/internal/interpreter"
	"github.com/jclot/clot/internal/parser"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool

	logLevel string
	logFile  string

	rootPath   string
	debugAST   bool
	configPath string
)

const DefaultRootPath = "."

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")

	flag.StringVar(&rootPath, "root", "", "Set the root context for the program (used for imports)")
	flag.BoolVar(&debugAST, "debug-ast", false, "Print the parsed program's AST before running it")
	flag.StringVar(&configPath, "config", "clot.toml", "Path to an optional project config file")

	flag.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clot: invalid config %q: %v\n", configPath, err)
		os.Exit(1)
	}
	if rootPath != "" {
		cfg.RootDir = rootPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if lang := os.Getenv("CLOT_LANG"); lang != "" {
		cfg.Language = lang
	}

	logWriter := configureLogWriter(cfg.LogFile)
	loggerOptions := &slog.HandlerOptions{Level: logLevelFromString(cfg.LogLevel)}
	logger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(logger)

	filename := flag.Arg(0)
	if filename == "" {
		fmt.Fprintln(os.Stderr, "clot: no input file")
		os.Exit(1)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clot: %v\n", err)
		os.Exit(1)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	prog, pdiag := parser.New(lines).ParseProgram()
	if pdiag != nil {
		fmt.Fprintln(os.Stderr, pdiag.Error())
		os.Exit(1)
	}
	if debugAST || cfg.DumpAST {
		fmt.Fprintf(os.Stderr, "%#v\n", prog)
	}

	root := cfg.RootDir
	if root == "" {
		root = DefaultRootPath
	}
	absRoot, err := filepath.Abs(filepath.Join(filepath.Dir(filename), root))
	if err != nil {
		absRoot = root
	}

	in := interpreter.New(absRoot, cfg.AsyncWorkers)
	in.Log = logger

	if diag := in.Run(prog); diag != nil {
		fmt.Fprintln(os.Stderr, diag.Error())
		os.Exit(1)
	}
}

func configureLogWriter(path string) *os.File {
	if path == "" {
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for %q: %v; falling back to stderr\n", path, err)
		return os.Stderr
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %q: %v; falling back to stderr\n", path, err)
		return os.Stderr
	}
	return f
}

func printVersion() {
	fmt.Printf("clot version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: clot [options] <filename>

Options:
  -root <path>       Set the root context for the program (used for imports). Default is the input file's directory.
  -config <path>     Path to an optional project config file. Default is 'clot.toml'.
  -debug-ast         Print the parsed program's AST before running it.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: trace, debug, info, warn, error, none. Default is 'info'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Environment:
  CLOT_LANG          Requests a diagnostic language ('en' or 'es') from the translation collaborator.

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "trace":
		return slog.LevelDebug - 4
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		return slog.LevelError + 4
	default:
		return slog.LevelInfo
	}
}

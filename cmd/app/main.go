package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rite/internal/interp"
	"rite/internal/lexer"
	"rite/internal/native"
	"rite/internal/parser"
	"rite/internal/repl"
	"rite/internal/util"
)

var (
	// Version is stamped at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// parser config
	debugAST bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.BoolVar(&debugAST, "debug-ast", false, "Print the parsed program before executing it")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	config, err := util.LoadConfiguration(util.ConfigDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration file: %v\n", err)
		os.Exit(1)
	}
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	// flags override the config file
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}
	if debugAST {
		config.DebugAST = true
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(configureLogWriter(config.LogFile), loggerOptions)))

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Printf("rite v%s\n", Version)
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	runFile(flag.Arg(0), config)
}

func runFile(path string, config util.Configuration) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read '%s': %v\n", path, err)
		os.Exit(1)
	}

	if config.DebugAST {
		dumpAST(string(src))
	}

	session := interp.New(native.NewRegistry())
	if _, diagnostics := session.Run(string(src)); len(diagnostics) != 0 {
		for _, msg := range diagnostics {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

func dumpAST(src string) {
	p := parser.New(lexer.New(src), src)
	program := p.ParseProgram()
	fmt.Fprintln(os.Stderr, program.String())
}

func configureLogWriter(logFile string) *os.File {
	if logFile == "" {
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	writer, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	return writer
}

func printVersion() {
	fmt.Printf("rite version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: rite [options] [filename]

Options:
  -debug-ast         Print the parsed program before executing it.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
This is the rite programming language. Without a filename an interactive
session is started. Defaults for the logging options may also be set in
a rite.toml file in the working directory or in $RITE_HOME.

Examples:
  rite                          Start an interactive session
  rite -log-level=debug         Start with debug logging enabled
  rite myfile.rite              Execute the provided rite file

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

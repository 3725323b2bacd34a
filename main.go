package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tcnksm/go-latest"
	"go.uber.org/zap"

	"conshell/internal/cmdtree"
	"conshell/internal/credstore"
	"conshell/internal/device"
	"conshell/internal/engine"
	"conshell/internal/server"
	"conshell/internal/tui"
)

const version = "0.3.0"

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "conshell",
		Repository: "conshell",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func initConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "conshell"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CONSHELL")

	viper.SetDefault("hostname", "dev")
	viper.SetDefault("banner", "conshell demo device")
	viper.SetDefault("listen", ":2323")
	viper.SetDefault("credentials", "")

	// Missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: conshell [options]\n\n")
		fmt.Fprintf(os.Stderr, "conshell is an interactive command shell engine for embedded-style devices.\n")
		fmt.Fprintf(os.Stderr, "By default it opens a local TUI session against the demo device tree.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  conshell                      # Local TUI session, no auth\n")
		fmt.Fprintf(os.Stderr, "  conshell --creds users.yaml   # Local session with login\n")
		fmt.Fprintf(os.Stderr, "  conshell --serve :2323        # Shell server, one session per connection\n")
		fmt.Fprintf(os.Stderr, "  conshell --script demo.txt    # Replay raw input bytes, print transcript\n")
		fmt.Fprintf(os.Stderr, "  conshell --hash admin:secret  # Print a credential file stanza\n")
	}

	cfgFlag := pflag.StringP("config", "c", "", "Config file (default ~/.config/conshell/config.yaml)")
	credsFlag := pflag.String("creds", "", "Credential file; enables login and access control")
	serveFlag := pflag.String("serve", "", "Listen address for server mode (e.g. :2323)")
	scriptFlag := pflag.String("script", "", "Feed a file of raw input bytes and print the transcript")
	hashFlag := pflag.String("hash", "", "Print a credential stanza for user:password")
	levelFlag := pflag.String("level", "admin", "Access level for --hash (guest, user, admin)")
	logFlag := pflag.String("log", "", "Write debug logs to this file")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for the latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("conshell version %s\n", version)
		return
	}

	if *updateFlag {
		checkUpdate(version)
		return
	}

	if *hashFlag != "" {
		runHashMode(*hashFlag, *levelFlag)
		return
	}

	initConfig(*cfgFlag)
	if *credsFlag != "" {
		viper.Set("credentials", *credsFlag)
	}

	log := buildLogger(*logFlag)
	defer log.Sync()

	creds := loadCredentials(log)

	if *serveFlag != "" {
		runServerMode(*serveFlag, creds, log)
		return
	}

	if *scriptFlag != "" {
		runScriptMode(*scriptFlag, creds, log)
		return
	}

	// Default: TUI
	runTuiMode(creds, log)
}

// buildLogger returns a file-backed debug logger, or a nop logger when
// no log file was requested (the terminal belongs to the shell).
func buildLogger(path string) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	return log
}

// loadCredentials loads the configured credential file; an empty
// setting means access control is off.
func loadCredentials(log *zap.Logger) engine.Credentials {
	path := viper.GetString("credentials")
	if path == "" {
		return nil
	}
	store, err := credstore.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading credentials: %v\n", err)
		os.Exit(1)
	}
	log.Info("credentials loaded", zap.String("path", path))
	return store
}

func runHashMode(spec, level string) {
	user, pass, ok := strings.Cut(spec, ":")
	if !ok || user == "" {
		fmt.Fprintln(os.Stderr, "Error: --hash wants user:password")
		os.Exit(1)
	}
	lvl, err := cmdtree.ParseLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	stanza, err := credstore.Stanza(user, pass, lvl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("users:")
	fmt.Print(stanza)
}

func runServerMode(addr string, creds engine.Credentials, log *zap.Logger) {
	srv := server.New(server.Config{
		Addr:        addr,
		Hostname:    viper.GetString("hostname"),
		Banner:      viper.GetString("banner"),
		Tree:        device.Tree(),
		Creds:       creds,
		NewExecutor: func() engine.Executor { return device.NewExecutor() },
	}, log)

	fmt.Printf("Serving shell sessions on %s (telnet or nc to connect)\n", addr)
	if err := srv.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// runScriptMode replays a file of raw input bytes through a fresh
// session and prints the resulting transcript to stdout. Handy for
// demos and for exercising the engine without a terminal.
func runScriptMode(path string, creds engine.Credentials, log *zap.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
		os.Exit(1)
	}

	conn := &scriptConn{in: data}
	sh := engine.New(device.Tree(), conn, device.NewExecutor(),
		engine.WithLogger(log),
		engine.WithHostname(viper.GetString("hostname")),
		engine.WithBanner(viper.GetString("banner")),
		engine.WithCredentials(creds),
	)
	sh.Activate()
	for {
		if sh.Step() {
			continue
		}
		if !sh.Busy() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	sh.Deactivate()
	os.Stdout.Write(conn.out)
	fmt.Println()
}

// scriptConn feeds a fixed byte slice in and collects output.
type scriptConn struct {
	in  []byte
	out []byte
}

func (c *scriptConn) ReadByte() (byte, bool) {
	if len(c.in) == 0 {
		return 0, false
	}
	b := c.in[0]
	c.in = c.in[1:]
	return b, true
}

func (c *scriptConn) WriteByte(b byte) {
	c.out = append(c.out, b)
}

func runTuiMode(creds engine.Credentials, log *zap.Logger) {
	m := tui.InitialModel(tui.Config{
		Hostname: viper.GetString("hostname"),
		Banner:   viper.GetString("banner"),
		Tree:     device.Tree(),
		Exec:     device.NewExecutor(),
		Creds:    creds,
		Log:      log,
	})
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

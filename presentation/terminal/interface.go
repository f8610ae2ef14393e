package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lyra_automation/application/scenario"
	"lyra_automation/domain/interfaces"
	"lyra_automation/infrastructure/alttester"
	"lyra_automation/infrastructure/browser"
	"lyra_automation/infrastructure/config"
	"lyra_automation/infrastructure/simulator"
	"lyra_automation/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

const (
	historyLimit       = 10
	simulatorLoadDelay = time.Second
	artifactsDirName   = "artifacts"
)

type TerminalInterface struct {
	runner   *scenario.Runner
	driver   interfaces.GameDriver
	launcher interfaces.Launcher
	logger   *logrus.Logger
	reader   *bufio.Reader
	out      io.Writer
}

func NewTerminalInterface() (*TerminalInterface, error) {
	// Load environment variables; .env file is optional
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Setup logger
	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ctx := context.Background()

	// Open the browser-delivered client first so the driver has a game to reach
	var launcher interfaces.Launcher
	if cfg.LaunchURL != "" {
		launcher, err = browser.NewPlaywrightLauncher(browser.Options{
			URL:      cfg.LaunchURL,
			Headless: cfg.Headless,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize launcher: %w", err)
		}
		if err := launcher.Open(ctx); err != nil {
			launcher.Close()
			return nil, fmt.Errorf("failed to open game client: %w", err)
		}
	}

	// Initialize game driver
	driver, err := newDriver(ctx, cfg, logger)
	if err != nil {
		if launcher != nil {
			launcher.Close()
		}
		return nil, fmt.Errorf("failed to initialize driver: %w", err)
	}

	// Initialize run history
	history, err := storage.NewRunHistory(cfg.StateDir)
	if err != nil {
		driver.Close()
		if launcher != nil {
			launcher.Close()
		}
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var opts []scenario.Option
	if launcher != nil {
		opts = append(opts, scenario.WithLauncher(launcher, filepath.Join(cfg.StateDir, artifactsDirName)))
	}
	runner, err := scenario.NewRunner(driver, history, logger, opts...)
	if err != nil {
		driver.Close()
		if launcher != nil {
			launcher.Close()
		}
		return nil, err
	}

	t := newTerminal(runner, driver, logger, os.Stdin, os.Stdout)
	t.launcher = launcher
	return t, nil
}

func newDriver(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.GameDriver, error) {
	switch cfg.Driver {
	case config.DriverSimulator:
		logger.Info("Using simulated Lyra")
		return simulator.NewLyra(simulator.LyraOptions{},
			simulator.WithLogger(logger),
			simulator.WithLoadDelay(simulatorLoadDelay),
		), nil
	default:
		driver, err := alttester.NewDriver(ctx, cfg.AltTester, logger)
		if err != nil {
			return nil, err
		}
		return driver, nil
	}
}

func newTerminal(runner *scenario.Runner, driver interfaces.GameDriver, logger *logrus.Logger, in io.Reader, out io.Writer) *TerminalInterface {
	return &TerminalInterface{
		runner: runner,
		driver: driver,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (t *TerminalInterface) Run() error {
	fmt.Fprintln(t.out, "Lyra UI Automation")
	fmt.Fprintln(t.out, "==================")
	fmt.Fprintln(t.out, "Type 'help' for commands, or 'quit' to exit")
	fmt.Fprintln(t.out)

	for {
		fmt.Fprint(t.out, "> ")
		input, err := t.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "quit" || input == "exit" || input == "q" {
			fmt.Fprintln(t.out, "Bye!")
			return nil
		}

		t.execute(context.Background(), input)
	}
}

// execute - handles one command line
func (t *TerminalInterface) execute(ctx context.Context, input string) {
	fields := strings.Fields(input)
	command, args := fields[0], fields[1:]

	switch command {
	case "help":
		t.printHelp()

	case "list":
		for _, s := range t.runner.Scenarios() {
			fmt.Fprintf(t.out, "  %-12s %s\n", s.Name, s.Description)
		}

	case "run":
		if len(args) != 1 {
			fmt.Fprintln(t.out, "Usage: run <scenario>")
			return
		}
		fmt.Fprintf(t.out, "\nRunning scenario: %s\n\n", args[0])
		record, err := t.runner.Run(ctx, args[0])
		if err != nil {
			if errors.Is(err, scenario.ErrUnknownScenario) {
				fmt.Fprintf(t.out, "Unknown scenario %q, type 'list' to see them\n", args[0])
				return
			}
			fmt.Fprintf(t.out, "\nFAILED %s in %s: %v\n", record.Scenario, record.Duration.Round(time.Millisecond), err)
			if record.Artifact != "" {
				fmt.Fprintf(t.out, "Screenshot: %s\n", record.Artifact)
			}
			fmt.Fprintln(t.out)
			return
		}
		fmt.Fprintf(t.out, "\nPASSED %s in %s\n\n", record.Scenario, record.Duration.Round(time.Millisecond))

	case "scene":
		scene, err := t.driver.GetCurrentScene(ctx)
		if err != nil {
			fmt.Fprintf(t.out, "Failed to get current scene: %v\n", err)
			return
		}
		fmt.Fprintf(t.out, "Current scene: %s\n", scene)

	case "history":
		records, err := t.runner.History()
		if err != nil {
			fmt.Fprintf(t.out, "Failed to load history: %v\n", err)
			return
		}
		if len(records) == 0 {
			fmt.Fprintln(t.out, "No runs yet")
			return
		}
		if len(records) > historyLimit {
			records = records[len(records)-historyLimit:]
		}
		for _, r := range records {
			fmt.Fprintf(t.out, "  %s  %-12s %-7s %s  %s\n",
				r.Started.Format(time.DateTime), r.Scenario, r.Status, r.Duration.Round(time.Millisecond), r.Error)
		}

	default:
		fmt.Fprintf(t.out, "Unknown command %q, type 'help' for commands\n", command)
	}
}

func (t *TerminalInterface) printHelp() {
	fmt.Fprintln(t.out, "Commands:")
	fmt.Fprintln(t.out, "  list             list scenarios")
	fmt.Fprintln(t.out, "  run <scenario>   run a scenario")
	fmt.Fprintln(t.out, "  scene            show the current scene")
	fmt.Fprintln(t.out, "  history          show recent runs")
	fmt.Fprintln(t.out, "  quit             exit")
}

func (t *TerminalInterface) Close() error {
	var closeErr error
	if t.driver != nil {
		closeErr = t.driver.Close()
		t.driver = nil
	}
	if t.launcher != nil {
		closeErr = errors.Join(closeErr, t.launcher.Close())
		t.launcher = nil
	}
	return closeErr
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcojking/logicpro-midi-controller/bridge"
	"github.com/marcojking/logicpro-midi-controller/config"
	"github.com/marcojking/logicpro-midi-controller/keystroke"
	"github.com/marcojking/logicpro-midi-controller/midiout"
	"github.com/marcojking/logicpro-midi-controller/trace"
	"github.com/marcojking/logicpro-midi-controller/tui"
)

// logger is the package-wide structured logger. Safe to use before initLogger
// is called; defaults to slog.Default().
var logger = slog.Default()

// initLogger configures the shared slog logger and calls slog.SetDefault so
// stdlib log output routes through it too.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func main() {
	port := flag.Int("port", 0, "UDP port to listen on (default 9000)")
	midiOutput := flag.String("midi-output", "", "MIDI output port name or substring (default: prefer IAC)")
	backend := flag.String("backend", "", "actuator backend: midi or keys")
	app := flag.String("app", "", "application to target with keystrokes")
	configPath := flag.String("config", "", "path to config file (default ~/.config/logicpro-midi-controller/config.json)")
	monitor := flag.Bool("monitor", false, "show the live event monitor")
	tracePath := flag.String("trace", "", "dump raw datagrams to this file")
	debug := flag.Bool("debug", false, "enable debug logging (adds source location)")
	flag.Parse()

	initLogger(*debug)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}
	applyFlags(cfg, *port, *midiOutput, *backend, *app)

	if *tracePath != "" {
		if err := trace.Enable(*tracePath); err != nil {
			logger.Error("trace enable failed", "path", *tracePath, "err", err)
			os.Exit(1)
		}
		defer trace.Disable()
	}

	logger.Info("logicpro-midi-controller starting",
		"port", cfg.Port,
		"backend", cfg.Backend,
		"debug", *debug,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	act, info, cleanup, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Error("backend init failed", "backend", cfg.Backend, "err", err)
		os.Exit(1)
	}
	defer cleanup()

	router, err := buildRouter(cfg.Backend)
	if err != nil {
		logger.Error("router init failed", "err", err)
		os.Exit(1)
	}
	mapper := buildMapper(cfg)

	loop := bridge.NewLoop(router, mapper, act, logger)
	info.Port = cfg.Port

	errCh := make(chan error, 1)
	go func() {
		err := loop.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Port))
		errCh <- err
		if err != nil {
			stop()
		}
	}()

	if *monitor {
		m := tui.NewModel(loop, info)
		p := tea.NewProgram(m, tea.WithAltScreen())
		go func() {
			<-ctx.Done()
			p.Quit()
		}()
		if _, err := p.Run(); err != nil {
			logger.Error("monitor failed", "err", err)
			os.Exit(1)
		}
		stop()
	}

	if err := <-errCh; err != nil {
		logger.Error("serve failed", "err", err)
		os.Exit(1)
	}
	logger.Info("shut down")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// applyFlags layers explicit flag values over the loaded config.
func applyFlags(cfg *config.Config, port int, midiOutput, backend, app string) {
	if port != 0 {
		cfg.Port = port
	}
	if midiOutput != "" {
		cfg.MIDIOutput = midiOutput
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if app != "" {
		cfg.App = app
	}
}

// openBackend builds the actuator the loop will drive. The MIDI backend
// keeps a watcher goroutine running so the port survives unplug/replug.
func openBackend(ctx context.Context, cfg *config.Config) (bridge.Actuator, tui.Info, func(), error) {
	switch cfg.Backend {
	case config.BackendMIDI:
		names, err := midiout.ListOutputs()
		if err == nil {
			fmt.Println("=== MIDI Output Ports ===")
			for i, n := range names {
				fmt.Printf("  %d: %s\n", i, n)
			}
			fmt.Println("")
		}
		out, err := midiout.Open(cfg.MIDIOutput, logger)
		if err != nil {
			return nil, tui.Info{}, nil, err
		}
		go out.Watch(ctx, 2*time.Second)
		info := tui.Info{Backend: cfg.Backend, Device: out.Name()}
		return out, info, out.Close, nil
	case config.BackendKeys:
		inj := keystroke.New(cfg.App)
		info := tui.Info{Backend: cfg.Backend, Device: inj.App}
		return inj, info, func() {}, nil
	default:
		return nil, tui.Info{}, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// buildRouter binds the address tables. The keystroke backend only serves
// transport actions; raw CC and sliders need a MIDI port behind them.
func buildRouter(backend string) (*bridge.Router, error) {
	r := bridge.NewRouter()
	if err := r.Bind("/transport/*", bridge.TableTransport); err != nil {
		return nil, err
	}
	if backend == config.BackendKeys {
		return r, nil
	}
	if err := r.Bind("/midi/cc", bridge.TableRawCC); err != nil {
		return nil, err
	}
	if err := r.Bind("/slider/*", bridge.TableSlider); err != nil {
		return nil, err
	}
	return r, nil
}

func buildMapper(cfg *config.Config) *bridge.Mapper {
	var opts []bridge.MapperOption
	if cfg.SliderChannel > 0 {
		opts = append(opts, bridge.WithSliderChannel(uint8(cfg.SliderChannel)))
	}
	if cfg.ClampValues {
		opts = append(opts, bridge.WithClamping())
	}
	if len(cfg.TransportKeys) > 0 {
		overrides := make(map[string]bridge.KeyBinding, len(cfg.TransportKeys))
		for action, kb := range cfg.TransportKeys {
			overrides[action] = bridge.KeyBinding{Key: kb.Key, Command: kb.Command}
		}
		opts = append(opts, bridge.WithTransportKeys(overrides))
	}
	if cfg.Backend == config.BackendKeys {
		return bridge.NewKeystrokeMapper(opts...)
	}
	return bridge.NewMIDIMapper(opts...)
}

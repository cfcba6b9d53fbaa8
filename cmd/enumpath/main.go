package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacoelho/enumpath"
	"github.com/jacoelho/enumpath/internal/config"
	"github.com/jacoelho/enumpath/internal/document"
	"github.com/jacoelho/enumpath/internal/exit"
	"github.com/jacoelho/enumpath/internal/formatter/stdout"
	"github.com/jacoelho/enumpath/internal/rfc9535"
)

func main() {
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if exitResult := execute(ctx, cfg, os.Stdout, os.Stderr); exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}
	return exit.CodeSuccess
}

// execute reads the document, evaluates the path and writes the results.
func execute(ctx context.Context, cfg *config.Config, out, errOut io.Writer) *exit.Result {
	r, err := cfg.Open()
	if err != nil {
		return exit.Errorf("Error: %v\n", err)
	}
	defer r.Close()

	node, err := document.Read(r, cfg.Format)
	if err != nil {
		return exit.Errorf("Error: %v\n", err)
	}

	results, err := evaluate(ctx, cfg, node, errOut)
	if err != nil {
		return exit.Errorf("Error: %v\n", err)
	}

	if err := stdout.NewWithWriter(cfg.Output, out).Format(results); err != nil {
		return exit.Errorf("Error: %v\n", err)
	}
	return nil
}

func evaluate(ctx context.Context, cfg *config.Config, node any, errOut io.Writer) ([]any, error) {
	if cfg.Engine == config.EngineRFC9535 {
		return rfc9535.Select(cfg.Path, node)
	}

	resultType := enumpath.ResultValue
	if cfg.Result == config.ResultPath {
		resultType = enumpath.ResultPath
	}

	opts := []enumpath.Option{
		enumpath.WithResultType(resultType),
		enumpath.WithMaxDepth(cfg.MaxDepth),
		enumpath.WithCache(enumpath.NewCache(cfg.CacheSize)),
	}
	if cfg.Verbose {
		handler := slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts,
			enumpath.WithVerbose(true),
			enumpath.WithLogger(slog.New(handler)),
			enumpath.WithLogRate(cfg.LogRate, max(1, int(cfg.LogRate))),
		)
	}

	results, err := enumpath.New(cfg.Path, opts...).ApplyContext(ctx, node)
	if err != nil {
		return nil, err
	}
	return results, nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/appbuilder/cmd/appbuilder/commands"
	apperrors "git.home.luguber.info/inful/appbuilder/internal/errors"
	"git.home.luguber.info/inful/appbuilder/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("appbuilder"),
		kong.Description("Production build driver for single-page web applications."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Ctx: ctx, Stdout: os.Stdout}, cli)
	if err == nil {
		return
	}
	cancel()

	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(apperrors.ExitFailure)
	}
	if _, ok := apperrors.As(err); !ok {
		err = apperrors.InternalError("command failed", err)
	}
	apperrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}

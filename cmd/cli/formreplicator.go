package main

import (
	"context"
	"errors"
	"flag"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/args"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/entry"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/logger"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/model/forms"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/output"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/replicator"
	"go.uber.org/zap"
	"os"
	"os/signal"
)

var Version = "development"

func main() {
	parseArgs, argsErrors, err := args.ParseArgs(os.Args[1:])

	logger.BuildLogger(parseArgs.Verbose)
	defer zap.L().Sync()

	if errors.Is(err, flag.ErrHelp) {
		zap.L().Error(argsErrors)
		os.Exit(2)
	} else if err != nil {
		zap.L().Error("got error: " + err.Error())
		zap.L().Error("argsErrors:\n" + argsErrors)
		os.Exit(1)
	}

	if parseArgs.Version {
		zap.L().Info("Version: " + Version)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := entry.Entry(ctx, parseArgs, nil)

	var remoteError *replicator.RemoteError
	if errors.As(err, &remoteError) {
		// A failed API call is reported but, unless strict, does not fail the process.
		zap.L().Error(remoteError.Error())
		if remoteError.Partial() {
			zap.L().Warn("A partially populated form was left behind: " + forms.Form{FormId: remoteError.FormId}.EditUri())
		}
		if parseArgs.Strict {
			stop()
			os.Exit(1)
		}
		return
	}

	if err != nil {
		stop()
		errorExit(err.Error())
	}

	if result != nil {
		output.PrintSummary(os.Stdout, result.Snapshot.Form)
	}
}

func errorExit(message string) {
	if len(message) == 0 {
		message = "No error message provided"
	}
	zap.L().Error(message)
	os.Exit(1)
}

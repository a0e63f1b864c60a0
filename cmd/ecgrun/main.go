// Command ecgrun loads a declarative graph description from a JSON
// file and executes it, printing the resulting node outputs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/config"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/engine"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/loader"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/logging"
)

func main() {
	graphPath := flag.String("graph", "", "path to a declarative graph JSON document")
	inputsPath := flag.String("inputs", "", "path to a JSON object of external input names to values (optional)")
	measureTime := flag.Bool("measure-time", false, "attach node execution durations to logged events")
	flag.Parse()

	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "ecgrun: -graph is required")
		os.Exit(2)
	}

	logger := logging.New(logging.DefaultConfig())

	l := loader.New(loader.WithLogger(logger))
	g, err := l.LoadFromFile(*graphPath)
	if err != nil {
		logger.WithError(err).WithField("path", *graphPath).Error("failed to load graph")
		os.Exit(1)
	}

	executionConfig := map[string]any{}
	if *inputsPath != "" {
		raw, err := os.ReadFile(*inputsPath)
		if err != nil {
			logger.WithError(err).WithField("path", *inputsPath).Error("failed to read inputs file")
			os.Exit(1)
		}
		var values map[string]any
		if err := json.Unmarshal(raw, &values); err != nil {
			logger.WithError(err).WithField("path", *inputsPath).Error("failed to parse inputs file")
			os.Exit(1)
		}
		executionConfig["externalInputNamesToValuesDict"] = values
	}

	eng := engine.New(config.Default())
	eng.SetLogger(logger)

	ok, err := eng.Execute(context.Background(), g, executionConfig, *measureTime)
	if err != nil {
		logger.WithError(err).Error("graph execution failed")
		os.Exit(1)
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "ecgrun: execution reported failure with no error detail")
		os.Exit(1)
	}

	result, err := g.LastExecutionResult(true)
	if err != nil {
		logger.WithError(err).Error("failed to collect execution result")
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.WithError(err).Error("failed to marshal execution result")
		os.Exit(1)
	}
	fmt.Println(string(out))
}

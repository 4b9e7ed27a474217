package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/glean-tools/glean/pkg/analyzer"
	"github.com/glean-tools/glean/pkg/config"
	"github.com/glean-tools/glean/pkg/models"
)

type Context struct {
	context.Context
}

type CLI struct {
	File           string   `kong:"arg,optional,help='Text file to analyze (reads stdin when omitted).'"`
	Prompt         string   `kong:"short='p',help='Custom prompt for analysis.'"`
	Model          string   `kong:"short='m',placeholder='MODEL',help='Override the model specified in config. See --models for options.'"`
	Temperature    *float64 `kong:"short='t',help='Override the temperature setting (0.0-1.0).'"`
	Models         bool     `kong:"help='List available model IDs, one per line.'"`
	ModelsDetailed bool     `kong:"help='List available models with pricing and context details.'"`
}

// Validate runs during flag parsing, before any config load or network call.
func (cli *CLI) Validate() error {
	if cli.Temperature != nil && (*cli.Temperature < 0.0 || *cli.Temperature > 1.0) {
		return fmt.Errorf("temperature must be between 0.0 and 1.0")
	}

	return nil
}

func warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("glean"),
		kong.Description("Analyze text using the OpenRouter API with language models."),
	)

	err := ctx.Run(&Context{Context: context.Background()})
	ctx.FatalIfErrorf(err)
}

func (cli *CLI) Run(ctx *Context) error {
	if cli.Models || cli.ModelsDetailed {
		return cli.listModels(ctx)
	}

	path, err := config.DefaultPath()
	if err != nil {
		return err
	}

	settings, err := config.Load(path, warnf)
	if err != nil {
		return err
	}

	text, err := cli.readInput()
	if err != nil {
		return err
	}

	a, err := analyzer.New(analyzer.DefaultBaseURL, settings)
	if err != nil {
		return err
	}

	result, err := a.Analyze(ctx, text, analyzer.Options{
		Prompt:      cli.Prompt,
		Model:       cli.Model,
		Temperature: cli.Temperature,
	})
	if err != nil {
		return err
	}

	return printResult(os.Stdout, result)
}

// listModels needs no config: the catalog endpoint is unauthenticated, so
// listing works before an api_key is set up.
func (cli *CLI) listModels(ctx *Context) error {
	fetcher := models.NewFetcher()
	fetcher.Logf = warnf

	catalog, err := fetcher.Models(ctx)
	if err != nil {
		return fmt.Errorf("listing models: %w", err)
	}

	if cli.ModelsDetailed {
		models.WriteDetails(os.Stdout, catalog)
		return nil
	}

	models.WriteIDs(os.Stdout, catalog)

	return nil
}

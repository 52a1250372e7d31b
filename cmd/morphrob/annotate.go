package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/revelaction/morphrob/analyzer"
	"github.com/revelaction/morphrob/analyzer/mystem"
	"github.com/revelaction/morphrob/analyzer/pymorphy"
	"github.com/revelaction/morphrob/config"
	"github.com/revelaction/morphrob/corpus"
	"github.com/revelaction/morphrob/pipeline"
	"github.com/revelaction/morphrob/ud"
)

func annotateCommand(opts AnnotateOptions, dir string, ui UI) error {

	conf := config.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadFromFile(opts.ConfigPath)
		if err != nil {
			return err
		}
		conf = loaded
	}

	// flags override the config file
	conf.Dataset.Dir = dir
	if opts.Artifacts != "" {
		conf.Dataset.Artifacts = opts.Artifacts
	}
	if opts.Workers > 0 {
		conf.Dataset.Workers = opts.Workers
	}
	if opts.Analyzer != "" {
		conf.Analyzer.Kind = opts.Analyzer
	}
	if opts.Variant != "" {
		conf.Converter.Variant = opts.Variant
	}

	if err := conf.Validate(); err != nil {
		return err
	}

	mgr, err := corpus.NewManager(conf.Dataset.Dir)
	if err != nil {
		return err
	}

	anl, err := newAnalyzer(conf)
	if err != nil {
		return err
	}

	conv, err := newConverter(conf)
	if err != nil {
		return err
	}

	artifactDir := conf.Dataset.Artifacts
	if artifactDir == "" {
		artifactDir = conf.Dataset.Dir
	}

	p := pipeline.New(mgr, anl, conv, artifactDir)
	p.Workers = conf.Dataset.Workers
	p.Progress = !opts.NoProgress

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "Annotated %d articles into %s\n", len(mgr.IDs()), artifactDir)
	return nil
}

func newAnalyzer(conf *config.Config) (analyzer.Analyzer, error) {
	switch conf.Analyzer.Kind {
	case "mystem":
		return mystem.New(conf.Analyzer.Command), nil
	case "pymorphy":
		return pymorphy.New(conf.Analyzer.URL, conf.Analyzer.Timeout), nil
	}
	return nil, fmt.Errorf("unknown analyzer: %s", conf.Analyzer.Kind)
}

func newConverter(conf *config.Config) (ud.Converter, error) {
	var mapping ud.Mapping
	var err error

	if conf.Converter.Mapping != "" {
		mapping, err = ud.LoadMapping(conf.Converter.Mapping)
	} else if conf.Converter.Variant == "opencorpora" {
		mapping, err = ud.OpenCorporaMapping()
	} else {
		mapping, err = ud.MystemMapping()
	}
	if err != nil {
		return nil, err
	}

	if conf.Converter.Variant == "opencorpora" {
		return ud.NewOpenCorporaConverter(mapping), nil
	}
	return ud.NewMystemConverter(mapping), nil
}

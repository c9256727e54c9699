// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/AleutianAI/splitsig/pkg/logging"
	"github.com/AleutianAI/splitsig/pkg/ux"
)

// --- Global Command Variables ---
var (
	cfg    Config
	logger *logging.Logger

	configPath       string
	personalityLevel string // UX personality level (full/standard/minimal/machine)
	verbose          bool

	// analyze flags
	jsonFile   string
	alphaFlag  float64
	outputFile string
	jsonOutput bool
	compact    bool

	// samplesize / power flags
	testTypeFlag   string
	controlFlag    float64
	liftFlag       float64
	liftsFlag      []float64
	priceFlag      float64
	confidenceFlag float64
	powerFlag      float64
	allocationFlag float64
	saveFile       string
	sampleSizeFlag int

	// template flags
	templateType string
	templateOut  string

	rootCmd = &cobra.Command{
		Use:   "splitsig",
		Short: "A cli for frequentist A/B test analysis and experiment sizing",
		Long: `Splitsig analyzes two-group and multi-group online experiments:
ARPU and conversion-rate estimation with confidence intervals, pairwise
z-tests with Bonferroni correction, and sample-size and power planning.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loaded, err := loadConfig(configPath)
			if err != nil {
				// A malformed config should not block analysis; warn and
				// run on defaults.
				ux.Warning(err.Error())
			}
			cfg = loaded

			// Initialize UX personality from flag, config, or environment.
			switch {
			case personalityLevel != "":
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			case cfg.Output.Personality != "":
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(cfg.Output.Personality))
			default:
				ux.InitPersonality()
			}

			level := logging.LevelInfo
			if verbose {
				level = logging.LevelDebug
			}
			logger = logging.New(logging.Config{
				Level:   level,
				LogDir:  cfg.Output.LogDir,
				Service: "splitsig",
				Quiet:   !verbose,
			})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Close()
			}
		},
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze",
		Short: "Analyze experiment results from a JSON file or interactively",
		Run:   runAnalyze, // Defined in cmd_analyze.go
	}

	sampleSizeCmd = &cobra.Command{
		Use:   "samplesize",
		Short: "Compute the sample size needed to detect a lift",
		Run:   runSampleSize, // Defined in cmd_samplesize.go
	}

	powerCmd = &cobra.Command{
		Use:   "power",
		Short: "Compute the statistical power of a fixed sample size",
		Run:   runPower, // Defined in cmd_power.go
	}

	templateCmd = &cobra.Command{
		Use:   "template",
		Short: "Print or write a JSON input template",
		Run:   runTemplate, // Defined in cmd_template.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "splitsig.yaml",
		"Path to the optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full (default), standard, minimal, or machine (scripting)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging to stderr")

	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&jsonFile, "json", "", "Path to a JSON input file (omit for interactive mode)")
	analyzeCmd.Flags().Float64Var(&alphaFlag, "alpha", 0, "Significance level override (default from config, 0.05)")
	analyzeCmd.Flags().StringVar(&outputFile, "output", "", "Write a result snapshot to this path")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json-output", false, "Emit results as a JSON envelope on stdout")
	analyzeCmd.Flags().BoolVar(&compact, "compact", false, "Compact JSON output (no indentation)")

	rootCmd.AddCommand(sampleSizeCmd)
	sampleSizeCmd.Flags().StringVar(&testTypeFlag, "type", "conversion_rate", "Test type: conversion_rate or arpu")
	sampleSizeCmd.Flags().Float64Var(&controlFlag, "control", 0, "Baseline conversion rate, or baseline ARPU for arpu tests")
	sampleSizeCmd.Flags().Float64Var(&liftFlag, "lift", 0, "Relative lift to detect, e.g. 0.20 for +20%")
	sampleSizeCmd.Flags().Float64SliceVar(&liftsFlag, "lifts", nil, "Comma-separated lifts for table mode, e.g. 0.1,0.2,0.3")
	sampleSizeCmd.Flags().Float64Var(&priceFlag, "price", 0, "Price per conversion (required for arpu tests)")
	sampleSizeCmd.Flags().Float64Var(&confidenceFlag, "confidence", 0, "Confidence level (default from config, 0.95)")
	sampleSizeCmd.Flags().Float64Var(&powerFlag, "power", 0, "Target power (default from config, 0.80)")
	sampleSizeCmd.Flags().Float64Var(&allocationFlag, "allocation", 0, "Treatment fraction (default from config, 0.5)")
	sampleSizeCmd.Flags().StringVar(&saveFile, "save", "", "Write the plan(s) as JSON to this path")
	sampleSizeCmd.Flags().BoolVar(&jsonOutput, "json-output", false, "Emit results as a JSON envelope on stdout")

	rootCmd.AddCommand(powerCmd)
	powerCmd.Flags().StringVar(&testTypeFlag, "type", "conversion_rate", "Test type: conversion_rate or arpu")
	powerCmd.Flags().Float64Var(&controlFlag, "control", 0, "Baseline conversion rate, or baseline ARPU for arpu tests")
	powerCmd.Flags().Float64Var(&liftFlag, "lift", 0, "Relative lift to detect")
	powerCmd.Flags().IntVar(&sampleSizeFlag, "sample-size", 0, "Total users across both arms")
	powerCmd.Flags().Float64Var(&allocationFlag, "allocation", 0, "Treatment fraction (default from config, 0.5)")
	powerCmd.Flags().Float64Var(&priceFlag, "price", 0, "Price per conversion (required for arpu tests)")
	powerCmd.Flags().Float64Var(&confidenceFlag, "confidence", 0, "Confidence level (default from config, 0.95)")
	powerCmd.Flags().Float64Var(&powerFlag, "power", 0, "Target power (default from config, 0.80)")
	powerCmd.Flags().BoolVar(&jsonOutput, "json-output", false, "Emit results as a JSON envelope on stdout")

	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().StringVar(&templateType, "type", "arpu", "Template type: arpu or conversion_rate")
	templateCmd.Flags().StringVar(&templateOut, "out", "", "Write the template to this path instead of stdout")
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/splitsig/pkg/experiment"
	"github.com/AleutianAI/splitsig/pkg/ux"
)

// runTemplate prints or writes the canonical JSON input template.
func runTemplate(cmd *cobra.Command, args []string) {
	start := time.Now()
	outCfg := OutputConfig{JSON: jsonOutput}

	var analysisType experiment.AnalysisType
	switch templateType {
	case string(experiment.AnalysisARPU):
		analysisType = experiment.AnalysisARPU
	case string(experiment.AnalysisConversionRate):
		analysisType = experiment.AnalysisConversionRate
	default:
		err := fmt.Errorf("unknown template type %q (want %s or %s)",
			templateType, experiment.AnalysisARPU, experiment.AnalysisConversionRate)
		os.Exit(OutputResult(outCfg, "template", start, nil, err))
	}

	rendered, err := experiment.WriteTemplate(analysisType, templateOut)
	if err != nil {
		os.Exit(OutputResult(outCfg, "template", start, nil, err))
	}

	if templateOut != "" {
		ux.Success("Template saved to: " + templateOut)
	} else {
		ux.Muted(fmt.Sprintf("JSON template for %s analysis:", analysisType))
		fmt.Println(rendered)
	}
	os.Exit(CLIExitSuccess)
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TestType selects the metric a sizing or power calculation targets.
type TestType string

const (
	// TestConversionRate sizes a two-proportion z-test directly.
	TestConversionRate TestType = "conversion_rate"

	// TestARPU sizes an ARPU test by mapping it to an equivalent
	// conversion-rate problem through an assumed fixed price.
	TestARPU TestType = "arpu"
)

// SampleSizePlan is the answer to "how many users do I need to detect this
// lift". Produced by RateSampleSize / ARPUSampleSize from scalar
// assumptions; independent of any observed group data.
type SampleSizePlan struct {
	TestType        TestType `json:"test_type"`
	ControlRate     float64  `json:"control_rate"`
	TreatmentRate   float64  `json:"treatment_rate"`
	Lift            float64  `json:"lift"`
	Confidence      float64  `json:"confidence_level"`
	Power           float64  `json:"power"`
	AllocationRatio float64  `json:"allocation_ratio"`

	TotalSampleSize              int `json:"total_sample_size"`
	ControlSize                  int `json:"control_size"`
	TreatmentSize                int `json:"treatment_size"`
	ExpectedControlConversions   int `json:"expected_control_conversions"`
	ExpectedTreatmentConversions int `json:"expected_treatment_conversions"`

	// MinimumDetectableEffect is in probability units for conversion-rate
	// plans and in currency units for ARPU plans.
	MinimumDetectableEffect float64 `json:"minimum_detectable_effect"`

	// ARPU-only fields, zero for conversion-rate plans.
	ControlARPU   float64 `json:"control_arpu,omitempty"`
	TreatmentARPU float64 `json:"treatment_arpu,omitempty"`
	Price         float64 `json:"price,omitempty"`
}

// PowerResult is the dual of SampleSizePlan: the power achieved by a fixed
// total sample size.
type PowerResult struct {
	TestType      TestType `json:"test_type"`
	ControlRate   float64  `json:"control_rate"`
	TreatmentRate float64  `json:"treatment_rate"`
	Lift          float64  `json:"lift"`
	SampleSize    int      `json:"sample_size"`
	Power         float64  `json:"power"`
	EffectSize    float64  `json:"effect_size"`
	StandardError float64  `json:"standard_error"`

	// ARPU-only fields, zero for conversion-rate results.
	ControlARPU   float64 `json:"control_arpu,omitempty"`
	TreatmentARPU float64 `json:"treatment_arpu,omitempty"`
	Price         float64 `json:"price,omitempty"`
}

// Calculator fixes the confidence level and target power for a family of
// sizing and power calculations, precomputing the two-tailed critical value
// z(alpha/2) and the power quantile z(beta).
type Calculator struct {
	Confidence float64
	Power      float64

	zAlpha float64
	zBeta  float64
}

// NewCalculator builds a Calculator.
//
// # Inputs
//
//   - confidence: Confidence level, e.g. 0.95. Must be in (0, 1).
//   - power: Target statistical power, e.g. 0.80. Must be in (0, 1).
//
// # Outputs
//
//   - *Calculator, or *InvalidInputError when either parameter is out of
//     range.
func NewCalculator(confidence, power float64) (*Calculator, error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, invalidInput("confidence", "must be between 0 and 1, got %v", confidence)
	}
	if power <= 0 || power >= 1 {
		return nil, invalidInput("power", "must be between 0 and 1, got %v", power)
	}
	alpha := 1 - confidence
	return &Calculator{
		Confidence: confidence,
		Power:      power,
		zAlpha:     distuv.UnitNormal.Quantile(1 - alpha/2),
		zBeta:      distuv.UnitNormal.Quantile(power),
	}, nil
}

// rateRequest is the rate-space form of a sizing or power question. ARPU
// calculations are explicitly transformed into one of these before any
// arithmetic happens, rather than patching rate results after the fact.
type rateRequest struct {
	controlRate float64
	lift        float64
	allocation  float64
}

// arpuRateRequest maps an ARPU question to rate space via rate = arpu/price.
func arpuRateRequest(controlARPU, lift, price, allocation float64) (rateRequest, error) {
	if controlARPU <= 0 {
		return rateRequest{}, invalidInput("control_arpu", "must be positive, got %v", controlARPU)
	}
	if price <= 0 {
		return rateRequest{}, invalidInput("price", "must be positive, got %v", price)
	}
	return rateRequest{
		controlRate: controlARPU / price,
		lift:        lift,
		allocation:  allocation,
	}, nil
}

func validateRateRequest(r rateRequest) error {
	if r.controlRate <= 0 || r.controlRate >= 1 {
		return invalidInput("control_rate", "must be between 0 and 1, got %v", r.controlRate)
	}
	if r.lift <= 0 {
		return invalidInput("lift", "must be positive, got %v", r.lift)
	}
	if r.allocation <= 0 || r.allocation >= 1 {
		return invalidInput("allocation_ratio", "must be between 0 and 1, got %v", r.allocation)
	}
	return nil
}

// RateSampleSize computes the total sample size required to detect a
// relative lift on a baseline conversion rate at the calculator's
// confidence and power.
//
// The sizing formula for the two-proportion z-test pools the two rates at
// their midpoint and inflates the per-user variance by (1 + 1/allocation):
//
//	nTotal = ceil( (zAlpha + zBeta)^2 * pbar(1-pbar) * (1 + 1/allocation)
//	               / (treatmentRate - controlRate)^2 )
//
// The split assigns floor(nTotal * (1-allocation)) users to control and the
// remainder to treatment, so the two arm sizes always sum to nTotal.
//
// Only the control rate is range-checked; a lift large enough to push the
// treatment rate past 1 is the caller's concern and produces the same
// (degenerate) arithmetic a spreadsheet would.
//
// Returns *InvalidInputError when controlRate is outside (0,1), lift is not
// positive, or allocation is outside (0,1).
func (c *Calculator) RateSampleSize(controlRate, lift, allocation float64) (*SampleSizePlan, error) {
	return c.rateSampleSize(rateRequest{controlRate: controlRate, lift: lift, allocation: allocation})
}

func (c *Calculator) rateSampleSize(req rateRequest) (*SampleSizePlan, error) {
	if err := validateRateRequest(req); err != nil {
		return nil, err
	}

	treatmentRate := req.controlRate * (1 + req.lift)
	pooledRate := (req.controlRate + treatmentRate) / 2
	pooledVariance := pooledRate * (1 - pooledRate)

	zCombined := c.zAlpha + c.zBeta
	numerator := zCombined * zCombined * pooledVariance * (1 + 1/req.allocation)
	denominator := (treatmentRate - req.controlRate) * (treatmentRate - req.controlRate)

	total := int(math.Ceil(numerator / denominator))
	controlSize := int(float64(total) * (1 - req.allocation))
	treatmentSize := total - controlSize

	return &SampleSizePlan{
		TestType:                     TestConversionRate,
		ControlRate:                  req.controlRate,
		TreatmentRate:                treatmentRate,
		Lift:                         req.lift,
		Confidence:                   c.Confidence,
		Power:                        c.Power,
		AllocationRatio:              req.allocation,
		TotalSampleSize:              total,
		ControlSize:                  controlSize,
		TreatmentSize:                treatmentSize,
		ExpectedControlConversions:   int(float64(controlSize) * req.controlRate),
		ExpectedTreatmentConversions: int(float64(treatmentSize) * treatmentRate),
		MinimumDetectableEffect:      treatmentRate - req.controlRate,
	}, nil
}

// ARPUSampleSize sizes an ARPU test by transforming it into the equivalent
// conversion-rate problem (rate = arpu / price), running RateSampleSize,
// and re-expressing the answer in currency terms. The minimum detectable
// effect on the returned plan is treatmentARPU - controlARPU, not the
// underlying rate difference.
func (c *Calculator) ARPUSampleSize(controlARPU, lift, price, allocation float64) (*SampleSizePlan, error) {
	req, err := arpuRateRequest(controlARPU, lift, price, allocation)
	if err != nil {
		return nil, err
	}
	plan, err := c.rateSampleSize(req)
	if err != nil {
		return nil, err
	}

	treatmentARPU := controlARPU * (1 + lift)
	plan.TestType = TestARPU
	plan.ControlARPU = controlARPU
	plan.TreatmentARPU = treatmentARPU
	plan.Price = price
	plan.MinimumDetectableEffect = treatmentARPU - controlARPU
	return plan, nil
}

// AchievedPower computes the statistical power a fixed total sample size
// buys for the given test.
//
// # Inputs
//
//   - testType: TestConversionRate or TestARPU.
//   - controlValue: Baseline conversion rate, or baseline ARPU for ARPU
//     tests.
//   - lift: Expected relative lift. Must be positive.
//   - sampleSize: Total users across both arms, split by allocation the
//     same way RateSampleSize splits its result. Both arms must end up
//     non-empty.
//   - allocation: Treatment fraction, in (0, 1).
//   - price: Price per conversion. Required (positive) for ARPU tests,
//     ignored otherwise.
//
// # Outputs
//
//   - *PowerResult with power = Phi(effect/se - zAlpha), where se is the
//     pooled standard error over the realized arm sizes.
//   - *InvalidInputError when a parameter is out of domain or the split
//     leaves an arm empty.
func (c *Calculator) AchievedPower(testType TestType, controlValue, lift float64, sampleSize int, allocation, price float64) (*PowerResult, error) {
	switch testType {
	case TestConversionRate:
		req := rateRequest{controlRate: controlValue, lift: lift, allocation: allocation}
		return c.achievedRatePower(req, sampleSize)

	case TestARPU:
		req, err := arpuRateRequest(controlValue, lift, price, allocation)
		if err != nil {
			return nil, err
		}
		result, err := c.achievedRatePower(req, sampleSize)
		if err != nil {
			return nil, err
		}
		result.TestType = TestARPU
		result.ControlARPU = controlValue
		result.TreatmentARPU = controlValue * (1 + lift)
		result.Price = price
		return result, nil

	default:
		return nil, invalidInput("test_type", "must be %q or %q, got %q", TestConversionRate, TestARPU, testType)
	}
}

func (c *Calculator) achievedRatePower(req rateRequest, sampleSize int) (*PowerResult, error) {
	if err := validateRateRequest(req); err != nil {
		return nil, err
	}

	controlSize := int(float64(sampleSize) * (1 - req.allocation))
	treatmentSize := sampleSize - controlSize
	if controlSize < 1 || treatmentSize < 1 {
		return nil, invalidInput("sample_size", "%d users split at allocation %v leaves an empty arm", sampleSize, req.allocation)
	}

	treatmentRate := req.controlRate * (1 + req.lift)
	pooledRate := (req.controlRate + treatmentRate) / 2
	pooledVariance := pooledRate * (1 - pooledRate)

	effect := treatmentRate - req.controlRate
	se := math.Sqrt(pooledVariance * (1/float64(controlSize) + 1/float64(treatmentSize)))

	zPower := effect/se - c.zAlpha

	return &PowerResult{
		TestType:      TestConversionRate,
		ControlRate:   req.controlRate,
		TreatmentRate: treatmentRate,
		Lift:          req.lift,
		SampleSize:    sampleSize,
		Power:         distuv.UnitNormal.CDF(zPower),
		EffectSize:    effect,
		StandardError: se,
	}, nil
}

// SampleSizeTable runs the single-lift sizing once per lift value,
// preserving input order. Rows are independent; a failure on any lift
// aborts the whole table so callers never see a partial one.
func (c *Calculator) SampleSizeTable(testType TestType, controlValue float64, lifts []float64, allocation, price float64) ([]*SampleSizePlan, error) {
	plans := make([]*SampleSizePlan, 0, len(lifts))
	for _, lift := range lifts {
		var (
			plan *SampleSizePlan
			err  error
		)
		switch testType {
		case TestConversionRate:
			plan, err = c.RateSampleSize(controlValue, lift, allocation)
		case TestARPU:
			plan, err = c.ARPUSampleSize(controlValue, lift, price, allocation)
		default:
			return nil, invalidInput("test_type", "must be %q or %q, got %q", TestConversionRate, TestARPU, testType)
		}
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

package config

import "os"

// Config carries the environment-driven settings for the core.
type Config struct {
	AssessmentYear  string
	RatesPath       string
	TessdataPath    string
	AmountTolerance int64
}

// LoadConfig reads settings from the environment with sensible
// defaults. An empty RatesPath means the embedded default schedule is
// used.
func LoadConfig() *Config {
	assessmentYear := os.Getenv("ASSESSMENT_YEAR")
	if assessmentYear == "" {
		assessmentYear = "2025-26"
	}

	tessdataPath := os.Getenv("TESSDATA_PREFIX")
	if tessdataPath == "" {
		tessdataPath = "/usr/share/tesseract-ocr/5/tessdata"
	}

	return &Config{
		AssessmentYear:  assessmentYear,
		RatesPath:       os.Getenv("TAX_RATES_PATH"),
		TessdataPath:    tessdataPath,
		AmountTolerance: 1, // ₹1 rounding slack on declared totals
	}
}

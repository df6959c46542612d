package service

import (
	"fmt"
	"time"

	"itr-prep/client"
	"itr-prep/config"
	"itr-prep/dto"
)

// ReturnPreparer is the top-level facade: statement in, reconciled
// credits and the full return computation out.
type ReturnPreparer struct {
	parser     *StatementParser
	reconciler *ReconcileService
	calculator *TaxCalculator
}

// NewReturnPreparer wires the whole pipeline from config: PDF and OCR
// clients, the deterministic parser, reconciliation and the tax engine
// for the configured assessment year.
func NewReturnPreparer(cfg *config.Config) (*ReturnPreparer, error) {
	rates, err := config.RatesFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("load rate schedule: %w", err)
	}

	extractor := NewPDFExtractor(client.NewPDFClient(), client.NewTesseractClient(cfg.TessdataPath))
	engine := NewTaxEngine(rates)

	return &ReturnPreparer{
		parser:     NewStatementParser(extractor, cfg.AmountTolerance),
		reconciler: NewReconcileService(),
		calculator: NewTaxCalculator(engine, rates),
	}, nil
}

// Parser exposes the deterministic statement parser for callers that
// only need extraction.
func (p *ReturnPreparer) Parser() *StatementParser { return p.parser }

// Prepare runs the pipeline end to end. statementPath may be empty when
// no credit statement is available; reconciliation then leans on the
// secondary sources. A *dto.ParseMiss from the parser is returned as-is
// so the caller can escalate to a fallback extractor.
func (p *ReturnPreparer) Prepare(statementPath string, info *dto.InfoStatementData, cert *dto.CertificateData, heads dto.IncomeHeads, regime dto.Regime, asOf time.Time) (*dto.ComputationResult, *dto.ReconciliationResult, error) {
	extract := &dto.StatementExtract{}
	if statementPath != "" {
		parsed, err := p.parser.Parse(statementPath)
		if err != nil {
			return nil, nil, err
		}
		extract = parsed
	}

	recon, err := p.reconciler.Reconcile(extract, info, cert)
	if err != nil {
		return nil, nil, err
	}

	result, err := p.calculator.ComputeTotals(heads, recon, regime, asOf)
	if err != nil {
		return nil, nil, err
	}
	return result, recon, nil
}

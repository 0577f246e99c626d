package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/usifszone1/bills/dto"
	"github.com/usifszone1/bills/metrics"
	"github.com/usifszone1/bills/utils"
)

const defaultBatchConcurrency = 4

// ReceiptService turns claim text into ReceiptData. It keeps no per-call
// state, so one instance serves concurrent requests.
type ReceiptService struct {
	logger        *zap.Logger
	metrics       *metrics.Metrics
	pharmacy      dto.PharmacyInfo
	customers     *utils.CustomerParser
	strategies    []utils.MedicationStrategy
	surchargeRate float64
	concurrency   int
}

type ReceiptOption func(*ReceiptService)

func WithLogger(logger *zap.Logger) ReceiptOption {
	return func(s *ReceiptService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) ReceiptOption {
	return func(s *ReceiptService) { s.metrics = m }
}

// WithCustomerParser replaces the default parser, e.g. to pin the clock.
func WithCustomerParser(p *utils.CustomerParser) ReceiptOption {
	return func(s *ReceiptService) {
		if p != nil {
			s.customers = p
		}
	}
}

func WithStrategies(strategies []utils.MedicationStrategy) ReceiptOption {
	return func(s *ReceiptService) { s.strategies = strategies }
}

func WithSurchargeRate(rate float64) ReceiptOption {
	return func(s *ReceiptService) { s.surchargeRate = rate }
}

// WithBatchConcurrency bounds how many documents ExtractBatch handles at once.
func WithBatchConcurrency(n int) ReceiptOption {
	return func(s *ReceiptService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewReceiptService(pharmacy dto.PharmacyInfo, opts ...ReceiptOption) *ReceiptService {
	s := &ReceiptService{
		logger:        zap.NewNop(),
		pharmacy:      pharmacy,
		customers:     utils.NewCustomerParser(),
		strategies:    utils.MedicationStrategies(),
		surchargeRate: utils.DefaultSurchargeRate,
		concurrency:   defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractReceiptData runs every extractor over text and assembles the
// result. It never fails: blank text yields DefaultReceipt.
func (s *ReceiptService) ExtractReceiptData(text string) dto.ReceiptData {
	text = utils.NormalizeText(text)
	if strings.TrimSpace(text) == "" {
		s.metrics.RecordExtraction(metrics.OutcomeDefault)
		s.logger.Debug("empty document text, returning default receipt")
		return s.DefaultReceipt()
	}

	customer := s.customers.Parse(text)

	meds, strategy := utils.RunMedicationCascade(text, s.strategies, func(name string, err error) {
		s.metrics.RecordStrategyError(name)
		s.logger.Debug("medication strategy skipped input",
			zap.String("strategy", name),
			zap.Error(err),
		)
	})

	coverage := utils.ExtractCoveragePercentage(text)
	overrides := utils.ExtractAmountOverrides(text)
	summary := utils.CalculateReceiptSummaryWithRate(meds, coverage, overrides, s.surchargeRate)

	if strategy == "" {
		s.metrics.RecordExtraction(metrics.OutcomeNoItems)
	} else {
		s.metrics.RecordExtraction(metrics.OutcomeExtracted)
		s.metrics.RecordStrategyWin(strategy)
	}

	s.logger.Info("receipt extracted",
		zap.String("strategy", strategy),
		zap.Int("medications", len(meds)),
		zap.Int("coverage_percentage", coverage),
		zap.String("final_total", utils.FormatMoney(summary.FinalTotal)),
		zap.Bool("gross_override", overrides.Gross > 0),
		zap.Bool("discount_override", overrides.Discount > 0),
		zap.Bool("net_override", overrides.Net > 0),
	)

	return dto.ReceiptData{
		Customer:    customer,
		Medications: meds,
		Summary:     summary,
		Pharmacy:    s.pharmacy,
		Strategy:    strategy,
	}
}

// ExtractReceiptDataWithIDs is ExtractReceiptData with caller-assigned
// identifiers copied into the result.
func (s *ReceiptService) ExtractReceiptDataWithIDs(text, invoiceID string, sequenceNumber int) dto.ReceiptData {
	receipt := s.ExtractReceiptData(text)
	receipt.InvoiceID = invoiceID
	receipt.SequenceNumber = sequenceNumber
	return receipt
}

// DefaultReceipt is the result for a document with no usable text.
func (s *ReceiptService) DefaultReceipt() dto.ReceiptData {
	return dto.ReceiptData{
		Customer:    s.customers.Defaults(),
		Medications: []dto.Medication{},
		Summary:     dto.ReceiptSummary{},
		Pharmacy:    s.pharmacy,
	}
}

// ExtractBatch extracts every document independently. Items come back in
// input order; documents not started before ctx is done carry its error.
func (s *ReceiptService) ExtractBatch(ctx context.Context, docs []dto.TextDocument) []dto.BatchItem {
	s.metrics.RecordBatch(len(docs))
	items := make([]dto.BatchItem, len(docs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, doc := range docs {
		i, doc := i, doc
		items[i].ID = doc.ID
		if items[i].ID == "" {
			items[i].ID = strconv.Itoa(i)
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Error = err.Error()
				return err
			}
			receipt := s.ExtractReceiptDataWithIDs(doc.Text, doc.InvoiceID, doc.SequenceNumber)
			items[i].Receipt = &receipt
			return nil
		})
	}

	// Errors are already recorded per item; Wait only reports the first one.
	if err := g.Wait(); err != nil {
		s.logger.Warn("batch interrupted", zap.Int("documents", len(docs)), zap.Error(err))
		return items
	}

	s.logger.Info("batch extracted", zap.Int("documents", len(docs)))
	return items
}

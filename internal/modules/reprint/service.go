package reprint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/storeops/posdesk-backend/internal/modules/lookup"
	"github.com/storeops/posdesk-backend/internal/modules/storedb"
)

// Config carries the knobs the orchestrator needs. Routine names are
// configuration rather than constants: stores run different generations of
// the backend print routines.
type Config struct {
	// Limits is the maximum number of successful reprints per document type.
	Limits map[lookup.DocumentType]int

	// PayloadRoutine builds the structured print payload (strategy A and the
	// command path's station tier).
	PayloadRoutine string
	// BillingRoutine prints invoices and credit notes directly (strategy B).
	BillingRoutine string
	// KitchenRoutine prints kitchen tickets by internal order id (strategy B).
	KitchenRoutine string
	// FinalRoutine is the command path's last-resort dynamic print.
	FinalRoutine string

	// DefaultStation is the placeholder station argument used when the
	// request does not carry one.
	DefaultStation string
}

// DefaultConfig returns the routine names and limits the fleet currently
// runs with.
func DefaultConfig() Config {
	return Config{
		Limits: map[lookup.DocumentType]int{
			lookup.DocumentInvoice:       1,
			lookup.DocumentCreditNote:    1,
			lookup.DocumentKitchenTicket: 2,
		},
		PayloadRoutine: "[facturacion].[IAE_TipoFacturacion]",
		BillingRoutine: "facturacion.USP_impresiondinamica_factura",
		KitchenRoutine: "ordenpedido.USP_impresion_orden_pedido",
		FinalRoutine:   "[facturacion].[USP_impresiondinamica_factura]",
		DefaultStation: "IP_estacion",
	}
}

func (c Config) limitFor(t lookup.DocumentType) int {
	if max, ok := c.Limits[t]; ok {
		return max
	}
	return 1
}

// kitchenResolver is the slice of the lookup service the orchestrator needs.
type kitchenResolver interface {
	GetKitchenTicketTarget(ctx context.Context, storeCode, invoiceID string) (string, error)
}

// Service orchestrates reprints: quota gate, cascading strategies, failure
// analysis, and audit journaling.
type Service interface {
	// Reprint runs the structured cascade: quota check, strategy A
	// (payload + print API), strategy B (direct routine), then read-only
	// diagnostic analysis when both fail.
	Reprint(ctx context.Context, req Request) Result

	// ReprintCommand runs the free-text command cascade (movement-log row,
	// station routine, final routine). Same quota guarantee, same journal.
	ReprintCommand(ctx context.Context, req Request) Result
}

type service struct {
	db      storedb.Querier
	kitchen kitchenResolver
	printer PrintAPI
	quota   *QuotaTracker
	journal *Journal
	cfg     Config
	logger  *slog.Logger
}

func NewService(db storedb.Querier, kitchen kitchenResolver, printer PrintAPI,
	quota *QuotaTracker, journal *Journal, cfg Config, logger *slog.Logger) Service {
	return &service{
		db:      db,
		kitchen: kitchen,
		printer: printer,
		quota:   quota,
		journal: journal,
		cfg:     cfg,
		logger:  logger,
	}
}

// Reprint walks QuotaCheck -> StrategyA -> StrategyB -> DiagnosticAnalysis,
// each edge taken only on failure of the prior step. Strategies run strictly
// in sequence: both touch store print hardware, and running two at once
// risks duplicate physical prints.
func (s *service) Reprint(ctx context.Context, req Request) Result {
	if res, ok := s.validate(req); !ok {
		return res
	}

	key := Key(req.Type, req.DocumentID)
	max := s.cfg.limitFor(req.Type)

	if !s.quota.Reserve(key, max) {
		return s.finishQuotaExceeded(req, key, max)
	}
	committed := false
	defer func() {
		if !committed {
			s.quota.Release(key)
		}
	}()

	s.logger.Info("reprint started",
		"store", req.StoreCode, "type", req.Type, "document", req.DocumentID)

	if step := s.strategyPayloadAPI(ctx, req); step.ok {
		s.quota.Commit(key)
		committed = true
		return s.finishSuccess(req, StrategyPayloadAPI, step.printer)
	} else {
		s.logger.Warn("strategy failed",
			"strategy", StrategyPayloadAPI, "document", req.DocumentID, "reason", step.reason)
	}

	if step := s.strategyDirectRoutine(ctx, req); step.ok {
		s.quota.Commit(key)
		committed = true
		return s.finishSuccess(req, StrategyDirectRoutine, step.printer)
	} else {
		s.logger.Warn("strategy failed",
			"strategy", StrategyDirectRoutine, "document", req.DocumentID, "reason", step.reason)
	}

	res := s.analyzeFailure(ctx, req)
	s.journal.Record(Entry{
		StoreCode:  req.StoreCode,
		Type:       req.Type,
		DocumentID: req.DocumentID,
		Reason:     req.Reason,
		Outcome:    res.Outcome,
		Success:    false,
		Detail:     res.Message,
	})
	return res
}

func (s *service) validate(req Request) (Result, bool) {
	if !req.Type.Valid() {
		return Result{
			Outcome: OutcomeInvalidRequest,
			Message: fmt.Sprintf("unknown document type %q; use invoice, creditNote or kitchenTicket", req.Type),
		}, false
	}
	if req.DocumentID == "" || req.StoreCode == "" {
		return Result{
			Outcome: OutcomeInvalidRequest,
			Message: "store code and document id are required",
		}, false
	}
	return Result{}, true
}

func (s *service) finishSuccess(req Request, strategy, printer string) Result {
	s.journal.Record(Entry{
		StoreCode:  req.StoreCode,
		Type:       req.Type,
		DocumentID: req.DocumentID,
		Reason:     req.Reason,
		Strategy:   strategy,
		Outcome:    OutcomePrinted,
		Success:    true,
	})
	return Result{
		Success:  true,
		Outcome:  OutcomePrinted,
		Strategy: strategy,
		Printer:  printer,
		Message: fmt.Sprintf(
			"Reprint of %s %s sent at store %s (printer: %s). Please verify the physical output.",
			req.Type, req.DocumentID, req.StoreCode, printer),
	}
}

func (s *service) finishQuotaExceeded(req Request, key string, max int) Result {
	count := s.quota.Count(key)
	s.journal.Record(Entry{
		StoreCode:  req.StoreCode,
		Type:       req.Type,
		DocumentID: req.DocumentID,
		Reason:     req.Reason,
		Outcome:    OutcomeQuotaExceeded,
		Success:    false,
	})
	return Result{
		Outcome: OutcomeQuotaExceeded,
		Limit:   max,
		Count:   count,
		Message: fmt.Sprintf(
			"Reprint limit reached for %s %s: %d of %d allowed reprints already used.",
			req.Type, req.DocumentID, count, max),
	}
}

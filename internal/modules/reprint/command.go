package reprint

import (
	"context"
	"encoding/json"
	"fmt"
)

// commandPayload is the legacy wire shape the print API accepts from the
// movement-log tier of the command path.
type commandPayload struct {
	URLImpresora string `json:"url_impresora"`
	Documento    string `json:"documento"`
	CfacID       string `json:"cfac_id"`
	Tipo         string `json:"tipo"`
	Reimpresion  bool   `json:"reimpresion"`
}

// ReprintCommand is the free-text entry path. It cascades through three
// tiers (movement-log row, station-targeted payload routine, unconditional
// final routine) before surfacing the support terminal message. It shares
// the quota tracker and journal with the structured path, so both paths
// give the same externally observable guarantees.
func (s *service) ReprintCommand(ctx context.Context, req Request) Result {
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

	tiers := []struct {
		name string
		run  func(context.Context, Request) stepResult
	}{
		{StrategyMovementLog, s.tierMovementLog},
		{StrategyStationQuery, s.tierStationRoutine},
		{StrategyFinalRoutine, s.tierFinalRoutine},
	}
	for _, tier := range tiers {
		step := tier.run(ctx, req)
		if step.ok {
			s.quota.Commit(key)
			committed = true
			return s.finishSuccess(req, tier.name, step.printer)
		}
		s.logger.Warn("command tier failed",
			"tier", tier.name, "document", req.DocumentID, "reason", step.reason)
	}

	res := Result{
		Outcome:         OutcomeUnknownFailure,
		RequiresSupport: true,
		Message: fmt.Sprintf(
			"Could not process the reprint of %s at store %s. Contact technical support with the document id and store code.",
			req.DocumentID, req.StoreCode),
	}
	s.journal.Record(Entry{
		StoreCode:  req.StoreCode,
		Type:       req.Type,
		DocumentID: req.DocumentID,
		Reason:     req.Reason,
		Outcome:    res.Outcome,
		Success:    false,
		Detail:     "all command tiers failed",
	})
	return res
}

// Tier 1: find the document's row in the print movement log and hand the
// recorded print target straight to the print API.
func (s *service) tierMovementLog(ctx context.Context, req Request) stepResult {
	rows, err := s.db.Query(ctx, req.StoreCode, movementLogQuery,
		"%"+req.DocumentID+"%", "%"+req.Type.MovementFilter()+"%")
	if err != nil {
		return stepResult{reason: "movement log query failed: " + err.Error()}
	}
	if len(rows) == 0 || len(rows[0]) < 2 {
		return stepResult{reason: "no movement log entry for document"}
	}

	body, err := json.Marshal(commandPayload{
		URLImpresora: rowString(rows[0][0]),
		Documento:    rowString(rows[0][1]),
		CfacID:       req.DocumentID,
		Tipo:         string(req.Type),
		Reimpresion:  true,
	})
	if err != nil {
		return stepResult{reason: "encoding movement payload: " + err.Error()}
	}
	printer, err := s.printer.Print(ctx, body)
	if err != nil {
		return stepResult{reason: "print API: " + err.Error()}
	}
	return stepResult{ok: true, printer: printer}
}

// Tier 2: the payload routine targeted at a specific station. Requires the
// caller to have supplied a station IP.
func (s *service) tierStationRoutine(ctx context.Context, req Request) stepResult {
	if req.StationIP == "" {
		return stepResult{reason: "station IP required for this tier"}
	}
	return s.strategyPayloadAPI(ctx, req)
}

// Tier 3: the unconditional dynamic-print routine. Success is the routine
// executing and returning rows.
func (s *service) tierFinalRoutine(ctx context.Context, req Request) stepResult {
	rows, err := s.db.Query(ctx, req.StoreCode, execTwoArgs(s.cfg.FinalRoutine),
		req.DocumentID, commandReceiptCode(req.Type))
	if err != nil {
		return stepResult{reason: "final routine failed: " + err.Error()}
	}
	if len(rows) == 0 {
		return stepResult{reason: "final routine returned no data"}
	}
	return stepResult{ok: true, printer: "default"}
}

package reprint

import (
	"context"
	"encoding/json"

	"github.com/storeops/posdesk-backend/internal/modules/lookup"
)

// Strategy A: have the server assemble the structured print payload, then
// post it to the print API. Any failure along the way is soft.
func (s *service) strategyPayloadAPI(ctx context.Context, req Request) stepResult {
	station := req.StationIP
	if station == "" {
		station = s.cfg.DefaultStation
	}

	rows, err := s.db.Query(ctx, req.StoreCode, payloadBatch(s.cfg.PayloadRoutine), req.DocumentID, station)
	if err != nil {
		return stepResult{reason: "payload routine failed: " + err.Error()}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return stepResult{reason: "payload routine returned no data"}
	}
	body := rowString(rows[0][0])
	if body == "" {
		return stepResult{reason: "payload routine returned an empty payload"}
	}

	printer, err := s.printer.Print(ctx, json.RawMessage(body))
	if err != nil {
		return stepResult{reason: "print API: " + err.Error()}
	}
	return stepResult{ok: true, printer: printer}
}

// Strategy B: instruct backend printing directly. Invoices and credit notes
// go through the billing routine with their comprobante code; kitchen
// tickets first resolve the internal order id, then use the kitchen routine.
func (s *service) strategyDirectRoutine(ctx context.Context, req Request) stepResult {
	if req.Type == lookup.DocumentKitchenTicket {
		target, err := s.kitchen.GetKitchenTicketTarget(ctx, req.StoreCode, req.DocumentID)
		if err != nil {
			return stepResult{reason: "kitchen target lookup failed: " + err.Error()}
		}
		if target == "" {
			return stepResult{reason: "no internal order id found for kitchen ticket"}
		}
		if _, err := s.db.Exec(ctx, req.StoreCode, execOneArg(s.cfg.KitchenRoutine), target); err != nil {
			return stepResult{reason: "kitchen routine failed: " + err.Error()}
		}
		return stepResult{ok: true, printer: "default"}
	}

	if _, err := s.db.Exec(ctx, req.StoreCode, execTwoArgs(s.cfg.BillingRoutine),
		req.DocumentID, req.Type.ReceiptCode()); err != nil {
		return stepResult{reason: "billing routine failed: " + err.Error()}
	}
	return stepResult{ok: true, printer: "default"}
}

func rowString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}

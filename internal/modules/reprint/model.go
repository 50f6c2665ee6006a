package reprint

import (
	"github.com/storeops/posdesk-backend/internal/modules/lookup"
)

// Request describes one reprint attempt. StationIP is only needed by the
// command path's station-targeted routine; Reason is kept for the audit
// journal.
type Request struct {
	StoreCode  string              `json:"store_code"`
	Type       lookup.DocumentType `json:"document_type"`
	DocumentID string              `json:"document_id"`
	Reason     string              `json:"reason,omitempty"`
	StationIP  string              `json:"station_ip,omitempty"`
}

// Outcome is the terminal state of an orchestration.
type Outcome string

const (
	OutcomePrinted          Outcome = "printed"
	OutcomeQuotaExceeded    Outcome = "quota_exceeded"
	OutcomeDocumentNotFound Outcome = "document_not_found"
	OutcomePrintDataMissing Outcome = "print_data_missing"
	OutcomeUnknownFailure   Outcome = "unknown_failure"
	OutcomeInvalidRequest   Outcome = "invalid_request"
)

// Strategy identifiers, recorded in results and the journal.
const (
	StrategyPayloadAPI    = "payload_api"     // server-built JSON posted to the print API
	StrategyDirectRoutine = "direct_routine"  // backend print routine invoked directly
	StrategyMovementLog   = "movement_log"    // command path: movement-log row posted as-is
	StrategyStationQuery  = "station_routine" // command path: payload routine with station IP
	StrategyFinalRoutine  = "final_routine"   // command path: unconditional dynamic-print routine
)

// Result is what the chat front end renders. Message is plain text; the
// front end owns markup.
type Result struct {
	Success         bool    `json:"success"`
	Outcome         Outcome `json:"outcome"`
	Strategy        string  `json:"strategy,omitempty"`
	Printer         string  `json:"printer,omitempty"`
	Message         string  `json:"message"`
	RequiresSupport bool    `json:"requires_support"`
	Limit           int     `json:"limit,omitempty"`
	Count           int     `json:"count,omitempty"`
}

// stepResult is the explicit success/failure value each strategy returns.
// Strategies never abort the cascade by error; a failed step carries the
// reason forward and the orchestrator moves on.
type stepResult struct {
	ok      bool
	printer string
	reason  string
}

// commandReceiptCode is the comprobante code the final dynamic-print routine
// expects. It disagrees with DocumentType.ReceiptCode on purpose: the two
// backend routines grew different vocabularies.
func commandReceiptCode(t lookup.DocumentType) string {
	switch t {
	case lookup.DocumentCreditNote:
		return "C"
	case lookup.DocumentKitchenTicket:
		return "O"
	default:
		return "F"
	}
}

package reprint

import (
	"context"
	"fmt"
	"time"
)

// analyzeFailure runs only after every strategy has failed. It reads, never
// writes, and turns "printing failed" into something staff can act on.
func (s *service) analyzeFailure(ctx context.Context, req Request) Result {
	s.logger.Info("analyzing print failure",
		"store", req.StoreCode, "type", req.Type, "document", req.DocumentID)

	exists, err := s.db.Query(ctx, req.StoreCode, documentExistsQuery, req.DocumentID)
	if err != nil {
		return s.unknownFailure(req, "diagnostic lookup failed: "+err.Error())
	}
	if len(exists) == 0 {
		return Result{
			Outcome: OutcomeDocumentNotFound,
			Message: fmt.Sprintf(
				"Document %s (%s) does not exist at store %s. Ask the service desk to verify the document was generated in the billing system.",
				req.DocumentID, req.Type, req.StoreCode),
		}
	}

	movement, err := s.db.Query(ctx, req.StoreCode, movementLogQuery,
		"%"+req.DocumentID+"%", "%"+req.Type.MovementFilter()+"%")
	if err != nil {
		return s.unknownFailure(req, "movement log lookup failed: "+err.Error())
	}
	if len(movement) == 0 {
		return Result{
			Outcome: OutcomePrintDataMissing,
			Message: fmt.Sprintf(
				"Document %s exists at store %s but was never registered in the print movement log. Ask the service desk to re-generate the print data and check printer configuration.",
				req.DocumentID, req.StoreCode),
		}
	}

	return s.unknownFailure(req, "all print strategies failed with print data present")
}

func (s *service) unknownFailure(req Request, detail string) Result {
	return Result{
		Outcome:         OutcomeUnknownFailure,
		RequiresSupport: true,
		Message: fmt.Sprintf(
			"Could not reprint %s %s at store %s (%s). Contact the service desk with: store %s, document %s, type %s, time %s.",
			req.Type, req.DocumentID, req.StoreCode, detail,
			req.StoreCode, req.DocumentID, req.Type, time.Now().Format("2006-01-02 15:04:05")),
	}
}

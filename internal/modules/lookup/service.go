package lookup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/storeops/posdesk-backend/internal/modules/store"
	"github.com/storeops/posdesk-backend/internal/modules/storedb"
)

// Service resolves document and order identifiers within one store.
// "Not found" is a normal nil/empty return, never an error; database
// failures propagate with the connection manager's classification.
type Service interface {
	// GetOrderStatus returns the current state of an order, app-order table
	// taking priority over the kiosk table when both match.
	GetOrderStatus(ctx context.Context, storeCode, orderID string) (*OrderStatus, error)

	// AuditOrder returns every recorded state transition for orders whose
	// code contains orderID, oldest first.
	AuditOrder(ctx context.Context, storeCode, orderID string) ([]StatusChange, error)

	// GetAssociatedCode returns the cross-system order code linked to an
	// invoice id, app orders outranking pickup orders.
	GetAssociatedCode(ctx context.Context, storeCode, invoiceID string) (string, error)

	// GetKitchenTicketTarget translates an invoice id into the internal
	// kitchen-order id used by the kitchen print routine.
	GetKitchenTicketTarget(ctx context.Context, storeCode, invoiceID string) (string, error)

	// DocumentURL builds the store-local web URL that renders the document.
	DocumentURL(ctx context.Context, docType DocumentType, storeCode, documentID string) (string, error)

	// TestStoreConnection probes reachability of a store's database.
	TestStoreConnection(ctx context.Context, storeCode string) error
}

type service struct {
	db     storedb.Querier
	logger *slog.Logger
}

func NewService(db storedb.Querier, logger *slog.Logger) Service {
	return &service{db: db, logger: logger}
}

func (s *service) GetOrderStatus(ctx context.Context, storeCode, orderID string) (*OrderStatus, error) {
	rows, err := s.db.Query(ctx, storeCode, orderStatusQuery, orderID, orderID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		s.logger.Info("order not found", "store", storeCode, "order", orderID)
		return nil, nil
	}
	row := rows[0]
	if len(row) < 6 {
		return nil, fmt.Errorf("order status row has %d columns, want 6", len(row))
	}
	return &OrderStatus{
		Code:      asString(row[0]),
		Status:    asString(row[1]),
		InvoiceID: asString(row[2]),
		Channel:   asString(row[3]),
		OrderedAt: asTime(row[4]),
		Courier:   asString(row[5]),
	}, nil
}

func (s *service) AuditOrder(ctx context.Context, storeCode, orderID string) ([]StatusChange, error) {
	rows, err := s.db.Query(ctx, storeCode, orderAuditQuery, "%"+orderID+"%")
	if err != nil {
		return nil, err
	}
	changes := make([]StatusChange, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			return nil, fmt.Errorf("audit row has %d columns, want 4", len(row))
		}
		changes = append(changes, StatusChange{
			Code:      asString(row[0]),
			Status:    asString(row[1]),
			ChangedAt: asTime(row[2]),
			Courier:   asString(row[3]),
		})
	}
	s.logger.Info("order audit complete", "store", storeCode, "order", orderID, "transitions", len(changes))
	return changes, nil
}

func (s *service) GetAssociatedCode(ctx context.Context, storeCode, invoiceID string) (string, error) {
	rows, err := s.db.Query(ctx, storeCode, associatedCodeQuery, invoiceID, invoiceID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		s.logger.Info("no associated code", "store", storeCode, "invoice", invoiceID)
		return "", nil
	}
	return asString(rows[0][0]), nil
}

func (s *service) GetKitchenTicketTarget(ctx context.Context, storeCode, invoiceID string) (string, error) {
	rows, err := s.db.Query(ctx, storeCode, kitchenTargetQuery, invoiceID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return "", nil
	}
	return asString(rows[0][0]), nil
}

// Store-local web tier paths. The kitchen-ticket path needs the internal
// order id, so it is resolved through the database first.
const (
	billingURLPattern = "http://%s:880/pos/facturacion/impresion/impresion_factura.php?cfac_id=%s&tipo_comprobante=%s&"
	kitchenURLPattern = "http://%s:880/PoS/ordenpedido/impresion/imprimir_ordenpedido.php?odp_id=%s&tipoServicio=2&canalImpresion=0&guardaOrden=0&numeroCuenta=1"
)

func (s *service) DocumentURL(ctx context.Context, docType DocumentType, storeCode, documentID string) (string, error) {
	if !docType.Valid() {
		return "", fmt.Errorf("unknown document type %q", docType)
	}
	addr := store.ResolveNetworkAddress(storeCode)

	if docType == DocumentKitchenTicket {
		target, err := s.GetKitchenTicketTarget(ctx, storeCode, documentID)
		if err != nil {
			return "", err
		}
		if target == "" {
			return "", nil
		}
		return fmt.Sprintf(kitchenURLPattern, addr, target), nil
	}
	return fmt.Sprintf(billingURLPattern, addr, documentID, docType.ReceiptCode()), nil
}

func (s *service) TestStoreConnection(ctx context.Context, storeCode string) error {
	return s.db.Ping(ctx, storeCode)
}

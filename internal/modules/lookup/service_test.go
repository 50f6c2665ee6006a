package lookup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/posdesk-backend/internal/modules/storedb"
)

type recordedQuery struct {
	store string
	query string
	args  []any
}

type fakeQuerier struct {
	rows    []storedb.Row
	err     error
	queries []recordedQuery
}

func (f *fakeQuerier) Query(ctx context.Context, storeCode, query string, args ...any) ([]storedb.Row, error) {
	f.queries = append(f.queries, recordedQuery{store: storeCode, query: query, args: args})
	return f.rows, f.err
}

func (f *fakeQuerier) Exec(ctx context.Context, storeCode, query string, args ...any) (int64, error) {
	f.queries = append(f.queries, recordedQuery{store: storeCode, query: query, args: args})
	return 0, f.err
}

func (f *fakeQuerier) Ping(ctx context.Context, storeCode string) error { return f.err }

func newTestService(db *fakeQuerier) Service {
	return NewService(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetOrderStatus(t *testing.T) {
	orderedAt := time.Date(2026, 8, 30, 19, 45, 0, 0, time.UTC)
	db := &fakeQuerier{rows: []storedb.Row{
		{"APP-991", "ENTREGADO", "F001657227", "app", orderedAt, "J. Morales"},
	}}
	s := newTestService(db)

	status, err := s.GetOrderStatus(context.Background(), "K100", "APP-991")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, "APP-991", status.Code)
	assert.Equal(t, "ENTREGADO", status.Status)
	assert.Equal(t, "F001657227", status.InvoiceID)
	assert.Equal(t, orderedAt, status.OrderedAt)
	assert.Equal(t, "J. Morales", status.Courier)

	// The order id binds both branches of the union.
	require.Len(t, db.queries, 1)
	assert.Equal(t, []any{"APP-991", "APP-991"}, db.queries[0].args)
}

func TestGetOrderStatusNotFound(t *testing.T) {
	s := newTestService(&fakeQuerier{})
	status, err := s.GetOrderStatus(context.Background(), "K100", "NOPE")
	require.NoError(t, err, "not found is not an error")
	assert.Nil(t, status)
}

func TestGetOrderStatusAppTableWins(t *testing.T) {
	// When both tables match, the first row is the app-order row because the
	// union lists the app table first; the service must take rows[0].
	db := &fakeQuerier{rows: []storedb.Row{
		{"APP-1", "EN RUTA", "F1", "app", time.Time{}, "A"},
		{"APP-1", "PENDIENTE", "F1", "", time.Time{}, "No asignado"},
	}}
	s := newTestService(db)

	status, err := s.GetOrderStatus(context.Background(), "K100", "APP-1")
	require.NoError(t, err)
	assert.Equal(t, "EN RUTA", status.Status)

	idx := strings.Index(db.queries[0].query, "Cabecera_App")
	kioskIdx := strings.Index(db.queries[0].query, "kiosko_cabecera_pedidos")
	assert.True(t, idx >= 0 && kioskIdx > idx, "app-order table must be listed first")
}

func TestAuditOrderUsesWildcardAndSequenceOrder(t *testing.T) {
	db := &fakeQuerier{rows: []storedb.Row{
		{"APP-1", "CREADO", time.Time{}, "No asignado"},
		{"APP-1", "EN COCINA", time.Time{}, "No asignado"},
		{"APP-1", "ENTREGADO", time.Time{}, "J. Morales"},
	}}
	s := newTestService(db)

	changes, err := s.AuditOrder(context.Background(), "K100", "APP-1")
	require.NoError(t, err)
	require.Len(t, changes, 3)
	assert.Equal(t, "CREADO", changes[0].Status)
	assert.Equal(t, "ENTREGADO", changes[2].Status)

	assert.Equal(t, []any{"%APP-1%"}, db.queries[0].args)
	assert.Contains(t, db.queries[0].query, "ORDER BY epa.IDEstadoPedido ASC")
}

func TestGetAssociatedCodePrioritizesAppOrders(t *testing.T) {
	db := &fakeQuerier{rows: []storedb.Row{{"APP-777"}}}
	s := newTestService(db)

	code, err := s.GetAssociatedCode(context.Background(), "K100", "F001")
	require.NoError(t, err)
	assert.Equal(t, "APP-777", code)

	// The union is prioritized in SQL, not picked arbitrarily in Go.
	assert.Contains(t, db.queries[0].query, "ORDER BY priority")
	assert.Contains(t, db.queries[0].query, "1 AS priority")
	assert.Contains(t, db.queries[0].query, "2 AS priority")
}

func TestGetAssociatedCodeNotFound(t *testing.T) {
	s := newTestService(&fakeQuerier{})
	code, err := s.GetAssociatedCode(context.Background(), "K100", "F001")
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestGetKitchenTicketTarget(t *testing.T) {
	db := &fakeQuerier{rows: []storedb.Row{{int64(55)}}}
	s := newTestService(db)

	// Numeric ids come back from the driver as int64 and still need to be
	// usable as a routine argument.
	target, err := s.GetKitchenTicketTarget(context.Background(), "K100", "F001657227")
	require.NoError(t, err)
	assert.Equal(t, "55", target)
}

func TestDocumentURL(t *testing.T) {
	s := newTestService(&fakeQuerier{})

	url, err := s.DocumentURL(context.Background(), DocumentInvoice, "K080", "F001")
	require.NoError(t, err)
	assert.Equal(t, "http://10.101.80.20:880/pos/facturacion/impresion/impresion_factura.php?cfac_id=F001&tipo_comprobante=F&", url)

	url, err = s.DocumentURL(context.Background(), DocumentCreditNote, "K080", "NC001")
	require.NoError(t, err)
	assert.Contains(t, url, "tipo_comprobante=N")

	_, err = s.DocumentURL(context.Background(), DocumentType("receipt"), "K080", "F001")
	assert.Error(t, err)
}

func TestDocumentURLKitchenTicket(t *testing.T) {
	db := &fakeQuerier{rows: []storedb.Row{{"55"}}}
	s := newTestService(db)

	url, err := s.DocumentURL(context.Background(), DocumentKitchenTicket, "K100", "F001657227")
	require.NoError(t, err)
	assert.Equal(t, "http://10.101.100.20:880/PoS/ordenpedido/impresion/imprimir_ordenpedido.php?odp_id=55&tipoServicio=2&canalImpresion=0&guardaOrden=0&numeroCuenta=1", url)
}

func TestDatabaseErrorsPropagate(t *testing.T) {
	db := &fakeQuerier{err: errors.New("store unreachable")}
	s := newTestService(db)

	_, err := s.GetOrderStatus(context.Background(), "K100", "APP-1")
	assert.Error(t, err)
	_, err = s.GetAssociatedCode(context.Background(), "K100", "F1")
	assert.Error(t, err)
}

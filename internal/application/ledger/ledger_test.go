package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
)

// memDocStore keeps one document per shop in memory.
type memDocStore struct {
	docs      map[string]*entity.ShopDocument
	upsertErr error
}

func newMemDocStore() *memDocStore {
	return &memDocStore{docs: map[string]*entity.ShopDocument{}}
}

func (m *memDocStore) Fetch(ctx context.Context, shopID string) (*entity.ShopDocument, error) {
	doc, ok := m.docs[shopID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func (m *memDocStore) Upsert(ctx context.Context, doc *entity.ShopDocument) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	stored := *doc
	m.docs[doc.ShopID] = &stored
	doc.Version++
	return nil
}

// memRowStore records mirror calls.
type memRowStore struct {
	rows      map[string]entity.Invoice
	upsertErr error
	deleted   []string
}

func newMemRowStore() *memRowStore {
	return &memRowStore{rows: map[string]entity.Invoice{}}
}

func (m *memRowStore) Upsert(ctx context.Context, shopID string, inv *entity.Invoice) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.rows[inv.ID] = *inv
	return nil
}

func (m *memRowStore) Delete(ctx context.Context, invoiceID string) error {
	m.deleted = append(m.deleted, invoiceID)
	delete(m.rows, invoiceID)
	return nil
}

func newTestLedger() (*Ledger, *memDocStore, *memRowStore) {
	docs := newMemDocStore()
	rows := newMemRowStore()
	return New(docs, rows, zerolog.Nop()), docs, rows
}

func seedShop(docs *memDocStore) *entity.ShopDocument {
	doc := entity.NewShopDocument("shop-1")
	doc.Settings.Services = []entity.ServicePreset{
		{Name: "Oil Change", Price: d("49.99")},
		{Name: "Brake Job", Rate: d("90"), Hours: d("2")},
	}
	doc.Appointments = []entity.Appointment{{
		ID: "appt-1", Customer: "Jane Doe", CustomerFirst: "Jane", CustomerLast: "Doe",
		Vehicle: "2014 BMW 335i", VIN: "WBA3A9C50EF479999", Service: "Oil Change",
	}}
	doc.Jobs = []entity.Job{{
		ID: "job-1", AppointmentID: "appt-1", Customer: "Jane Doe",
		Items: []entity.LineItem{item("Oil filter", "1", "12.50", entity.ItemTypePart)},
	}}
	docs.docs["shop-1"] = doc
	return doc
}

func TestCreateInvoiceSeedsAppointment(t *testing.T) {
	l, docs, rows := newTestLedger()
	seedShop(docs)
	ctx := context.Background()

	inv, err := l.CreateInvoice(ctx, "shop-1", "appt-1")
	require.NoError(t, err)

	assert.Equal(t, "1001", inv.Number)
	assert.Equal(t, "Jane Doe", inv.Customer)
	assert.Equal(t, "Jane", inv.CustomerFirst)
	assert.Equal(t, "Doe", inv.CustomerLast)
	assert.Equal(t, "2014 BMW 335i", inv.Vehicle)
	assert.Equal(t, entity.InvoiceStatusOpen, inv.Status)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Oil Change", inv.Items[0].Name)
	assert.True(t, inv.Items[0].Price.Equal(d("49.99")))
	// Default shop tax rate applies when none is configured.
	assert.True(t, inv.TaxRate.Equal(d("6")))
	// Mirrored into the row store.
	_, ok := rows.rows[inv.ID]
	assert.True(t, ok)
}

func TestCreateInvoiceServicePriceFromRateHours(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Appointments[0].Service = "Brake Job"

	inv, err := l.CreateInvoice(context.Background(), "shop-1", "appt-1")
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Items[0].Price.Equal(d("180")))
}

func TestCreateInvoiceUnknownAppointmentIsWalkIn(t *testing.T) {
	l, _, _ := newTestLedger()

	inv, err := l.CreateInvoice(context.Background(), "shop-9", "missing")
	require.NoError(t, err)
	assert.Equal(t, entity.WalkInCustomer, inv.Customer)
	assert.Equal(t, "1001", inv.Number)
	assert.Empty(t, inv.Items)
}

func TestInvoiceNumbersAreSequentialPastGaps(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{
		{ID: "a", Number: "1001"},
		{ID: "b", Number: "1207"},
		{ID: "c", Number: "draft"}, // non-numeric, ignored
	}

	inv, err := l.CreateInvoice(context.Background(), "shop-1", "appt-1")
	require.NoError(t, err)
	assert.Equal(t, "1208", inv.Number)
}

func TestGetOrCreateReturnsExistingOpen(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", AppointmentID: "appt-1", Status: entity.InvoiceStatusOpen}}

	inv, err := l.GetOrCreateOpenInvoice(context.Background(), "shop-1", "appt-1")
	require.NoError(t, err)
	assert.Equal(t, "inv-1", inv.ID)
}

func TestGetOrCreateLegacyUnpaidCountsAsOpen(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", AppointmentID: "appt-1", Status: "unpaid"}}

	inv, err := l.GetOrCreateOpenInvoice(context.Background(), "shop-1", "appt-1")
	require.NoError(t, err)
	assert.Equal(t, "inv-1", inv.ID)
	assert.Equal(t, entity.InvoiceStatusOpen, inv.Status)
}

func TestGetOrCreateNeverReopensPaid(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{
		ID: "inv-1", Number: "1001", AppointmentID: "appt-1",
		Status: entity.InvoiceStatusPaid,
		Items:  []entity.LineItem{item("Oil Change", "1", "49.99", entity.ItemTypePart)},
	}}

	inv, err := l.GetOrCreateOpenInvoice(context.Background(), "shop-1", "appt-1")
	require.NoError(t, err)
	assert.NotEqual(t, "inv-1", inv.ID)
	assert.Equal(t, "1002", inv.Number)
	assert.Equal(t, entity.InvoiceStatusOpen, inv.Status)
	// The replacement starts empty: no service re-seed after a paid invoice.
	assert.Empty(t, inv.Items)

	// The paid invoice is untouched.
	stored := docs.docs["shop-1"]
	orig, _ := stored.FindInvoice("inv-1")
	require.NotNil(t, orig)
	assert.Equal(t, entity.InvoiceStatusPaid, orig.Status)
}

func TestGetOrCreateRequiresAppointment(t *testing.T) {
	l, _, _ := newTestLedger()
	_, err := l.GetOrCreateOpenInvoice(context.Background(), "shop-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaveInvoiceSyncsNames(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", AppointmentID: "appt-1", Status: entity.InvoiceStatusOpen}}

	saved, err := l.SaveInvoice(context.Background(), "shop-1", &entity.Invoice{
		ID: "inv-1", AppointmentID: "appt-1", Customer: "John Q Public",
		Items: []entity.LineItem{item("Brake pads", "1", "54.99", entity.ItemTypePart)},
	})
	require.NoError(t, err)
	assert.Equal(t, "John", saved.CustomerFirst)
	assert.Equal(t, "Q Public", saved.CustomerLast)

	stored := docs.docs["shop-1"]
	appt := stored.FindAppointment("appt-1")
	assert.Equal(t, "John Q Public", appt.Customer)
	assert.Equal(t, "John", appt.CustomerFirst)
	job := stored.FindJobByAppointment("appt-1")
	assert.Equal(t, "John Q Public", job.Customer)
	// Items copied back onto the job.
	require.Len(t, job.Items, 1)
	assert.Equal(t, "Brake pads", job.Items[0].Name)
}

func TestSaveInvoiceWalkInNeverSyncs(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", AppointmentID: "appt-1", Status: entity.InvoiceStatusOpen}}

	_, err := l.SaveInvoice(context.Background(), "shop-1", &entity.Invoice{
		ID: "inv-1", AppointmentID: "appt-1", Customer: entity.WalkInCustomer,
		Items: []entity.LineItem{item("Brake pads", "1", "54.99", entity.ItemTypePart)},
	})
	require.NoError(t, err)

	appt := docs.docs["shop-1"].FindAppointment("appt-1")
	assert.Equal(t, "Jane Doe", appt.Customer)
	assert.Equal(t, "Jane", appt.CustomerFirst)
	assert.Equal(t, "Doe", appt.CustomerLast)
}

func TestSaveInvoiceEmptyItemsInheritJob(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", AppointmentID: "appt-1", Status: entity.InvoiceStatusOpen}}

	saved, err := l.SaveInvoice(context.Background(), "shop-1", &entity.Invoice{
		ID: "inv-1", AppointmentID: "appt-1", Customer: "Jane Doe",
	})
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, "Oil filter", saved.Items[0].Name)
}

func TestSaveInvoiceStripsPairingFlags(t *testing.T) {
	l, docs, rows := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", Status: entity.InvoiceStatusOpen}}

	in := &entity.Invoice{ID: "inv-1", Customer: "Jane Doe"}
	AddLineItem(in,
		item("Brake pads", "1", "54.99", entity.ItemTypePart),
		&entity.LineItem{Name: "Install", Qty: d("1"), Price: d("80")},
	)
	_, err := l.SaveInvoice(context.Background(), "shop-1", in)
	require.NoError(t, err)

	stored, _ := docs.docs["shop-1"].FindInvoice("inv-1")
	require.Len(t, stored.Items, 2)
	for _, it := range stored.Items {
		assert.False(t, it.Attached)
		assert.False(t, it.HasAttachedLabor)
	}
	mirrored := rows.rows["inv-1"]
	require.Len(t, mirrored.Items, 2)
}

func TestSaveInvoiceAppliesDefaults(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Settings.DefaultDiscount = d("10")
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", Status: entity.InvoiceStatusOpen}}

	saved, err := l.SaveInvoice(context.Background(), "shop-1", &entity.Invoice{ID: "inv-1", Customer: "Jane Doe"})
	require.NoError(t, err)
	assert.True(t, saved.TaxRate.Equal(d("6")))
	assert.True(t, saved.Discount.Equal(d("10")))
	assert.NotEmpty(t, saved.Due)
}

func TestSaveInvoiceRejectsMissingID(t *testing.T) {
	l, _, _ := newTestLedger()
	_, err := l.SaveInvoice(context.Background(), "shop-1", &entity.Invoice{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.SaveInvoice(context.Background(), "shop-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMarkPaidAndUnpaid(t *testing.T) {
	l, docs, rows := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", Status: entity.InvoiceStatusOpen}}
	ctx := context.Background()

	paid, err := l.MarkPaid(ctx, "shop-1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, entity.InvoiceStatusPaid, rows.rows["inv-1"].Status)

	reopened, err := l.MarkUnpaid(ctx, "shop-1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusOpen, reopened.Status)
	assert.Nil(t, reopened.PaidDate)

	_, err = l.MarkPaid(ctx, "shop-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveInvoiceCascade(t *testing.T) {
	l, docs, rows := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", AppointmentID: "appt-1", Status: entity.InvoiceStatusOpen}}

	require.NoError(t, l.RemoveInvoice(context.Background(), "shop-1", "inv-1", true))

	stored := docs.docs["shop-1"]
	assert.Empty(t, stored.Invoices)
	assert.Nil(t, stored.FindAppointment("appt-1"))
	// Work history survives the cascade.
	assert.NotNil(t, stored.FindJobByAppointment("appt-1"))
	assert.Contains(t, rows.deleted, "inv-1")
}

func TestRemoveInvoiceNoCascadeKeepsAppointment(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", AppointmentID: "appt-1", Status: entity.InvoiceStatusOpen}}

	require.NoError(t, l.RemoveInvoice(context.Background(), "shop-1", "inv-1", false))
	assert.NotNil(t, docs.docs["shop-1"].FindAppointment("appt-1"))
}

func TestDocumentUpsertFailureAborts(t *testing.T) {
	l, docs, rows := newTestLedger()
	seedShop(docs)
	docs.upsertErr = errors.New("connection reset")

	_, err := l.CreateInvoice(context.Background(), "shop-1", "appt-1")
	require.Error(t, err)
	assert.Empty(t, rows.rows)
}

func TestRowMirrorFailureIsSkipped(t *testing.T) {
	l, docs, rows := newTestLedger()
	seedShop(docs)
	rows.upsertErr = errors.New("invoices table missing")

	inv, err := l.CreateInvoice(context.Background(), "shop-1", "appt-1")
	require.NoError(t, err)
	assert.NotNil(t, inv)
	// Document write went through despite the mirror failure.
	assert.Len(t, docs.docs["shop-1"].Invoices, 1)
}

func TestAddAndRemoveItemPersist(t *testing.T) {
	l, docs, _ := newTestLedger()
	doc := seedShop(docs)
	doc.Invoices = []entity.Invoice{{ID: "inv-1", Number: "1001", Status: entity.InvoiceStatusOpen}}
	ctx := context.Background()

	inv, err := l.AddItem(ctx, "shop-1", "inv-1",
		item("Brake pads", "1", "54.99", entity.ItemTypePart),
		&entity.LineItem{Name: "Install", Qty: d("1"), Price: d("80")},
	)
	require.NoError(t, err)
	require.Len(t, inv.Items, 2)

	inv, err = l.RemoveItem(ctx, "shop-1", "inv-1", 0, RemoveSingle)
	require.NoError(t, err)
	assert.Empty(t, inv.Items)

	_, err = l.AddItem(ctx, "shop-1", "missing", entity.LineItem{}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package request

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wareflow/datev-export/datevexport"
	"github.com/wareflow/datev-export/datevexport/decompose"
	"github.com/wareflow/datev-export/datevexport/message"
	"github.com/wareflow/datev-export/datevexport/money"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type fakeOrders struct {
	order       *datevexport.Order
	err         error
	versionCall *struct{ orderID, versionID string }
	liveCall    *string
}

func (f *fakeOrders) LoadVersion(_ context.Context, orderID, versionID string) (*datevexport.Order, error) {
	f.versionCall = &struct{ orderID, versionID string }{orderID, versionID}

	return f.order, f.err
}

func (f *fakeOrders) LoadLive(_ context.Context, orderID string) (*datevexport.Order, error) {
	f.liveCall = &orderID

	return f.order, f.err
}

type fakeCalculatables struct {
	calculatable *datevexport.CalculatableOrder
	err          error
	called       bool
}

func (f *fakeCalculatables) Build(_ context.Context, _ *datevexport.Order) (*datevexport.CalculatableOrder, error) {
	f.called = true

	return f.calculatable, f.err
}

type fakeCorrections struct {
	calculatable *datevexport.CalculatableOrder
	called       bool
}

func (f *fakeCorrections) Calculate(_ context.Context, _ *datevexport.Document, _ *datevexport.Order) (*datevexport.CalculatableOrder, error) {
	f.called = true

	return f.calculatable, nil
}

type fakeClassifier struct {
	exportable bool
	err        error
}

func (f *fakeClassifier) Exportable(_ context.Context, _ *datevexport.Document) (bool, error) {
	return f.exportable, f.err
}

type fakeCostCenters struct {
	costCenter string
	messages   []message.Message
}

func (f *fakeCostCenters) Attach(_ context.Context, items []money.PriceItem, _ *datevexport.Order) ([]money.PriceItem, []message.Message) {
	if f.costCenter != "" {
		for i := range items {
			costCenter := f.costCenter
			items[i].CostCenter = &costCenter
		}
	}

	return items, f.messages
}

// ---------------------------------------------------------------------------
// fixtures
// ---------------------------------------------------------------------------

func testOrder() *datevexport.Order {
	return &datevexport.Order{
		ID:               "order-1",
		VersionID:        "version-1",
		Number:           "SO-1001",
		SalesChannelID:   "channel-1",
		SalesChannelType: datevexport.SalesChannelTypeStorefront,
		OrderDate:        time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC),
		Customer:         &datevexport.Customer{ID: "customer-1", VatIDs: []string{"DE123456789"}},
		BillingAddress:   &datevexport.Address{CountryISO: "DE", Company: "Musterfirma GmbH"},
		Transactions:     []datevexport.Transaction{{ID: "transaction-1", PaymentMethodID: "payment-1"}},
		Deliveries: []datevexport.Delivery{
			{ID: "delivery-1", ShippingAddress: &datevexport.Address{CountryISO: "AT"}},
		},
	}
}

func testCalculatable() *datevexport.CalculatableOrder {
	return &datevexport.CalculatableOrder{
		Total:     decimal.RequireFromString("172.50"),
		TaxStatus: decompose.TaxStatusGross,
		TaxLines: []decompose.TaxLine{
			{Rate: decimal.NewFromInt(19), Price: decimal.RequireFromString("119.00"), Tax: decimal.RequireFromString("19.00")},
			{Rate: decimal.NewFromInt(7), Price: decimal.RequireFromString("53.50"), Tax: decimal.RequireFromString("3.50")},
		},
		TaxRuleCount: 2,
	}
}

func testDocument(docType datevexport.DocumentType) *datevexport.Document {
	return &datevexport.Document{
		ID:             "doc-1",
		Type:           docType,
		Number:         "RE-1001",
		OrderID:        "order-1",
		OrderVersionID: "version-1",
		CreatedAt:      time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC),
	}
}

func newBuilder(orders *fakeOrders, calculatables *fakeCalculatables, corrections *fakeCorrections) *ContextBuilder {
	if calculatables == nil {
		calculatables = &fakeCalculatables{calculatable: testCalculatable()}
	}

	if corrections == nil {
		corrections = &fakeCorrections{calculatable: testCalculatable()}
	}

	return NewContextBuilder(orders, calculatables, corrections)
}

// ---------------------------------------------------------------------------
// ContextBuilder
// ---------------------------------------------------------------------------

func TestBuildPinsRecordedOrderVersion(t *testing.T) {
	orders := &fakeOrders{order: testOrder()}
	builder := newBuilder(orders, nil, nil)

	calculationContext, err := builder.Build(context.Background(), testDocument(datevexport.DocumentTypeInvoice))

	require.NoError(t, err)
	require.NotNil(t, orders.versionCall)
	assert.Equal(t, "order-1", orders.versionCall.orderID)
	assert.Equal(t, "version-1", orders.versionCall.versionID)
	assert.Nil(t, orders.liveCall)

	assert.Equal(t, "SO-1001", calculationContext.OrderNumber)
	assert.Equal(t, "AT", calculationContext.CountryISO)
	assert.Equal(t, "payment-1", calculationContext.PaymentMethodID)
	assert.Equal(t, []string{"DE123456789"}, calculationContext.VatIDs)
	assert.Equal(t, "Musterfirma GmbH", calculationContext.BillingCompany)
	assert.False(t, calculationContext.IsShopifyOrder)
}

func TestBuildLoadsLiveOrderForPOSReceipts(t *testing.T) {
	orders := &fakeOrders{order: testOrder()}
	builder := newBuilder(orders, nil, nil)

	document := testDocument(datevexport.DocumentTypePOSReceipt)
	document.OrderVersionID = ""

	_, err := builder.Build(context.Background(), document)

	require.NoError(t, err)
	require.NotNil(t, orders.liveCall)
	assert.Equal(t, "order-1", *orders.liveCall)
	assert.Nil(t, orders.versionCall)
}

func TestBuildUsesCorrectionCalculatorForCorrections(t *testing.T) {
	orders := &fakeOrders{order: testOrder()}
	calculatables := &fakeCalculatables{calculatable: testCalculatable()}
	corrections := &fakeCorrections{calculatable: testCalculatable()}
	builder := newBuilder(orders, calculatables, corrections)

	_, err := builder.Build(context.Background(), testDocument(datevexport.DocumentTypeCorrection))

	require.NoError(t, err)
	assert.True(t, corrections.called)
	assert.False(t, calculatables.called)
}

func TestBuildFatalErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(order *datevexport.Order) *datevexport.Order
		loadErr  error
		expected error
	}{
		{
			name:     "order load fails",
			mutate:   func(order *datevexport.Order) *datevexport.Order { return order },
			loadErr:  errors.New("gone"),
			expected: ErrMissingOrder,
		},
		{
			name:     "order missing",
			mutate:   func(*datevexport.Order) *datevexport.Order { return nil },
			expected: ErrMissingOrder,
		},
		{
			name: "customer missing",
			mutate: func(order *datevexport.Order) *datevexport.Order {
				order.Customer = nil

				return order
			},
			expected: ErrMissingCustomer,
		},
		{
			name: "transaction missing",
			mutate: func(order *datevexport.Order) *datevexport.Order {
				order.Transactions = nil

				return order
			},
			expected: ErrMissingTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &fakeOrders{order: tt.mutate(testOrder()), err: tt.loadErr}
			builder := newBuilder(orders, nil, nil)

			_, err := builder.Build(context.Background(), testDocument(datevexport.DocumentTypeInvoice))

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestBuildFallsBackToBillingCountry(t *testing.T) {
	order := testOrder()
	order.Deliveries = nil

	builder := newBuilder(&fakeOrders{order: order}, nil, nil)

	calculationContext, err := builder.Build(context.Background(), testDocument(datevexport.DocumentTypeInvoice))

	require.NoError(t, err)
	assert.Equal(t, "DE", calculationContext.CountryISO)
}

func TestBuildDerivesShopifyFlags(t *testing.T) {
	tests := []struct {
		name        string
		channelType string
		orderDate   time.Time
		shopify     bool
		preFix      bool
	}{
		{
			name:        "shopify pre-fix",
			channelType: datevexport.SalesChannelTypeShopify,
			orderDate:   time.Date(2024, time.February, 2, 23, 59, 0, 0, time.UTC),
			shopify:     true,
			preFix:      true,
		},
		{
			name:        "shopify post-fix",
			channelType: datevexport.SalesChannelTypeShopify,
			orderDate:   time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC),
			shopify:     true,
			preFix:      false,
		},
		{
			name:        "storefront",
			channelType: datevexport.SalesChannelTypeStorefront,
			orderDate:   time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
			shopify:     false,
			preFix:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := testOrder()
			order.SalesChannelType = tt.channelType
			order.OrderDate = tt.orderDate

			builder := newBuilder(&fakeOrders{order: order}, nil, nil)

			calculationContext, err := builder.Build(context.Background(), testDocument(datevexport.DocumentTypeInvoice))

			require.NoError(t, err)
			assert.Equal(t, tt.shopify, calculationContext.IsShopifyOrder)
			assert.Equal(t, tt.preFix, calculationContext.IsPreDiscountFix)
		})
	}
}

// ---------------------------------------------------------------------------
// Factory
// ---------------------------------------------------------------------------

func newFactory(classifier *fakeClassifier, orders *fakeOrders, calculatables *fakeCalculatables, costCenters *fakeCostCenters) *Factory {
	if costCenters == nil {
		costCenters = &fakeCostCenters{}
	}

	return NewFactory(classifier, newBuilder(orders, calculatables, nil), costCenters, nil)
}

func TestCreateReturnsEmptyRequestForIneligibleDocuments(t *testing.T) {
	factory := newFactory(&fakeClassifier{exportable: false}, &fakeOrders{order: testOrder()}, nil, nil)

	req, messages, err := factory.Create(context.Background(), testDocument(datevexport.DocumentTypePOSReceipt))

	require.NoError(t, err)
	assert.True(t, req.Empty())
	assert.Empty(t, messages)
}

func TestCreateBuildsItemsWithAccountKeys(t *testing.T) {
	factory := newFactory(&fakeClassifier{exportable: true}, &fakeOrders{order: testOrder()}, nil, nil)

	req, _, err := factory.Create(context.Background(), testDocument(datevexport.DocumentTypeInvoice))

	require.NoError(t, err)
	require.Len(t, req.Items, 2)

	assert.Equal(t, RevenueAccountKey{OrderID: "order-1", TaxRate: "19"}, req.Items[0].RevenueAccountKey)
	assert.Equal(t, RevenueAccountKey{OrderID: "order-1", TaxRate: "7"}, req.Items[1].RevenueAccountKey)
	assert.Equal(t, DebtorAccountKey{OrderID: "order-1"}, req.Items[0].DebtorAccountKey)
	assert.Equal(t, req.Items[0].DebtorAccountKey, req.Items[1].DebtorAccountKey)
	assert.True(t, req.Items[0].PriceItem.Price.Equal(decimal.RequireFromString("119.00")))
}

func TestCreateRewritesShopifyZeroTaxToFree(t *testing.T) {
	order := testOrder()
	order.SalesChannelType = datevexport.SalesChannelTypeShopify
	order.OrderDate = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	calculatable := &datevexport.CalculatableOrder{
		Total:     decimal.RequireFromString("50.00"),
		TaxStatus: decompose.TaxStatusGross,
		TaxLines: []decompose.TaxLine{
			{Rate: decimal.NewFromInt(19), Price: decimal.RequireFromString("50.00"), Tax: decimal.Zero},
		},
		TaxRuleCount: 1,
	}

	factory := newFactory(
		&fakeClassifier{exportable: true},
		&fakeOrders{order: order},
		&fakeCalculatables{calculatable: calculatable},
		nil,
	)

	req, _, err := factory.Create(context.Background(), testDocument(datevexport.DocumentTypeInvoice))

	require.NoError(t, err)
	require.Len(t, req.Items, 1)
	assert.Nil(t, req.Items[0].PriceItem.TaxRate)
	assert.True(t, req.Items[0].PriceItem.Price.Equal(decimal.RequireFromString("50.00")))
}

func TestCreateSurfacesCostCenterMessages(t *testing.T) {
	costCenterMessage := message.New(message.SeverityWarning, map[message.Locale]string{
		message.LocaleEnglish: "no cost center rule matched",
		message.LocaleGerman:  "keine Kostenstellenregel passte",
	}, nil)

	costCenters := &fakeCostCenters{costCenter: "100", messages: []message.Message{costCenterMessage}}
	factory := newFactory(&fakeClassifier{exportable: true}, &fakeOrders{order: testOrder()}, nil, costCenters)

	req, messages, err := factory.Create(context.Background(), testDocument(datevexport.DocumentTypeInvoice))

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, message.SeverityWarning, messages[0].Severity)

	for _, item := range req.Items {
		require.NotNil(t, item.PriceItem.CostCenter)
		assert.Equal(t, "100", *item.PriceItem.CostCenter)
	}
}

func TestCreatePropagatesClassifierError(t *testing.T) {
	factory := newFactory(&fakeClassifier{err: errors.New("boom")}, &fakeOrders{order: testOrder()}, nil, nil)

	_, _, err := factory.Create(context.Background(), testDocument(datevexport.DocumentTypeInvoice))

	require.Error(t, err)
}

package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/wareflow/datev-export/datevexport"
)

// Fatal context-building errors. They abort the whole chunk: a document whose
// order graph cannot be resolved is broken data or a programmer error, never
// a business condition.
var (
	ErrMissingOrder       = errors.New("order could not be resolved")
	ErrMissingCustomer    = errors.New("order customer could not be resolved")
	ErrMissingTransaction = errors.New("order has no primary transaction")
)

// ContextBuilder assembles the CalculationContext of one document.
type ContextBuilder struct {
	orders        OrderSource
	calculatables CalculatableOrderFactory
	corrections   CorrectionCalculator
}

// NewContextBuilder creates a context builder from its collaborators.
func NewContextBuilder(
	orders OrderSource,
	calculatables CalculatableOrderFactory,
	corrections CorrectionCalculator,
) *ContextBuilder {
	return &ContextBuilder{
		orders:        orders,
		calculatables: calculatables,
		corrections:   corrections,
	}
}

// Build loads the document's order state and derives the calculation context.
func (b *ContextBuilder) Build(ctx context.Context, document *datevexport.Document) (*CalculationContext, error) {
	order, err := b.loadOrder(ctx, document)
	if err != nil {
		return nil, err
	}

	if order.Customer == nil {
		return nil, fmt.Errorf("document %s, order %s: %w", document.ID, document.OrderID, ErrMissingCustomer)
	}

	transaction := order.PrimaryTransaction()
	if transaction == nil {
		return nil, fmt.Errorf("document %s, order %s: %w", document.ID, document.OrderID, ErrMissingTransaction)
	}

	calculatable, err := b.buildCalculatable(ctx, document, order)
	if err != nil {
		return nil, fmt.Errorf("document %s: build calculatable order: %w", document.ID, err)
	}

	return &CalculationContext{
		OrderID:          order.ID,
		OrderNumber:      order.Number,
		Order:            order,
		Calculatable:     calculatable,
		IsShopifyOrder:   order.IsShopify(),
		IsPreDiscountFix: order.OrderDate.Before(datevexport.ShopifyDiscountFixDate),
		CountryISO:       deliveryCountry(order),
		PaymentMethodID:  transaction.PaymentMethodID,
		VatIDs:           order.Customer.VatIDs,
		BillingCompany:   billingCompany(order),
	}, nil
}

// loadOrder pins the order to the document's recorded version. POS receipts
// never carry a version extension and read the live order instead.
func (b *ContextBuilder) loadOrder(ctx context.Context, document *datevexport.Document) (*datevexport.Order, error) {
	var (
		order *datevexport.Order
		err   error
	)

	if document.Type == datevexport.DocumentTypePOSReceipt {
		order, err = b.orders.LoadLive(ctx, document.OrderID)
	} else {
		order, err = b.orders.LoadVersion(ctx, document.OrderID, document.OrderVersionID)
	}

	if err != nil {
		return nil, fmt.Errorf("document %s, order %s: %v: %w", document.ID, document.OrderID, err, ErrMissingOrder)
	}

	if order == nil {
		return nil, fmt.Errorf("document %s, order %s: %w", document.ID, document.OrderID, ErrMissingOrder)
	}

	return order, nil
}

// buildCalculatable obtains the order's monetary state: corrections compare
// original and corrected state, everything else goes through the generic
// factory.
func (b *ContextBuilder) buildCalculatable(
	ctx context.Context,
	document *datevexport.Document,
	order *datevexport.Order,
) (*datevexport.CalculatableOrder, error) {
	if document.Type == datevexport.DocumentTypeCorrection {
		return b.corrections.Calculate(ctx, document, order)
	}

	return b.calculatables.Build(ctx, order)
}

// deliveryCountry prefers the primary delivery's shipping address over the
// billing address.
func deliveryCountry(order *datevexport.Order) string {
	if delivery := order.PrimaryDelivery(); delivery != nil && delivery.ShippingAddress != nil {
		return delivery.ShippingAddress.CountryISO
	}

	if order.BillingAddress != nil {
		return order.BillingAddress.CountryISO
	}

	return ""
}

func billingCompany(order *datevexport.Order) string {
	if order.BillingAddress == nil {
		return ""
	}

	return order.BillingAddress.Company
}

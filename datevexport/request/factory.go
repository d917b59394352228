package request

import (
	"context"
	"fmt"

	"github.com/wareflow/datev-export/datevexport"
	"github.com/wareflow/datev-export/datevexport/decompose"
	"github.com/wareflow/datev-export/datevexport/log"
	"github.com/wareflow/datev-export/datevexport/message"
)

// Factory orchestrates context building, price decomposition, and cost-center
// attachment into an immutable per-document request.
type Factory struct {
	classifier  Classifier
	contexts    *ContextBuilder
	costCenters CostCenterResolver
	logger      log.Logger
}

// NewFactory creates a request factory. A nil logger falls back to a no-op
// logger.
func NewFactory(
	classifier Classifier,
	contexts *ContextBuilder,
	costCenters CostCenterResolver,
	logger log.Logger,
) *Factory {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Factory{
		classifier:  classifier,
		contexts:    contexts,
		costCenters: costCenters,
		logger:      logger,
	}
}

// Create builds the request of one document. Ineligible documents yield an
// empty request without error or messages; that is how POS documents leave
// this export path silently. Returned messages stem from cost-center
// resolution and must be surfaced by the caller.
func (f *Factory) Create(ctx context.Context, document *datevexport.Document) (Request, []message.Message, error) {
	exportable, err := f.classifier.Exportable(ctx, document)
	if err != nil {
		return Request{}, nil, fmt.Errorf("classify document %s: %w", document.ID, err)
	}

	if !exportable {
		f.logger.Log(ctx, log.LevelDebug, "document not eligible for export path",
			log.String("documentId", document.ID),
			log.String("documentType", string(document.Type)),
		)

		return Request{Document: document}, nil, nil
	}

	calculationContext, err := f.contexts.Build(ctx, document)
	if err != nil {
		return Request{}, nil, err
	}

	calculatable := calculationContext.Calculatable

	// Known bug signature: Shopify orders whose calculated tax sums to
	// exactly zero carry a wrong tax status. Rewrite to tax-free before
	// decomposition picks buckets.
	if calculationContext.IsShopifyOrder && calculatable.CalculatedTaxTotal().IsZero() {
		calculatable.TaxStatus = decompose.TaxStatusFree
	}

	algorithm := decompose.ForOrder(calculationContext.IsShopifyOrder, calculationContext.IsPreDiscountFix)
	priceItems := algorithm.Decompose(decompose.Input{
		TaxStatus:    calculatable.TaxStatus,
		Lines:        calculatable.TaxLines,
		Total:        calculatable.Total,
		TaxRuleCount: calculatable.TaxRuleCount,
	})

	priceItems, messages := f.costCenters.Attach(ctx, priceItems, calculationContext.Order)

	items := make([]Item, 0, len(priceItems))
	for _, priceItem := range priceItems {
		items = append(items, Item{
			PriceItem: priceItem,
			RevenueAccountKey: RevenueAccountKey{
				OrderID: calculationContext.OrderID,
				TaxRate: taxRateKey(priceItem.TaxRate),
			},
			DebtorAccountKey: DebtorAccountKey{OrderID: calculationContext.OrderID},
		})
	}

	return Request{
		Document: document,
		Context:  calculationContext,
		Items:    items,
	}, messages, nil
}

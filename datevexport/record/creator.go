package record

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/wareflow/datev-export/datevexport"
	"github.com/wareflow/datev-export/datevexport/log"
	"github.com/wareflow/datev-export/datevexport/message"
	"github.com/wareflow/datev-export/datevexport/money"
	"github.com/wareflow/datev-export/datevexport/request"
)

// ErrMultipleSalesChannels aborts a chunk whose documents span more than one
// sales channel. The caller built the chunk wrong.
var ErrMultipleSalesChannels = errors.New("documents span multiple sales channels")

// DocumentSource loads exportable documents by id, including their referenced
// documents.
type DocumentSource interface {
	Load(ctx context.Context, documentIDs []string) ([]*datevexport.Document, error)
}

// RequestFactory builds the per-document export request.
type RequestFactory interface {
	Create(ctx context.Context, document *datevexport.Document) (request.Request, []message.Message, error)
}

// AccountResolver runs the external revenue and debtor rule stacks. A
// determination without account is a business condition, not an error.
type AccountResolver interface {
	ResolveRevenue(ctx context.Context, key request.RevenueAccountKey, calculationContext *request.CalculationContext) AccountDetermination
	ResolveDebtor(ctx context.Context, key request.DebtorAccountKey, calculationContext *request.CalculationContext) AccountDetermination
}

// TaskNumberProvider derives the DATEV task number of one item. It may emit
// messages regardless of outcome.
type TaskNumberProvider interface {
	TaskNumber(ctx context.Context, document *datevexport.Document, item request.Item) (string, []message.Message)
}

// TaxInformationValidator checks tax information completeness.
type TaxInformationValidator interface {
	OrderTaxValid(ctx context.Context, order *datevexport.Order) bool
	DocumentTaxValid(ctx context.Context, document *datevexport.Document) bool
}

// ReceiptLinkService issues the stable receipt link GUID of a document within
// one export. Repeated calls for the same pair return the same link.
type ReceiptLinkService interface {
	Link(ctx context.Context, documentID, exportID string) (string, error)
}

// DebtorBookkeeper records which debtor account an order's customer was
// posted to. Failures degrade to a warning message.
type DebtorBookkeeper interface {
	NoteAssignment(ctx context.Context, customer *datevexport.Customer, account Account) error
}

// SalesChannelSource reports the distinct sales channels of a document set.
// chunk.Store implements it.
type SalesChannelSource interface {
	DistinctSalesChannels(ctx context.Context, documentIDs []string) ([]string, error)
}

// Creator builds the entry batch records of one chunk.
type Creator struct {
	documents     DocumentSource
	requests      RequestFactory
	accounts      AccountResolver
	taskNumbers   TaskNumberProvider
	taxInfo       TaxInformationValidator
	receiptLinks  ReceiptLinkService
	bookkeeper    DebtorBookkeeper
	salesChannels SalesChannelSource
	logger        log.Logger
}

// NewCreator creates a record creator. A nil logger falls back to a no-op
// logger.
func NewCreator(
	documents DocumentSource,
	requests RequestFactory,
	accounts AccountResolver,
	taskNumbers TaskNumberProvider,
	taxInfo TaxInformationValidator,
	receiptLinks ReceiptLinkService,
	bookkeeper DebtorBookkeeper,
	salesChannels SalesChannelSource,
	logger log.Logger,
) *Creator {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Creator{
		documents:     documents,
		requests:      requests,
		accounts:      accounts,
		taskNumbers:   taskNumbers,
		taxInfo:       taxInfo,
		receiptLinks:  receiptLinks,
		bookkeeper:    bookkeeper,
		salesChannels: salesChannels,
		logger:        logger,
	}
}

// CreateEntryBatchRecords builds the records of one chunk of document ids.
// Documents are processed in (document date, id) order. A failed document
// contributes only messages; its neighbours are unaffected. The returned
// error is reserved for systemic conditions that invalidate the whole chunk.
func (c *Creator) CreateEntryBatchRecords(
	ctx context.Context,
	documentIDs []string,
	profile datevexport.ExportProfile,
	export datevexport.Export,
) (*Collection, error) {
	collection := &Collection{}

	if len(documentIDs) == 0 {
		return collection, nil
	}

	channels, err := c.salesChannels.DistinctSalesChannels(ctx, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("determine sales channels: %w", err)
	}

	if len(channels) > 1 {
		return nil, fmt.Errorf("%d sales channels in one chunk: %w", len(channels), ErrMultipleSalesChannels)
	}

	documents, err := c.documents.Load(ctx, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	sort.SliceStable(documents, func(i, j int) bool {
		left, right := documents[i].EffectiveDate(), documents[j].EffectiveDate()
		if !left.Equal(right) {
			return left.Before(right)
		}

		return documents[i].ID < documents[j].ID
	})

	for _, document := range documents {
		records, messages, err := c.processDocument(ctx, document, profile, export)
		if err != nil {
			return nil, err
		}

		collection.addRecords(records...)
		collection.addMessages(messages...)
	}

	return collection, nil
}

// processDocument builds all records of one document, or none plus messages.
func (c *Creator) processDocument(
	ctx context.Context,
	document *datevexport.Document,
	profile datevexport.ExportProfile,
	export datevexport.Export,
) ([]EntryBatchRecord, []message.Message, error) {
	if document.OrderVersionID == "" && document.Type != datevexport.DocumentTypePOSReceipt {
		return nil, []message.Message{message.MissingOrderVersion(document.Number)}, nil
	}

	req, messages, err := c.requests.Create(ctx, document)
	if err != nil {
		return nil, nil, err
	}

	if req.Empty() {
		return nil, messages, nil
	}

	if !c.taxInfo.OrderTaxValid(ctx, req.Context.Order) {
		messages = append(messages, message.InvalidTaxInformation(document.Number, req.Context.OrderNumber))

		return nil, messages, nil
	}

	if referenced := document.ReferencedDocument; referenced != nil && !c.taxInfo.DocumentTaxValid(ctx, referenced) {
		messages = append(messages, message.InvalidReferencedTaxInformation(document.Number, referenced.Number))

		return nil, messages, nil
	}

	if document.Date == nil {
		messages = append(messages, message.MissingDocumentDate(document.Number))
	}

	if delivery := req.Context.Order.PrimaryDelivery(); delivery == nil || delivery.ShippingAddress == nil {
		messages = append(messages, message.MissingShippingAddress(document.Number))
	}

	if document.ZUGFeRD {
		messages = append(messages, message.UnsupportedEInvoiceType(document.Number))
	}

	// A failing GUID service skips this document only; its neighbours in the
	// chunk are unaffected.
	receiptLink, err := c.receiptLinks.Link(ctx, document.ID, export.ID)
	if err != nil {
		c.logger.Log(ctx, log.LevelWarn, "receipt link could not be issued",
			log.String("documentId", document.ID),
			log.Err(err),
		)
		messages = append(messages, message.ReceiptLinkFailed(document.Number))

		return nil, messages, nil
	}

	var (
		records       []EntryBatchRecord
		debtorAccount *Account
		failed        bool
	)

	for _, item := range req.Items {
		revenue := c.accounts.ResolveRevenue(ctx, item.RevenueAccountKey, req.Context)
		messages = append(messages, revenue.Messages...)

		debtor := c.accounts.ResolveDebtor(ctx, item.DebtorAccountKey, req.Context)
		messages = append(messages, debtor.Messages...)

		taskNumber, taskMessages := c.taskNumbers.TaskNumber(ctx, document, item)
		messages = append(messages, taskMessages...)

		if !revenue.Resolved() {
			messages = append(messages, message.UnresolvedRevenueAccount(document.Number, item.RevenueAccountKey.TaxRate))
			failed = true
		}

		if !debtor.Resolved() {
			messages = append(messages, message.UnresolvedDebtorAccount(document.Number))
			failed = true
		}

		if failed {
			continue
		}

		debtorAccount = debtor.Account
		records = append(records, buildRecord(document, req, item, *revenue.Account, *debtor.Account, receiptLink, taskNumber, profile))
	}

	// One unresolvable item voids the whole document. The messages already
	// name every failed resolution.
	if failed {
		c.logger.Log(ctx, log.LevelWarn, "document voided by unresolved accounts",
			log.String("documentId", document.ID),
			log.String("documentNumber", document.Number),
		)

		return nil, messages, nil
	}

	if debtorAccount != nil {
		if err := c.bookkeeper.NoteAssignment(ctx, req.Context.Order.Customer, *debtorAccount); err != nil {
			messages = append(messages, message.DebtorBookkeepingFailed(document.Number, debtorAccount.Number))
		}
	}

	return records, messages, nil
}

// buildRecord derives the posting fields of one record.
func buildRecord(
	document *datevexport.Document,
	req request.Request,
	item request.Item,
	revenueAccount Account,
	debtorAccount Account,
	receiptLink string,
	taskNumber string,
	profile datevexport.ExportProfile,
) EntryBatchRecord {
	revenue := money.Round2(item.PriceItem.Price)
	debitCredit := debitCreditByType[document.Type]

	// DATEV revenues are unsigned; a negative amount flips the posting side.
	if revenue.IsNegative() {
		revenue = revenue.Neg()
		debitCredit = invertedDebitCredit[debitCredit]
	}

	record := EntryBatchRecord{
		Revenue:         revenue,
		DebitCredit:     debitCredit,
		Account:         debtorAccount.Number,
		ContraAccount:   revenueAccount.Number,
		DocumentDate:    document.EffectiveDate(),
		ReferenceNumber: referenceNumber(document, req, profile),
		PostingText:     postingText(document),
		ReceiptLink:     receiptLink,
		Fixation:        true,
		TaskNumber:      taskNumber,
	}

	if reference := invoiceReference(document); reference != "" {
		record.DocumentInfos = appendInfo(record.DocumentInfos, maxDocumentInfos, InfoPair{
			Type:    infoTypeInvoiceReference,
			Content: reference,
		})
	}

	record.AdditionalInfos = appendInfo(record.AdditionalInfos, maxAdditionalInfos, InfoPair{
		Type:    infoTypeOrderNumber,
		Content: req.Context.OrderNumber,
	})

	if costCenter := item.PriceItem.CostCenter; costCenter != nil && len(record.CostCenters) < maxCostCenters {
		record.CostCenters = append(record.CostCenters, *costCenter)
	}

	if IsEUDestination(req.Context.CountryISO) {
		record.EUCountryAndVatID = euCountryAndVatID(req.Context)
	}

	if IsIntraCommunityFromGermany(req.Context.CountryISO) {
		record.EUTaxRate = item.RevenueAccountKey.TaxRate
	}

	return record
}

// referenceNumber fills the record's reference field per profile.
func referenceNumber(document *datevexport.Document, req request.Request, profile datevexport.ExportProfile) string {
	if profile.EffectiveReferenceType() == datevexport.ReferenceTypeOrderNumber {
		return req.Context.OrderNumber
	}

	return document.Number
}

// postingText composes the German display name and the document number, e.g.
// "Stornorechnung RE-1001".
func postingText(document *datevexport.Document) string {
	return document.Type.DisplayName(message.LocaleGerman) + " " + document.Number
}

// invoiceReference returns the number of the invoice a storno or correction
// refers to, empty for all other documents.
func invoiceReference(document *datevexport.Document) string {
	switch document.Type {
	case datevexport.DocumentTypeStorno:
		if document.ReferencedDocument != nil {
			return document.ReferencedDocument.Number
		}
	case datevexport.DocumentTypeCorrection:
		return document.Config[datevexport.ConfigKeyReferencedDocumentNumber]
	}

	return ""
}

// euCountryAndVatID prefers the customer's first VAT id over the bare country
// code.
func euCountryAndVatID(calculationContext *request.CalculationContext) string {
	if len(calculationContext.VatIDs) > 0 {
		return calculationContext.VatIDs[0]
	}

	return calculationContext.CountryISO
}

func appendInfo(infos []InfoPair, capacity int, pair InfoPair) []InfoPair {
	if len(infos) >= capacity {
		return infos
	}

	return append(infos, pair)
}

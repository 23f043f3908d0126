package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/domain/trade"
	"github.com/erp/stockdesk/internal/infrastructure/persistence/models"
)

// documentStore holds the persistence steps shared by the quotation, order
// and invoice repositories. Items live in trade_line_items and are replaced
// wholesale on every save.
type documentStore struct {
	db      *gorm.DB
	docType trade.DocumentType
}

// save writes header and items in one transaction. The header update is
// guarded by the version loaded with the aggregate; when no row matches,
// the document is inserted if absent and reported as a conflict otherwise.
// It returns true when an existing row was updated.
func (s documentStore) save(ctx context.Context, header any, agg *models.AggregateModel, items []trade.LineItem) (bool, error) {
	updated := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded := agg.Version
		agg.Version = loaded + 1
		result := tx.Model(header).
			Where("version = ?", loaded).
			Select("*").
			Omit("created_at").
			Updates(header)
		if result.Error != nil {
			return translateWriteError(result.Error)
		}

		if result.RowsAffected == 0 {
			agg.Version = loaded
			var existing int64
			if err := tx.Model(header).Where("id = ?", agg.ID).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return shared.ErrConcurrencyConflict
			}
			if err := tx.Create(header).Error; err != nil {
				return translateWriteError(err)
			}
		} else {
			updated = true
		}

		if err := tx.Where("document_type = ? AND document_id = ?", string(s.docType), agg.ID).
			Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		rows := models.LineItemModelsFromDomain(s.docType, agg.ID, items)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	return updated, err
}

// items loads the line items of the given documents, grouped by document id.
func (s documentStore) items(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID][]models.LineItemModel, error) {
	grouped := make(map[uuid.UUID][]models.LineItemModel, len(ids))
	if len(ids) == 0 {
		return grouped, nil
	}
	var rows []models.LineItemModel
	if err := s.db.WithContext(ctx).
		Where("document_type = ? AND document_id IN ?", string(s.docType), ids).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		grouped[row.DocumentID] = append(grouped[row.DocumentID], row)
	}
	return grouped, nil
}

// first loads a header row by id into dest
func (s documentStore) first(ctx context.Context, dest any, id uuid.UUID) error {
	if err := s.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

// list loads header rows matching the filter into dest
func (s documentStore) list(ctx context.Context, model, dest any, filter shared.Filter) error {
	query := applyDocumentFilter(s.db.WithContext(ctx).Model(model), filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Find(dest).Error
}

func (s documentStore) count(ctx context.Context, model any, filter shared.Filter) (int64, error) {
	var count int64
	err := applyDocumentFilter(s.db.WithContext(ctx).Model(model), filter).Count(&count).Error
	return count, err
}

func (s documentStore) existsByNumber(ctx context.Context, model any, number string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).
		Where("number = ?", strings.TrimSpace(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyDocumentFilter supports search on number and customer name plus the
// "status" and "customer_id" filter keys.
func applyDocumentFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(number) LIKE ? OR LOWER(customer_name) LIKE ?)", pattern, pattern)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"].(uuid.UUID); ok && customerID != uuid.Nil {
		query = query.Where("customer_id = ?", customerID)
	}
	return query
}

// GormQuotationRepository implements trade.QuotationRepository
type GormQuotationRepository struct {
	store documentStore
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{store: documentStore{db: db, docType: trade.DocumentQuotation}}
}

// FindByID finds a quotation with its items
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Quotation, error) {
	var model models.QuotationModel
	if err := r.store.first(ctx, &model, id); err != nil {
		return nil, err
	}
	items, err := r.store.items(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(items[id]), nil
}

// FindAll finds quotations matching the filter
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Quotation, error) {
	var rows []models.QuotationModel
	if err := r.store.list(ctx, &models.QuotationModel{}, &rows, filter); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	items, err := r.store.items(ctx, ids...)
	if err != nil {
		return nil, err
	}
	result := make([]trade.Quotation, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain(items[rows[i].ID])
	}
	return result, nil
}

// Count counts quotations matching the filter
func (r *GormQuotationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.store.count(ctx, &models.QuotationModel{}, filter)
}

// Save creates or updates a quotation and replaces its items
func (r *GormQuotationRepository) Save(ctx context.Context, q *trade.Quotation) error {
	model := models.QuotationModelFromDomain(q)
	updated, err := r.store.save(ctx, model, &model.AggregateModel, q.Items)
	if err != nil {
		return err
	}
	if updated {
		q.IncrementVersion()
	}
	return nil
}

// ExistsByNumber checks if a quotation number is taken
func (r *GormQuotationRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return r.store.existsByNumber(ctx, &models.QuotationModel{}, number)
}

// GormSalesOrderRepository implements trade.SalesOrderRepository
type GormSalesOrderRepository struct {
	store documentStore
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{store: documentStore{db: db, docType: trade.DocumentSalesOrder}}
}

// FindByID finds a sales order with its items
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := r.store.first(ctx, &model, id); err != nil {
		return nil, err
	}
	items, err := r.store.items(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(items[id]), nil
}

// FindAll finds sales orders matching the filter
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	var rows []models.SalesOrderModel
	if err := r.store.list(ctx, &models.SalesOrderModel{}, &rows, filter); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	items, err := r.store.items(ctx, ids...)
	if err != nil {
		return nil, err
	}
	result := make([]trade.SalesOrder, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain(items[rows[i].ID])
	}
	return result, nil
}

// Count counts sales orders matching the filter
func (r *GormSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.store.count(ctx, &models.SalesOrderModel{}, filter)
}

// Save creates or updates a sales order and replaces its items
func (r *GormSalesOrderRepository) Save(ctx context.Context, o *trade.SalesOrder) error {
	model := models.SalesOrderModelFromDomain(o)
	updated, err := r.store.save(ctx, model, &model.AggregateModel, o.Items)
	if err != nil {
		return err
	}
	if updated {
		o.IncrementVersion()
	}
	return nil
}

// ExistsByNumber checks if an order number is taken
func (r *GormSalesOrderRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return r.store.existsByNumber(ctx, &models.SalesOrderModel{}, number)
}

// GormInvoiceRepository implements trade.InvoiceRepository
type GormInvoiceRepository struct {
	store documentStore
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{store: documentStore{db: db, docType: trade.DocumentInvoice}}
}

// FindByID finds an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Invoice, error) {
	var model models.InvoiceModel
	if err := r.store.first(ctx, &model, id); err != nil {
		return nil, err
	}
	items, err := r.store.items(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(items[id]), nil
}

// FindAll finds invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.store.list(ctx, &models.InvoiceModel{}, &rows, filter); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	items, err := r.store.items(ctx, ids...)
	if err != nil {
		return nil, err
	}
	result := make([]trade.Invoice, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain(items[rows[i].ID])
	}
	return result, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.store.count(ctx, &models.InvoiceModel{}, filter)
}

// Save creates or updates an invoice and replaces its items
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *trade.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	updated, err := r.store.save(ctx, model, &model.AggregateModel, inv.Items)
	if err != nil {
		return err
	}
	if updated {
		inv.IncrementVersion()
	}
	return nil
}

// ExistsByNumber checks if an invoice number is taken
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return r.store.existsByNumber(ctx, &models.InvoiceModel{}, number)
}

var (
	_ trade.QuotationRepository  = (*GormQuotationRepository)(nil)
	_ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
	_ trade.InvoiceRepository    = (*GormInvoiceRepository)(nil)
)

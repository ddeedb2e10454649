package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	"github.com/finance-tracker/card-invoices/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	txnModel := model.TransactionFromEntity(transaction)
	result := conn(ctx, r.db).Create(txnModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a transaction by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txnModel model.TransactionModel
	result := conn(ctx, r.db).Where("id = ?", id).First(&txnModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return txnModel.ToEntity(), nil
}

// FindByFilter retrieves transactions matching the filter, oldest first.
func (r *transactionRepository) FindByFilter(ctx context.Context, filter adapter.TransactionFilter) ([]*entity.Transaction, error) {
	query := conn(ctx, r.db).
		Model(&model.TransactionModel{}).
		Where("owner_id = ?", filter.OwnerID)

	if filter.CardID != nil {
		query = query.Where("card_id = ?", *filter.CardID)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", filter.EndDate.UTC())
	}

	var txnModels []model.TransactionModel
	result := query.
		Order("date ASC").
		Order("created_at ASC").
		Find(&txnModels)
	if result.Error != nil {
		return nil, result.Error
	}

	return toTransactionEntities(txnModels), nil
}

// FindByCard retrieves every transaction recorded against a card.
func (r *transactionRepository) FindByCard(ctx context.Context, cardID uuid.UUID) ([]*entity.Transaction, error) {
	var txnModels []model.TransactionModel
	result := conn(ctx, r.db).
		Where("card_id = ?", cardID).
		Order("date ASC").
		Order("created_at ASC").
		Find(&txnModels)
	if result.Error != nil {
		return nil, result.Error
	}

	return toTransactionEntities(txnModels), nil
}

// Update updates an existing transaction in the database.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	transaction.UpdatedAt = time.Now().UTC()
	txnModel := model.TransactionFromEntity(transaction)
	result := conn(ctx, r.db).Save(txnModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete removes a transaction from the database (soft delete).
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&model.TransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// DeleteByCard soft-deletes all transactions of a card.
func (r *transactionRepository) DeleteByCard(ctx context.Context, cardID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Delete(&model.TransactionModel{}, "card_id = ?", cardID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func toTransactionEntities(models []model.TransactionModel) []*entity.Transaction {
	transactions := make([]*entity.Transaction, len(models))
	for i := range models {
		transactions[i] = models[i].ToEntity()
	}
	return transactions
}

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

// cardRepository implements the adapter.CardRepository interface.
type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new card repository instance.
func NewCardRepository(db *gorm.DB) adapter.CardRepository {
	return &cardRepository{
		db: db,
	}
}

// Create creates a new card in the database.
func (r *cardRepository) Create(ctx context.Context, card *entity.Card) error {
	cardModel := model.CardFromEntity(card)
	result := conn(ctx, r.db).Create(cardModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a card by its ID.
func (r *cardRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	var cardModel model.CardModel
	result := conn(ctx, r.db).Where("id = ?", id).First(&cardModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCardNotFound
		}
		return nil, result.Error
	}
	return cardModel.ToEntity(), nil
}

// FindByOwner retrieves all cards owned by the given user.
func (r *cardRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Card, error) {
	var cardModels []model.CardModel
	result := conn(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&cardModels)
	if result.Error != nil {
		return nil, result.Error
	}

	cards := make([]*entity.Card, len(cardModels))
	for i := range cardModels {
		cards[i] = cardModels[i].ToEntity()
	}
	return cards, nil
}

// Update updates the mutable configuration of a card. Paid cycles are left untouched.
func (r *cardRepository) Update(ctx context.Context, card *entity.Card) error {
	card.UpdatedAt = time.Now().UTC()
	result := conn(ctx, r.db).
		Model(&model.CardModel{}).
		Where("id = ?", card.ID).
		Select("name", "type", "billing_anchor_day", "updated_at").
		Updates(model.CardFromEntity(card))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrCardNotFound
	}
	return nil
}

// UpdatePaidCycles replaces the persisted paid-cycle set of a card.
func (r *cardRepository) UpdatePaidCycles(ctx context.Context, id uuid.UUID, paid entity.PaidCycles) error {
	result := conn(ctx, r.db).
		Model(&model.CardModel{}).
		Where("id = ?", id).
		Select("paid_cycles", "updated_at").
		Updates(&model.CardModel{
			PaidCycles: model.PaidCyclesToStrings(paid),
			UpdatedAt:  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrCardNotFound
	}
	return nil
}

// Delete removes a card from the database (soft delete).
func (r *cardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&model.CardModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrCardNotFound
	}
	return nil
}

// WithinTransaction runs fn inside a database transaction.
func (r *cardRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}

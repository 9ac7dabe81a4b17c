package productrepo

import (
	"context"
	"errors"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const releaseSavePoint = "stock_release"

// GormProductRepository implements ProductRepository using GORM. Stock is only
// ever changed by single conditional UPDATE statements so concurrent
// reservations can never oversell.
type GormProductRepository struct {
	db   *gorm.DB
	inTx bool
}

// NewGormProductRepository creates the repository. inTx tells it that db is a
// transaction, which lets Release protect the transaction with a savepoint.
func NewGormProductRepository(db *gorm.DB, inTx bool) *GormProductRepository {
	return &GormProductRepository{db: db, inTx: inTx}
}

func (r *GormProductRepository) Add(ctx context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("product", p.ID().String(), err)
		}
		return err
	}
	return nil
}

func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Reserve decrements stock with a guarded UPDATE. When no row matches, the
// current row is read to tell the caller why.
func (r *GormProductRepository) Reserve(ctx context.Context, id kernel.UUID, quantity int) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := product.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	var updated []ProductDTO
	result := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("id = ? AND active AND available AND stock_quantity >= ?", id.Bytes(), quantity).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"order_count":    gorm.Expr("order_count + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 || len(updated) == 0 {
		return nil, r.refusal(ctx, id, quantity)
	}

	return toDomain(updated[0])
}

func (r *GormProductRepository) refusal(ctx context.Context, id kernel.UUID, quantity int) error {
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = current.Reserve(quantity); err != nil {
		return err
	}
	// The row changed between the UPDATE and the read.
	return errs.NewInsufficientStockError(id.String(), quantity, current.StockQuantity()+quantity)
}

// Release adds quantity back to stock. Inside a transaction the statement runs
// under a savepoint so a failure leaves the transaction usable.
func (r *GormProductRepository) Release(ctx context.Context, id kernel.UUID, quantity int) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := product.ValidateQuantity(quantity); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if r.inTx {
		if err := db.SavePoint(releaseSavePoint).Error; err != nil {
			return err
		}
	}

	result := db.Model(&ProductDTO{}).
		Where("id = ?", id.Bytes()).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))

	err := result.Error
	if err == nil && result.RowsAffected == 0 {
		err = errs.NewObjectNotFoundError("product", id.String())
	}

	if err != nil && r.inTx {
		if rbErr := db.RollbackTo(releaseSavePoint).Error; rbErr != nil {
			return errors.Join(err, rbErr)
		}
	}
	return err
}

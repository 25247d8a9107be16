package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"acquisition_desk/internal/domain"
	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/value"
	"acquisition_desk/pkg/errcodes"
)

const pgUniqueViolation = "23505"

const vehicleColumns = `
	id, stock_number, vin, year, make, model, odometer, store_code, channel,
	buyer_name, purchase_date, customer_name, initial_notes,
	purchase_price, planned_retail, est_recon_cost, mmr_value, kbb_wholesale,
	projected_gross, market_variance, recon_percentage, hq_appraisal_suggested,
	red_flag_status, current_status, date_logged, status_date, created_at`

type VehicleRepository struct {
	db *sqlx.DB
}

func NewVehicleRepository(db *sqlx.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create inserts the vehicle and fills its ID and CreatedAt. A stock number
// that is already taken yields an AllocationConflict error.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *entity.Vehicle) error {
	query := `
		INSERT INTO vehicles (
			stock_number, vin, year, make, model, odometer, store_code, channel,
			buyer_name, purchase_date, customer_name, initial_notes,
			purchase_price, planned_retail, est_recon_cost, mmr_value, kbb_wholesale,
			projected_gross, market_variance, recon_percentage, hq_appraisal_suggested,
			red_flag_status, current_status, date_logged, status_date
		) VALUES (
			:stock_number, :vin, :year, :make, :model, :odometer, :store_code, :channel,
			:buyer_name, :purchase_date, :customer_name, :initial_notes,
			:purchase_price, :planned_retail, :est_recon_cost, :mmr_value, :kbb_wholesale,
			:projected_gross, :market_variance, :recon_percentage, :hq_appraisal_suggested,
			:red_flag_status, :current_status, :date_logged, :status_date
		)
		RETURNING id, created_at`

	rows, err := r.db.NamedQueryContext(ctx, query, fromVehicle(vehicle))
	if err != nil {
		return writeError(err, "failed to create vehicle")
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&vehicle.ID, &vehicle.CreatedAt); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to scan vehicle id")
		}
	}

	if err := rows.Err(); err != nil {
		return writeError(err, "failed to create vehicle")
	}

	return nil
}

// StockNumbersWithPrefix returns every stock number starting with prefix.
func (r *VehicleRepository) StockNumbersWithPrefix(ctx context.Context, prefix string) ([]value.StockNumber, error) {
	query := `SELECT stock_number FROM vehicles WHERE left(stock_number, length($1)) = $1`

	var numbers []string
	if err := r.db.SelectContext(ctx, &numbers, query, prefix); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load stock numbers")
	}

	result := make([]value.StockNumber, 0, len(numbers))
	for _, n := range numbers {
		result = append(result, value.StockNumber(n))
	}

	return result, nil
}

func (r *VehicleRepository) GetByStockNumber(ctx context.Context, stockNumber value.StockNumber) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE stock_number = $1`

	var schema vehicleSchema
	if err := r.db.GetContext(ctx, &schema, query, stockNumber.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.VehicleNotFound, "vehicle not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get vehicle")
	}

	return schema.toDomain(), nil
}

// List returns vehicles in submission order.
func (r *VehicleRepository) List(ctx context.Context, limit, offset int) ([]entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY id ASC LIMIT $1 OFFSET $2`

	var schemas []vehicleSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list vehicles")
	}

	result := make([]entity.Vehicle, 0, len(schemas))
	for i := range schemas {
		result = append(result, *schemas[i].toDomain())
	}

	return result, nil
}

func (r *VehicleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM vehicles`); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count vehicles")
	}

	return count, nil
}

// UpdateEvaluations replaces the stored evaluation of each vehicle in one
// transaction.
func (r *VehicleRepository) UpdateEvaluations(ctx context.Context, vehicles []entity.Vehicle) error {
	query := `
		UPDATE vehicles SET
			projected_gross = :projected_gross,
			market_variance = :market_variance,
			recon_percentage = :recon_percentage,
			hq_appraisal_suggested = :hq_appraisal_suggested,
			red_flag_status = :red_flag_status
		WHERE stock_number = :stock_number`

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		for i := range vehicles {
			res, err := tx.NamedExecContext(ctx, query, fromVehicle(&vehicles[i]))
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to update evaluation")
			}

			rows, err := res.RowsAffected()
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to check rows")
			}

			if rows == 0 {
				return domain.NewError(errcodes.VehicleNotFound, "vehicle not found: "+vehicles[i].StockNumber.String())
			}
		}

		return nil
	})
}

func writeError(err error, message string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.WrapError(err, errcodes.AllocationConflict, "stock number already allocated")
	}

	return domain.WrapError(err, errcodes.InternalServerError, message)
}

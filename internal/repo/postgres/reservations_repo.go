package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/materes/reservations/internal/domain"
)

type ReservationRepo interface {
	Create(ctx context.Context, in *domain.NewReservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListAll(ctx context.Context) ([]domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Reservation, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type ReservationRepoImpl struct{ pool *pgxpool.Pool }

func NewReservationRepo(pool *pgxpool.Pool) *ReservationRepoImpl {
	return &ReservationRepoImpl{pool: pool}
}

const reservationCols = `id, name, phone, email,
date, time, guests, status,
dietary_restrictions, special_request, created_at`

func (r *ReservationRepoImpl) Create(ctx context.Context, in *domain.NewReservation) (*domain.Reservation, error) {
	const q = `INSERT INTO reservations (
    name, phone, email,
    date, time, guests, status,
    dietary_restrictions, special_request, created_at
  ) VALUES ($1,$2,$3,$4,$5,$6,'Pending',$7,$8,now())
  RETURNING ` + reservationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var res domain.Reservation
	err := r.pool.QueryRow(ctx, q,
		in.Name, in.Phone, in.Email,
		in.Date, in.Time, in.Guests,
		in.DietaryRestrictions, in.SpecialRequest,
	).Scan(
		&res.ID, &res.Name, &res.Phone, &res.Email,
		&res.Date, &res.Time, &res.Guests, &res.Status,
		&res.DietaryRestrictions, &res.SpecialRequest, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var res domain.Reservation
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&res.ID, &res.Name, &res.Phone, &res.Email,
		&res.Date, &res.Time, &res.Guests, &res.Status,
		&res.DietaryRestrictions, &res.SpecialRequest, &res.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &res, err
}

func (r *ReservationRepoImpl) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations ORDER BY id DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID, &res.Name, &res.Phone, &res.Email,
			&res.Date, &res.Time, &res.Guests, &res.Status,
			&res.DietaryRestrictions, &res.SpecialRequest, &res.CreatedAt,
		); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *ReservationRepoImpl) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Reservation, error) {
	const q = `UPDATE reservations SET status=$2 WHERE id=$1 RETURNING ` + reservationCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var res domain.Reservation
	err := r.pool.QueryRow(ctx, q, id, status).Scan(
		&res.ID, &res.Name, &res.Phone, &res.Email,
		&res.Date, &res.Time, &res.Guests, &res.Status,
		&res.DietaryRestrictions, &res.SpecialRequest, &res.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &res, err
}

func (r *ReservationRepoImpl) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM reservations WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

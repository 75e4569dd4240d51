package storage

import (
	"context"
	"time"

	apperrors "github.com/darkkaiser/price-hunter-server/pkg/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore PostgreSQL 기반의 Store 구현체입니다.
//
// 커넥션 풀에서 오퍼레이션마다 짧게 커넥션을 빌려 사용하며,
// 각 INSERT는 독립적인 커밋입니다. (논리적으로 연관된 쓰기들을 묶는 트랜잭션은 사용하지 않음)
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore DSN으로 커넥션 풀을 생성하고 연결을 검증한 뒤 저장소를 반환합니다.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "데이터베이스 커넥션 풀 생성에 실패했습니다")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "데이터베이스 연결 확인(ping)에 실패했습니다")
	}

	store := &PostgresStore{pool: pool}
	if err := store.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

// Close 커넥션 풀을 닫습니다.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// createTables 저장소가 사용하는 테이블이 없으면 생성합니다.
func (s *PostgresStore) createTables(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS price_observations (
			id          BIGSERIAL PRIMARY KEY,
			asin        VARCHAR(10)    NOT NULL,
			market      VARCHAR(8)     NOT NULL,
			amount      NUMERIC(12, 2) NOT NULL,
			currency    VARCHAR(3)     NOT NULL,
			captured_at TIMESTAMPTZ    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_price_observations_asin_captured_at
			ON price_observations (asin, captured_at DESC);

		CREATE TABLE IF NOT EXISTS watch_requests (
			id            UUID PRIMARY KEY,
			asin          VARCHAR(10)    NOT NULL,
			market        VARCHAR(8)     NOT NULL,
			target_amount NUMERIC(12, 2) NOT NULL,
			contact       TEXT           NOT NULL,
			created_at    TIMESTAMPTZ    NOT NULL
		);`

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return apperrors.Wrap(err, apperrors.ErrSystem, "저장소 테이블 생성에 실패했습니다")
	}
	return nil
}

// AppendObservation 가격 관측 레코드를 추가합니다.
func (s *PostgresStore) AppendObservation(ctx context.Context, observation PriceObservation) error {
	const query = `
		INSERT INTO price_observations (asin, market, amount, currency, captured_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query,
		observation.ASIN, observation.Market, observation.Amount, observation.Currency, observation.CapturedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrStorageFailed, "가격 관측 레코드 저장에 실패했습니다")
	}
	return nil
}

// ObservationsSince 지정된 식별자의 관측 레코드를 since 이후 범위로 조회합니다.
func (s *PostgresStore) ObservationsSince(ctx context.Context, asin string, since time.Time) ([]PriceObservation, error) {
	const query = `
		SELECT asin, market, amount, currency, captured_at
		FROM price_observations
		WHERE asin = $1 AND captured_at >= $2
		ORDER BY captured_at DESC`

	rows, err := s.pool.Query(ctx, query, asin, since)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStorageFailed, "가격 관측 레코드 조회에 실패했습니다")
	}
	defer rows.Close()

	var observations []PriceObservation
	for rows.Next() {
		var observation PriceObservation
		if err := rows.Scan(&observation.ASIN, &observation.Market, &observation.Amount, &observation.Currency, &observation.CapturedAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrStorageFailed, "가격 관측 레코드 스캔에 실패했습니다")
		}
		observations = append(observations, observation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStorageFailed, "가격 관측 레코드 순회 중 에러가 발생했습니다")
	}

	return observations, nil
}

// AppendWatchRequest 감시 요청을 추가합니다.
func (s *PostgresStore) AppendWatchRequest(ctx context.Context, watchRequest WatchRequest) error {
	const query = `
		INSERT INTO watch_requests (id, asin, market, target_amount, contact, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		watchRequest.ID, watchRequest.ASIN, watchRequest.Market, watchRequest.TargetAmount, watchRequest.Contact, watchRequest.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrStorageFailed, "감시 요청 저장에 실패했습니다")
	}
	return nil
}

// WatchRequests 등록된 모든 감시 요청을 등록 순서대로 반환합니다.
func (s *PostgresStore) WatchRequests(ctx context.Context) ([]WatchRequest, error) {
	const query = `
		SELECT id, asin, market, target_amount, contact, created_at
		FROM watch_requests
		ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStorageFailed, "감시 요청 조회에 실패했습니다")
	}
	defer rows.Close()

	var watchRequests []WatchRequest
	for rows.Next() {
		var watchRequest WatchRequest
		if err := rows.Scan(&watchRequest.ID, &watchRequest.ASIN, &watchRequest.Market, &watchRequest.TargetAmount, &watchRequest.Contact, &watchRequest.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrStorageFailed, "감시 요청 스캔에 실패했습니다")
		}
		watchRequests = append(watchRequests, watchRequest)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStorageFailed, "감시 요청 순회 중 에러가 발생했습니다")
	}

	return watchRequests, nil
}

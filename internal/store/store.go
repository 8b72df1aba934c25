package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"amp-monitor-backend/internal/model"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	CreateProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]ProductSummary, error)

	CreateReading(ctx context.Context, reading *model.Reading) error
	ListReadings(ctx context.Context, filter ReadingFilter, limit, page int) ([]model.Reading, Pagination, error)
	RecentReadings(ctx context.Context, username string, since time.Time, limit int) ([]ReadingSummary, error)

	UserStats(ctx context.Context, username string) (UserStats, error)
	GroupUsers(ctx context.Context, filter ReadingFilter, limit, page int) ([]UserGroup, Pagination, error)
	Statistics(ctx context.Context, filter ReadingFilter) (Statistics, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) CreateProduct(ctx context.Context, product *model.Product) error {
	if product.ID == "" {
		product.ID = model.NewID()
	}
	if product.Sensors == nil {
		product.Sensors = []string{}
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *gormStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return &product, nil
}

// ListProducts returns all products with their derived reading counts. The
// reading relation is computed here, never persisted on the product row.
func (s *gormStore) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	var products []model.Product
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	type aggRow struct {
		ProductID     string
		TotalReadings int64
	}
	var aggs []aggRow
	if err := s.db.WithContext(ctx).
		Model(&model.Reading{}).
		Select("product_id AS product_id, COUNT(*) AS total_readings").
		Group("product_id").
		Scan(&aggs).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate readings per product: %w", err)
	}

	aggMap := make(map[string]int64, len(aggs))
	for _, a := range aggs {
		aggMap[a.ProductID] = a.TotalReadings
	}

	summaries := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, ProductSummary{
			Product:       p,
			TotalReadings: aggMap[p.ID],
		})
	}
	return summaries, nil
}

func (s *gormStore) CreateReading(ctx context.Context, reading *model.Reading) error {
	if reading.ID == "" {
		reading.ID = model.NewID()
	}
	if err := s.db.WithContext(ctx).Create(reading).Error; err != nil {
		return fmt.Errorf("failed to create reading: %w", err)
	}
	return nil
}

// ListReadings returns one page of the filtered reading set, newest first.
func (s *gormStore) ListReadings(ctx context.Context, filter ReadingFilter, limit, page int) ([]model.Reading, Pagination, error) {
	var total int64
	if err := s.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to count readings: %w", err)
	}

	readings := []model.Reading{}
	if err := s.filtered(ctx, filter).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&readings).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list readings: %w", err)
	}

	return readings, paginate(page, limit, total), nil
}

// RecentReadings returns the newest readings for a user at or after since,
// capped and projected to the compact summary form.
func (s *gormStore) RecentReadings(ctx context.Context, username string, since time.Time, limit int) ([]ReadingSummary, error) {
	var readings []model.Reading
	if err := s.db.WithContext(ctx).
		Where("username = ? AND created_at >= ?", username, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent readings: %w", err)
	}

	summaries := make([]ReadingSummary, 0, len(readings))
	for _, r := range readings {
		summaries = append(summaries, ReadingSummary{
			ID:        r.ID,
			Timestamp: r.CreatedAt,
			Amper:     Round2(r.Amper),
		})
	}
	return summaries, nil
}

// UserStats counts a user's readings and the share at or above 1.0 ampere.
func (s *gormStore) UserStats(ctx context.Context, username string) (UserStats, error) {
	var row struct {
		Total int64
		High  int64
	}
	if err := s.db.WithContext(ctx).
		Model(&model.Reading{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN amper >= 1.0 THEN 1 ELSE 0 END), 0) AS high").
		Where("username = ?", username).
		Scan(&row).Error; err != nil {
		return UserStats{}, fmt.Errorf("failed to compute user stats: %w", err)
	}

	stats := UserStats{
		TotalReadings: row.Total,
		HighAmpCount:  row.High,
		LowAmpCount:   row.Total - row.High,
	}
	if row.Total > 0 {
		stats.Percentage = int(math.Round(100 * float64(row.High) / float64(row.Total)))
	}
	return stats, nil
}

// GroupUsers partitions the filtered reading set by username, ordered by
// username, one page at a time. Each group carries its count, mean amperage,
// and the newest reading within the same filter.
func (s *gormStore) GroupUsers(ctx context.Context, filter ReadingFilter, limit, page int) ([]UserGroup, Pagination, error) {
	var total int64
	if err := s.filtered(ctx, filter).Distinct("username").Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to count user groups: %w", err)
	}

	type aggRow struct {
		Username      string
		TotalReadings int64
		AverageAmper  float64
	}
	var rows []aggRow
	if err := s.filtered(ctx, filter).
		Select("username, COUNT(*) AS total_readings, AVG(amper) AS average_amper").
		Group("username").
		Order("username ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&rows).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to group readings by user: %w", err)
	}

	groups := make([]UserGroup, 0, len(rows))
	for _, row := range rows {
		var latest model.Reading
		err := s.filtered(ctx, filter).
			Where("username = ?", row.Username).
			Order("created_at DESC").
			First(&latest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Pagination{}, fmt.Errorf("failed to fetch latest reading for %s: %w", row.Username, err)
		}

		group := UserGroup{
			Username:      row.Username,
			TotalReadings: row.TotalReadings,
			AverageAmper:  Round2(row.AverageAmper),
		}
		if err == nil {
			group.LatestReading = &ReadingSummary{
				ID:        latest.ID,
				Timestamp: latest.CreatedAt,
				Amper:     Round2(latest.Amper),
			}
		}
		groups = append(groups, group)
	}

	return groups, paginate(page, limit, total), nil
}

// Statistics computes min/max/avg amperage over the filtered set plus the
// four band counts, expressed as conditional sums in a single scan.
func (s *gormStore) Statistics(ctx context.Context, filter ReadingFilter) (Statistics, error) {
	var row struct {
		TotalReadings int64
		MinAmper      float64
		MaxAmper      float64
		AvgAmper      float64
		OffCount      int64
		LowCount      int64
		MidCount      int64
		HighCount     int64
	}
	if err := s.filtered(ctx, filter).
		Select(`COUNT(*) AS total_readings,
			COALESCE(MIN(amper), 0) AS min_amper,
			COALESCE(MAX(amper), 0) AS max_amper,
			COALESCE(AVG(amper), 0) AS avg_amper,
			COALESCE(SUM(CASE WHEN amper = 0 THEN 1 ELSE 0 END), 0) AS off_count,
			COALESCE(SUM(CASE WHEN amper > 0 AND amper < 0.5 THEN 1 ELSE 0 END), 0) AS low_count,
			COALESCE(SUM(CASE WHEN amper >= 0.5 AND amper < 1.0 THEN 1 ELSE 0 END), 0) AS mid_count,
			COALESCE(SUM(CASE WHEN amper >= 1.0 THEN 1 ELSE 0 END), 0) AS high_count`).
		Scan(&row).Error; err != nil {
		return Statistics{}, fmt.Errorf("failed to compute statistics: %w", err)
	}

	return Statistics{
		TotalReadings: row.TotalReadings,
		MinAmper:      Round2(row.MinAmper),
		MaxAmper:      Round2(row.MaxAmper),
		AvgAmper:      Round2(row.AvgAmper),
		Categories: BandCounts{
			Off:  row.OffCount,
			Low:  row.LowCount,
			Mid:  row.MidCount,
			High: row.HighCount,
		},
	}, nil
}

// filtered builds a fresh reading query with the filter's where clauses.
func (s *gormStore) filtered(ctx context.Context, f ReadingFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Reading{})
	if f.ProductID != "" {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.Username != "" {
		q = q.Where("username = ?", f.Username)
	}
	if f.Sensor != "" {
		q = q.Where("sensor = ?", f.Sensor)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	return q
}

func paginate(page, limit int, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.Pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return p
}

// Round2 rounds to two decimal places, ties away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

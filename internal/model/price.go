package model

import (
	"context"
	"fmt"
	"time"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/pkg/db"
	"github.com/thep200/asset-price-crawler/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Price là một quan sát giá đã chuẩn hóa và enrich, sẵn sàng để persist.
// Ràng buộc cốt lõi: tối đa một bản ghi cho mỗi cặp (date, asset_code).
type Price struct {
	Model
	Date      string  `json:"date" gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_date_asset"`
	AssetCode string  `json:"asset_code" gorm:"column:asset_code;type:varchar(32);not null;uniqueIndex:idx_date_asset"`
	Price     float64 `json:"price" gorm:"column:price;not null"`
	AssetName string  `json:"asset_name" gorm:"column:asset_name;type:varchar(255)"`
	AssetType string  `json:"asset_type" gorm:"column:asset_type;type:varchar(16)"`
	Currency  string  `json:"currency" gorm:"column:currency;type:varchar(8)"`
	Source    string  `json:"source" gorm:"column:source;type:varchar(64)"`
	CrawlTime string  `json:"crawl_time" gorm:"column:crawl_time;type:varchar(40)"`
}

func NewPrice(config *cfg.Config, logger log.Logger, mysql *db.Mysql) (*Price, error) {
	price := &Price{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  mysql,
		},
	}
	return price, nil
}

func (p *Price) TableName() string {
	return "daily_prices"
}

// Key trả về khóa dedup (date, asset_code) dạng chuỗi
func (p *Price) Key() string {
	return p.Date + "|" + p.AssetCode
}

// CreateBatch chèn các bản ghi giá, bỏ qua bản ghi đã tồn tại theo (date, asset_code).
// Trả về số bản ghi thực sự được ghi mới.
func (p *Price) CreateBatch(records []Price) (int, error) {
	ctx := context.Background()
	db, err := p.Mysql.Db()
	if err != nil {
		return 0, fmt.Errorf("failed to get database connection: %w", err)
	}

	now := time.Now()
	for i := range records {
		records[i].CreatedAt = now
		records[i].UpdatedAt = now
	}

	var inserted int64
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "asset_code"}},
			DoNothing: true,
		}).CreateInBatches(records, 100)

		if result.Error != nil {
			return fmt.Errorf("failed to batch create prices: %w", result.Error)
		}

		inserted = result.RowsAffected
		return nil
	})
	if err != nil {
		p.Logger.Error(ctx, "Không thể ghi batch giá: %v", err)
		return 0, err
	}

	return int(inserted), nil
}

package sink

import (
	"fmt"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/pkg/db"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

// MysqlSink lưu giá vào MySQL qua gorm, dedup bằng unique index (date, asset_code)
// cùng ON CONFLICT DO NOTHING nên an toàn cả khi nhiều run nối tiếp nhau
type MysqlSink struct {
	Logger  log.Logger
	Config  *cfg.Config
	Mysql   *db.Mysql
	priceMd *model.Price
}

func NewMysqlSink(config *cfg.Config, logger log.Logger, mysql *db.Mysql) (*MysqlSink, error) {
	priceMd, err := model.NewPrice(config, logger, mysql)
	if err != nil {
		return nil, fmt.Errorf("failed to create price model: %w", err)
	}
	return &MysqlSink{
		Logger:  logger,
		Config:  config,
		Mysql:   mysql,
		priceMd: priceMd,
	}, nil
}

func (s *MysqlSink) LoadExistingKeys() (map[string]bool, error) {
	gdb, err := s.Mysql.Db()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	var rows []struct {
		Date      string
		AssetCode string
	}
	if err := gdb.Model(&model.Price{}).Select("date", "asset_code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load existing keys: %w", err)
	}

	keys := make(map[string]bool, len(rows))
	for _, r := range rows {
		keys[Key(r.Date, r.AssetCode)] = true
	}
	return keys, nil
}

func (s *MysqlSink) Append(records []model.Price) (int, error) {
	return s.priceMd.CreateBatch(records)
}

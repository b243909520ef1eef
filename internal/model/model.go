package model

import (
	"time"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/pkg/db"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

type Model struct {
	Config    *cfg.Config `gorm:"-"`
	Logger    log.Logger  `gorm:"-"`
	Mysql     *db.Mysql   `gorm:"-"`
	ID        uint        `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

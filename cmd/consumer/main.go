// Consumer đọc các batch giá đã publish lên Kafka và ghi xuống MySQL.
// Dedup vẫn do unique index (date, asset_code) đảm nhiệm nên consumer
// xử lý lại message cũ cũng không tạo bản ghi trùng.

package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/pkg/db"
	"github.com/thep200/asset-price-crawler/pkg/kafka"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, _ := log.NewCslLogger()

	viperLoader, _ := cfg.NewViperLoader()
	loader, _ := cfg.NewLoader(viperLoader)
	config, err := loader.Load()
	if err != nil {
		logger.Error(ctx, "Không đọc được file cấu hình: %v", err)
		os.Exit(1)
	}
	if len(config.Kafka.Brokers) == 0 {
		logger.Error(ctx, "Chưa cấu hình Kafka brokers")
		os.Exit(1)
	}

	mysql, _ := db.NewMysql(config)
	priceMd, _ := model.NewPrice(config, logger, mysql)
	if err := mysql.Migrate(priceMd); err != nil {
		logger.Error(ctx, "Không migrate được database: %v", err)
		os.Exit(1)
	}

	consumer, err := kafka.NewConsumer(config, logger, config.Kafka.PriceTopic)
	if err != nil {
		logger.Error(ctx, "Không khởi tạo được Kafka consumer: %v", err)
		os.Exit(1)
	}
	defer consumer.Close()

	// Dừng mềm khi nhận tín hiệu
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info(ctx, "Nhận tín hiệu dừng, kết thúc consumer")
		cancel()
	}()

	logger.Info(ctx, "Consumer bắt đầu đọc topic %s", config.Kafka.PriceTopic)
	for {
		msg, err := consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Không đọc được message: %v", err)
			continue
		}

		var priceMsg model.PriceMessage
		if err := json.Unmarshal(msg.Value, &priceMsg); err != nil {
			// Message hỏng thì commit bỏ qua, giữ lại sẽ kẹt partition
			logger.Error(ctx, "Message không đúng định dạng, bỏ qua: %v", err)
			_ = consumer.Commit(ctx, msg)
			continue
		}

		inserted, err := priceMd.CreateBatch(priceMsg.Records)
		if err != nil {
			logger.Error(ctx, "Không ghi được batch %s: %v", priceMsg.CrawlTime, err)
			continue
		}

		logger.Info(ctx, "Batch %s: ghi mới %d/%d bản ghi", priceMsg.CrawlTime, inserted, len(priceMsg.Records))
		if err := consumer.Commit(ctx, msg); err != nil {
			logger.Error(ctx, "Không commit được offset: %v", err)
		}
	}
}

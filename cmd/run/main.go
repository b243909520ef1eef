package main

import (
	"context"
	"flag"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/crawler"
	"github.com/thep200/asset-price-crawler/internal/fetcher"
	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/internal/runner"
	"github.com/thep200/asset-price-crawler/internal/sink"
	"github.com/thep200/asset-price-crawler/pkg/db"
	"github.com/thep200/asset-price-crawler/pkg/kafka"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

func main() {
	heavy := flag.Bool("heavy", false, "bật extractor trình duyệt cho các mã chưa giải quyết được")
	headful := flag.Bool("headful", false, "chạy trình duyệt có giao diện để chẩn đoán")
	schedule := flag.String("schedule", "", "biểu thức cron để chạy định kỳ, bỏ trống thì chạy một lần")
	configPath := flag.String("config", "cfg/yaml", "thư mục chứa file config.yaml")
	flag.Parse()

	ctx := context.Background()

	// Logger ghi song song console và crawler.log, lỗi mở file thì dùng console
	var logger log.Logger
	fileLogger, err := log.NewFileLogger("crawler.log")
	if err != nil {
		cslLogger, _ := log.NewCslLogger()
		logger, _ = log.NewLogger(cslLogger)
	} else {
		logger, _ = log.NewLogger(fileLogger)
		defer fileLogger.Close()
	}

	// Không đọc được file cấu hình thì chạy với cấu hình mặc định
	var config *cfg.Config
	viperLoader, _ := cfg.NewViperLoader()
	viperLoader.ConfigPath = *configPath
	config, err = viperLoader.Load()
	if err != nil {
		logger.Warn(ctx, "Không đọc được file cấu hình, dùng mặc định: %v", err)
		mockLoader, _ := cfg.NewMockLoader()
		config, _ = mockLoader.Load()
	}

	// Chọn backend lưu trữ
	var snk sink.Sink
	if config.Storage.Backend == "mysql" {
		mysql, _ := db.NewMysql(config)
		priceMd, _ := model.NewPrice(config, logger, mysql)
		if err := mysql.Migrate(priceMd); err != nil {
			logger.Error(ctx, "Không migrate được database: %v", err)
			os.Exit(1)
		}
		snk, err = sink.NewMysqlSink(config, logger, mysql)
	} else {
		snk, err = sink.NewCsvSink(config.Storage.PricesFile, logger)
	}
	if err != nil {
		logger.Error(ctx, "Không khởi tạo được sink: %v", err)
		os.Exit(1)
	}

	// Kafka producer chỉ dựng khi có broker cấu hình
	var producer *kafka.Producer
	if len(config.Kafka.Brokers) > 0 {
		producer, err = kafka.NewProducer(config, logger, config.Kafka.PriceTopic)
		if err != nil {
			logger.Warn(ctx, "Không khởi tạo được Kafka producer: %v", err)
		} else {
			defer producer.Close()
		}
	}

	f, _ := fetcher.NewFetcher(config, logger)
	opts := crawler.Options{Heavy: *heavy, Headless: !*headful}

	r, err := runner.NewRunner(config, logger, f, snk, producer, opts)
	if err != nil {
		logger.Error(ctx, "Không khởi tạo được runner: %v", err)
		os.Exit(1)
	}

	runOnce := func() {
		summary, err := r.Run(ctx)
		if err != nil {
			// Lỗi tới được đây chỉ có thể là lỗi danh mục hoặc lỗi ghi storage
			logger.Error(ctx, "Run thất bại: %v", err)
			return
		}
		summary.Print(os.Stdout)
	}

	if *schedule == "" {
		logger.Info(ctx, "Bắt đầu thu thập giá tài sản (một lần)")
		runOnce()
		return
	}

	// Chế độ chạy định kỳ theo cron, dùng cho job thu thập hàng ngày
	logger.Info(ctx, "Chạy định kỳ theo lịch: %s", *schedule)
	c := cron.New()
	if _, err := c.AddFunc(*schedule, runOnce); err != nil {
		logger.Error(ctx, "Biểu thức cron không hợp lệ: %v", err)
		os.Exit(1)
	}
	c.Run()
}

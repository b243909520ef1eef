package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (yl *MockLoader) Load() (*Config, error) {
	return &Config{
		// App
		App: App{
			Name:    "asset-price-crawler",
			Version: "0.0.1",
		},

		// Mysql
		Mysql: Mysql{
			Host:                  "127.0.0.1",
			Password:              "root",
			Username:              "root",
			Port:                  "3306",
			Database:              "asset_prices",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// Kafka, để trống brokers nghĩa là không publish
		Kafka: Kafka{
			Brokers:       []string{},
			PriceTopic:    "asset-prices",
			ConsumerGroup: "asset-price-writer",
		},

		// Crawler
		Crawler: Crawler{
			RequestTimeout:          10,
			MaxRetries:              3,
			RetryBaseDelay:          2000,
			RequestDelay:            500,
			RequestsPerSecond:       2,
			StockThousandsThreshold: 500,
			FundThousandsThreshold:  1000,
			GoldBarMin:              75_000_000,
			GoldBarMax:              95_000_000,
			GoldRingMin:             70_000_000,
			GoldRingMax:             90_000_000,
		},

		// Sources
		Sources: Sources{
			DchartApiUrl:  "https://dchart-api.vndirect.com.vn/dchart/history",
			FmarketApiUrl: "https://api.fmarket.vn/res/products/filter",
			WebgiaGoldUrl: "https://webgia.com/gia-vang/sjc/",
			GiavangUrl:    "https://giavang.org/",
			DojiFeedUrl:   "http://giavang.doji.vn/api/giavang/?loai=json",
			VcbfFundPages: map[string]string{
				"VCBFMGF": "https://www.vcbf.com/quy-mo/cac-quy-mo/quy-dau-tu-co-phieu-tang-truong-vcbf-vcbf-mgf/",
				"VCBFBCF": "https://www.vcbf.com/quy-mo/cac-quy-mo/quy-dau-tu-co-phieu-hang-dau-vcbf-vcbf-bcf/",
				"VCBFFIF": "https://www.vcbf.com/quy-mo/cac-quy-mo/quy-dau-tu-trai-phieu-vcbf-vcbf-fif/",
			},
			SjcPageUrl: "https://sjc.com.vn/",
		},

		// Storage
		Storage: Storage{
			Backend:    "csv",
			AssetsFile: "data/assets.csv",
			PricesFile: "data/daily_prices.csv",
		},
	}, nil
}

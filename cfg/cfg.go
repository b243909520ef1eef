package cfg

type (
	App struct {
		Name    string
		Version string
	}

	Mysql struct {
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	Kafka struct {
		Brokers       []string
		PriceTopic    string
		ConsumerGroup string
	}

	// Crawler chứa các tham số điều khiển quá trình thu thập giá
	Crawler struct {
		RequestTimeout    int // giây
		MaxRetries        int
		RetryBaseDelay    int // mili giây
		RequestDelay      int // mili giây, độ trễ giữa hai request tới cùng một nguồn
		RequestsPerSecond int

		// Ngưỡng heuristic "giá báo theo nghìn đồng", cho phép cấu hình lại
		StockThousandsThreshold float64
		FundThousandsThreshold  float64

		// Biên độ hợp lý của giá vàng (VND / lượng)
		GoldBarMin  float64
		GoldBarMax  float64
		GoldRingMin float64
		GoldRingMax float64
	}

	Sources struct {
		DchartApiUrl  string
		FmarketApiUrl string
		WebgiaGoldUrl string
		GiavangUrl    string
		DojiFeedUrl   string
		VcbfFundPages map[string]string
		SjcPageUrl    string
	}

	Storage struct {
		Backend    string // "csv" hoặc "mysql"
		AssetsFile string
		PricesFile string
	}
)

type Config struct {
	App     App
	Mysql   Mysql
	Kafka   Kafka
	Crawler Crawler
	Sources Sources
	Storage Storage
}

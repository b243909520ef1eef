package model

// PriceMessage là cấu trúc message publish lên Kafka cho mỗi batch giá thu thập được
type PriceMessage struct {
	CrawlTime string  `json:"crawl_time"`
	Records   []Price `json:"records"`
}

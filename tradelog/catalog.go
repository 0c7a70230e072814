package tradelog

import (
	"github.com/shopspring/decimal"

	"github.com/2492dfd/stockLog-final/models"
)

type BrokerOption struct {
	Code         string          `json:"code"`
	Label        string          `json:"label"`
	DomesticRate decimal.Decimal `json:"domestic_rate"`
	ForeignRate  decimal.Decimal `json:"foreign_rate"`
}

type TagOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Brokers lists every broker with its commission rates.
func Brokers() []BrokerOption {
	out := make([]BrokerOption, len(models.Brokers))
	for i, b := range models.Brokers {
		out[i] = BrokerOption{Code: string(b), Label: b.Label(), DomesticRate: b.DomesticRate(), ForeignRate: b.ForeignRate()}
	}
	return out
}

func Tags() []TagOption {
	out := make([]TagOption, len(models.AllTags))
	for i, t := range models.AllTags {
		out[i] = TagOption{Code: string(t), Label: t.Label()}
	}
	return out
}

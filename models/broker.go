package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Broker is a securities firm. The stored value is the code (e.g. KIWOOM);
// JSON carries the Korean display label.
type Broker string

const (
	Kiwoom            Broker = "KIWOOM"
	Toss              Broker = "TOSS"
	MiraeAsset        Broker = "MIRAE_ASSET"
	Samsung           Broker = "SAMSUNG"
	KoreaInvestment   Broker = "KOREA_INVESTMENT"
	NHInvestment      Broker = "NH_INVESTMENT"
	KBInvestment      Broker = "KB_INVESTMENT"
	ShinhanInvestment Broker = "SHINHAN_INVESTMENT"
	HanaInvestment    Broker = "HANA_INVESTMENT"
	Meritz            Broker = "MERITZ"
	Daishin           Broker = "DAISHIN"
	Yuanta            Broker = "YUANTA"
	EBest             Broker = "EBEST"
	KakaoPay          Broker = "KAKAO_PAY"
	OtherBroker       Broker = "ETC"
)

type brokerInfo struct {
	label        string
	domesticRate decimal.Decimal
	foreignRate  decimal.Decimal
}

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var brokerTable = map[Broker]brokerInfo{
	Kiwoom:            {"키움증권", rate("0.00015"), rate("0.001")},
	Toss:              {"토스증권", rate("0.0001"), rate("0.001")},
	MiraeAsset:        {"미래에셋증권", rate("0.00014"), rate("0.0025")},
	Samsung:           {"삼성증권", rate("0.00147"), rate("0.0025")},
	KoreaInvestment:   {"한국투자증권", rate("0.0014"), rate("0.0025")},
	NHInvestment:      {"NH투자증권(나무)", rate("0.0001"), rate("0.0025")},
	KBInvestment:      {"KB증권", rate("0.0012"), rate("0.0025")},
	ShinhanInvestment: {"신한투자증권", rate("0.0013"), rate("0.0025")},
	HanaInvestment:    {"하나증권", rate("0.0014"), rate("0.0025")},
	Meritz:            {"메리츠증권", rate("0.0015"), rate("0.0025")},
	Daishin:           {"대신증권", rate("0.0015"), rate("0.0025")},
	Yuanta:            {"유안타증권", rate("0.0015"), rate("0.0025")},
	EBest:             {"이베스트투자증권", rate("0.00015"), rate("0.0025")},
	KakaoPay:          {"카카오페이증권", rate("0.00015"), rate("0.0025")},
	OtherBroker:       {"기타/직접입력", decimal.Zero, decimal.Zero},
}

// Brokers lists every broker in display order.
var Brokers = []Broker{
	Kiwoom, Toss, MiraeAsset, Samsung, KoreaInvestment, NHInvestment, KBInvestment,
	ShinhanInvestment, HanaInvestment, Meritz, Daishin, Yuanta, EBest, KakaoPay, OtherBroker,
}

var brokerByLabel = func() map[string]Broker {
	m := make(map[string]Broker, len(brokerTable))
	for b, info := range brokerTable {
		m[info.label] = b
	}
	return m
}()

// ParseBroker accepts either a display label or a code. Anything else is ETC.
func ParseBroker(s string) Broker {
	s = strings.TrimSpace(s)
	if b, ok := brokerByLabel[s]; ok {
		return b
	}
	if _, ok := brokerTable[Broker(strings.ToUpper(s))]; ok {
		return Broker(strings.ToUpper(s))
	}
	return OtherBroker
}

func (b Broker) info() brokerInfo {
	if info, ok := brokerTable[b]; ok {
		return info
	}
	return brokerTable[OtherBroker]
}

func (b Broker) Label() string { return b.info().label }

func (b Broker) DomesticRate() decimal.Decimal { return b.info().domesticRate }

func (b Broker) ForeignRate() decimal.Decimal { return b.info().foreignRate }

// Rate returns the commission rate that applies on the given market.
func (b Broker) Rate(m Market) decimal.Decimal {
	if m == Foreign {
		return b.ForeignRate()
	}
	return b.DomesticRate()
}

func (b Broker) MarshalJSON() ([]byte, error) {
	if b == "" {
		return []byte("null"), nil
	}
	return json.Marshal(b.Label())
}

func (b *Broker) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*b = ""
		return nil
	}
	*b = ParseBroker(*s)
	return nil
}

package models

import (
	"fmt"
	"strings"
)

// Direction is the side of a trade.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// ParseDirectionCode resolves an exact direction code. Empty input means BUY.
func ParseDirectionCode(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(Buy):
		return Buy, nil
	case string(Sell):
		return Sell, nil
	}
	return "", fmt.Errorf("unknown trade direction %q", s)
}

// Market tells whether a trade happened on the domestic or a foreign exchange.
type Market string

const (
	Domestic Market = "KOR"
	Foreign  Market = "USA"
)

func ParseMarket(s string) (Market, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(Domestic):
		return Domestic, nil
	case string(Foreign):
		return Foreign, nil
	}
	return "", fmt.Errorf("unknown market %q", s)
}

// AnalysisStatus tracks the AI feedback run for a trade log.
type AnalysisStatus string

const (
	StatusPending    AnalysisStatus = "PENDING"
	StatusInProgress AnalysisStatus = "IN_PROGRESS"
	StatusCompleted  AnalysisStatus = "COMPLETED"
)

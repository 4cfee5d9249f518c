package model

import "time"

// PeriodReturn is the compounded return of one calendar bucket, in percent.
type PeriodReturn struct {
	PeriodEnd time.Time `json:"periodEnd"`
	Return    float64   `json:"return"`
}

// ReturnDistribution summarizes daily simple returns. All fields except Skew
// and Kurtosis are in percent.
type ReturnDistribution struct {
	Count       int             `json:"count"`
	Mean        float64         `json:"mean"`
	Std         float64         `json:"std"`
	Skew        float64         `json:"skew"`
	Kurtosis    float64         `json:"kurtosis"`
	Min         float64         `json:"min"`
	Max         float64         `json:"max"`
	Median      float64         `json:"median"`
	Percentiles map[int]float64 `json:"percentiles"`
}

// StatisticsResult groups every metric computed for one series.
// It is derived on demand and never persisted.
type StatisticsResult struct {
	Code         string             `json:"code"`
	Start        time.Time          `json:"start"`
	End          time.Time          `json:"end"`
	Observations int                `json:"observations"`
	RiskFreeRate float64            `json:"riskFreeRate"`
	MaxDrawdown  float64            `json:"maxDrawdown"`
	Volatility   float64            `json:"volatility"`
	SharpeRatio  float64            `json:"sharpeRatio"`
	AnnualReturn float64            `json:"annualReturn"`
	Monthly      []PeriodReturn     `json:"monthly"`
	Quarterly    []PeriodReturn     `json:"quarterly"`
	Yearly       []PeriodReturn     `json:"yearly"`
	Distribution ReturnDistribution `json:"distribution"`
}

package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
	"github.com/anyulbade/loan-portfolio-simulator/internal/repository"
	"github.com/anyulbade/loan-portfolio-simulator/internal/summary"
)

const (
	GroupPortfolio = "portfolio"
	GroupOffice    = "office"
	GroupProduct   = "product"

	MetricOutstandingBalance = "outstanding_balance"
	MetricLoans              = "loans"
	MetricNewLoans           = "new_loans"
	MetricDisbursed          = "disbursed"
	MetricDelinquencyRate    = "delinquency_rate"
)

var (
	TrendGroups  = []string{GroupPortfolio, GroupOffice, GroupProduct}
	TrendMetrics = []string{MetricOutstandingBalance, MetricLoans, MetricNewLoans, MetricDisbursed, MetricDelinquencyRate}
)

type TrendService struct {
	portfolio *PortfolioService
}

func NewTrendService(portfolio *PortfolioService) *TrendService {
	return &TrendService{portfolio: portfolio}
}

type TrendPoint struct {
	Period           model.Month `json:"period"`
	Value            float64     `json:"value"`
	PreviousValue    float64     `json:"previous_value,omitempty"`
	AbsoluteChange   float64     `json:"absolute_change"`
	PercentageChange float64     `json:"percentage_change"`
	Direction        string      `json:"direction,omitempty"`
}

type TrendSummary struct {
	Group        string       `json:"group"`
	Code         int          `json:"code,omitempty"`
	Name         string       `json:"name,omitempty"`
	Metric       string       `json:"metric"`
	Points       []TrendPoint `json:"points"`
	OverallTrend string       `json:"overall_trend"`
	Slope        float64      `json:"slope"`
	RSquared     float64      `json:"r_squared"`
}

type trendKey struct {
	code int
	name string
}

type trendBucket struct {
	loans             int
	newLoans          int
	disbursed         int64
	balance           int64
	delinquentBalance int64
}

// GetTrends builds one month-over-month series per group over the last
// periodsBack cut months of the run. Groups with no rows in a month count
// as zero for that month.
func (s *TrendService) GetTrends(ctx context.Context, runID, groupBy, metric string, periodsBack int) ([]TrendSummary, error) {
	if !slices.Contains(TrendGroups, groupBy) {
		return nil, fmt.Errorf("unknown trend group %q", groupBy)
	}
	if !slices.Contains(TrendMetrics, metric) {
		return nil, fmt.Errorf("unknown trend metric %q", metric)
	}
	if periodsBack < 1 {
		periodsBack = 12
	}

	rows, err := s.portfolio.Summary(ctx, runID, repository.SummaryFilter{})
	if err != nil {
		return nil, err
	}

	var months []model.Month
	grouped := make(map[trendKey]map[model.Month]*trendBucket)
	for _, r := range rows {
		if !slices.Contains(months, r.CutMonth) {
			months = append(months, r.CutMonth)
		}

		k := groupKey(r, groupBy)
		byMonth, ok := grouped[k]
		if !ok {
			byMonth = make(map[model.Month]*trendBucket)
			grouped[k] = byMonth
		}
		b, ok := byMonth[r.CutMonth]
		if !ok {
			b = &trendBucket{}
			byMonth[r.CutMonth] = b
		}
		b.loans += r.RecordCount
		b.newLoans += r.NewLoanCount
		b.disbursed += r.Principal
		b.balance += r.OutstandingBalance
		if r.CreditStatus != summary.StatusExcellent {
			b.delinquentBalance += r.OutstandingBalance
		}
	}

	slices.Sort(months)
	if len(months) > periodsBack {
		months = months[len(months)-periodsBack:]
	}

	keys := make([]trendKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b trendKey) int {
		return cmp.Or(cmp.Compare(a.code, b.code), cmp.Compare(a.name, b.name))
	})

	results := make([]TrendSummary, 0, len(keys))
	for _, k := range keys {
		values := make([]float64, len(months))
		for i, m := range months {
			if b, ok := grouped[k][m]; ok {
				values[i] = metricValue(b, metric)
			}
		}

		slope, r2 := linearRegression(values)
		overallTrend := "VOLATILE"
		if len(values) >= 2 && r2 >= 0.5 {
			switch {
			case slope > 0:
				overallTrend = "GROWING"
			case slope < 0:
				overallTrend = "DECLINING"
			default:
				overallTrend = "STABLE"
			}
		}

		results = append(results, TrendSummary{
			Group:        groupBy,
			Code:         k.code,
			Name:         k.name,
			Metric:       metric,
			Points:       trendPoints(months, values),
			OverallTrend: overallTrend,
			Slope:        math.Round(slope*100) / 100,
			RSquared:     math.Round(r2*10000) / 10000,
		})
	}

	return results, nil
}

func groupKey(r model.SummaryRow, groupBy string) trendKey {
	switch groupBy {
	case GroupOffice:
		return trendKey{code: r.OfficeCode, name: r.OfficeName}
	case GroupProduct:
		return trendKey{code: r.ProductCode, name: r.ProductName}
	default:
		return trendKey{}
	}
}

func metricValue(b *trendBucket, metric string) float64 {
	switch metric {
	case MetricLoans:
		return float64(b.loans)
	case MetricNewLoans:
		return float64(b.newLoans)
	case MetricDisbursed:
		return float64(b.disbursed)
	case MetricDelinquencyRate:
		if b.balance == 0 {
			return 0
		}
		return math.Round(float64(b.delinquentBalance)/float64(b.balance)*10000) / 100
	default:
		return float64(b.balance)
	}
}

func trendPoints(months []model.Month, values []float64) []TrendPoint {
	points := make([]TrendPoint, len(values))
	for i, v := range values {
		tp := TrendPoint{Period: months[i], Value: v}
		if i > 0 {
			tp.PreviousValue = values[i-1]
			tp.AbsoluteChange = v - values[i-1]
			if values[i-1] != 0 {
				tp.PercentageChange = math.Round(tp.AbsoluteChange/values[i-1]*10000) / 100
			}
			switch {
			case values[i-1] != 0 && math.Abs(tp.PercentageChange) < 1, tp.AbsoluteChange == 0:
				tp.Direction = "FLAT"
			case tp.AbsoluteChange > 0:
				tp.Direction = "UP"
			default:
				tp.Direction = "DOWN"
			}
		}
		points[i] = tp
	}
	return points
}

func linearRegression(values []float64) (slope, rSquared float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, v := range values {
		predicted := slope*float64(i) + intercept
		ssRes += (v - predicted) * (v - predicted)
		ssTot += (v - meanY) * (v - meanY)
	}

	if ssTot == 0 {
		return slope, 1.0
	}
	rSquared = 1 - ssRes/ssTot
	return slope, rSquared
}

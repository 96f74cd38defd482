package analysis

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/keibacicd/jvdata-engine/pkg/model"
)

// decision tree cut points; order of evaluation matters
var (
	singleFavMax    = decimal.RequireFromString("2.0")
	singleFavGap    = decimal.RequireFromString("2.5")
	tripleFirstMax  = decimal.RequireFromString("5.0")
	tripleSecondMax = decimal.RequireFromString("8.0")
	tripleThirdMax  = decimal.RequireFromString("10.0")
	tripleGap       = decimal.RequireFromString("1.8")
	congestedOdds   = decimal.RequireFromString("15")
	congestedMinCnt = 4
	congestedFirst  = decimal.RequireFromString("2.5")
	congestedGap    = decimal.RequireFromString("2")
	wideOpenFirst   = decimal.RequireFromString("5.0")
)

var normal = model.RaceOddsAnalysis{Pattern: model.PatternNormal, Label: "-"}

// AnalyzePattern classifies the field of the latest snapshot. Entrants
// without win odds are ignored.
func AnalyzePattern(entrants []model.EntrantOdds) model.RaceOddsAnalysis {
	priced := lo.Filter(entrants, func(e model.EntrantOdds, _ int) bool {
		return e.Win.Valid && e.Win.Decimal.IsPositive()
	})
	slices.SortStableFunc(priced, func(a, b model.EntrantOdds) int {
		return a.Win.Decimal.Cmp(b.Win.Decimal)
	})
	res := ClassifyOdds(lo.Map(priced, func(e model.EntrantOdds, _ int) decimal.Decimal {
		return e.Win.Decimal
	}))
	if res.Pattern == model.PatternSingleFavorite {
		res.Description = fmt.Sprintf("%sが断然人気", priced[0].Number)
	}
	return res
}

// AnalyzeSnapshot classifies the field from a time-series element.
func AnalyzeSnapshot(s model.OddsSnapshot) model.RaceOddsAnalysis {
	entrants := make([]model.EntrantOdds, 0, len(s.Odds))
	for _, n := range entrantUnion(s, model.OddsSnapshot{}) {
		entrants = append(entrants, model.EntrantOdds{Number: n, Win: decimal.NewNullDecimal(s.Odds[n])})
	}
	return AnalyzePattern(entrants)
}

// ClassifyOdds runs the decision tree on win odds sorted ascending.
func ClassifyOdds(sorted []decimal.Decimal) model.RaceOddsAnalysis {
	if len(sorted) < 3 {
		return normal
	}
	o1, o2, o3 := sorted[0], sorted[1], sorted[2]

	if o1.LessThan(singleFavMax) && o2.GreaterThanOrEqual(o1.Mul(singleFavGap)) {
		return model.RaceOddsAnalysis{
			Pattern:     model.PatternSingleFavorite,
			Label:       "1強",
			Description: "断然人気",
		}
	}

	if len(sorted) >= 4 {
		o4 := sorted[3]
		if o1.LessThan(tripleFirstMax) && o2.LessThan(tripleSecondMax) &&
			o3.LessThan(tripleThirdMax) && o4.GreaterThanOrEqual(o3.Mul(tripleGap)) {
			return model.RaceOddsAnalysis{
				Pattern:     model.PatternTripleFavorite,
				Label:       "3強",
				Description: "上位3頭の争い",
			}
		}
	}

	under15 := lo.CountBy(sorted, func(o decimal.Decimal) bool {
		return o.LessThan(congestedOdds)
	})
	if under15 >= congestedMinCnt && o1.GreaterThanOrEqual(congestedFirst) &&
		o2.LessThan(o1.Mul(congestedGap)) {
		return model.RaceOddsAnalysis{
			Pattern:     model.PatternCongestedFavorites,
			Label:       "混戦",
			Description: fmt.Sprintf("%d頭が拮抗", under15),
		}
	}

	if o1.GreaterThanOrEqual(wideOpenFirst) {
		return model.RaceOddsAnalysis{
			Pattern:     model.PatternWideOpen,
			Label:       "大混戦",
			Description: "本命不在",
		}
	}
	return normal
}

package forecast

import (
	"slices"

	"SentiCast/internal/domain/models"
	"SentiCast/pkg/util"
)

// Align selects the rows of the resolved run, one subset per requested
// sentiment variant, and aligns actual and predicted values onto the
// calendar-sorted union of their dates. Dates a subset lacks hold the
// missing marker.
func Align(rows []models.RawObservation, resolved models.RunConfig, include models.SentimentFilter) models.AlignedSeries {
	var with, without []models.RawObservation
	for _, row := range rows {
		cfg, err := DecodeRunID(row.RunID)
		if err != nil || !cfg.SameRunAs(resolved) || !include.Includes(cfg.UseSentiment) {
			continue
		}
		if cfg.UseSentiment {
			with = append(with, row)
		} else {
			without = append(without, row)
		}
	}

	dates := dateAxis(with, without)
	out := models.AlignedSeries{Dates: dates, Series: []models.Series{}}
	if len(with) == 0 && len(without) == 0 {
		return out
	}

	actualSrc := with
	if len(actualSrc) == 0 {
		actualSrc = without
	}
	out.Series = append(out.Series, models.Series{
		Label:  models.SeriesActual,
		Values: alignValues(dates, actualSrc, func(r models.RawObservation) float64 { return r.Actual }),
	})

	predicted := func(r models.RawObservation) float64 { return r.Predicted }
	if len(with) > 0 {
		out.Series = append(out.Series, models.Series{
			Label:  models.SeriesWithSentiment,
			Values: alignValues(dates, with, predicted),
		})
	}
	if len(without) > 0 {
		out.Series = append(out.Series, models.Series{
			Label:  models.SeriesWithoutSentiment,
			Values: alignValues(dates, without, predicted),
		})
	}
	return out
}

func dateAxis(subsets ...[]models.RawObservation) []string {
	seen := make(map[string]struct{})
	dates := []string{}
	for _, subset := range subsets {
		for _, r := range subset {
			d := util.NormalizeDate(r.Date)
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	slices.SortFunc(dates, util.CompareDates)
	return dates
}

// alignValues maps each axis date to the value of the last row carrying it.
// Non-finite values are missing.
func alignValues(dates []string, rows []models.RawObservation, value func(models.RawObservation) float64) []models.Point {
	byDate := make(map[string]float64, len(rows))
	for _, r := range rows {
		byDate[util.NormalizeDate(r.Date)] = value(r)
	}
	out := make([]models.Point, len(dates))
	for i, d := range dates {
		if v, ok := byDate[d]; ok {
			out[i] = models.Observed(v)
		}
	}
	return out
}

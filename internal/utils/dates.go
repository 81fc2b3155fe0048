package utils

import "time"

// Trading-calendar helpers shared by the scanner and the estimator handlers.
// The estimator works in trading hours: a regular session is 6.5 hours and
// horizons are measured as (daysToExpiry + 1) * 6.5, counting the expiry day
// itself as a full session.

const TradingHoursPerDay = 6.5

// DaysToExpiry returns whole calendar days from now until the expiry date
// (YYYY-MM-DD), never negative. Both dates are normalized to UTC midnight so
// the count is pure date arithmetic; subtracting local midnights would come
// up an hour short across a DST spring-forward and truncate a day away.
func DaysToExpiry(expiry string, now time.Time) int {
	d, err := time.ParseInLocation("2006-01-02", expiry, time.UTC)
	if err != nil {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// TradingHoursToExpiry converts a days-to-expiry count to the estimator's
// trading-hour horizon: (days + 1) * 6.5.
func TradingHoursToExpiry(daysToExpiry int) float64 {
	if daysToExpiry < 0 {
		daysToExpiry = 0
	}
	return float64(daysToExpiry+1) * TradingHoursPerDay
}

// NearestExpiry picks the expiration closest to the target date from the
// first maxCheck entries (chains list expirations in ascending order; only
// the near ones matter for a scalp scan).
func NearestExpiry(expirations []string, target time.Time, maxCheck int) string {
	if len(expirations) == 0 {
		return ""
	}
	if maxCheck <= 0 || maxCheck > len(expirations) {
		maxCheck = len(expirations)
	}

	best := expirations[0]
	bestDiff := time.Duration(1<<62 - 1)
	for _, exp := range expirations[:maxCheck] {
		d, err := time.ParseInLocation("2006-01-02", exp, target.Location())
		if err != nil {
			continue
		}
		diff := d.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			best = exp
		}
	}
	return best
}

// NextMonthlyExpiration returns the next standard monthly options expiration
// (third Friday), rolling to the following month once the current month's has
// passed.
func NextMonthlyExpiration(now time.Time) string {
	third := thirdFriday(now.Year(), now.Month(), now.Location())
	if now.After(third) {
		y, m := now.Year(), now.Month()+1
		if m > 12 {
			m = 1
			y++
		}
		third = thirdFriday(y, m, now.Location())
	}
	return third.Format("2006-01-02")
}

func thirdFriday(year int, month time.Month, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	firstFriday := first.AddDate(0, 0, (int(time.Friday)-int(first.Weekday())+7)%7)
	return firstFriday.AddDate(0, 0, 14)
}

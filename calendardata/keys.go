// Package calendardata defines calendar data structs that can be served by
// any provider in either buffer format: zero-copy views over zerovec bytes,
// or owned values decoded from msgpack.
package calendardata

import "github.com/andreyvit/zerovec/provider"

var (
	JapaneseErasKey         = provider.MustKey("calendar/japanese@1", provider.Singleton)
	JapaneseExtendedErasKey = provider.MustKey("calendar/japanext@1", provider.Singleton)
	WeekDataKey             = provider.MustKey("datetime/week_data@1")
	MonthNamesKey           = provider.MustKey("datetime/month_names@1")
)

var (
	JapaneseErasMarker         = provider.NewMarker(JapaneseErasKey, ParseJapaneseEras)
	JapaneseExtendedErasMarker = provider.NewMarker(JapaneseExtendedErasKey, ParseJapaneseEras)
	WeekDataMarker             = provider.NewMarker(WeekDataKey, ParseWeekData)
	MonthNamesMarker           = provider.NewMarker(MonthNamesKey, ParseMonthNames)
)

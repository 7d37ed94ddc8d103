package value

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang-sql/civil"
	"github.com/ncruces/go-strftime"
)

// Temporal values have no teacher analog (spec §3.1's local_date,
// local_time, local_datetime, zone, date, instant, duration, period).
// local_* wrap civil.Date/Time/DateTime directly; date additionally
// carries a *time.Location; instant is stored inline as epoch-millis
// (spec: "stored as 64-bit epoch-millis by value" — no allocation);
// duration is a time.Duration; period is a small calendar-length struct
// since civil has no Year/Month/Day-granularity duration type.

func LocalDate(d civil.Date) Value { return Value{Kind: KindLocalDate, obj: d} }
func LocalTime(t civil.Time) Value { return Value{Kind: KindLocalTime, obj: t} }
func LocalDateTime(dt civil.DateTime) Value { return Value{Kind: KindLocalDateTime, obj: dt} }

func (v Value) AsLocalDate() civil.Date         { return v.obj.(civil.Date) }
func (v Value) AsLocalTime() civil.Time         { return v.obj.(civil.Time) }
func (v Value) AsLocalDateTime() civil.DateTime { return v.obj.(civil.DateTime) }

// ZonedDate is `date`: a civil datetime paired with a timezone.
type ZonedDate struct {
	DateTime civil.DateTime
	Loc      *time.Location
}

func Zone(loc *time.Location) Value    { return Value{Kind: KindZone, obj: loc} }
func (v Value) AsZone() *time.Location { return v.obj.(*time.Location) }

func Date(dt civil.DateTime, loc *time.Location) Value {
	return Value{Kind: KindDate, obj: &ZonedDate{DateTime: dt, Loc: loc}}
}
func (v Value) AsDate() *ZonedDate { return v.obj.(*ZonedDate) }

// Instant stores epoch-milliseconds inline per spec's
// make_instant_direct contract: no allocation, no obj slot touched.
func Instant(epochMillis int64) Value { return Value{Kind: KindInstant, instant: epochMillis} }

func (v Value) InstantTime() time.Time {
	return time.UnixMilli(v.instant).UTC()
}

func Duration(d time.Duration) Value { return Value{Kind: KindDuration, obj: d} }
func (v Value) AsDuration() time.Duration { return v.obj.(time.Duration) }

// Period is a calendar-length span (years/months/days), distinct from
// Duration's fixed nanosecond span, matching ISO-8601's period/duration
// split.
type Period struct {
	Years, Months, Days int
}

func PeriodValue(p *Period) Value { return Value{Kind: KindPeriod, obj: p} }
func (v Value) AsPeriod() *Period { return v.obj.(*Period) }

// FormatTemporal converts a local_date, local_time, local_datetime, date
// or instant value to its string form via go-strftime. Zone, duration and
// period values are not formatted: for them, as for non-temporal kinds, it
// returns an error.
func FormatTemporal(v Value, layout string) (string, error) {
	switch v.Kind {
	case KindLocalDate:
		d := v.AsLocalDate()
		return strftime.Format(layout, time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)), nil
	case KindLocalTime:
		t := v.AsLocalTime()
		return strftime.Format(layout, time.Date(0, 1, 1, t.Hour, t.Minute, t.Second, t.Nanosecond, time.UTC)), nil
	case KindLocalDateTime:
		dt := v.AsLocalDateTime()
		return strftime.Format(layout, time.Date(dt.Date.Year, dt.Date.Month, dt.Date.Day,
			dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Time.Nanosecond, time.UTC)), nil
	case KindDate:
		zd := v.AsDate()
		return strftime.Format(layout, time.Date(zd.DateTime.Date.Year, zd.DateTime.Date.Month,
			zd.DateTime.Date.Day, zd.DateTime.Time.Hour, zd.DateTime.Time.Minute, zd.DateTime.Time.Second,
			zd.DateTime.Time.Nanosecond, zd.Loc)), nil
	case KindInstant:
		return strftime.Format(layout, v.InstantTime()), nil
	}
	return "", fmt.Errorf("value: FormatTemporal on non-temporal kind")
}

// HumanizeDuration renders d the way the duration.humanize() built-in
// does (spec §6.3's built-in registration surface; the built-in library
// itself is out of scope, but the helper it dispatches to belongs here).
func HumanizeDuration(v Value) string {
	return humanize.RelTime(time.Time{}, time.Time{}.Add(v.AsDuration()), "", "")
}

// HumanizePeriod renders a calendar period as "X years, Y months, Z days".
func HumanizePeriod(v Value) string {
	p := v.AsPeriod()
	parts := make([]string, 0, 3)
	if p.Years != 0 {
		parts = append(parts, humanize.Comma(int64(p.Years))+" years")
	}
	if p.Months != 0 {
		parts = append(parts, humanize.Comma(int64(p.Months))+" months")
	}
	if p.Days != 0 {
		parts = append(parts, humanize.Comma(int64(p.Days))+" days")
	}
	if len(parts) == 0 {
		return "0 days"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

func temporalEqual(a, b Value) bool {
	switch a.Kind {
	case KindLocalDate:
		return a.AsLocalDate() == b.AsLocalDate()
	case KindLocalTime:
		return a.AsLocalTime() == b.AsLocalTime()
	case KindLocalDateTime:
		return a.AsLocalDateTime() == b.AsLocalDateTime()
	case KindZone:
		return a.AsZone() == b.AsZone()
	case KindDate:
		za, zb := a.AsDate(), b.AsDate()
		return za.DateTime == zb.DateTime && za.Loc == zb.Loc
	case KindDuration:
		return a.AsDuration() == b.AsDuration()
	case KindPeriod:
		pa, pb := a.AsPeriod(), b.AsPeriod()
		return *pa == *pb
	}
	return false
}

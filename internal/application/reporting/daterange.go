package reporting

import (
	"fmt"
	"time"

	"github.com/jhoicas/Consola-api/internal/domain"
)

// RangeFilter bucket predefinido de rango de fechas para el reporte de uso.
type RangeFilter string

const (
	RangeToday     RangeFilter = "today"
	RangeYesterday RangeFilter = "yesterday"
	RangeThisWeek  RangeFilter = "this_week"
	RangeLastWeek  RangeFilter = "last_week"
	RangeThisMonth RangeFilter = "this_month"
	RangeLastMonth RangeFilter = "last_month"
	RangeThisYear  RangeFilter = "this_year"
	RangeAll       RangeFilter = "all"
	RangeCustom    RangeFilter = "custom"
)

// DateRange intervalo semiabierto [Start, End). Un rango vacío (All) se
// representa con ambos extremos en cero y Contains siempre true.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains informa si t cae dentro del intervalo [Start, End).
func (r DateRange) Contains(t time.Time) bool {
	if r.Start.IsZero() && r.End.IsZero() {
		return true
	}
	return !t.Before(r.Start) && t.Before(r.End)
}

// ResolveRange mapea el filtro a un intervalo [start, end) relativo a `now`.
// Función pura: toda la lógica de ramas de fechas vive aquí y se testea sin
// tocar la agregación. Las semanas comienzan el lunes.
//
// Para RangeCustom, from/to se normalizan a inicio de día; `to` es inclusivo,
// por lo que End = inicioDeDía(to) + 24h.
func ResolveRange(filter RangeFilter, now time.Time, from, to time.Time) (DateRange, error) {
	day := startOfDay(now)
	switch filter {
	case RangeToday:
		return DateRange{Start: day, End: day.AddDate(0, 0, 1)}, nil
	case RangeYesterday:
		return DateRange{Start: day.AddDate(0, 0, -1), End: day}, nil
	case RangeThisWeek:
		start := startOfWeek(day)
		return DateRange{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case RangeLastWeek:
		start := startOfWeek(day).AddDate(0, 0, -7)
		return DateRange{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case RangeThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: start.AddDate(0, 1, 0)}, nil
	case RangeLastMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return DateRange{Start: start, End: start.AddDate(0, 1, 0)}, nil
	case RangeThisYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: start.AddDate(1, 0, 0)}, nil
	case RangeAll, "":
		return DateRange{}, nil
	case RangeCustom:
		if from.IsZero() || to.IsZero() {
			return DateRange{}, fmt.Errorf("%w: el rango custom requiere from y to", domain.ErrValidation)
		}
		start := startOfDay(from)
		end := startOfDay(to).AddDate(0, 0, 1)
		if end.Before(start) {
			return DateRange{}, fmt.Errorf("%w: from debe ser anterior o igual a to", domain.ErrValidation)
		}
		return DateRange{Start: start, End: end}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: rango %q no es válido", domain.ErrValidation, filter)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek devuelve el lunes 00:00 de la semana de t.
func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // domingo cierra la semana
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

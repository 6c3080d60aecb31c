package scheduling

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// Generator перечисляет слоты в пределах рабочего окна с фиксированным шагом
type Generator struct {
	hours domain.BusinessHours
	clock Clock
}

// NewGenerator создает генератор слотов
func NewGenerator(hours domain.BusinessHours, clock Clock) *Generator {
	return &Generator{hours: hours, clock: clock}
}

// Hours возвращает рабочее окно генератора
func (g *Generator) Hours() domain.BusinessHours {
	return g.hours
}

// Candidates возвращает все моменты начала слотов на дату, в которые услуга длительностью
// durationMinutes помещается до закрытия. Для сегодняшней даты первый кандидат сдвигается
// на ближайшую границу шага не раньше текущего момента; прошедшие даты дают пустую последовательность.
// Последовательность ленивая и перезапускаемая: каждый проход заново читает часы.
func (g *Generator) Candidates(date time.Time, durationMinutes int) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if durationMinutes <= 0 {
			return
		}

		duration := time.Duration(durationMinutes) * time.Minute
		openAt, closeAt := g.hours.Window(date)

		current, ok := g.firstCandidate(openAt, closeAt)
		if !ok {
			return
		}

		for ; !current.Add(duration).After(closeAt); current = current.Add(g.hours.Step) {
			if !yield(current) {
				return
			}
		}
	}
}

// Available возвращает кандидатов, не пересекающихся ни с одной записью расписания,
// в виде времени суток, в порядке возрастания
func (g *Generator) Available(date time.Time, durationMinutes int, schedule domain.DailySchedule) iter.Seq[types.TimeString] {
	return func(yield func(types.TimeString) bool) {
		for start := range g.Candidates(date, durationMinutes) {
			if schedule.Conflicts(domain.NewInterval(start, durationMinutes), nil) {
				continue
			}
			if !yield(types.NewTimeString(start)) {
				return
			}
		}
	}
}

// firstCandidate учитывает текущее время: прошлые даты пусты, сегодня начинаем
// с ближайшей границы сетки шага (от времени открытия) не раньше now
func (g *Generator) firstCandidate(openAt, closeAt time.Time) (time.Time, bool) {
	now := g.clock.Now().In(g.hours.Location)
	today := g.hours.Day(now)
	day := g.hours.Day(openAt)

	switch {
	case day.Before(today):
		return time.Time{}, false
	case day.After(today):
		return openAt, true
	}

	if !now.After(openAt) {
		return openAt, true
	}
	if !now.Before(closeAt) {
		return time.Time{}, false
	}

	elapsed := now.Sub(openAt)
	steps := elapsed / g.hours.Step
	if elapsed%g.hours.Step != 0 {
		steps++
	}
	return openAt.Add(steps * g.hours.Step), true
}

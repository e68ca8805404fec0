// Package scheduler запускает партии задач по расписанию.
//
// Партии из tasks.yaml бывают трёх видов: немедленные (без времени),
// разовые к моменту дропа (start_at) и повторяющиеся (cron).
// Scheduler держит расписание в памяти и на каждом тике запускает
// созревшие партии через колбэк.
//
// Структура:
//   - scheduler.go — расписание и цикл тиков
//   - cron.go      — парсинг cron-выражений и вычисление следующего времени
package scheduler

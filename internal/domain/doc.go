// Package domain содержит модели данных системы.
//
// Включает:
//   - task.go     — Task, единица работы (одна попытка покупки)
//   - progress.go — Progress, внешне наблюдаемый статус задачи
//   - step.go     — Step, позиция задачи в последовательности выполнения
//   - models.go   — модели ответов внутреннего API сайта
//   - identity.go — Account, Proxy и режимы распределения прокси
//   - settings.go — настройки приложения и webhook
//
// Пакет не выполняет I/O — только типы и чистые методы над ними.
package domain

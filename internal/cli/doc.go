// Package cli реализует команды консольного клиента движка.
//
// Структура:
//   - client.go   — HTTP-клиент для API движка
//   - output.go   — табличный и JSON вывод
//   - task.go     — команды управления задачами
//   - config.go   — команды аккаунтов, прокси и настроек
//   - activate.go — активация лицензии
//
// CLI не импортирует internal/api: типы ответов дублируются,
// чтобы клиент и сервер могли обновляться независимо.
package cli

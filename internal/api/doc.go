// Package api реализует HTTP API движка.
//
// Структура:
//   - handler.go    — Handler с зависимостями
//   - routes.go     — регистрация маршрутов
//   - dto.go        — структуры запросов/ответов
//   - task_handler.go, config_handler.go — обработчики
//   - response.go   — helpers для формирования ответов
//   - middleware.go — logging и recovery
package api

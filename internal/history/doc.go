// Package history — Postgres-журнал исходов задач.
//
// Необязательный потребитель потока событий Registry: терминальные
// состояния задач записываются в одну таблицу для последующего
// анализа (успешность по аккаунтам, частота банов, время покупки).
// Движок полностью работоспособен без базы.
package history

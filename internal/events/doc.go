// Package events — зеркалирование прогресса задач в RabbitMQ.
//
// Необязательный потребитель потока событий Registry: каждое
// изменение прогресса публикуется в topic exchange для внешних
// подписчиков (дашборды, алёртинг). Движок полностью работоспособен
// без брокера.
package events

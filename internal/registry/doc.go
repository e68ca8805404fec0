// Package registry владеет множеством живых задач покупки.
//
// Каждая задача выполняется в собственной горутине со своим
// HTTP-клиентом и отменяется через context. Registry сериализует
// доступ к состоянию задач и сливает события прогресса в единый
// канал для потребителей (API, AMQP, история).
package registry
